package userprofile

// Profile is the client information exposed by the user service.
type Profile struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Phone     string `json:"telephone"`
	UserType  string `json:"userType"`
}
