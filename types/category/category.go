package category

import (
	"transport-requests/errs"
)

// SuggestionRequest asks for the best matching category for a free-text
// cargo description.
type SuggestionRequest struct {
	Description string `json:"description" validate:"required,min=3"`
}

func (r SuggestionRequest) Validate() error {
	if len(r.Description) < 3 {
		return errs.NewValidationError([]errs.FieldViolation{
			{Field: "description", Message: "description must be at least 3 characters"},
		})
	}
	return nil
}

// Suggestion is the answer produced by the suggestion service.
type Suggestion struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Confidence string `json:"confidence"` // high, medium or low
	Reason     string `json:"reason,omitempty"`
}
