package request

import (
	"fmt"
	"time"

	"transport-requests/errs"
	"transport-requests/httpServices/pricing"
	"transport-requests/httpServices/routing"
	"transport-requests/httpServices/userprofile"
	"transport-requests/logger"
	"transport-requests/models/category"
	requestModel "transport-requests/models/request"
	"transport-requests/services/authz"
	requestTypes "transport-requests/types/request"
)

// Local fallback quote used when the pricing service is down. Keeps the
// estimated price non-null for every created request.
const (
	fallbackBasePrice    = 50.0
	fallbackVolumeRate   = 5.0
	fallbackDistanceRate = 2.0
)

// RequestStore is the persistence surface the orchestrator needs.
type RequestStore interface {
	Create(req *requestModel.TransportRequest) error
	FindByID(id uint) (*requestModel.TransportRequest, bool, error)
	Save(req *requestModel.TransportRequest) error
	FindByClient(clientID uint) ([]requestModel.TransportRequest, error)
	FindAll() ([]requestModel.TransportRequest, error)
	FindByStatus(status requestModel.ValidationStatus) ([]requestModel.TransportRequest, error)
	FindByMission(missionID uint) ([]requestModel.TransportRequest, error)
	RecordStatusEvent(event *requestModel.RequestStatusEvent) error
}

// CategoryStore resolves category references at creation time.
type CategoryStore interface {
	FindByID(id string) (*category.Category, bool, error)
}

// Peer service gateways. Each call is a single best-effort attempt; an error
// means "no data", never "abort the request".
type RoutingGateway interface {
	CalculateRoute(originCity, destinationCity string, clientID uint) (*routing.RouteInfo, error)
}

type PricingGateway interface {
	CalculatePrice(volume float64, distanceKm *float64) (*pricing.Quote, error)
}

type MatchingGateway interface {
	NotifyRequestValidated(requestID uint) error
}

type PaymentsGateway interface {
	InitiatePayment(requestID uint, amount float64, clientID uint) error
}

type ProfileGateway interface {
	FetchProfile(userID uint, bearerToken string) (*userprofile.Profile, error)
}

// Service orchestrates the transport request lifecycle: creation with
// best-effort enrichment, the validation state machine and role-gated reads.
type Service struct {
	requests   RequestStore
	categories CategoryStore
	routing    RoutingGateway
	pricing    PricingGateway
	matching   MatchingGateway
	payments   PaymentsGateway
	profiles   ProfileGateway

	now   func() time.Time
	spawn func(func())
}

func NewService(
	requests RequestStore,
	categories CategoryStore,
	routingGw RoutingGateway,
	pricingGw PricingGateway,
	matchingGw MatchingGateway,
	paymentsGw PaymentsGateway,
	profileGw ProfileGateway,
) *Service {
	return &Service{
		requests:   requests,
		categories: categories,
		routing:    routingGw,
		pricing:    pricingGw,
		matching:   matchingGw,
		payments:   paymentsGw,
		profiles:   profileGw,
		now:        time.Now,
		spawn:      func(f func()) { go f() },
	}
}

// Create validates the input, persists the request and enriches it with
// route and price data. Peer failures degrade the enrichment but never fail
// the creation itself.
func (s *Service) Create(input requestTypes.CreateRequest, callerID uint) (*requestModel.TransportRequest, error) {
	if err := input.Validate(s.now); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		_, found, err := s.categories.FindByID(*input.CategoryID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errs.NewNotFoundError("category", *input.CategoryID)
		}
	}

	req := &requestModel.TransportRequest{
		ClientID:           callerID,
		Volume:             input.Volume,
		Weight:             input.Weight,
		CargoNature:        input.CargoNature,
		CategoryID:         input.CategoryID,
		OriginCity:         input.OriginCity,
		OriginAddress:      input.OriginAddress,
		DestinationCity:    input.DestinationCity,
		DestinationAddress: input.DestinationAddress,
		DepartureAt:        input.DepartureAt,
		ValidationStatus:   requestModel.StatusAwaitingClient,
		PaymentStatus:      requestModel.PaymentPending,
	}

	if err := s.requests.Create(req); err != nil {
		return nil, err
	}
	s.recordStatusEvent(req, fmt.Sprintf("user:%d", callerID))

	// Route first so the pricing call can use the distance.
	route, err := s.routing.CalculateRoute(req.OriginCity, req.DestinationCity, callerID)
	if err != nil {
		logger.Errorf("Routing enrichment failed for request %d: %v", req.ID, err)
	} else {
		req.RouteID = &route.ID
		req.DistanceKm = &route.DistanceKm
		req.EstimatedDurationMin = &route.EstimatedDurationMin
	}

	price := s.resolvePrice(req)
	req.DevisEstime = &price

	if err := s.requests.Save(req); err != nil {
		return nil, err
	}

	return req, nil
}

// resolvePrice asks the pricing service for a quote and computes the local
// fallback when the peer is unavailable.
func (s *Service) resolvePrice(req *requestModel.TransportRequest) float64 {
	quote, err := s.pricing.CalculatePrice(req.Volume, req.DistanceKm)
	if err == nil {
		return quote.Montant
	}
	logger.Errorf("Pricing service failed for request %d, using local fallback: %v", req.ID, err)

	price := fallbackBasePrice + req.Volume*fallbackVolumeRate
	if req.DistanceKm != nil {
		price += *req.DistanceKm * fallbackDistanceRate
	}
	return price
}

// Validate moves the request from AWAITING_CLIENT to VALIDATED_CLIENT on
// behalf of its owner, then notifies matching and payments without waiting
// for either.
func (s *Service) Validate(requestID, callerID uint) (*requestModel.TransportRequest, error) {
	req, found, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewNotFoundError("transport request", fmt.Sprintf("%d", requestID))
	}

	if req.ClientID != callerID {
		return nil, errs.NewAuthorizationError("only the owning client may validate this request")
	}

	if req.ValidationStatus != requestModel.StatusAwaitingClient {
		return nil, errs.NewInvalidStateError(req.ValidationStatus.String(), requestModel.StatusValidatedClient.String())
	}

	req.ValidationStatus = requestModel.StatusValidatedClient
	if err := s.requests.Save(req); err != nil {
		return nil, err
	}
	s.recordStatusEvent(req, fmt.Sprintf("user:%d", callerID))

	// Fire-and-forget: the caller gets the updated status without waiting
	// for either peer.
	id := req.ID
	clientID := req.ClientID
	var amount float64
	if req.DevisEstime != nil {
		amount = *req.DevisEstime
	}
	s.spawn(func() {
		if err := s.matching.NotifyRequestValidated(id); err != nil {
			logger.Errorf("Matching notification failed for request %d: %v", id, err)
		}
	})
	s.spawn(func() {
		if err := s.payments.InitiatePayment(id, amount, clientID); err != nil {
			logger.Errorf("Payment initiation failed for request %d: %v", id, err)
		}
	})

	return req, nil
}

// Cancel moves a non-terminal request to ANNULEE. Owners and admins only.
func (s *Service) Cancel(requestID, callerID uint, role string) (*requestModel.TransportRequest, error) {
	req, found, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewNotFoundError("transport request", fmt.Sprintf("%d", requestID))
	}

	if !authz.CanCancel(role, callerID, req) {
		return nil, errs.NewAuthorizationError("you are not allowed to cancel this request")
	}

	if !req.ValidationStatus.CanTransitionTo(requestModel.StatusCancelled) {
		return nil, errs.NewInvalidStateError(req.ValidationStatus.String(), requestModel.StatusCancelled.String())
	}

	req.ValidationStatus = requestModel.StatusCancelled
	if err := s.requests.Save(req); err != nil {
		return nil, err
	}
	s.recordStatusEvent(req, fmt.Sprintf("user:%d", callerID))

	return req, nil
}

// GetByID returns a single request when the caller's role allows seeing it.
func (s *Service) GetByID(requestID, callerID uint, role string) (*requestModel.TransportRequest, error) {
	req, found, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewNotFoundError("transport request", fmt.Sprintf("%d", requestID))
	}

	if !authz.CanViewRequest(role, callerID, req) {
		return nil, errs.NewAuthorizationError("you are not allowed to view this request")
	}

	return req, nil
}

// ListByClient returns the caller's own requests.
func (s *Service) ListByClient(callerID uint) ([]requestModel.TransportRequest, error) {
	return s.requests.FindByClient(callerID)
}

// ListAll is the admin-only full listing.
func (s *Service) ListAll(role string) ([]requestModel.TransportRequest, error) {
	if !authz.CanListAll(role) {
		return nil, errs.NewAuthorizationError("only admins may list all requests")
	}
	return s.requests.FindAll()
}

// ListByStatus is the provider/admin view over a single lifecycle state.
func (s *Service) ListByStatus(role string, status requestModel.ValidationStatus) ([]requestModel.TransportRequest, error) {
	if !authz.CanListByStatus(role) {
		return nil, errs.NewAuthorizationError("only providers and admins may filter by status")
	}
	if !status.IsValid() {
		return nil, errs.NewValidationError([]errs.FieldViolation{
			{Field: "status", Message: fmt.Sprintf("unknown validation status %q", status)},
		})
	}
	return s.requests.FindByStatus(status)
}

// ListByMission lists the requests attached to a dispatch mission.
func (s *Service) ListByMission(role string, missionID uint) ([]requestModel.TransportRequest, error) {
	if !authz.CanListByMission(role) {
		return nil, errs.NewAuthorizationError("only providers and admins may filter by mission")
	}
	return s.requests.FindByMission(missionID)
}

// Associate links a request to a mission and optionally refreshes its route
// data. Partial patch semantics: absent fields keep their stored values.
// Called by trusted internal peers, so there is no ownership check.
func (s *Service) Associate(requestID uint, input requestTypes.AssociationRequest) (*requestModel.TransportRequest, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	req, found, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewNotFoundError("transport request", fmt.Sprintf("%d", requestID))
	}

	req.MissionID = input.MissionID
	if input.RouteID != nil {
		req.RouteID = input.RouteID
	}
	if input.DistanceKm != nil {
		req.DistanceKm = input.DistanceKm
	}
	if input.EstimatedDurationMin != nil {
		req.EstimatedDurationMin = input.EstimatedDurationMin
	}

	if err := s.requests.Save(req); err != nil {
		return nil, err
	}

	return req, nil
}

// UpdatePaymentStatus applies the payment service's webhook update.
func (s *Service) UpdatePaymentStatus(requestID uint, newStatus string) (*requestModel.TransportRequest, error) {
	status := requestModel.PaymentStatus(newStatus)
	if !status.IsValid() {
		return nil, errs.NewValidationError([]errs.FieldViolation{
			{Field: "new_status", Message: fmt.Sprintf("unknown payment status %q", newStatus)},
		})
	}

	req, found, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewNotFoundError("transport request", fmt.Sprintf("%d", requestID))
	}

	req.PaymentStatus = status
	if err := s.requests.Save(req); err != nil {
		return nil, err
	}

	return req, nil
}

// FetchOwnerProfile loads the owner's profile from the user service with the
// caller's own credential forwarded unchanged.
func (s *Service) FetchOwnerProfile(requestID, callerID uint, role, bearerToken string) (*userprofile.Profile, error) {
	req, found, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewNotFoundError("transport request", fmt.Sprintf("%d", requestID))
	}

	if !authz.CanViewOwnerProfile(role, callerID, req) {
		return nil, errs.NewAuthorizationError("you are not allowed to view the owner profile")
	}

	return s.profiles.FetchProfile(req.ClientID, bearerToken)
}

// recordStatusEvent appends an audit row. Failures are logged only: the audit
// trail must never break the primary operation.
func (s *Service) recordStatusEvent(req *requestModel.TransportRequest, actor string) {
	event := &requestModel.RequestStatusEvent{
		RequestID: req.ID,
		Status:    req.ValidationStatus,
		CreatedBy: actor,
	}
	if err := s.requests.RecordStatusEvent(event); err != nil {
		logger.Errorf("Failed to record status event for request %d: %v", req.ID, err)
	}
}
