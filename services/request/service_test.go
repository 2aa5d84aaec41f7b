package request

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport-requests/errs"
	"transport-requests/httpServices/pricing"
	"transport-requests/httpServices/routing"
	"transport-requests/httpServices/userprofile"
	"transport-requests/models/category"
	requestModel "transport-requests/models/request"
	requestTypes "transport-requests/types/request"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRequestStore struct {
	requests map[uint]*requestModel.TransportRequest
	nextID   uint
	events   []requestModel.RequestStatusEvent

	createErr error
	saveErr   error
	eventErr  error
	saveCalls int
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[uint]*requestModel.TransportRequest)}
}

func (f *fakeRequestStore) Create(req *requestModel.TransportRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	req.ID = f.nextID
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestStore) FindByID(id uint) (*requestModel.TransportRequest, bool, error) {
	req, ok := f.requests[id]
	return req, ok, nil
}

func (f *fakeRequestStore) Save(req *requestModel.TransportRequest) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveCalls++
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestStore) FindByClient(clientID uint) ([]requestModel.TransportRequest, error) {
	var out []requestModel.TransportRequest
	for _, req := range f.requests {
		if req.ClientID == clientID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) FindAll() ([]requestModel.TransportRequest, error) {
	var out []requestModel.TransportRequest
	for _, req := range f.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (f *fakeRequestStore) FindByStatus(status requestModel.ValidationStatus) ([]requestModel.TransportRequest, error) {
	var out []requestModel.TransportRequest
	for _, req := range f.requests {
		if req.ValidationStatus == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) FindByMission(missionID uint) ([]requestModel.TransportRequest, error) {
	var out []requestModel.TransportRequest
	for _, req := range f.requests {
		if req.MissionID != nil && *req.MissionID == missionID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) RecordStatusEvent(event *requestModel.RequestStatusEvent) error {
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, *event)
	return nil
}

type fakeCategoryStore struct {
	categories map[string]*category.Category
}

func (f *fakeCategoryStore) FindByID(id string) (*category.Category, bool, error) {
	cat, ok := f.categories[id]
	return cat, ok, nil
}

type fakeRouting struct {
	route *routing.RouteInfo
	err   error
	calls int
}

func (f *fakeRouting) CalculateRoute(originCity, destinationCity string, clientID uint) (*routing.RouteInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.route, nil
}

type fakePricing struct {
	quote        *pricing.Quote
	err          error
	lastVolume   float64
	lastDistance *float64
	calls        int
}

func (f *fakePricing) CalculatePrice(volume float64, distanceKm *float64) (*pricing.Quote, error) {
	f.calls++
	f.lastVolume = volume
	f.lastDistance = distanceKm
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeMatching struct {
	err      error
	notified []uint
}

func (f *fakeMatching) NotifyRequestValidated(requestID uint) error {
	f.notified = append(f.notified, requestID)
	return f.err
}

type paymentCall struct {
	requestID uint
	amount    float64
	clientID  uint
}

type fakePayments struct {
	err   error
	calls []paymentCall
}

func (f *fakePayments) InitiatePayment(requestID uint, amount float64, clientID uint) error {
	f.calls = append(f.calls, paymentCall{requestID: requestID, amount: amount, clientID: clientID})
	return f.err
}

type fakeProfiles struct {
	profile    *userprofile.Profile
	err        error
	lastUserID uint
	lastToken  string
}

func (f *fakeProfiles) FetchProfile(userID uint, bearerToken string) (*userprofile.Profile, error) {
	f.lastUserID = userID
	f.lastToken = bearerToken
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type testDeps struct {
	store      *fakeRequestStore
	categories *fakeCategoryStore
	routing    *fakeRouting
	pricing    *fakePricing
	matching   *fakeMatching
	payments   *fakePayments
	profiles   *fakeProfiles
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		store:      newFakeRequestStore(),
		categories: &fakeCategoryStore{categories: make(map[string]*category.Category)},
		routing: &fakeRouting{route: &routing.RouteInfo{
			ID:                   "route-1",
			PointDepart:          "Lyon",
			PointArrivee:         "Paris",
			DistanceKm:           133.7,
			EstimatedDurationMin: 145,
		}},
		pricing:  &fakePricing{quote: &pricing.Quote{Montant: 380.0}},
		matching: &fakeMatching{},
		payments: &fakePayments{},
		profiles: &fakeProfiles{profile: &userprofile.Profile{ID: 5, Email: "client@example.com"}},
	}
	svc := NewService(deps.store, deps.categories, deps.routing, deps.pricing, deps.matching, deps.payments, deps.profiles)
	svc.now = func() time.Time { return testNow }
	svc.spawn = func(f func()) { f() }
	return svc, deps
}

func validInput() requestTypes.CreateRequest {
	return requestTypes.CreateRequest{
		Volume:          25.5,
		CargoNature:     "Meubles anciens",
		OriginCity:      "Lyon",
		DestinationCity: "Paris",
		DepartureAt:     testNow.Add(48 * time.Hour),
	}
}

func seedRequest(deps *testDeps, clientID uint, status requestModel.ValidationStatus) *requestModel.TransportRequest {
	devis := 380.0
	req := &requestModel.TransportRequest{
		ClientID:         clientID,
		Volume:           25.5,
		CargoNature:      "Meubles anciens",
		OriginCity:       "Lyon",
		DestinationCity:  "Paris",
		DepartureAt:      testNow.Add(48 * time.Hour),
		ValidationStatus: status,
		PaymentStatus:    requestModel.PaymentPending,
		DevisEstime:      &devis,
	}
	_ = deps.store.Create(req)
	return req
}

func TestCreate_WhenPeersHealthy_PersistsEnrichedRequest(t *testing.T) {
	svc, deps := newTestService()

	created, err := svc.Create(validInput(), 5)

	require.NoError(t, err)
	assert.Equal(t, uint(5), created.ClientID)
	assert.Equal(t, requestModel.StatusAwaitingClient, created.ValidationStatus)
	assert.Equal(t, requestModel.PaymentPending, created.PaymentStatus)

	require.NotNil(t, created.RouteID)
	assert.Equal(t, "route-1", *created.RouteID)
	require.NotNil(t, created.DistanceKm)
	assert.InDelta(t, 133.7, *created.DistanceKm, 0.0001)
	require.NotNil(t, created.EstimatedDurationMin)
	assert.Equal(t, 145, *created.EstimatedDurationMin)

	require.NotNil(t, created.DevisEstime)
	assert.InDelta(t, 380.0, *created.DevisEstime, 0.0001)

	// Pricing received the routed distance.
	require.NotNil(t, deps.pricing.lastDistance)
	assert.InDelta(t, 133.7, *deps.pricing.lastDistance, 0.0001)

	require.Len(t, deps.store.events, 1)
	assert.Equal(t, requestModel.StatusAwaitingClient, deps.store.events[0].Status)
	assert.Equal(t, "user:5", deps.store.events[0].CreatedBy)
}

func TestCreate_WhenRoutingDown_StillCreatesWithoutRoute(t *testing.T) {
	svc, deps := newTestService()
	deps.routing.err = errors.New("connection refused")

	created, err := svc.Create(validInput(), 5)

	require.NoError(t, err)
	assert.Nil(t, created.RouteID)
	assert.Nil(t, created.DistanceKm)
	assert.Nil(t, created.EstimatedDurationMin)

	// Pricing still runs, just without a distance.
	assert.Equal(t, 1, deps.pricing.calls)
	assert.Nil(t, deps.pricing.lastDistance)
	require.NotNil(t, created.DevisEstime)
	assert.InDelta(t, 380.0, *created.DevisEstime, 0.0001)
}

func TestCreate_WhenPricingDown_UsesLocalFallbackWithDistance(t *testing.T) {
	svc, deps := newTestService()
	deps.pricing.err = errors.New("timeout")

	created, err := svc.Create(validInput(), 5)

	require.NoError(t, err)
	require.NotNil(t, created.DevisEstime)
	// 50 + 25.5*5 + 133.7*2
	assert.InDelta(t, 444.9, *created.DevisEstime, 0.0001)
}

func TestCreate_WhenBothPeersDown_UsesLocalFallbackWithoutDistance(t *testing.T) {
	svc, deps := newTestService()
	deps.routing.err = errors.New("connection refused")
	deps.pricing.err = errors.New("timeout")

	created, err := svc.Create(validInput(), 5)

	require.NoError(t, err)
	require.NotNil(t, created.DevisEstime)
	// 50 + 25.5*5
	assert.InDelta(t, 177.5, *created.DevisEstime, 0.0001)
}

func TestCreate_WhenInputInvalid_NothingIsPersisted(t *testing.T) {
	svc, deps := newTestService()

	_, err := svc.Create(requestTypes.CreateRequest{}, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Empty(t, deps.store.requests)
	assert.Zero(t, deps.routing.calls)
	assert.Zero(t, deps.pricing.calls)
}

func TestCreate_WhenCategoryUnknown_ReturnsNotFound(t *testing.T) {
	svc, deps := newTestService()
	input := validInput()
	categoryID := "missing-category"
	input.CategoryID = &categoryID

	_, err := svc.Create(input, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.Empty(t, deps.store.requests)
}

func TestCreate_WhenCategoryExists_LinksIt(t *testing.T) {
	svc, deps := newTestService()
	deps.categories.categories["cat-1"] = &category.Category{ID: "cat-1", Name: "Meubles"}
	input := validInput()
	categoryID := "cat-1"
	input.CategoryID = &categoryID

	created, err := svc.Create(input, 5)

	require.NoError(t, err)
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, "cat-1", *created.CategoryID)
}

func TestValidate_WhenOwnerAndAwaiting_MovesToValidatedAndNotifiesPeers(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusAwaitingClient)

	updated, err := svc.Validate(req.ID, 5)

	require.NoError(t, err)
	assert.Equal(t, requestModel.StatusValidatedClient, updated.ValidationStatus)

	require.Len(t, deps.matching.notified, 1)
	assert.Equal(t, req.ID, deps.matching.notified[0])

	require.Len(t, deps.payments.calls, 1)
	assert.Equal(t, req.ID, deps.payments.calls[0].requestID)
	assert.InDelta(t, 380.0, deps.payments.calls[0].amount, 0.0001)
	assert.Equal(t, uint(5), deps.payments.calls[0].clientID)

	require.Len(t, deps.store.events, 1)
	assert.Equal(t, requestModel.StatusValidatedClient, deps.store.events[0].Status)
}

func TestValidate_WhenPeersFail_StatusChangeStillSucceeds(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusAwaitingClient)
	deps.matching.err = errors.New("matching down")
	deps.payments.err = errors.New("payments down")

	updated, err := svc.Validate(req.ID, 5)

	require.NoError(t, err)
	assert.Equal(t, requestModel.StatusValidatedClient, updated.ValidationStatus)
}

func TestValidate_WhenNotOwner_ReturnsAuthorizationError(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusAwaitingClient)

	_, err := svc.Validate(req.ID, 6)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
	assert.Equal(t, requestModel.StatusAwaitingClient, deps.store.requests[req.ID].ValidationStatus)
	assert.Empty(t, deps.matching.notified)
	assert.Empty(t, deps.payments.calls)
}

func TestValidate_WhenAlreadyValidated_ReturnsInvalidState(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)

	_, err := svc.Validate(req.ID, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidState))
	assert.Empty(t, deps.matching.notified)
	assert.Empty(t, deps.payments.calls)
}

func TestValidate_WhenRequestMissing_ReturnsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Validate(404, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestCancel_Rules(t *testing.T) {
	tests := []struct {
		name     string
		status   requestModel.ValidationStatus
		callerID uint
		role     string
		wantErr  error
	}{
		{"owner cancels awaiting", requestModel.StatusAwaitingClient, 5, "CLIENT", nil},
		{"owner cancels validated", requestModel.StatusValidatedClient, 5, "CLIENT", nil},
		{"admin cancels any", requestModel.StatusValidatedProvider, 1, "ADMIN", nil},
		{"stranger cannot cancel", requestModel.StatusAwaitingClient, 6, "CLIENT", errs.ErrUnauthorized},
		{"provider cannot cancel", requestModel.StatusValidatedClient, 9, "PRESTATAIRE", errs.ErrUnauthorized},
		{"completed is frozen", requestModel.StatusCompleted, 5, "CLIENT", errs.ErrInvalidState},
		{"already cancelled", requestModel.StatusCancelled, 5, "CLIENT", errs.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			req := seedRequest(deps, 5, tt.status)

			updated, err := svc.Cancel(req.ID, tt.callerID, tt.role)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, requestModel.StatusCancelled, updated.ValidationStatus)
		})
	}
}

func TestGetByID_AppliesVisibilityRules(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusAwaitingClient)

	_, err := svc.GetByID(req.ID, 5, "CLIENT")
	require.NoError(t, err)

	_, err = svc.GetByID(req.ID, 6, "CLIENT")
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	_, err = svc.GetByID(req.ID, 9, "PRESTATAIRE")
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	_, err = svc.GetByID(req.ID, 1, "ADMIN")
	require.NoError(t, err)

	_, err = svc.GetByID(404, 5, "CLIENT")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestListAll_RequiresAdmin(t *testing.T) {
	svc, deps := newTestService()
	seedRequest(deps, 5, requestModel.StatusAwaitingClient)

	_, err := svc.ListAll("CLIENT")
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	out, err := svc.ListAll("ADMIN")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestListByStatus_RejectsUnknownStatusAndClientRole(t *testing.T) {
	svc, deps := newTestService()
	seedRequest(deps, 5, requestModel.StatusValidatedClient)

	_, err := svc.ListByStatus("CLIENT", requestModel.StatusValidatedClient)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	_, err = svc.ListByStatus("PRESTATAIRE", requestModel.ValidationStatus("EN_COURS"))
	assert.True(t, errors.Is(err, errs.ErrValidation))

	out, err := svc.ListByStatus("PRESTATAIRE", requestModel.StatusValidatedClient)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestListByMission_RequiresProviderOrAdmin(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)
	missionID := uint(42)
	req.MissionID = &missionID

	_, err := svc.ListByMission("CLIENT", 42)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	out, err := svc.ListByMission("PRESTATAIRE", 42)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestAssociate_PatchesMissionAndKeepsAbsentFields(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)
	existingRoute := "route-1"
	existingDistance := 133.7
	existingDuration := 145
	req.RouteID = &existingRoute
	req.DistanceKm = &existingDistance
	req.EstimatedDurationMin = &existingDuration

	missionID := uint(42)
	updated, err := svc.Associate(req.ID, requestTypes.AssociationRequest{MissionID: &missionID})

	require.NoError(t, err)
	require.NotNil(t, updated.MissionID)
	assert.Equal(t, uint(42), *updated.MissionID)

	// Absent optional fields keep the stored enrichment.
	require.NotNil(t, updated.RouteID)
	assert.Equal(t, "route-1", *updated.RouteID)
	require.NotNil(t, updated.DistanceKm)
	assert.InDelta(t, 133.7, *updated.DistanceKm, 0.0001)
	require.NotNil(t, updated.EstimatedDurationMin)
	assert.Equal(t, 145, *updated.EstimatedDurationMin)
}

func TestAssociate_OverridesRouteDataWhenProvided(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)

	missionID := uint(42)
	routeID := "route-9"
	distance := 212.4
	duration := 230
	updated, err := svc.Associate(req.ID, requestTypes.AssociationRequest{
		MissionID:            &missionID,
		RouteID:              &routeID,
		DistanceKm:           &distance,
		EstimatedDurationMin: &duration,
	})

	require.NoError(t, err)
	assert.Equal(t, "route-9", *updated.RouteID)
	assert.InDelta(t, 212.4, *updated.DistanceKm, 0.0001)
	assert.Equal(t, 230, *updated.EstimatedDurationMin)
}

func TestAssociate_WhenMissionMissing_ReturnsValidationError(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)

	_, err := svc.Associate(req.ID, requestTypes.AssociationRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Nil(t, deps.store.requests[req.ID].MissionID)
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)

	updated, err := svc.UpdatePaymentStatus(req.ID, "PAYEE")
	require.NoError(t, err)
	assert.Equal(t, requestModel.PaymentPaid, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(req.ID, "PAID")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = svc.UpdatePaymentStatus(404, "PAYEE")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestFetchOwnerProfile_ForwardsOwnerIDAndToken(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)

	profile, err := svc.FetchOwnerProfile(req.ID, 9, "PRESTATAIRE", "token-abc")

	require.NoError(t, err)
	assert.Equal(t, uint(5), profile.ID)
	assert.Equal(t, uint(5), deps.profiles.lastUserID)
	assert.Equal(t, "token-abc", deps.profiles.lastToken)
}

func TestFetchOwnerProfile_WhenForeignClient_ReturnsAuthorizationError(t *testing.T) {
	svc, deps := newTestService()
	req := seedRequest(deps, 5, requestModel.StatusValidatedClient)

	_, err := svc.FetchOwnerProfile(req.ID, 6, "CLIENT", "token-abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestRecordStatusEvent_FailureDoesNotBreakCreate(t *testing.T) {
	svc, deps := newTestService()
	deps.store.eventErr = fmt.Errorf("audit table locked")

	created, err := svc.Create(validInput(), 5)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Empty(t, deps.store.events)
}
