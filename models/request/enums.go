package request

// ValidationStatus is the lifecycle state of a transport request.
type ValidationStatus string

const (
	StatusAwaitingClient    ValidationStatus = "AWAITING_CLIENT"
	StatusValidatedClient   ValidationStatus = "VALIDATED_CLIENT"
	StatusValidatedProvider ValidationStatus = "VALIDATED_PROVIDER"
	StatusCompleted         ValidationStatus = "COMPLETED"
	StatusCancelled         ValidationStatus = "ANNULEE"
)

// rank orders the forward path of the state machine. ANNULEE sits outside the
// forward path and is handled separately.
var rank = map[ValidationStatus]int{
	StatusAwaitingClient:    0,
	StatusValidatedClient:   1,
	StatusValidatedProvider: 2,
	StatusCompleted:         3,
}

func (vs ValidationStatus) String() string {
	return string(vs)
}

func (vs ValidationStatus) IsValid() bool {
	switch vs {
	case StatusAwaitingClient, StatusValidatedClient, StatusValidatedProvider, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true when no further transition is allowed.
func (vs ValidationStatus) IsTerminal() bool {
	return vs == StatusCompleted || vs == StatusCancelled
}

// CanTransitionTo reports whether moving from vs to target is a legal step.
// Forward moves go one step at a time; cancellation is allowed from any
// non-terminal state; nothing moves backward.
func (vs ValidationStatus) CanTransitionTo(target ValidationStatus) bool {
	if vs.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	from, okFrom := rank[vs]
	to, okTo := rank[target]
	if !okFrom || !okTo {
		return false
	}
	return to == from+1
}

// PaymentStatus mirrors the payment service's own state values.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "EN_ATTENTE"
	PaymentPaid     PaymentStatus = "PAYEE"
	PaymentRefunded PaymentStatus = "REMBOURSEE"
	PaymentFailed   PaymentStatus = "ECHEC"
)

func (ps PaymentStatus) String() string {
	return string(ps)
}

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	default:
		return false
	}
}
