package stats

import (
	"time"

	"github.com/jinzhu/now"

	"transport-requests/models/request"
)

// RequestCounter is the slice of the request store the dashboard needs.
type RequestCounter interface {
	CountByStatus() (map[request.ValidationStatus]int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// Dashboard is the admin overview of the request pipeline.
type Dashboard struct {
	ByStatus     map[string]int64 `json:"by_status"`
	Total        int64            `json:"total"`
	CreatedToday int64            `json:"created_today"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// Service aggregates request counts for the admin dashboard.
type Service struct {
	requests RequestCounter
	now      func() time.Time
}

func NewService(requests RequestCounter) *Service {
	return &Service{
		requests: requests,
		now:      time.Now,
	}
}

// Snapshot counts requests per validation status and the ones created since
// local midnight.
func (s *Service) Snapshot() (*Dashboard, error) {
	counts, err := s.requests.CountByStatus()
	if err != nil {
		return nil, err
	}

	current := s.now()
	startOfDay := now.With(current).BeginningOfDay()

	createdToday, err := s.requests.CountCreatedSince(startOfDay)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		ByStatus:     make(map[string]int64, len(counts)),
		CreatedToday: createdToday,
		GeneratedAt:  current,
	}
	for status, total := range counts {
		dashboard.ByStatus[status.String()] = total
		dashboard.Total += total
	}

	return dashboard, nil
}
