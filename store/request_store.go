package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"transport-requests/models/request"
)

// RequestStore owns all persistence of transport requests and their status
// events. Identity generation and timestamps are delegated to the database.
type RequestStore struct {
	db *gorm.DB
}

func NewRequestStore(db *gorm.DB) *RequestStore {
	return &RequestStore{db: db}
}

func (s *RequestStore) Create(req *request.TransportRequest) error {
	if err := s.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create transport request: %w", err)
	}
	return nil
}

func (s *RequestStore) FindByID(id uint) (*request.TransportRequest, bool, error) {
	var req request.TransportRequest
	err := s.db.Preload("Category").First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load transport request %d: %w", id, err)
	}
	return &req, true, nil
}

func (s *RequestStore) Save(req *request.TransportRequest) error {
	if err := s.db.Save(req).Error; err != nil {
		return fmt.Errorf("failed to save transport request %d: %w", req.ID, err)
	}
	return nil
}

// FindByClient returns the client's requests ordered by creation time so
// repeated listings are stable.
func (s *RequestStore) FindByClient(clientID uint) ([]request.TransportRequest, error) {
	var requests []request.TransportRequest
	err := s.db.Where("client_id = ?", clientID).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for client %d: %w", clientID, err)
	}
	return requests, nil
}

func (s *RequestStore) FindAll() ([]request.TransportRequest, error) {
	var requests []request.TransportRequest
	err := s.db.Order("created_at ASC, id ASC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *RequestStore) FindByStatus(status request.ValidationStatus) ([]request.TransportRequest, error) {
	var requests []request.TransportRequest
	err := s.db.Where("validation_status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests with status %s: %w", status, err)
	}
	return requests, nil
}

func (s *RequestStore) FindByMission(missionID uint) ([]request.TransportRequest, error) {
	var requests []request.TransportRequest
	err := s.db.Where("mission_id = ?", missionID).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for mission %d: %w", missionID, err)
	}
	return requests, nil
}

// RecordStatusEvent appends an audit row for a status transition.
func (s *RequestStore) RecordStatusEvent(event *request.RequestStatusEvent) error {
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to record status event for request %d: %w", event.RequestID, err)
	}
	return nil
}

func (s *RequestStore) CountByStatus() (map[request.ValidationStatus]int64, error) {
	type row struct {
		ValidationStatus request.ValidationStatus
		Total            int64
	}
	var rows []row
	err := s.db.Model(&request.TransportRequest{}).
		Select("validation_status, COUNT(*) AS total").
		Group("validation_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}

	counts := make(map[request.ValidationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.ValidationStatus] = r.Total
	}
	return counts, nil
}

func (s *RequestStore) CountCreatedSince(since time.Time) (int64, error) {
	var total int64
	err := s.db.Model(&request.TransportRequest{}).
		Where("created_at >= ?", since).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent requests: %w", err)
	}
	return total, nil
}
