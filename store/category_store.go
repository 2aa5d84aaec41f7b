package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"transport-requests/models/category"
)

// CategoryStore is the read-side of the category reference data.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) FindByID(id string) (*category.Category, bool, error) {
	var cat category.Category
	err := s.db.Where("id = ?", id).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load category %s: %w", id, err)
	}
	return &cat, true, nil
}

func (s *CategoryStore) FindAll() ([]category.Category, error) {
	var categories []category.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
