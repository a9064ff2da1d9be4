package repository

import (
	"context"

	"travelbook/internal/domain"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	tx := r.db.WithContext(ctx).Preload("Rooms").Order("name ASC").Find(&out)
	return out, tx.Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var p domain.Property
	tx := r.db.WithContext(ctx).Preload("Rooms").Where("id = ?", id).First(&p)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

func (r *PropertyRepository) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	var room domain.Room
	tx := r.db.WithContext(ctx).Where("id = ?", roomID).First(&room)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &room, nil
}
