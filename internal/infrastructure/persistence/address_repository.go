package persistence

import (
	"context"
	"errors"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/domain/shared"
	"github.com/custreg/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAddressRepository implements customer.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindAll returns every stored address ordered by postal code
func (r *GormAddressRepository) FindAll(ctx context.Context) ([]customer.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).Order("postal_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]customer.Address, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindByPostalCode finds an address by its postal code
func (r *GormAddressRepository) FindByPostalCode(ctx context.Context, postalCode string) (*customer.Address, error) {
	var model models.AddressModel
	err := r.db.WithContext(ctx).
		First(&model, "postal_code = ?", customer.NormalizePostalCode(postalCode)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts the address or overwrites the one with the same postal code
func (r *GormAddressRepository) Save(ctx context.Context, a *customer.Address) error {
	a.PostalCode = customer.NormalizePostalCode(a.PostalCode)
	a.Touch()
	model := models.AddressModelFromDomain(a)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "postal_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"street", "complement", "district", "city", "state",
				"ibge_code", "gia_code", "area_code", "siafi_code", "updated_at",
			}),
		}).
		Create(model).Error
}

// Delete removes an address by postal code
func (r *GormAddressRepository) Delete(ctx context.Context, postalCode string) error {
	result := r.db.WithContext(ctx).
		Delete(&models.AddressModel{}, "postal_code = ?", customer.NormalizePostalCode(postalCode))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAddressRepository implements AddressRepository
var _ customer.AddressRepository = (*GormAddressRepository)(nil)
