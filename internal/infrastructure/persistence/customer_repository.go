package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/domain/shared"
	"github.com/custreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements customer.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// withAssociations returns a query that loads address, profile and contact
func (r *GormCustomerRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Address").
		Preload("Profile").
		Preload("Contact")
}

// FindAll returns every customer ordered by name
func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	if err := r.withAssociations(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.withAssociations(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNameContaining finds customers whose name contains substring, ignoring case.
// Matching runs against the case-folded search_name column so it behaves the same
// on PostgreSQL and SQLite.
func (r *GormCustomerRepository) FindByNameContaining(ctx context.Context, substring string) ([]customer.Customer, error) {
	pattern := "%" + escapeLike(models.FoldName(substring)) + "%"

	var rows []models.CustomerModel
	if err := r.withAssociations(ctx).
		Where(`search_name LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// FindByPostalCode finds customers linked to the address with the given postal code
func (r *GormCustomerRepository) FindByPostalCode(ctx context.Context, postalCode string) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	if err := r.withAssociations(ctx).
		Where("address_postal_code = ?", customer.NormalizePostalCode(postalCode)).
		Order("name ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// ExistsByID checks if a customer with the given ID exists
func (r *GormCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts the customer or overwrites the row with the same ID.
// Associations are not written; they must already be persisted.
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	model := models.CustomerModelFromDomain(c)
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "search_name", "address_postal_code", "profile_name", "contact_id", "updated_at",
			}),
		}).
		Create(model).Error
}

// Delete removes the customer row only. Its address, profile and contact remain.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func customersToDomain(rows []models.CustomerModel) []customer.Customer {
	out := make([]customer.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user input is matched literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)
