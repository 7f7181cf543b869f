package customer

import (
	"context"

	"github.com/custreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence.
// Reads return customers with Address, Profile and Contact loaded.
type CustomerRepository interface {
	shared.Repository[Customer, uuid.UUID]

	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByNameContaining finds customers whose name contains the substring, ignoring case
	FindByNameContaining(ctx context.Context, substring string) ([]Customer, error)

	// FindByPostalCode finds customers linked to the address with the given postal code
	FindByPostalCode(ctx context.Context, postalCode string) ([]Customer, error)

	// ExistsByID checks if a customer with the given ID exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	shared.Repository[Address, string]

	// FindByPostalCode finds an address by its postal code
	FindByPostalCode(ctx context.Context, postalCode string) (*Address, error)
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	shared.Repository[Profile, string]

	// FindByName finds a profile by its name
	FindByName(ctx context.Context, name string) (*Profile, error)
}

// ContactRepository defines the interface for contact persistence.
// Save assigns a generated ID to contacts that do not have one yet.
type ContactRepository interface {
	shared.Repository[Contact, uuid.UUID]

	// FindByID finds a contact by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
}
