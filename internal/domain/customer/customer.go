package customer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is a registered customer.
// Address and Profile are shared records referenced by natural key; Contact
// belongs to this customer alone.
type Customer struct {
	shared.BaseEntity
	Name    string
	Address *Address
	Profile *Profile
	Contact *Contact
}

// NewCustomer creates a customer whose address is only known by postal code.
// The address is resolved and the profile and contact persisted when the
// customer is saved through the registration service.
func NewCustomer(name, postalCode string, profile *Profile, contact *Contact) (*Customer, error) {
	name = strings.TrimSpace(name)
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	address, err := NewAddressReference(postalCode)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Customer profile is required")
	}
	if contact == nil {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Customer contact is required")
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    address,
		Profile:    profile,
		Contact:    contact,
	}, nil
}

// PostalCode returns the postal code of the customer's address
func (c *Customer) PostalCode() string {
	if c.Address == nil {
		return ""
	}
	return c.Address.PostalCode
}

// AssignID rebinds the customer to an existing identity, so that saving it
// overwrites the stored record instead of creating a new one
func (c *Customer) AssignID(id uuid.UUID) {
	c.ID = id
}

// BindAddress links the customer to a persisted address
func (c *Customer) BindAddress(address *Address) {
	c.Address = address
	c.UpdatedAt = time.Now()
}

// BindProfile links the customer to a persisted profile
func (c *Customer) BindProfile(profile *Profile) {
	c.Profile = profile
	c.UpdatedAt = time.Now()
}

// BindContact links the customer to a persisted contact
func (c *Customer) BindContact(contact *Contact) {
	c.Contact = contact
	c.UpdatedAt = time.Now()
}

// IsBound reports whether every association references a persisted record
func (c *Customer) IsBound() bool {
	return c.Address != nil && c.Address.PostalCode != "" &&
		c.Profile != nil && c.Profile.Name != "" &&
		c.Contact != nil && !c.Contact.IsNew()
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
