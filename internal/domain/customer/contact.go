package customer

import (
	"regexp"
	"time"

	"github.com/custreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PhoneType classifies a contact phone number
type PhoneType string

const (
	PhoneTypeMobile   PhoneType = "mobile"
	PhoneTypeLandline PhoneType = "landline"
	PhoneTypeWork     PhoneType = "work"
	PhoneTypeOther    PhoneType = "other"
)

var validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

// Contact is a phone entry owned by a single customer.
// ID stays uuid.Nil until the contact is first saved.
type Contact struct {
	ID          uuid.UUID
	PhoneNumber string
	PhoneType   PhoneType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContact creates an unsaved contact
func NewContact(phoneNumber string, phoneType PhoneType) (*Contact, error) {
	if err := validatePhone(phoneNumber); err != nil {
		return nil, err
	}
	if phoneType == "" {
		phoneType = PhoneTypeMobile
	}
	if err := validatePhoneType(phoneType); err != nil {
		return nil, err
	}
	return &Contact{
		PhoneNumber: phoneNumber,
		PhoneType:   phoneType,
	}, nil
}

// IsNew reports whether the contact has never been saved
func (c *Contact) IsNew() bool {
	return c.ID == uuid.Nil
}

// EnsureID assigns a generated id to a new contact and returns the id
func (c *Contact) EnsureID() uuid.UUID {
	now := time.Now()
	if c.IsNew() {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return c.ID
}

func validatePhone(phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validatePhoneType(t PhoneType) error {
	switch t {
	case PhoneTypeMobile, PhoneTypeLandline, PhoneTypeWork, PhoneTypeOther:
		return nil
	default:
		return shared.NewDomainError("INVALID_PHONE_TYPE", "Phone type must be 'mobile', 'landline', 'work' or 'other'")
	}
}
