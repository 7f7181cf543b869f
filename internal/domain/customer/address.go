package customer

import (
	"strings"
	"time"

	"github.com/custreg/backend/internal/domain/shared"
)

// Address is a postal address keyed by its postal code.
// One Address row is shared by every customer living under the same code.
type Address struct {
	shared.Timestamps
	PostalCode string
	Street     string
	Complement string
	District   string
	City       string
	State      string
	IBGECode   string
	GIACode    string
	AreaCode   string
	SIAFICode  string
}

// NormalizePostalCode strips everything but digits, so "01001-000" and
// "01001000" resolve to the same key.
func NormalizePostalCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewAddressReference creates an unresolved address that only carries its key
func NewAddressReference(postalCode string) (*Address, error) {
	code := NormalizePostalCode(postalCode)
	if err := validatePostalCode(code); err != nil {
		return nil, err
	}
	return &Address{PostalCode: code}, nil
}

// Key returns the natural key of the address
func (a *Address) Key() string {
	return a.PostalCode
}

// Touch moves UpdatedAt to now
func (a *Address) Touch() {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

func validatePostalCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	return nil
}
