package customer

import (
	"strings"
	"time"

	"github.com/custreg/backend/internal/domain/shared"
)

// Profile is a customer classification tag keyed by name, e.g. "standard" or "premium"
type Profile struct {
	shared.Timestamps
	Name        string
	Description string
}

// NewProfile creates a profile with the given name and description
func NewProfile(name, description string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if err := validateProfileName(name); err != nil {
		return nil, err
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_PROFILE_DESCRIPTION", "Profile description cannot exceed 500 characters")
	}
	return &Profile{
		Timestamps:  shared.NewTimestamps(),
		Name:        name,
		Description: description,
	}, nil
}

// Key returns the natural key of the profile
func (p *Profile) Key() string {
	return p.Name
}

// Touch moves UpdatedAt to now
func (p *Profile) Touch() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func validateProfileName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PROFILE_NAME", "Profile name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_PROFILE_NAME", "Profile name cannot exceed 100 characters")
	}
	return nil
}
