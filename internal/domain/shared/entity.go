package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for entities with a generated identity
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch moves UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Timestamps holds audit timestamps for entities keyed by a natural key
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTimestamps returns timestamps set to now
func NewTimestamps() Timestamps {
	now := time.Now()
	return Timestamps{CreatedAt: now, UpdatedAt: now}
}
