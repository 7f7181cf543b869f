package models

import (
	"time"

	"github.com/custreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for models with a generated id.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// TimestampsModel holds audit columns for models keyed by a natural key
type TimestampsModel struct {
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts TimestampsModel to domain Timestamps
func (m *TimestampsModel) ToDomain() shared.Timestamps {
	return shared.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// FromDomainTimestamps populates TimestampsModel from domain Timestamps,
// filling zero values with now
func (m *TimestampsModel) FromDomainTimestamps(t shared.Timestamps) {
	now := time.Now()
	m.CreatedAt = t.CreatedAt
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = t.UpdatedAt
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
}
