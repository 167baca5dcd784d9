package model

// Package model contains domain models/data structures.
// Keep it minimal for the scaffold; no business logic here.

import (
	"time"

	"gorm.io/gorm"
)

// Model is the common base embedded by every persisted entity.
// It carries the system-assigned identity and the lifecycle timestamps:
// CreatedAt is set once at insert, UpdatedAt is refreshed on every mutation,
// and a non-null DeletedAt marks the row logically deleted. GORM's
// soft-delete scope excludes such rows from default lookups; physical
// deletion is never performed by the repository layer.
type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// GetID returns the record identity. Zero means not yet persisted.
func (m Model) GetID() uint { return m.ID }

// Entity constrains the types the generic repository/service pair can be
// instantiated with: anything embedding Model and naming itself for
// diagnostics. EntityName is only used in not-found error messages.
type Entity interface {
	GetID() uint
	EntityName() string
}
