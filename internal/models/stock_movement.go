package models

import (
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// StockMovement is one immutable ledger entry. ProductName is a deliberate
// denormalized snapshot taken at movement time so history stays readable after
// the product is renamed or deleted.
type StockMovement struct {
	ID          uuid.UUID    `json:"id"`
	ProductID   uuid.UUID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	Notes       string       `json:"notes,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

type StockMovementRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Type      string    `json:"type" validate:"required,oneof=in out"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Notes     string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}
