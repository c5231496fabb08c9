package models

import (
	"time"
)

// Tenant is a renter. A tenant can be assigned to at most one property
// and referenced by any number of payments.
type Tenant struct {
	ID        uint      `json:"idInquilino" gorm:"primaryKey"`
	Name      string    `json:"nombre" gorm:"not null"`
	DNI       string    `json:"dni" gorm:"uniqueIndex"`
	Phone     string    `json:"telefono"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TenantRequest struct {
	Name  string `json:"nombre" validate:"required,min=2,max=100"`
	DNI   string `json:"dni" validate:"required,min=5,max=20"`
	Phone string `json:"telefono" validate:"max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}
