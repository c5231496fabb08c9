package models

import (
	"time"
)

type PropertyStatus string

const (
	StatusVacant   PropertyStatus = "VACANT"
	StatusOccupied PropertyStatus = "OCCUPIED"
	StatusInDebt   PropertyStatus = "IN_DEBT"
)

// Property is a rentable unit. Status is caller-supplied and is not
// recomputed from payment state; the debt engine only reads it.
type Property struct {
	ID          uint           `json:"idInmueble" gorm:"primaryKey"`
	Address     string         `json:"direccion" gorm:"not null"`
	City        string         `json:"ciudad"`
	PostalCode  string         `json:"codigoPostal"`
	MonthlyRent float64        `json:"precioMensual" gorm:"not null"`
	Status      PropertyStatus `json:"estado" gorm:"not null"`
	TenantID    *uint          `json:"-" gorm:"index"`
	Tenant      *Tenant        `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type PropertyRequest struct {
	Address     string         `json:"direccion" validate:"required,min=3,max=200"`
	City        string         `json:"ciudad" validate:"max=100"`
	PostalCode  string         `json:"codigoPostal" validate:"max=10"`
	MonthlyRent float64        `json:"precioMensual" validate:"required,gt=0"`
	Status      PropertyStatus `json:"estado" validate:"required,oneof=VACANT OCCUPIED IN_DEBT"`
	TenantID    *uint          `json:"idInquilino"`
}

// PropertyResponse is the reduced projection sent to clients: flat fields,
// the status as text and the tenant by id only.
type PropertyResponse struct {
	ID          uint    `json:"idInmueble"`
	Address     string  `json:"direccion"`
	City        string  `json:"ciudad"`
	PostalCode  string  `json:"codigoPostal"`
	MonthlyRent float64 `json:"precioMensual"`
	Status      string  `json:"estado"`
	TenantID    *uint   `json:"idInquilino"`
}

func (p *Property) ToResponse() PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		Address:     p.Address,
		City:        p.City,
		PostalCode:  p.PostalCode,
		MonthlyRent: p.MonthlyRent,
		Status:      string(p.Status),
		TenantID:    p.TenantID,
	}
}
