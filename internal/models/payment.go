package models

import (
	"time"
)

// Payment is one billing-period record per property. RentAmount is always
// overwritten with the owning property's current monthly rent at save time
// and DebtAmount carries the property's total outstanding debt as of the
// last save, not a per-row balance.
type Payment struct {
	ID         uint      `json:"idPago" gorm:"primaryKey"`
	Year       int       `json:"anio" gorm:"not null"`
	Month      int       `json:"mes" gorm:"not null"`
	RentAmount float64   `json:"precioAlquiler"`
	DebtAmount float64   `json:"montoDeuda"`
	Paid       bool      `json:"pagado"`
	TenantID   *uint     `json:"-" gorm:"index"`
	Tenant     *Tenant   `json:"-"`
	PropertyID uint      `json:"-" gorm:"not null;index"`
	Property   *Property `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PaymentRequest struct {
	Year       int     `json:"anio" validate:"required,min=2000,max=2100"`
	Month      int     `json:"mes" validate:"required,min=1,max=12"`
	RentAmount float64 `json:"precioAlquiler"`
	Paid       *bool   `json:"pagado" validate:"required"`
	TenantID   *uint   `json:"idInquilino"`
	PropertyID uint    `json:"idInmueble" validate:"required"`
}

// PaymentResponse is the reduced projection sent to clients: ids instead
// of the nested tenant and property objects.
type PaymentResponse struct {
	ID         uint    `json:"idPago"`
	Year       int     `json:"anio"`
	Month      int     `json:"mes"`
	RentAmount float64 `json:"precioAlquiler"`
	DebtAmount float64 `json:"montoDeuda"`
	Paid       bool    `json:"pagado"`
	TenantID   *uint   `json:"idInquilino"`
	PropertyID uint    `json:"idInmueble"`
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		Year:       p.Year,
		Month:      p.Month,
		RentAmount: p.RentAmount,
		DebtAmount: p.DebtAmount,
		Paid:       p.Paid,
		TenantID:   p.TenantID,
		PropertyID: p.PropertyID,
	}
}
