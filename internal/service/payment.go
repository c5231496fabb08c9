package service

import (
	"context"
	"errors"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/storage"
)

// ErrInvalidMonth is returned by date filters when the month is outside 1-12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// PaymentService owns the payment lifecycle and the debt reconciliation
// that runs on every payment write.
type PaymentService struct {
	store storage.Storage
}

func NewPaymentService(store storage.Storage) *PaymentService {
	return &PaymentService{store: store}
}

// Save persists a payment and reconciles the owning property's debt.
// The payment's rent amount is never trusted from the caller: it is
// overwritten with the property's current monthly rent. After the first
// save the property's total outstanding debt is recomputed and written
// back onto the just-saved row. The whole sequence runs in one
// transaction so a crash cannot leave a stale debt figure behind.
func (s *PaymentService) Save(ctx context.Context, payment *models.Payment) error {
	return s.store.Transaction(ctx, func(tx storage.Storage) error {
		property, err := tx.GetProperty(ctx, payment.PropertyID)
		if err != nil {
			return err
		}

		payment.RentAmount = property.MonthlyRent
		if err := tx.SavePayment(ctx, payment); err != nil {
			return err
		}

		debt, err := totalDebt(ctx, tx, property)
		if err != nil {
			return err
		}

		payment.DebtAmount = debt
		return tx.SavePayment(ctx, payment)
	})
}

// TotalDebt returns the property's outstanding debt: the sum of unpaid
// rent amounts, or zero when the property is vacant. A vacant property
// accrues no debt even when historical unpaid rows exist.
func (s *PaymentService) TotalDebt(ctx context.Context, propertyID uint) (float64, error) {
	property, err := s.store.GetProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	return totalDebt(ctx, s.store, property)
}

func totalDebt(ctx context.Context, store storage.Storage, property *models.Property) (float64, error) {
	if property.Status == models.StatusVacant {
		return 0, nil
	}
	return store.SumUnpaidRent(ctx, property.ID)
}

func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	return s.store.ListPayments(ctx)
}

func (s *PaymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	return s.store.DeletePayment(ctx, id)
}

func (s *PaymentService) ByProperty(ctx context.Context, propertyID uint) ([]models.Payment, error) {
	return s.store.PaymentsByProperty(ctx, propertyID)
}

func (s *PaymentService) Unpaid(ctx context.Context) ([]models.Payment, error) {
	return s.store.UnpaidPayments(ctx)
}

// ByDate filters payments by billing period. A missing year or month is
// treated as "no results" rather than an error; an out-of-range month
// fails fast with ErrInvalidMonth.
func (s *PaymentService) ByDate(ctx context.Context, year, month *int) ([]models.Payment, error) {
	if year == nil || month == nil {
		return []models.Payment{}, nil
	}
	if *month < 1 || *month > 12 {
		return nil, ErrInvalidMonth
	}
	return s.store.PaymentsByDate(ctx, *year, *month)
}
