package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/storage"
)

func setupService(t *testing.T) (*PaymentService, storage.Storage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	store, err := storage.NewGormStorageWithDB(db)
	require.NoError(t, err, "failed to migrate tables")

	return NewPaymentService(store), store
}

func createProperty(t *testing.T, store storage.Storage, rent float64, status models.PropertyStatus) *models.Property {
	t.Helper()

	property := &models.Property{
		Address:     "Avenida Sol 25",
		City:        "Valencia",
		MonthlyRent: rent,
		Status:      status,
	}
	require.NoError(t, store.CreateProperty(context.Background(), property))
	return property
}

func TestPaymentService_Save_OverwritesRentAmount(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	property := createProperty(t, store, 900, models.StatusOccupied)

	// The caller-supplied rent amount is forged on purpose.
	payment := &models.Payment{
		Year: 2025, Month: 3, RentAmount: 1, Paid: true, PropertyID: property.ID,
	}
	require.NoError(t, svc.Save(ctx, payment))

	assert.Equal(t, 900.0, payment.RentAmount)

	persisted, err := store.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 900.0, persisted.RentAmount)
}

func TestPaymentService_Save_UnknownProperty(t *testing.T) {
	svc, _ := setupService(t)

	payment := &models.Payment{Year: 2025, Month: 3, PropertyID: 9999}
	err := svc.Save(context.Background(), payment)
	assert.ErrorIs(t, err, storage.ErrPropertyNotFound)
}

// Two unpaid payments of 750 on an occupied property leave both rows
// carrying the aggregate debt of 1500.
func TestPaymentService_Save_ReconcilesDebt(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	property := createProperty(t, store, 750, models.StatusOccupied)

	january := &models.Payment{Year: 2025, Month: 1, Paid: false, PropertyID: property.ID}
	require.NoError(t, svc.Save(ctx, january))
	assert.Equal(t, 750.0, january.DebtAmount)

	february := &models.Payment{Year: 2025, Month: 2, Paid: false, PropertyID: property.ID}
	require.NoError(t, svc.Save(ctx, february))
	assert.Equal(t, 1500.0, february.DebtAmount)

	total, err := svc.TotalDebt(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, total)

	// Re-saving January refreshes its debt snapshot to the aggregate.
	require.NoError(t, svc.Save(ctx, january))
	assert.Equal(t, 1500.0, january.DebtAmount)
}

func TestPaymentService_Save_Idempotent(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	property := createProperty(t, store, 750, models.StatusOccupied)

	payment := &models.Payment{Year: 2025, Month: 1, Paid: false, PropertyID: property.ID}
	require.NoError(t, svc.Save(ctx, payment))
	first := payment.DebtAmount

	require.NoError(t, svc.Save(ctx, payment))
	assert.Equal(t, first, payment.DebtAmount)

	total, err := svc.TotalDebt(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, first, total)
}

// A vacant property accrues no debt even with historical unpaid rows.
func TestPaymentService_TotalDebt_VacantProperty(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	property := createProperty(t, store, 900, models.StatusOccupied)

	payment := &models.Payment{Year: 2025, Month: 1, Paid: false, PropertyID: property.ID}
	require.NoError(t, svc.Save(ctx, payment))
	assert.Equal(t, 900.0, payment.DebtAmount)

	property.Status = models.StatusVacant
	require.NoError(t, store.SaveProperty(ctx, property))

	total, err := svc.TotalDebt(ctx, property.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPaymentService_TotalDebt_PaidOnly(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	property := createProperty(t, store, 600, models.StatusOccupied)

	payment := &models.Payment{Year: 2025, Month: 1, Paid: true, PropertyID: property.ID}
	require.NoError(t, svc.Save(ctx, payment))

	total, err := svc.TotalDebt(ctx, property.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPaymentService_ByDate(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	property := createProperty(t, store, 750, models.StatusOccupied)
	payment := &models.Payment{Year: 2025, Month: 4, Paid: false, PropertyID: property.ID}
	require.NoError(t, svc.Save(ctx, payment))

	year, month := 2025, 4

	t.Run("match", func(t *testing.T) {
		got, err := svc.ByDate(ctx, &year, &month)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("month out of range", func(t *testing.T) {
		bad := 13
		_, err := svc.ByDate(ctx, &year, &bad)
		assert.ErrorIs(t, err, ErrInvalidMonth)

		bad = 0
		_, err = svc.ByDate(ctx, &year, &bad)
		assert.ErrorIs(t, err, ErrInvalidMonth)
	})

	t.Run("missing year or month", func(t *testing.T) {
		got, err := svc.ByDate(ctx, nil, &month)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = svc.ByDate(ctx, &year, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
