package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hcastells/fincas/internal/models"
)

// setupTestStorage prepares a GormStorage backed by in-memory SQLite.
func setupTestStorage(t *testing.T) *GormStorage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	store, err := NewGormStorageWithDB(db)
	require.NoError(t, err, "failed to migrate tables")

	return store
}

func TestGormStorage_Users(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	user := &models.User{Username: "admin", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	t.Run("duplicate username rejected", func(t *testing.T) {
		dup := &models.User{Username: "admin", Password: "hash2", Role: models.RoleUser}
		assert.Error(t, store.CreateUser(ctx, dup))
	})

	t.Run("lookup by username", func(t *testing.T) {
		found, err := store.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := store.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("delete missing id", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteUser(ctx, 9999), ErrUserNotFound)
	})
}

func TestGormStorage_DeleteTenant_Restrict(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	tenant := &models.Tenant{Name: "Laura Pérez", DNI: "87654321B"}
	require.NoError(t, store.CreateTenant(ctx, tenant))

	t.Run("assigned to property", func(t *testing.T) {
		property := &models.Property{
			Address:     "Avenida Sol 25",
			MonthlyRent: 750,
			Status:      models.StatusOccupied,
			TenantID:    &tenant.ID,
		}
		require.NoError(t, store.CreateProperty(ctx, property))

		assert.ErrorIs(t, store.DeleteTenant(ctx, tenant.ID), ErrTenantInUse)

		property.TenantID = nil
		require.NoError(t, store.SaveProperty(ctx, property))
	})

	t.Run("referenced by payment", func(t *testing.T) {
		properties, err := store.ListProperties(ctx)
		require.NoError(t, err)
		require.Len(t, properties, 1)

		payment := &models.Payment{
			Year: 2025, Month: 1, RentAmount: 750,
			TenantID: &tenant.ID, PropertyID: properties[0].ID,
		}
		require.NoError(t, store.SavePayment(ctx, payment))

		assert.ErrorIs(t, store.DeleteTenant(ctx, tenant.ID), ErrTenantInUse)

		require.NoError(t, store.DeletePayment(ctx, payment.ID))
	})

	t.Run("unreferenced tenant deletes", func(t *testing.T) {
		assert.NoError(t, store.DeleteTenant(ctx, tenant.ID))
		_, err := store.GetTenant(ctx, tenant.ID)
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})
}

func TestGormStorage_DeleteProperty_Restrict(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	property := &models.Property{Address: "Calle Mayor 10", MonthlyRent: 900, Status: models.StatusOccupied}
	require.NoError(t, store.CreateProperty(ctx, property))

	payment := &models.Payment{Year: 2025, Month: 1, RentAmount: 900, PropertyID: property.ID}
	require.NoError(t, store.SavePayment(ctx, payment))

	assert.ErrorIs(t, store.DeleteProperty(ctx, property.ID), ErrPropertyInUse)

	require.NoError(t, store.DeletePayment(ctx, payment.ID))
	assert.NoError(t, store.DeleteProperty(ctx, property.ID))
}

func TestGormStorage_PaymentQueries(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	property := &models.Property{Address: "Avenida Sol 25", MonthlyRent: 750, Status: models.StatusInDebt}
	require.NoError(t, store.CreateProperty(ctx, property))
	other := &models.Property{Address: "Calle Luna 5", MonthlyRent: 600, Status: models.StatusOccupied}
	require.NoError(t, store.CreateProperty(ctx, other))

	payments := []*models.Payment{
		{Year: 2025, Month: 1, RentAmount: 750, Paid: false, PropertyID: property.ID},
		{Year: 2025, Month: 2, RentAmount: 750, Paid: false, PropertyID: property.ID},
		{Year: 2025, Month: 2, RentAmount: 600, Paid: true, PropertyID: other.ID},
	}
	for _, p := range payments {
		require.NoError(t, store.SavePayment(ctx, p))
	}

	t.Run("by property", func(t *testing.T) {
		got, err := store.PaymentsByProperty(ctx, property.ID)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unpaid", func(t *testing.T) {
		got, err := store.UnpaidPayments(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by date", func(t *testing.T) {
		got, err := store.PaymentsByDate(ctx, 2025, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = store.PaymentsByDate(ctx, 2024, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sum unpaid rent", func(t *testing.T) {
		total, err := store.SumUnpaidRent(ctx, property.ID)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, total)

		total, err = store.SumUnpaidRent(ctx, other.ID)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
