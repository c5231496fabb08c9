package storage

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/hcastells/fincas/internal/config"
	"github.com/hcastells/fincas/internal/models"
)

// Seed creates the bootstrap admin when it does not exist yet, plus a
// small set of sample tenants, properties and payments when the tables
// are empty. Safe to run on every boot.
func (s *GormStorage) Seed(ctx context.Context, cfg config.SeedConfig) error {
	if _, err := s.GetUserByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Println("seed: admin already exists")
	} else if errors.Is(err, ErrUserNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			Username: cfg.AdminUsername,
			Password: string(hash),
			Role:     models.RoleAdmin,
		}
		if err := s.CreateUser(ctx, admin); err != nil {
			return err
		}
		log.Println("seed: admin created")
	} else {
		return err
	}

	var tenantCount int64
	if err := s.db.WithContext(ctx).Model(&models.Tenant{}).Count(&tenantCount).Error; err != nil {
		return err
	}
	if tenantCount == 0 {
		tenants := []models.Tenant{
			{Name: "Carlos López", DNI: "12345678A", Phone: "600111222", Email: "carlos@email.com"},
			{Name: "Laura Pérez", DNI: "87654321B", Phone: "600333444", Email: "laura@email.com"},
			{Name: "Miguel Torres", DNI: "11223344C", Phone: "600555666", Email: "miguel@email.com"},
		}
		if err := s.db.WithContext(ctx).Create(&tenants).Error; err != nil {
			return err
		}
		log.Println("seed: tenants created")
	}

	var propertyCount int64
	if err := s.db.WithContext(ctx).Model(&models.Property{}).Count(&propertyCount).Error; err != nil {
		return err
	}
	if propertyCount == 0 {
		tenants, err := s.ListTenants(ctx)
		if err != nil {
			return err
		}
		properties := []models.Property{
			{Address: "Calle Mayor 10", City: "Madrid", PostalCode: "28001", MonthlyRent: 900, Status: models.StatusOccupied, TenantID: &tenants[0].ID},
			{Address: "Avenida Sol 25", City: "Valencia", PostalCode: "46001", MonthlyRent: 750, Status: models.StatusInDebt, TenantID: &tenants[1].ID},
			{Address: "Calle Luna 5", City: "Sevilla", PostalCode: "41001", MonthlyRent: 600, Status: models.StatusVacant},
		}
		if err := s.db.WithContext(ctx).Create(&properties).Error; err != nil {
			return err
		}
		log.Println("seed: properties created")
	}

	var paymentCount int64
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		return err
	}
	if paymentCount == 0 {
		tenants, err := s.ListTenants(ctx)
		if err != nil {
			return err
		}
		properties, err := s.ListProperties(ctx)
		if err != nil {
			return err
		}
		if len(tenants) >= 2 && len(properties) >= 2 {
			payments := []models.Payment{
				{Year: 2025, Month: 1, RentAmount: 900, DebtAmount: 0, Paid: true, TenantID: &tenants[0].ID, PropertyID: properties[0].ID},
				{Year: 2025, Month: 1, RentAmount: 750, DebtAmount: 750, Paid: false, TenantID: &tenants[1].ID, PropertyID: properties[1].ID},
				{Year: 2025, Month: 2, RentAmount: 750, DebtAmount: 1500, Paid: false, TenantID: &tenants[1].ID, PropertyID: properties[1].ID},
			}
			if err := s.db.WithContext(ctx).Create(&payments).Error; err != nil {
				return err
			}
			log.Println("seed: payments created")
		}
	}

	return nil
}
