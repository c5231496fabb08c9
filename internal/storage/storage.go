package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hcastells/fincas/internal/config"
	"github.com/hcastells/fincas/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Delete policy is restrict: rows referenced elsewhere cannot be removed.
	ErrTenantInUse   = errors.New("tenant is referenced by a property or payments")
	ErrPropertyInUse = errors.New("property is referenced by payments")
)

type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	// Tenants
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	SaveTenant(ctx context.Context, tenant *models.Tenant) error
	DeleteTenant(ctx context.Context, id uint) error

	// Properties
	CreateProperty(ctx context.Context, property *models.Property) error
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	ListProperties(ctx context.Context) ([]models.Property, error)
	SaveProperty(ctx context.Context, property *models.Property) error
	DeleteProperty(ctx context.Context, id uint) error

	// Payments
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
	DeletePayment(ctx context.Context, id uint) error
	PaymentsByProperty(ctx context.Context, propertyID uint) ([]models.Payment, error)
	UnpaidPayments(ctx context.Context) ([]models.Payment, error)
	PaymentsByDate(ctx context.Context, year, month int) ([]models.Payment, error)
	SumUnpaidRent(ctx context.Context, propertyID uint) (float64, error)

	// Transaction runs fn against a Storage bound to a single database
	// transaction, rolling back when fn returns an error.
	Transaction(ctx context.Context, fn func(Storage) error) error
}

type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(dsn string) (*GormStorage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tenant{},
		&models.Property{},
		&models.Payment{},
	); err != nil {
		return nil, err
	}

	return &GormStorage{db: db}, nil
}

// NewGormStorageWithDB wraps an already opened gorm connection. Used by
// tests running against in-memory SQLite.
func NewGormStorageWithDB(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tenant{},
		&models.Property{},
		&models.Payment{},
	); err != nil {
		return nil, err
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Transaction(ctx context.Context, fn func(Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStorage{db: tx})
	})
}

// Users

func (s *GormStorage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStorage) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *GormStorage) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Tenants

func (s *GormStorage) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	return s.db.WithContext(ctx).Create(tenant).Error
}

func (s *GormStorage) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (s *GormStorage) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := s.db.WithContext(ctx).Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (s *GormStorage) SaveTenant(ctx context.Context, tenant *models.Tenant) error {
	return s.db.WithContext(ctx).Save(tenant).Error
}

func (s *GormStorage) DeleteTenant(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("tenant_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTenantInUse
	}
	if err := s.db.WithContext(ctx).Model(&models.Property{}).
		Where("tenant_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTenantInUse
	}

	res := s.db.WithContext(ctx).Delete(&models.Tenant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// Properties

func (s *GormStorage) CreateProperty(ctx context.Context, property *models.Property) error {
	return s.db.WithContext(ctx).Create(property).Error
}

func (s *GormStorage) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (s *GormStorage) ListProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	if err := s.db.WithContext(ctx).Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *GormStorage) SaveProperty(ctx context.Context, property *models.Property) error {
	return s.db.WithContext(ctx).Save(property).Error
}

func (s *GormStorage) DeleteProperty(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("property_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPropertyInUse
	}

	res := s.db.WithContext(ctx).Delete(&models.Property{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Payments

func (s *GormStorage) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *GormStorage) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.WithContext(ctx).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *GormStorage) SavePayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Save(payment).Error
}

func (s *GormStorage) DeletePayment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (s *GormStorage) PaymentsByProperty(ctx context.Context, propertyID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *GormStorage) UnpaidPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.WithContext(ctx).
		Where("paid = ?", false).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *GormStorage) PaymentsByDate(ctx context.Context, year, month int) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *GormStorage) SumUnpaidRent(ctx context.Context, propertyID uint) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("property_id = ? AND paid = ?", propertyID, false).
		Select("COALESCE(SUM(rent_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}
