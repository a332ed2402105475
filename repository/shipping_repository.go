package repository

import (
	"context"
	"errors"

	"storefront-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingRepository defines read access to shipping zones, method prices and tax rates.
type ShippingRepository interface {
	FindZonesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ShippingZone, error)
	FindAllZones(ctx context.Context) ([]models.ShippingZone, error)
	// FindMethodCountries returns priced methods valid for countryCode, cheapest first.
	// An empty countryCode returns every record.
	FindMethodCountries(ctx context.Context, countryCode string) ([]models.ShippingMethodCountry, error)
	// FindTaxRate returns nil without error when the country has no tax context.
	FindTaxRate(ctx context.Context, countryCode string) (*models.CountryTaxRate, error)
}

// GormShippingRepository implements ShippingRepository using GORM.
type GormShippingRepository struct {
	db *gorm.DB
}

// NewGormShippingRepository creates a new GormShippingRepository.
func NewGormShippingRepository(db *gorm.DB) ShippingRepository {
	return &GormShippingRepository{db: db}
}

func (r *GormShippingRepository) FindZonesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	if len(ids) == 0 {
		return zones, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *GormShippingRepository) FindAllZones(ctx context.Context) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *GormShippingRepository) FindMethodCountries(ctx context.Context, countryCode string) ([]models.ShippingMethodCountry, error) {
	var records []models.ShippingMethodCountry
	query := r.db.WithContext(ctx).Preload("ShippingMethod")
	if countryCode != "" {
		query = query.Where("country_code IN ?", []string{countryCode, models.AnyCountry})
	}
	if err := query.Order("price ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GormShippingRepository) FindTaxRate(ctx context.Context, countryCode string) (*models.CountryTaxRate, error) {
	var rate models.CountryTaxRate
	err := r.db.WithContext(ctx).
		Where("country_code = ?", countryCode).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
