package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnyCountry marks a ShippingMethodCountry that applies to every destination.
const AnyCountry = ""

// Shipping method types.
const (
	ShippingMethodTypePrice  = "price"
	ShippingMethodTypeWeight = "weight"
)

// ShippingZone is a geographic grouping of countries serviceable by one or more methods.
type ShippingZone struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string           `gorm:"type:varchar(100);not null" json:"name"`
	Countries       []string         `gorm:"type:text;serializer:json" json:"countries"`
	Default         bool             `gorm:"not null;default:false" json:"default"`
	ShippingMethods []ShippingMethod `gorm:"foreignKey:ShippingZoneID;constraint:OnDelete:CASCADE" json:"shipping_methods,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// ShippingMethod belongs to exactly one shipping zone.
type ShippingMethod struct {
	ID             uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string                  `gorm:"type:varchar(100);not null" json:"name"`
	Type           string                  `gorm:"type:varchar(30);not null;default:'price'" json:"type"`
	ShippingZoneID uuid.UUID               `gorm:"type:uuid;not null;index" json:"shipping_zone_id"`
	CountryPrices  []ShippingMethodCountry `gorm:"foreignKey:ShippingMethodID;constraint:OnDelete:CASCADE" json:"country_prices,omitempty"`
	CreatedAt      time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

// ShippingMethodCountry prices a shipping method for one destination country.
type ShippingMethodCountry struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShippingMethodID uuid.UUID       `gorm:"type:uuid;not null;index" json:"shipping_method_id"`
	ShippingMethod   *ShippingMethod `gorm:"foreignKey:ShippingMethodID" json:"shipping_method,omitempty"`
	CountryCode      string          `gorm:"type:varchar(2);not null;default:'';index" json:"country_code"`
	Price            decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`
	Currency         string          `gorm:"type:varchar(3);not null" json:"currency"`
}

// MethodName is the display name of the priced method, or empty when it was not loaded.
func (s *ShippingMethodCountry) MethodName() string {
	if s.ShippingMethod == nil {
		return ""
	}
	return s.ShippingMethod.Name
}

// ShippingMethodChannelListing makes a shipping method available in a channel.
type ShippingMethodChannelListing struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShippingMethodID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_method_channel" json:"shipping_method_id"`
	ChannelID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_method_channel" json:"channel_id"`
	Price            decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`
	Currency         string          `gorm:"type:varchar(3);not null" json:"currency"`
}

// CountryTaxRate is the tax context used when pricing a checkout for a country.
// Rates are percentages.
type CountryTaxRate struct {
	CountryCode  string                     `gorm:"type:varchar(2);primaryKey" json:"country_code"`
	StandardRate decimal.Decimal            `gorm:"type:numeric(5,2);not null" json:"standard_rate"`
	ReducedRates map[string]decimal.Decimal `gorm:"type:text;serializer:json" json:"reduced_rates,omitempty"`
	UpdatedAt    time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`
}
