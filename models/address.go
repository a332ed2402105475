package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is a postal address. Saved addresses carry the owner's UserID; copies
// attached to users and orders do not.
type Address struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FirstName      string     `gorm:"type:varchar(256)" json:"first_name"`
	LastName       string     `gorm:"type:varchar(256)" json:"last_name"`
	CompanyName    string     `gorm:"type:varchar(256)" json:"company_name,omitempty"`
	StreetAddress1 string     `gorm:"type:varchar(256)" json:"street_address_1"`
	StreetAddress2 string     `gorm:"type:varchar(256)" json:"street_address_2,omitempty"`
	City           string     `gorm:"type:varchar(256)" json:"city"`
	PostalCode     string     `gorm:"type:varchar(20)" json:"postal_code"`
	Country        string     `gorm:"type:varchar(2);not null" json:"country"` // ISO 3166-1 alpha-2
	Phone          string     `gorm:"type:varchar(32)" json:"phone,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// String is the human label used when offering the address as a choice.
func (a Address) String() string {
	name := a.FullName()
	if a.CompanyName != "" {
		name = a.CompanyName + " - " + name
	}
	parts := []string{}
	for _, p := range []string{name, a.StreetAddress1, strings.TrimSpace(a.PostalCode + " " + a.City), a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Copy returns an unsaved, ownerless copy of the address.
func (a Address) Copy() Address {
	c := a
	c.ID = uuid.Nil
	c.UserID = nil
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// AddressInput is the payload for entering a new address at checkout.
type AddressInput struct {
	FirstName      string `json:"first_name" binding:"required,max=256"`
	LastName       string `json:"last_name" binding:"required,max=256"`
	CompanyName    string `json:"company_name" binding:"max=256"`
	StreetAddress1 string `json:"street_address_1" binding:"required,max=256"`
	StreetAddress2 string `json:"street_address_2" binding:"max=256"`
	City           string `json:"city" binding:"required,max=256"`
	PostalCode     string `json:"postal_code" binding:"required,max=20"`
	Country        string `json:"country" binding:"required,iso_country"`
	Phone          string `json:"phone" binding:"max=32"`
}

// ToAddress converts the payload into an unsaved address.
func (in AddressInput) ToAddress() Address {
	return Address{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		CompanyName:    in.CompanyName,
		StreetAddress1: in.StreetAddress1,
		StreetAddress2: in.StreetAddress2,
		City:           in.City,
		PostalCode:     in.PostalCode,
		Country:        strings.ToUpper(in.Country),
		Phone:          in.Phone,
	}
}
