package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are assigned before insert so rows do not depend on a
// gen_random_uuid() column default, which only Postgres provides.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Channel) BeforeCreate(*gorm.DB) error                      { ensureID(&c.ID); return nil }
func (z *ShippingZone) BeforeCreate(*gorm.DB) error                 { ensureID(&z.ID); return nil }
func (m *ShippingMethod) BeforeCreate(*gorm.DB) error               { ensureID(&m.ID); return nil }
func (s *ShippingMethodCountry) BeforeCreate(*gorm.DB) error        { ensureID(&s.ID); return nil }
func (l *ShippingMethodChannelListing) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }
func (a *Address) BeforeCreate(*gorm.DB) error                      { ensureID(&a.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error                         { ensureID(&u.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error                        { ensureID(&o.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error                      { ensureID(&p.ID); return nil }
func (e *OrderEvent) BeforeCreate(*gorm.DB) error                   { ensureID(&e.ID); return nil }
