package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a sales context scoping currency and available shipping zones.
type Channel struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(250);not null" json:"name"`
	Slug          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CurrencyCode  string         `gorm:"type:varchar(3);not null" json:"currency_code"`
	IsActive      bool           `gorm:"not null;default:false" json:"is_active"`
	ShippingZones []ShippingZone `gorm:"many2many:channel_shipping_zones;" json:"shipping_zones,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChannelShippingZone is the join row between channels and shipping zones.
type ChannelShippingZone struct {
	ChannelID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShippingZoneID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (ChannelShippingZone) TableName() string { return "channel_shipping_zones" }

// ShippingZoneIDs returns the ids of the zones currently loaded on the channel.
func (c *Channel) ShippingZoneIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.ShippingZones))
	for _, z := range c.ShippingZones {
		ids = append(ids, z.ID)
	}
	return ids
}

// ChannelUpdatedEvent is published to SNS after a channel update commits.
type ChannelUpdatedEvent struct {
	EventType            string    `json:"event_type"`
	ChannelID            string    `json:"channel_id"`
	Name                 string    `json:"name"`
	Slug                 string    `json:"slug"`
	AddedShippingZones   []string  `json:"added_shipping_zones,omitempty"`
	RemovedShippingZones []string  `json:"removed_shipping_zones,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}
