package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a customer account.
type User struct {
	ID                       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email                    string     `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName                string     `gorm:"type:varchar(256)" json:"first_name"`
	LastName                 string     `gorm:"type:varchar(256)" json:"last_name"`
	IsActive                 bool       `gorm:"not null;default:true" json:"is_active"`
	DefaultBillingAddressID  *uuid.UUID `gorm:"type:uuid" json:"default_billing_address_id,omitempty"`
	DefaultShippingAddressID *uuid.UUID `gorm:"type:uuid" json:"default_shipping_address_id,omitempty"`
	CreatedAt                time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Order status constants.
const (
	OrderStatusUnconfirmed = "unconfirmed"
	OrderStatusUnfulfilled = "unfulfilled"
	OrderStatusFulfilled   = "fulfilled"
	OrderStatusCanceled    = "canceled"
)

// Order aggregates a user, addresses and a tax-split total.
type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Token             string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	ChannelID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"channel_id"`
	UserID            *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	BillingAddressID  *uuid.UUID      `gorm:"type:uuid" json:"billing_address_id,omitempty"`
	ShippingAddressID *uuid.UUID      `gorm:"type:uuid" json:"shipping_address_id,omitempty"`
	Status            string          `gorm:"type:varchar(32);not null;default:'unfulfilled'" json:"status"`
	TotalNetAmount    decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"total_net_amount"`
	TotalGrossAmount  decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"total_gross_amount"`
	Currency          string          `gorm:"type:varchar(3);not null" json:"currency"`
	Payments          []Payment       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	Events            []OrderEvent    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Payment charge statuses.
const (
	ChargeStatusNotCharged        = "not-charged"
	ChargeStatusPartiallyCharged  = "partially-charged"
	ChargeStatusFullyCharged      = "fully-charged"
	ChargeStatusPartiallyRefunded = "partially-refunded"
	ChargeStatusFullyRefunded     = "fully-refunded"
	ChargeStatusRefused           = "refused"
	ChargeStatusCancelled         = "cancelled"
)

// ChargeStatuses lists every payment charge status.
var ChargeStatuses = []string{
	ChargeStatusNotCharged,
	ChargeStatusPartiallyCharged,
	ChargeStatusFullyCharged,
	ChargeStatusPartiallyRefunded,
	ChargeStatusFullyRefunded,
	ChargeStatusRefused,
	ChargeStatusCancelled,
}

// Payment is one payment attempt against an order.
type Payment struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Gateway      string          `gorm:"type:varchar(255);not null" json:"gateway"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	ChargeStatus string          `gorm:"type:varchar(20);not null;default:'not-charged'" json:"charge_status"`
	Total        decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"total"`
	Currency     string          `gorm:"type:varchar(3);not null" json:"currency"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Order event types.
const (
	OrderEventDraftCreated       = "draft_created"
	OrderEventPlaced             = "placed"
	OrderEventConfirmed          = "confirmed"
	OrderEventMarkedAsPaid       = "order_marked_as_paid"
	OrderEventCanceled           = "canceled"
	OrderEventNoteAdded          = "note_added"
	OrderEventEmailSent          = "email_sent"
	OrderEventPaymentCaptured    = "payment_captured"
	OrderEventPaymentRefunded    = "payment_refunded"
	OrderEventPaymentVoided      = "payment_voided"
	OrderEventFulfillmentCreated = "fulfillment_fulfilled_items"
	OrderEventTrackingUpdated    = "tracking_updated"
	OrderEventOther              = "other"
)

// OrderEventTypes lists every order event type.
var OrderEventTypes = []string{
	OrderEventDraftCreated,
	OrderEventPlaced,
	OrderEventConfirmed,
	OrderEventMarkedAsPaid,
	OrderEventCanceled,
	OrderEventNoteAdded,
	OrderEventEmailSent,
	OrderEventPaymentCaptured,
	OrderEventPaymentRefunded,
	OrderEventPaymentVoided,
	OrderEventFulfillmentCreated,
	OrderEventTrackingUpdated,
	OrderEventOther,
}

// OrderEvent records something that happened to an order.
type OrderEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Type      string    `gorm:"type:varchar(255);not null" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
