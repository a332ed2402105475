// Package benchmark builds fixed-shape order data for load-test harnesses.
package benchmark

import (
	"context"
	"fmt"
	"math/rand"

	"storefront-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderCount       = 10
	EventsPerOrder   = 5
	PaymentsPerOrder = 3

	DummyGateway = "mirumee.payments.dummy"
)

// Options controls the size of a generated data set.
type Options struct {
	Orders           int
	EventsPerOrder   int
	PaymentsPerOrder int
	Seed             int64
}

// DefaultOptions returns the standard benchmark shape.
func DefaultOptions() Options {
	return Options{
		Orders:           OrderCount,
		EventsPerOrder:   EventsPerOrder,
		PaymentsPerOrder: PaymentsPerOrder,
		Seed:             42,
	}
}

// DefaultAddress is the template copied onto every generated user and order.
func DefaultAddress() models.Address {
	return models.Address{
		FirstName:      "John",
		LastName:       "Doe",
		CompanyName:    "Mirumee Software",
		StreetAddress1: "Tęczowa 7",
		City:           "WROCŁAW",
		PostalCode:     "53-601",
		Country:        "PL",
		Phone:          "+48713988102",
	}
}

// Dataset is a generated batch. Every payment and event references an order
// of the same batch, and every order references its user.
type Dataset struct {
	Addresses []models.Address
	Users     []models.User
	Orders    []models.Order
	Payments  []models.Payment
	Events    []models.OrderEvent
}

// Generate builds the data set in memory. IDs are assigned here so rows can
// reference each other before anything is written.
func Generate(channel models.Channel, template models.Address, opts Options) *Dataset {
	rnd := rand.New(rand.NewSource(opts.Seed))
	ds := &Dataset{}

	addressCopy := func() uuid.UUID {
		a := template.Copy()
		a.ID = uuid.New()
		ds.Addresses = append(ds.Addresses, a)
		return a.ID
	}

	for i := 0; i < opts.Orders; i++ {
		billing, shipping := addressCopy(), addressCopy()
		ds.Users = append(ds.Users, models.User{
			ID:                       uuid.New(),
			Email:                    fmt.Sprintf("john.doe.%d@example.com", i),
			FirstName:                fmt.Sprintf("John_%d", i),
			LastName:                 fmt.Sprintf("Doe_%d", i),
			IsActive:                 true,
			DefaultBillingAddressID:  &billing,
			DefaultShippingAddressID: &shipping,
		})
	}

	for i := 0; i < opts.Orders; i++ {
		billing, shipping := addressCopy(), addressCopy()
		userID := ds.Users[i].ID
		total := decimal.NewFromInt(int64(i))
		ds.Orders = append(ds.Orders, models.Order{
			ID:                uuid.New(),
			Token:             uuid.NewString(),
			ChannelID:         channel.ID,
			UserID:            &userID,
			BillingAddressID:  &billing,
			ShippingAddressID: &shipping,
			Status:            models.OrderStatusUnfulfilled,
			TotalNetAmount:    total,
			TotalGrossAmount:  total,
			Currency:          channel.CurrencyCode,
		})
	}

	for _, order := range ds.Orders {
		for j := 0; j < opts.PaymentsPerOrder; j++ {
			ds.Payments = append(ds.Payments, models.Payment{
				ID:           uuid.New(),
				OrderID:      order.ID,
				Gateway:      DummyGateway,
				IsActive:     true,
				ChargeStatus: models.ChargeStatuses[rnd.Intn(len(models.ChargeStatuses))],
				Total:        order.TotalGrossAmount,
				Currency:     order.Currency,
			})
		}
		for j := 0; j < opts.EventsPerOrder; j++ {
			ds.Events = append(ds.Events, models.OrderEvent{
				ID:      uuid.New(),
				OrderID: order.ID,
				Type:    models.OrderEventTypes[rnd.Intn(len(models.OrderEventTypes))],
			})
		}
	}
	return ds
}

// Insert writes the data set in one transaction, parents first.
func Insert(ctx context.Context, db *gorm.DB, ds *Dataset) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ds.Addresses) > 0 {
			if err := tx.Create(&ds.Addresses).Error; err != nil {
				return fmt.Errorf("insert addresses: %w", err)
			}
		}
		if len(ds.Users) > 0 {
			if err := tx.Create(&ds.Users).Error; err != nil {
				return fmt.Errorf("insert users: %w", err)
			}
		}
		if len(ds.Orders) > 0 {
			if err := tx.Omit("Payments", "Events").Create(&ds.Orders).Error; err != nil {
				return fmt.Errorf("insert orders: %w", err)
			}
		}
		if len(ds.Payments) > 0 {
			if err := tx.Create(&ds.Payments).Error; err != nil {
				return fmt.Errorf("insert payments: %w", err)
			}
		}
		if len(ds.Events) > 0 {
			if err := tx.Create(&ds.Events).Error; err != nil {
				return fmt.Errorf("insert order events: %w", err)
			}
		}
		return nil
	})
}

// Build generates a data set for channel and stores it.
func Build(ctx context.Context, db *gorm.DB, channel models.Channel, template models.Address, opts Options) (*Dataset, error) {
	ds := Generate(channel, template, opts)
	if err := Insert(ctx, db, ds); err != nil {
		return nil, err
	}
	return ds, nil
}
