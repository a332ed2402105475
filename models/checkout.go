package models

import (
	"time"

	"github.com/google/uuid"
)

// NewAddressChoice is the sentinel value for entering a new address instead of a saved one.
const NewAddressChoice = "new_address"

// Cart is the checkout state kept in Redis.
type Cart struct {
	Token                   string     `json:"token"`
	UserID                  string     `json:"user_id,omitempty"`
	Email                   string     `json:"email,omitempty"`
	ShippingAddress         *Address   `json:"shipping_address,omitempty"`
	ShippingMethodCountryID *uuid.UUID `json:"shipping_method_country_id,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// CountryCode returns the shipping address country, or "" when none is set.
func (c *Cart) CountryCode() string {
	if c.ShippingAddress == nil {
		return ""
	}
	return c.ShippingAddress.Country
}

// ShippingMethodChoice is one radio option of the shipping method form.
type ShippingMethodChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Price string `json:"price"`
}

// ShippingMethodForm describes the shipping method radio group for a cart.
type ShippingMethodForm struct {
	Choices    []ShippingMethodChoice `json:"choices"`
	Initial    *string                `json:"initial"`
	AllowEmpty bool                   `json:"allow_empty"`
}

// SelectShippingMethodRequest is the payload for choosing a shipping method.
type SelectShippingMethodRequest struct {
	ShippingMethod string `json:"shipping_method"`
}

// AddressChoice is one option of the address choice form.
type AddressChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AddressChoiceForm lists a user's saved addresses plus the new-address sentinel.
type AddressChoiceForm struct {
	Choices []AddressChoice `json:"choices"`
	Initial string          `json:"initial"`
}

// SelectShippingAddressRequest is the payload for choosing the cart's shipping address.
type SelectShippingAddressRequest struct {
	Address    string        `json:"address" binding:"required"`
	NewAddress *AddressInput `json:"new_address"`
}

// ShippingEmailRequest is the extra shipping information asked of anonymous users.
type ShippingEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}
