package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront-service/models"
	"storefront-service/pricing"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	newAddressLabel  = "Enter a new address"
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// CheckoutService defines the checkout business logic: carts, shipping
// addresses and shipping method selection.
type CheckoutService interface {
	CreateCart(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	GetCart(ctx context.Context, token string) (*models.Cart, *ServiceError)
	ShippingMethodForm(ctx context.Context, token string) (*models.ShippingMethodForm, *ServiceError)
	SelectShippingMethod(ctx context.Context, token string, req *models.SelectShippingMethodRequest) (*models.Cart, *ServiceError)
	AddressChoices(ctx context.Context, userID uuid.UUID) (*models.AddressChoiceForm, *ServiceError)
	SelectShippingAddress(ctx context.Context, token string, userID *uuid.UUID, req *models.SelectShippingAddressRequest) (*models.Cart, *ServiceError)
	SetEmail(ctx context.Context, token string, req *models.ShippingEmailRequest) (*models.Cart, *ServiceError)
	DeleteCart(ctx context.Context, token string) *ServiceError
}

type checkoutServiceImpl struct {
	carts     repository.CartRepository
	shipping  repository.ShippingRepository
	addresses repository.AddressRepository
	taxes     pricing.Settings
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	carts repository.CartRepository,
	shipping repository.ShippingRepository,
	addresses repository.AddressRepository,
	taxes pricing.Settings,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:     carts,
		shipping:  shipping,
		addresses: addresses,
		taxes:     taxes,
		logger:    logger,
	}
}

func (s *checkoutServiceImpl) CreateCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart := &models.Cart{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to create cart", zap.Error(err))
		return nil, internal("Failed to create cart")
	}
	return cart, nil
}

func (s *checkoutServiceImpl) GetCart(ctx context.Context, token string) (*models.Cart, *ServiceError) {
	cart, err := s.carts.Get(ctx, token)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("token", token), zap.Error(err))
		return nil, internal("Failed to load cart")
	}
	if cart == nil {
		return nil, notFound("Cart not found")
	}
	return cart, nil
}

// ShippingMethodForm lists the shipping methods available for the cart's
// destination, cheapest first, with tax-aware price labels.
func (s *checkoutServiceImpl) ShippingMethodForm(ctx context.Context, token string) (*models.ShippingMethodForm, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}
	return s.shippingMethodForm(ctx, cart)
}

func (s *checkoutServiceImpl) shippingMethodForm(ctx context.Context, cart *models.Cart) (*models.ShippingMethodForm, *ServiceError) {
	country := cart.CountryCode()

	records, err := s.shipping.FindMethodCountries(ctx, country)
	if err != nil {
		s.logger.Error("Failed to load shipping methods", zap.String("country", country), zap.Error(err))
		return nil, internal("Failed to load shipping methods")
	}

	var rates *pricing.TaxRates
	if country != "" {
		rate, err := s.shipping.FindTaxRate(ctx, country)
		if err != nil {
			s.logger.Error("Failed to load tax rates", zap.String("country", country), zap.Error(err))
			return nil, internal("Failed to load tax rates")
		}
		if rate != nil {
			rates = &pricing.TaxRates{Standard: rate.StandardRate, Reduced: rate.ReducedRates}
		}
	}

	form := &models.ShippingMethodForm{Choices: []models.ShippingMethodChoice{}}
	for _, r := range PreferCountrySpecific(records) {
		price := pricing.NewMoney(r.Price, r.Currency)
		display := s.taxes.Display(pricing.TaxedShippingPrice(price, rates, s.taxes.IncludeTaxesInPrices))
		form.Choices = append(form.Choices, models.ShippingMethodChoice{
			Value: r.ID.String(),
			Label: fmt.Sprintf("%s %s", r.MethodName(), pricing.Format(display)),
			Price: display.Amount.StringFixed(pricing.Scale(display.Currency)),
		})
	}

	if cart.ShippingMethodCountryID != nil {
		selected := cart.ShippingMethodCountryID.String()
		for _, c := range form.Choices {
			if c.Value == selected {
				form.Initial = &selected
				break
			}
		}
	}
	if form.Initial == nil && len(form.Choices) > 0 {
		first := form.Choices[0].Value
		form.Initial = &first
	}
	return form, nil
}

// PreferCountrySpecific keeps one record per shipping method, preferring a
// country-specific price over the any-country one, and orders the result by
// price. Records of equal price keep their input order.
func PreferCountrySpecific(records []models.ShippingMethodCountry) []models.ShippingMethodCountry {
	chosen := make(map[uuid.UUID]int, len(records))
	for i, r := range records {
		j, ok := chosen[r.ShippingMethodID]
		if !ok || (records[j].CountryCode == models.AnyCountry && r.CountryCode != models.AnyCountry) {
			chosen[r.ShippingMethodID] = i
		}
	}

	out := make([]models.ShippingMethodCountry, 0, len(chosen))
	for i, r := range records {
		if chosen[r.ShippingMethodID] == i {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Price.LessThan(out[b].Price) })
	return out
}

func (s *checkoutServiceImpl) SelectShippingMethod(ctx context.Context, token string, req *models.SelectShippingMethodRequest) (*models.Cart, *ServiceError) {
	if req.ShippingMethod == "" {
		return nil, fieldError("shipping_method", msgRequired)
	}

	cart, svcErr := s.GetCart(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}
	form, svcErr := s.shippingMethodForm(ctx, cart)
	if svcErr != nil {
		return nil, svcErr
	}

	var selected *uuid.UUID
	for _, c := range form.Choices {
		if c.Value == req.ShippingMethod {
			id := uuid.MustParse(c.Value)
			selected = &id
			break
		}
	}
	if selected == nil {
		return nil, fieldError("shipping_method", msgInvalidChoice)
	}

	cart.ShippingMethodCountryID = selected
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("token", token), zap.Error(err))
		return nil, internal("Failed to save cart")
	}
	s.logger.Info("Shipping method selected", zap.String("token", token), zap.String("shipping_method", selected.String()))
	return cart, nil
}

// AddressChoices offers the new-address sentinel followed by every saved address of the user.
func (s *checkoutServiceImpl) AddressChoices(ctx context.Context, userID uuid.UUID) (*models.AddressChoiceForm, *ServiceError) {
	addresses, err := s.addresses.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load addresses", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to load addresses")
	}

	form := &models.AddressChoiceForm{
		Choices: []models.AddressChoice{{Value: models.NewAddressChoice, Label: newAddressLabel}},
		Initial: models.NewAddressChoice,
	}
	for _, a := range addresses {
		form.Choices = append(form.Choices, models.AddressChoice{Value: a.ID.String(), Label: a.String()})
	}
	return form, nil
}

func (s *checkoutServiceImpl) SelectShippingAddress(ctx context.Context, token string, userID *uuid.UUID, req *models.SelectShippingAddressRequest) (*models.Cart, *ServiceError) {
	if req.Address == "" {
		return nil, fieldError("address", msgRequired)
	}

	cart, svcErr := s.GetCart(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}

	var address models.Address
	if req.Address == models.NewAddressChoice {
		if req.NewAddress == nil {
			return nil, fieldError("new_address", msgRequired)
		}
		address = req.NewAddress.ToAddress()
	} else {
		saved, svcErr := s.savedAddress(ctx, userID, req.Address)
		if svcErr != nil {
			return nil, svcErr
		}
		address = saved.Copy()
	}

	if cart.CountryCode() != address.Country {
		cart.ShippingMethodCountryID = nil
	}
	cart.ShippingAddress = &address
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("token", token), zap.Error(err))
		return nil, internal("Failed to save cart")
	}
	return cart, nil
}

func (s *checkoutServiceImpl) savedAddress(ctx context.Context, userID *uuid.UUID, value string) (*models.Address, *ServiceError) {
	if userID == nil {
		return nil, fieldError("address", msgInvalidChoice)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fieldError("address", msgInvalidChoice)
	}
	a, err := s.addresses.FindByIDForUser(ctx, id, *userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fieldError("address", msgInvalidChoice)
	}
	if err != nil {
		s.logger.Error("Failed to load address", zap.String("address_id", value), zap.Error(err))
		return nil, internal("Failed to load address")
	}
	return a, nil
}

func (s *checkoutServiceImpl) SetEmail(ctx context.Context, token string, req *models.ShippingEmailRequest) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}
	cart.Email = req.Email
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("token", token), zap.Error(err))
		return nil, internal("Failed to save cart")
	}
	return cart, nil
}

// DeleteCart discards an abandoned cart.
func (s *checkoutServiceImpl) DeleteCart(ctx context.Context, token string) *ServiceError {
	if _, svcErr := s.GetCart(ctx, token); svcErr != nil {
		return svcErr
	}
	if err := s.carts.Delete(ctx, token); err != nil {
		s.logger.Error("Failed to delete cart", zap.String("token", token), zap.Error(err))
		return internal("Failed to delete cart")
	}
	s.logger.Info("Cart deleted", zap.String("token", token))
	return nil
}
