package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-service/controllers"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- mock implementing services.CheckoutService ----

type mockCheckoutSvc struct {
	cart        *models.Cart
	err         *services.ServiceError
	form        *models.ShippingMethodForm
	addressForm *models.AddressChoiceForm

	gotUserID    *uuid.UUID
	gotAddress   *models.SelectShippingAddressRequest
	gotEmail     string
	gotCartOwner string
	gotDeleted   string
}

func (m *mockCheckoutSvc) CreateCart(_ context.Context, userID string) (*models.Cart, *services.ServiceError) {
	m.gotCartOwner = userID
	return m.cart, m.err
}
func (m *mockCheckoutSvc) GetCart(_ context.Context, _ string) (*models.Cart, *services.ServiceError) {
	return m.cart, m.err
}
func (m *mockCheckoutSvc) ShippingMethodForm(_ context.Context, _ string) (*models.ShippingMethodForm, *services.ServiceError) {
	return m.form, m.err
}
func (m *mockCheckoutSvc) SelectShippingMethod(_ context.Context, _ string, _ *models.SelectShippingMethodRequest) (*models.Cart, *services.ServiceError) {
	return m.cart, m.err
}
func (m *mockCheckoutSvc) AddressChoices(_ context.Context, userID uuid.UUID) (*models.AddressChoiceForm, *services.ServiceError) {
	m.gotUserID = &userID
	return m.addressForm, m.err
}
func (m *mockCheckoutSvc) SelectShippingAddress(_ context.Context, _ string, userID *uuid.UUID, req *models.SelectShippingAddressRequest) (*models.Cart, *services.ServiceError) {
	m.gotUserID = userID
	m.gotAddress = req
	return m.cart, m.err
}
func (m *mockCheckoutSvc) DeleteCart(_ context.Context, token string) *services.ServiceError {
	m.gotDeleted = token
	return m.err
}
func (m *mockCheckoutSvc) SetEmail(_ context.Context, _ string, req *models.ShippingEmailRequest) (*models.Cart, *services.ServiceError) {
	m.gotEmail = req.Email
	return m.cart, m.err
}

// ---- helpers ----

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(svc services.CheckoutService) *gin.Engine {
	c := controllers.NewCheckoutController(svc)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(nil, true))
	r.POST("/checkout", c.CreateCart)
	r.GET("/checkout/addresses", middleware.RequireUser(), c.GetAddressChoices)
	r.GET("/checkout/:token/shipping-methods", c.GetShippingMethods)
	r.PUT("/checkout/:token/shipping-method", c.SelectShippingMethod)
	r.PUT("/checkout/:token/shipping-address", c.SelectShippingAddress)
	r.PUT("/checkout/:token/email", c.SetEmail)
	r.DELETE("/checkout/:token", c.DeleteCart)
	return r
}

func do(r *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ---- tests ----

func TestCreateCart(t *testing.T) {
	svc := &mockCheckoutSvc{cart: &models.Cart{Token: "tok"}}
	w := do(newRouter(svc), http.MethodPost, "/checkout", "user-7", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tok", decode(t, w)["token"])
	assert.Equal(t, "user-7", svc.gotCartOwner)
}

func TestGetShippingMethods(t *testing.T) {
	initial := "m1"
	svc := &mockCheckoutSvc{form: &models.ShippingMethodForm{
		Choices: []models.ShippingMethodChoice{{Value: "m1", Label: "DHL USD 10.00", Price: "10.00"}},
		Initial: &initial,
	}}
	w := do(newRouter(svc), http.MethodGet, "/checkout/tok/shipping-methods", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "m1", body["initial"])
	assert.Equal(t, false, body["allow_empty"])
	assert.Len(t, body["choices"], 1)
}

func TestGetShippingMethods_CartNotFound(t *testing.T) {
	svc := &mockCheckoutSvc{err: &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Cart not found"}}
	w := do(newRouter(svc), http.MethodGet, "/checkout/nope/shipping-methods", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart not found", decode(t, w)["error"])
}

func TestSelectShippingMethod_FieldErrors(t *testing.T) {
	svc := &mockCheckoutSvc{err: &services.ServiceError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request",
		Fields:     map[string][]string{"shipping_method": {"This field is required."}},
	}}
	w := do(newRouter(svc), http.MethodPut, "/checkout/tok/shipping-method", "", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"This field is required."}, errs["shipping_method"])
}

func TestGetAddressChoices(t *testing.T) {
	userID := uuid.New()
	svc := &mockCheckoutSvc{addressForm: &models.AddressChoiceForm{
		Choices: []models.AddressChoice{{Value: models.NewAddressChoice, Label: "Enter a new address"}},
		Initial: models.NewAddressChoice,
	}}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/checkout/addresses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/checkout/addresses", userID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.NewAddressChoice, decode(t, w)["initial"])
	require.NotNil(t, svc.gotUserID)
	assert.Equal(t, userID, *svc.gotUserID)
}

func TestSelectShippingAddress_NewAddressValidation(t *testing.T) {
	svc := &mockCheckoutSvc{cart: &models.Cart{Token: "tok"}}
	w := do(newRouter(svc), http.MethodPut, "/checkout/tok/shipping-address", "", map[string]interface{}{
		"address": models.NewAddressChoice,
		"new_address": map[string]string{
			"first_name":       "Jan",
			"last_name":        "Kowalski",
			"street_address_1": "Tęczowa 7",
			"city":             "Wrocław",
			"postal_code":      "53-601",
			"country":          "XX",
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Select a valid country."}, errs["new_address.country"])
	assert.Nil(t, svc.gotAddress)
}

func TestSelectShippingAddress_Valid(t *testing.T) {
	userID := uuid.New()
	svc := &mockCheckoutSvc{cart: &models.Cart{Token: "tok"}}
	w := do(newRouter(svc), http.MethodPut, "/checkout/tok/shipping-address", userID.String(), map[string]interface{}{
		"address": models.NewAddressChoice,
		"new_address": map[string]string{
			"first_name":       "Jan",
			"last_name":        "Kowalski",
			"street_address_1": "Tęczowa 7",
			"city":             "Wrocław",
			"postal_code":      "53-601",
			"country":          "pl",
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotAddress)
	assert.Equal(t, "PL", svc.gotAddress.NewAddress.ToAddress().Country)
	assert.Equal(t, userID, *svc.gotUserID)
}

func TestSelectShippingAddress_MissingChoice(t *testing.T) {
	svc := &mockCheckoutSvc{}
	w := do(newRouter(svc), http.MethodPut, "/checkout/tok/shipping-address", "", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"This field is required."}, errs["address"])
}

func TestSetEmail(t *testing.T) {
	svc := &mockCheckoutSvc{cart: &models.Cart{Token: "tok"}}
	r := newRouter(svc)

	w := do(r, http.MethodPut, "/checkout/tok/email", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Enter a valid email address."}, errs["email"])

	w = do(r, http.MethodPut, "/checkout/tok/email", "", map[string]string{"email": "guest@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest@example.com", svc.gotEmail)
}

func TestDeleteCart(t *testing.T) {
	svc := &mockCheckoutSvc{}
	w := do(newRouter(svc), http.MethodDelete, "/checkout/tok", "", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "tok", svc.gotDeleted)
}

func TestDeleteCart_NotFound(t *testing.T) {
	svc := &mockCheckoutSvc{err: &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Cart not found"}}
	w := do(newRouter(svc), http.MethodDelete, "/checkout/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart not found", decode(t, w)["error"])
}
