package controllers

import (
	"net/http"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckoutController handles HTTP requests for checkout carts.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(svc services.CheckoutService) *CheckoutController {
	RegisterValidators()
	return &CheckoutController{checkoutService: svc}
}

// CreateCart handles POST /checkout
func (cc *CheckoutController) CreateCart(ctx *gin.Context) {
	userID := ""
	if p := middleware.GetPrincipal(ctx); p != nil {
		userID = p.UserID
	}
	cart, svcErr := cc.checkoutService.CreateCart(ctx.Request.Context(), userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"token": cart.Token})
}

// GetCart handles GET /checkout/:token
func (cc *CheckoutController) GetCart(ctx *gin.Context) {
	cart, svcErr := cc.checkoutService.GetCart(ctx.Request.Context(), ctx.Param("token"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetShippingMethods handles GET /checkout/:token/shipping-methods
func (cc *CheckoutController) GetShippingMethods(ctx *gin.Context) {
	form, svcErr := cc.checkoutService.ShippingMethodForm(ctx.Request.Context(), ctx.Param("token"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, form)
}

// SelectShippingMethod handles PUT /checkout/:token/shipping-method
func (cc *CheckoutController) SelectShippingMethod(ctx *gin.Context) {
	var req models.SelectShippingMethodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}
	cart, svcErr := cc.checkoutService.SelectShippingMethod(ctx.Request.Context(), ctx.Param("token"), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetAddressChoices handles GET /checkout/addresses
func (cc *CheckoutController) GetAddressChoices(ctx *gin.Context) {
	userID, ok := principalUUID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	form, svcErr := cc.checkoutService.AddressChoices(ctx.Request.Context(), userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, form)
}

// SelectShippingAddress handles PUT /checkout/:token/shipping-address
func (cc *CheckoutController) SelectShippingAddress(ctx *gin.Context) {
	var req models.SelectShippingAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}
	var userID *uuid.UUID
	if id, ok := principalUUID(ctx); ok {
		userID = &id
	}
	cart, svcErr := cc.checkoutService.SelectShippingAddress(ctx.Request.Context(), ctx.Param("token"), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// SetEmail handles PUT /checkout/:token/email
func (cc *CheckoutController) SetEmail(ctx *gin.Context) {
	var req models.ShippingEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}
	cart, svcErr := cc.checkoutService.SetEmail(ctx.Request.Context(), ctx.Param("token"), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// DeleteCart handles DELETE /checkout/:token
func (cc *CheckoutController) DeleteCart(ctx *gin.Context) {
	if svcErr := cc.checkoutService.DeleteCart(ctx.Request.Context(), ctx.Param("token")); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func principalUUID(ctx *gin.Context) (uuid.UUID, bool) {
	p := middleware.GetPrincipal(ctx)
	if p == nil || p.IsApp {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	if len(svcErr.Fields) > 0 {
		ctx.JSON(svcErr.StatusCode, gin.H{"errors": svcErr.Fields})
		return
	}
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}
