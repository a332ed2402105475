package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCheckoutRoutes sets up the checkout cart routes. Carts are addressed
// by token; only the saved-address listing requires a logged-in user.
func RegisterCheckoutRoutes(r gin.IRouter, cc *controllers.CheckoutController) {
	checkout := r.Group("/checkout")

	checkout.POST("", cc.CreateCart)
	checkout.GET("/addresses", middleware.RequireUser(), cc.GetAddressChoices)

	checkout.GET("/:token", cc.GetCart)
	checkout.DELETE("/:token", cc.DeleteCart)
	checkout.GET("/:token/shipping-methods", cc.GetShippingMethods)
	checkout.PUT("/:token/shipping-method", cc.SelectShippingMethod)
	checkout.PUT("/:token/shipping-address", cc.SelectShippingAddress)
	checkout.PUT("/:token/email", cc.SetEmail)
}

// RegisterGraphQLRoutes mounts the GraphQL handler. Permission checks happen per field.
func RegisterGraphQLRoutes(r gin.IRouter, h http.Handler) {
	r.POST("/graphql", gin.WrapH(h))
}
