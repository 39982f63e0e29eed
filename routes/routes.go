package routes

import (
	"sewago/cart"
	"sewago/esewa"
	"sewago/middleware"
	"sewago/orders"
	"sewago/products"
	"sewago/ratelim"
	"sewago/receipts"

	"github.com/julienschmidt/httprouter"
)

func AddProductRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/v1/products", rateLimiter.Limit(products.ListProducts))
	router.GET("/api/v1/products/:productid", rateLimiter.Limit(products.GetProduct))
	router.POST("/api/v1/products/:productid/quote",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(products.QuoteProduct))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, agg *cart.Aggregator) {
	auth := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/v1/cart", auth(cart.GetCart(agg)))
	router.POST("/api/v1/cart", auth(cart.AddToCart))
	router.PUT("/api/v1/cart/:productid", auth(cart.UpdateCartItem))
	router.DELETE("/api/v1/cart/:productid", auth(cart.DeleteCartItem))
	router.DELETE("/api/v1/cart", auth(cart.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, agg *cart.Aggregator, flow *orders.StatusFlow) {
	auth := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.POST("/api/v1/checkout/cash-on-delivery", auth(orders.CashOnDelivery(agg)))
	router.GET("/api/v1/orders", auth(orders.GetUserOrders))
	router.GET("/api/v1/admin/orders",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("worker", "admin"))(orders.GetAllOrders))
	router.PUT("/api/v1/orders/:orderid/status", auth(orders.UpdateOrderStatus(flow)))
	router.GET("/api/v1/orders/:orderid/receipt", auth(receipts.PrintReceipt))

	// Live order updates
	router.GET("/ws/orders/:orderid", orders.HandleOrderWS)
}

func AddPaymentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, agg *cart.Aggregator, client *esewa.Client, flow *orders.StatusFlow) {
	auth := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.POST("/api/v1/checkout/esewa", auth(esewa.InitiatePayment(agg, client)))
	router.POST("/api/v1/payments/status", auth(esewa.PaymentStatus(client)))
	router.GET("/api/v1/payments/transactions", auth(esewa.GetUserTransactions))
	router.GET("/api/v1/admin/transactions",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("worker", "admin"))(esewa.GetAllTransactions))
	router.PUT("/api/v1/payments/transactions/:orderid/status", auth(esewa.UpdateTransactionStatus(flow)))
}
