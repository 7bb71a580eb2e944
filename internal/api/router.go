package api

import (
	"log"
	"net/http"

	"github.com/example/oms-backend/internal/api/middleware"
	"github.com/example/oms-backend/internal/auth"
	"github.com/example/oms-backend/internal/domain/user"
)

func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.AuthMiddleware(jwtService)
	staffOrAdmin := middleware.RequireRole(user.RoleStaff, user.RoleAdmin)
	customerOrAdmin := middleware.RequireRole(user.RoleCustomer, user.RoleAdmin)

	// Health
	mux.HandleFunc("GET /healthyz", handlers.Healthyz)

	// Auth
	mux.HandleFunc("POST /user/signup", authHandlers.Signup)
	mux.HandleFunc("POST /user/signin", authHandlers.Signin)
	mux.Handle("GET /user/test", authed(http.HandlerFunc(authHandlers.Me)))

	// Products
	mux.Handle("POST /product/list-product",
		authed(staffOrAdmin(http.HandlerFunc(handlers.CreateProduct))))
	// Catalog browsing is open to any signed-in account; only the
	// mutating product routes carry the staff/admin restriction.
	mux.Handle("GET /product/all-products",
		authed(http.HandlerFunc(handlers.GetAllProducts)))
	mux.Handle("PATCH /product/update_details/{productID}",
		authed(staffOrAdmin(http.HandlerFunc(handlers.UpdateProduct))))
	mux.Handle("DELETE /product/remove_product/{productID}",
		authed(staffOrAdmin(http.HandlerFunc(handlers.DeleteProduct))))
	mux.Handle("POST /product/restock/{productID}",
		authed(staffOrAdmin(http.HandlerFunc(handlers.RestockProduct))))

	// Orders
	mux.Handle("POST /order/product-placed-payment-pending/{productID}",
		authed(customerOrAdmin(http.HandlerFunc(handlers.PlaceOrder))))
	mux.Handle("PATCH /order/product-placed-payment-paid/{orderID}",
		authed(customerOrAdmin(http.HandlerFunc(handlers.MarkOrderPaid))))
	mux.Handle("PATCH /order/product-picked-payment-fulfilled/{orderID}",
		authed(staffOrAdmin(http.HandlerFunc(handlers.PickOrder))))
	mux.Handle("PATCH /order/product-shipped-payment-fulfilled/{orderID}",
		authed(staffOrAdmin(http.HandlerFunc(handlers.ShipOrder))))
	mux.Handle("PATCH /order/cancel-order/{orderID}/{productID}",
		authed(customerOrAdmin(http.HandlerFunc(handlers.CancelOrder))))
	mux.Handle("GET /order/my-orders",
		authed(http.HandlerFunc(handlers.GetMyOrders)))
	mux.Handle("GET /order/all-orders",
		authed(staffOrAdmin(http.HandlerFunc(handlers.GetAllOrders))))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
