package api

import (
	"database/sql"
	"net/http"

	"github.com/anovak/pharmstock/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	businessesHandler := &BusinessesHandler{DB: db}
	suppliersHandler := &SuppliersHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}
	batchesHandler := &BatchesHandler{DB: db}
	transfersHandler := &TransfersHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	outlet := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireOutlet(h))
	}
	outletManager := func(h http.HandlerFunc) http.Handler {
		return authMW(requireManager(RequireOutlet(h)))
	}

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Businesses and outlets (admin only for writes).
	mux.Handle("GET /api/businesses", authMW(http.HandlerFunc(businessesHandler.List)))
	mux.Handle("POST /api/businesses", authMW(requireAdmin(http.HandlerFunc(businessesHandler.Create))))
	mux.Handle("GET /api/businesses/{id}", authMW(http.HandlerFunc(businessesHandler.Get)))
	mux.Handle("DELETE /api/businesses/{id}", authMW(requireAdmin(http.HandlerFunc(businessesHandler.Delete))))
	mux.Handle("GET /api/businesses/{id}/outlets", authMW(http.HandlerFunc(businessesHandler.ListOutlets)))
	mux.Handle("POST /api/businesses/{id}/outlets", authMW(requireAdmin(http.HandlerFunc(businessesHandler.CreateOutlet))))
	mux.Handle("GET /api/outlets/{id}", authMW(http.HandlerFunc(businessesHandler.GetOutlet)))
	mux.Handle("PUT /api/outlets/{id}", authMW(requireAdmin(http.HandlerFunc(businessesHandler.UpdateOutlet))))
	mux.Handle("DELETE /api/outlets/{id}", authMW(requireAdmin(http.HandlerFunc(businessesHandler.DeleteOutlet))))

	// Suppliers: read (all roles), write (manager+). Scoped to the
	// caller's business, so a business assignment is required.
	mux.Handle("GET /api/suppliers", outlet(suppliersHandler.List))
	mux.Handle("POST /api/suppliers", outletManager(suppliersHandler.Create))
	mux.Handle("GET /api/suppliers/{id}", outlet(suppliersHandler.Get))
	mux.Handle("PUT /api/suppliers/{id}", outletManager(suppliersHandler.Update))
	mux.Handle("DELETE /api/suppliers/{id}", outletManager(suppliersHandler.Delete))

	// Products: read (all roles), write (manager+).
	mux.Handle("GET /api/products", outlet(productsHandler.List))
	mux.Handle("POST /api/products", outletManager(productsHandler.Create))
	mux.Handle("GET /api/products/{id}", outlet(productsHandler.Get))
	mux.Handle("PUT /api/products/{id}", outletManager(productsHandler.Update))
	mux.Handle("DELETE /api/products/{id}", outletManager(productsHandler.Delete))
	mux.Handle("PUT /api/products/{id}/image", outletManager(productsHandler.UploadImage))
	mux.Handle("GET /api/products/{id}/image", outlet(productsHandler.GetImage))

	// Product batches: read (all roles), write (manager+).
	mux.Handle("POST /api/batches", outletManager(batchesHandler.Create))
	mux.Handle("GET /api/batches/{id}", outlet(batchesHandler.Get))
	mux.Handle("POST /api/batches/{id}/adjust", outletManager(batchesHandler.Adjust))
	mux.Handle("GET /api/outlets/{id}/batches", outlet(batchesHandler.List))

	// Stock transfers (all roles with an outlet assignment).
	mux.Handle("POST /api/transfers", outlet(transfersHandler.Create))
	mux.Handle("GET /api/transfers", outlet(transfersHandler.List))
	mux.Handle("GET /api/transfers/{id}", outlet(transfersHandler.Get))
	mux.Handle("PUT /api/transfers/{id}", outlet(transfersHandler.Edit))
	mux.Handle("DELETE /api/transfers/{id}", outlet(transfersHandler.Delete))
	mux.Handle("POST /api/transfers/{id}/send", outlet(transfersHandler.Send))
	mux.Handle("POST /api/transfers/{id}/query", outlet(transfersHandler.Query))
	mux.Handle("POST /api/transfers/{id}/approve", outlet(transfersHandler.Approve))
	mux.Handle("GET /api/transfers/{id}/aggregate", outlet(transfersHandler.Aggregate))
	mux.Handle("POST /api/transfers/{id}/batches", outlet(transfersHandler.AddBatch))
	mux.Handle("DELETE /api/transfers/{id}/batches", outlet(transfersHandler.DeleteBatches))
	mux.Handle("PUT /api/transfer-batches/{id}", outlet(transfersHandler.EditBatch))
	mux.Handle("DELETE /api/transfer-batches/{id}", outlet(transfersHandler.DeleteBatch))

	return mux
}
