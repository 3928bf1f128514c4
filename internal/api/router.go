package api

import (
	"database/sql"
	"net/http"

	"github.com/are3ej/heavytrade/internal/catalog"
	"github.com/are3ej/heavytrade/internal/docstore"
	"github.com/are3ej/heavytrade/internal/equipment"
	"github.com/are3ej/heavytrade/internal/feed"
)

// Deps collects the collaborators the router wires into handlers.
type Deps struct {
	DB        *sql.DB
	Docs      docstore.Store
	Repo      *equipment.Repository
	Catalog   *catalog.ViewModel
	Feed      *feed.Client
	JWTSecret string
	PageSize  int
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret}
	equipmentHandler := &EquipmentHandler{Repo: d.Repo}
	catalogHandler := &CatalogHandler{VM: d.Catalog, Feed: d.Feed, PageSize: d.PageSize}
	contactHandler := &ContactHandler{Store: d.Docs}

	authMW := AuthMiddleware(d.JWTSecret)

	// Public: browsing, contact, login.
	mux.HandleFunc("GET /api/equipment", catalogHandler.List)
	mux.HandleFunc("GET /api/equipment/{id}", equipmentHandler.Get)
	mux.HandleFunc("GET /api/equipment/{id}/gallery", equipmentHandler.Gallery)
	mux.HandleFunc("GET /api/sold", equipmentHandler.ListSold)
	mux.HandleFunc("GET /api/categories", catalogHandler.Categories)
	mux.HandleFunc("GET /api/placeholder", Placeholder)
	mux.HandleFunc("POST /api/contact", contactHandler.Submit)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Equipment lifecycle (authenticated).
	mux.Handle("POST /api/equipment", authMW(http.HandlerFunc(equipmentHandler.Create)))
	mux.Handle("PUT /api/equipment/{id}", authMW(http.HandlerFunc(equipmentHandler.Update)))
	mux.Handle("DELETE /api/equipment/{id}", authMW(http.HandlerFunc(equipmentHandler.Delete)))
	mux.Handle("POST /api/equipment/{id}/sell", authMW(http.HandlerFunc(equipmentHandler.Sell)))
	mux.Handle("POST /api/sold/{id}/return", authMW(http.HandlerFunc(equipmentHandler.Return)))

	return LoggingMiddleware(mux)
}
