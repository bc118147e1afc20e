package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/almoxarifado/internal/auth"
)

// NewRouter creates the API router with all endpoints registered. With a
// nil gate every endpoint is open; otherwise all but login need a session.
func NewRouter(db *sql.DB, gate *auth.Gate) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	withdrawalsHandler := &WithdrawalsHandler{DB: db}
	summaryHandler := &SummaryHandler{DB: db}
	preferencesHandler := &PreferencesHandler{DB: db}

	protect := func(h http.HandlerFunc) http.Handler { return h }
	if gate != nil {
		authHandler := &AuthHandler{Gate: gate}
		sessionMW := RequireSession(gate)
		protect = func(h http.HandlerFunc) http.Handler { return sessionMW(h) }

		mux.HandleFunc("POST /api/auth/login", authHandler.Login)
		mux.Handle("POST /api/auth/logout", protect(authHandler.Logout))
		mux.Handle("PUT /api/auth/password", protect(authHandler.ChangePassword))
	}

	// Items.
	mux.Handle("GET /api/items", protect(itemsHandler.List))
	mux.Handle("POST /api/items", protect(itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", protect(itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", protect(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", protect(itemsHandler.Delete))
	mux.Handle("GET /api/items/{id}/history", protect(itemsHandler.History))
	mux.Handle("GET /api/items/{id}/image", protect(itemsHandler.GetImage))
	mux.Handle("PUT /api/items/{id}/image", protect(itemsHandler.UploadImage))

	// Withdrawals.
	mux.Handle("GET /api/withdrawals", protect(withdrawalsHandler.List))
	mux.Handle("POST /api/withdrawals", protect(withdrawalsHandler.Create))
	mux.Handle("GET /api/withdrawals/{id}", protect(withdrawalsHandler.Get))
	mux.Handle("PUT /api/withdrawals/{id}", protect(withdrawalsHandler.Update))
	mux.Handle("DELETE /api/withdrawals/{id}", protect(withdrawalsHandler.Delete))
	mux.Handle("POST /api/withdrawals/{id}/return", protect(withdrawalsHandler.Return))

	// Summary, export and preferences.
	mux.Handle("GET /api/summary", protect(summaryHandler.Summary))
	mux.Handle("GET /api/export/{file}", protect(summaryHandler.Export))
	mux.Handle("GET /api/preferences", protect(preferencesHandler.Get))
	mux.Handle("PUT /api/preferences", protect(preferencesHandler.Update))

	return mux
}
