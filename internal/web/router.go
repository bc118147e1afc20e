package web

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/almoxarifado/internal/auth"
	webembed "github.com/erazemk/almoxarifado/web"
)

// NewRouter creates the web page router with all page routes registered.
// With a nil gate the pages are open and there is no login page.
func NewRouter(db *sql.DB, gate *auth.Gate) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Gate:      gate,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(gate)
	page := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	if gate != nil {
		mux.HandleFunc("GET /login", s.LoginPage)
		mux.HandleFunc("POST /login", s.LoginSubmit)
		mux.HandleFunc("POST /logout", s.Logout)
	}

	mux.Handle("GET /{$}", page(s.Dashboard))
	mux.Handle("POST /theme", page(s.ThemeToggle))
	mux.Handle("POST /preferences/threshold", page(s.ThresholdSubmit))

	mux.Handle("GET /stock", page(s.StockPage))
	mux.Handle("GET /tools", page(s.ToolsPage))
	mux.Handle("POST /items", page(s.ItemCreateSubmit))
	mux.Handle("GET /items/{id}", page(s.ItemDetailPage))
	mux.Handle("POST /items/{id}", page(s.ItemUpdateSubmit))
	mux.Handle("POST /items/{id}/delete", page(s.ItemDeleteSubmit))
	mux.Handle("POST /items/{id}/image", page(s.ItemImageSubmit))
	mux.Handle("GET /items/{id}/image", page(s.ItemImageGet))

	mux.Handle("GET /withdrawals", page(s.WithdrawalsPage))
	mux.Handle("POST /withdrawals", page(s.WithdrawalCreateSubmit))
	mux.Handle("GET /withdrawals/{id}", page(s.WithdrawalDetailPage))
	mux.Handle("POST /withdrawals/{id}", page(s.WithdrawalEditSubmit))
	mux.Handle("POST /withdrawals/{id}/return", page(s.WithdrawalReturnSubmit))
	mux.Handle("POST /withdrawals/{id}/delete", page(s.WithdrawalDeleteSubmit))

	mux.Handle("GET /export/{file}", page(s.ExportDownload))

	return mux, nil
}
