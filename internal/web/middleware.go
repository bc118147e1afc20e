package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/almoxarifado/internal/api"
	"github.com/erazemk/almoxarifado/internal/auth"
)

// CookieAuthMiddleware sends visitors without a valid session cookie to the
// login page. With a nil gate it lets every request through.
func CookieAuthMiddleware(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if gate == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(api.SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if _, err := gate.Verify(r.Context(), cookie.Value); err != nil {
				clearAuthCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	setAuthCookie(w, "", -1)
}

// redirect sends the browser to path after a form submit, carrying either
// the error's user message or the success message.
func redirect(w http.ResponseWriter, r *http.Request, path, success string, err error) {
	q := url.Values{}
	if err != nil {
		q.Set("erro", userMessage(r, err))
	} else if success != "" {
		q.Set("ok", success)
	}
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
