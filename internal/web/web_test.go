package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/erazemk/almoxarifado/internal/auth"
	"github.com/erazemk/almoxarifado/internal/db"
	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

var noRedirect = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

func setupTestServer(t *testing.T, gate *auth.Gate, database *sql.DB) *httptest.Server {
	t.Helper()
	router, err := NewRouter(database, gate)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := noRedirect.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirect.PostForm(target, form)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp
}

func TestPagesRender(t *testing.T) {
	database := db.NewTestDB(t)
	server := setupTestServer(t, nil, database)
	ctx := context.Background()

	item, _ := store.CreateItem(ctx, database, model.CategoryStock, "Parafuso", "M6", 10)
	wd, _ := store.CreateWithdrawal(ctx, database, "Diogo", item.ID, 2)

	pages := []struct {
		path, want string
	}{
		{"/", "Retiradas pendentes"},
		{"/stock", "Parafuso"},
		{"/tools", "Nenhum item cadastrado"},
		{"/withdrawals", "Diogo"},
		{"/items/" + strconv.FormatInt(item.ID, 10), "Histórico de retiradas"},
		{"/withdrawals/" + strconv.FormatInt(wd.ID, 10), "Devolver tudo"},
	}

	for _, p := range pages {
		status, body := get(t, server.URL+p.path)
		if status != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", p.path, status)
			continue
		}
		if !strings.Contains(body, p.want) {
			t.Errorf("GET %s: expected body to contain %q", p.path, p.want)
		}
	}

	if status, _ := get(t, server.URL+"/items/999"); status != http.StatusNotFound {
		t.Errorf("expected 404 for missing item, got %d", status)
	}
	if status, _ := get(t, server.URL+"/login"); status != http.StatusNotFound {
		t.Errorf("expected no login page without a gate, got %d", status)
	}
}

func TestItemSearch(t *testing.T) {
	database := db.NewTestDB(t)
	server := setupTestServer(t, nil, database)
	ctx := context.Background()

	store.CreateItem(ctx, database, model.CategoryStock, "Parafuso", "", 10)
	store.CreateItem(ctx, database, model.CategoryStock, "Porca", "", 3)

	_, body := get(t, server.URL+"/stock?q=%20PORCA%20")
	if !strings.Contains(body, "Porca") || strings.Contains(body, ">Parafuso<") {
		t.Errorf("expected only Porca in results")
	}

	_, body = get(t, server.URL+"/stock?q=xyz")
	if !strings.Contains(body, "Nenhum item encontrado") {
		t.Errorf("expected empty search message")
	}
}

func TestWithdrawalFormFlow(t *testing.T) {
	database := db.NewTestDB(t)
	server := setupTestServer(t, nil, database)
	ctx := context.Background()

	resp := post(t, server.URL+"/items", url.Values{
		"category": {"tools"}, "name": {"Furadeira"}, "quantity": {"3"},
	})
	if resp.StatusCode != http.StatusSeeOther || !strings.HasPrefix(resp.Header.Get("Location"), "/tools?ok=") {
		t.Fatalf("unexpected create redirect %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	items, _ := store.ListItems(ctx, database, model.CategoryTools)
	if len(items) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(items))
	}
	id := items[0].ID

	resp = post(t, server.URL+"/withdrawals", url.Values{
		"person_name": {"Ana"}, "item_id": {strconv.FormatInt(id, 10)}, "quantity": {"5"},
	})
	if !strings.Contains(resp.Header.Get("Location"), "erro=") {
		t.Errorf("expected error redirect for insufficient stock, got %s", resp.Header.Get("Location"))
	}

	post(t, server.URL+"/withdrawals", url.Values{
		"person_name": {"Ana"}, "item_id": {strconv.FormatInt(id, 10)}, "quantity": {"2"},
	})
	ws, _ := store.ListWithdrawals(ctx, database)
	if len(ws) != 1 {
		t.Fatalf("expected 1 withdrawal, got %d", len(ws))
	}
	wid := strconv.FormatInt(ws[0].ID, 10)

	// Partial return through the edit form.
	post(t, server.URL+"/withdrawals/"+wid, url.Values{"quantity": {"1"}, "return": {"1"}})
	wd, _ := store.GetWithdrawal(ctx, database, ws[0].ID)
	if wd.Status != model.StatusPartiallyReturned {
		t.Errorf("expected partially returned, got %q", wd.Status)
	}

	resp = post(t, server.URL+"/withdrawals/"+wid+"/return", url.Values{"back": {"/withdrawals"}})
	if !strings.HasPrefix(resp.Header.Get("Location"), "/withdrawals?ok=") {
		t.Errorf("unexpected return redirect %s", resp.Header.Get("Location"))
	}
	item, _ := store.GetItem(ctx, database, id)
	if item.Quantity != 3 {
		t.Errorf("expected quantity restored to 3, got %d", item.Quantity)
	}

	resp = post(t, server.URL+"/withdrawals/"+wid+"/return", url.Values{"back": {"//evil.example"}})
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/?erro=") {
		t.Errorf("expected error redirect to dashboard, got %s", loc)
	}

	post(t, server.URL+"/withdrawals/"+wid+"/delete", nil)
	if _, err := store.GetWithdrawal(ctx, database, ws[0].ID); err == nil {
		t.Error("expected withdrawal to be deleted")
	}
}

func TestItemFormValidation(t *testing.T) {
	database := db.NewTestDB(t)
	server := setupTestServer(t, nil, database)

	resp := post(t, server.URL+"/items", url.Values{
		"category": {"stock"}, "name": {"Parafuso"}, "quantity": {"dez"},
	})
	if !strings.Contains(resp.Header.Get("Location"), "erro=") {
		t.Errorf("expected error redirect, got %s", resp.Header.Get("Location"))
	}

	loc := resp.Header.Get("Location")
	_, body := get(t, server.URL+loc)
	if !strings.Contains(body, "informe um número inteiro") {
		t.Error("expected the error message to be shown")
	}
}

func TestThemeToggle(t *testing.T) {
	database := db.NewTestDB(t)
	server := setupTestServer(t, nil, database)

	_, body := get(t, server.URL+"/")
	if !strings.Contains(body, `class="theme-light"`) {
		t.Error("expected light theme by default")
	}

	post(t, server.URL+"/theme", url.Values{"back": {"/stock"}})

	prefs, _ := store.LoadPreferences(context.Background(), database)
	if prefs.Theme != model.ThemeDark {
		t.Errorf("expected dark theme to be saved, got %q", prefs.Theme)
	}
	_, body = get(t, server.URL+"/stock")
	if !strings.Contains(body, `class="theme-dark"`) {
		t.Error("expected dark theme after toggle")
	}
}

func TestExportDownload(t *testing.T) {
	database := db.NewTestDB(t)
	server := setupTestServer(t, nil, database)
	store.CreateItem(context.Background(), database, model.CategoryStock, "Parafuso", "", 10)

	resp, err := http.Get(server.URL + "/export/estoque.json")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "estoque.json") {
		t.Errorf("expected attachment header, got %q", resp.Header.Get("Content-Disposition"))
	}
	if !strings.Contains(string(body), "Descrição não disponível") {
		t.Errorf("expected placeholder description in export, got %s", body)
	}

	if status, _ := get(t, server.URL+"/export/estoque.pdf"); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown format, got %d", status)
	}
}

func TestLoginFlow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	password, _ := auth.EnsurePassword(ctx, database)
	gate, err := auth.NewGate(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	server := setupTestServer(t, gate, database)

	resp, _ := noRedirect.Get(server.URL + "/stock")
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = post(t, server.URL+"/login", url.Values{"password": {"wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp = post(t, server.URL+"/login", url.Values{"password": {password}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect after login, got %d", resp.StatusCode)
	}
	var token *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			token = c
		}
	}
	if token == nil || token.Value == "" {
		t.Fatal("expected session cookie")
	}

	req, _ := http.NewRequest("GET", server.URL+"/stock", nil)
	req.AddCookie(token)
	resp, _ = noRedirect.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with session, got %d", resp.StatusCode)
	}

	req, _ = http.NewRequest("POST", server.URL+"/logout", nil)
	req.AddCookie(token)
	resp, _ = noRedirect.Do(req)
	resp.Body.Close()

	req, _ = http.NewRequest("GET", server.URL+"/stock", nil)
	req.AddCookie(token)
	resp, _ = noRedirect.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected revoked session to redirect, got %d", resp.StatusCode)
	}
}
