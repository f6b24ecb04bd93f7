package kernel

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/database"
	handlertests "github.com/inkpress/handler/tests"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/auth"
	"github.com/inkpress/pkg/portal"
)

var validVars = map[string]string{
	"ENV_APP_NAME":             "inkpress",
	"ENV_APP_URL":              "https://blog.example.test",
	"ENV_APP_ENV_TYPE":         "local",
	"ENV_APP_SECRET_KEY":       "12345678901234567890123456789012",
	"ENV_DB_USER_NAME":         "usernamefoo",
	"ENV_DB_USER_PASSWORD":     "passwordfoo",
	"ENV_DB_DATABASE_NAME":     "dbnamefoo",
	"ENV_DB_PORT":              "5432",
	"ENV_DB_HOST":              "localhost",
	"ENV_DB_SSL_MODE":          "require",
	"ENV_DB_TIMEZONE":          "UTC",
	"ENV_APP_LOG_LEVEL":        "debug",
	"ENV_APP_LOGS_DIR":         "logs_%s.log",
	"ENV_APP_LOGS_DATE_FORMAT": "2006_01_02",
	"ENV_HTTP_HOST":            "localhost",
	"ENV_HTTP_PORT":            "8080",
	"ENV_SITE_SUBSITES":        "blog, notes",
	"ENV_ADMIN_LOGIN":          "admin",
	"ENV_ADMIN_EMAIL":          "admin@example.test",
	"ENV_ADMIN_PASSWORD":       "supersecret",
}

func validEnvVars(t *testing.T) {
	t.Helper()

	env.SecretsDir = t.TempDir()

	for key, value := range validVars {
		t.Setenv(key, value)
	}
}

func TestMakeEnv(t *testing.T) {
	validEnvVars(t)
	t.Setenv("ENV_SESSION_TOKEN_TTL", "30m")

	environment := MakeEnv(portal.GetDefaultValidator())

	if environment.App.Name != "inkpress" {
		t.Fatalf("env not loaded")
	}

	if got := environment.Site.Subsites; len(got) != 2 || got[0] != "blog" || got[1] != "notes" {
		t.Fatalf("unexpected subsites %v", got)
	}

	if environment.Session.TokenTTL != 30*time.Minute || environment.Session.RememberDuration != 720*time.Hour {
		t.Fatalf("unexpected session %+v", environment.Session)
	}

	if environment.DB.DriverName != env.PostgresDriver || environment.Importer.MaxAttachmentBytes == 0 {
		t.Fatalf("defaults not applied: %+v %+v", environment.DB, environment.Importer)
	}
}

func TestMakeEnvSQLite(t *testing.T) {
	validEnvVars(t)

	for _, key := range []string{"ENV_DB_USER_NAME", "ENV_DB_USER_PASSWORD", "ENV_DB_DATABASE_NAME", "ENV_DB_PORT", "ENV_DB_HOST"} {
		t.Setenv(key, "")
	}

	t.Setenv("ENV_DB_DRIVER", "sqlite")
	t.Setenv("ENV_DB_SQLITE_PATH", "./storage/inkpress.db")

	environment := MakeEnv(portal.GetDefaultValidator())

	if !environment.DB.IsSQLite() || environment.DB.GetDSN() != "./storage/inkpress.db" {
		t.Fatalf("unexpected db env %+v", environment.DB)
	}
}

func TestMakeEnvReadsSecrets(t *testing.T) {
	validEnvVars(t)

	if err := os.WriteFile(filepath.Join(env.SecretsDir, "admin_password"), []byte("from-secret-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	if got := MakeEnv(portal.GetDefaultValidator()).Admin.Password; got != "from-secret-file" {
		t.Fatalf("expected the secret file to win, got %q", got)
	}
}

func TestMakeEnvPanicsOnInvalidSections(t *testing.T) {
	cases := map[string]string{
		"ENV_APP_SECRET_KEY": "short",
		"ENV_SITE_SUBSITES":  "Not A Nicename",
		"ENV_BACKUP_CRON":    "every day",
		"ENV_DB_PORT":        "port",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			validEnvVars(t)
			t.Setenv(key, value)

			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for %s=%s", key, value)
				}
			}()

			MakeEnv(portal.GetDefaultValidator())
		})
	}
}

func TestIgnite(t *testing.T) {
	var content strings.Builder
	for key, value := range validVars {
		content.WriteString(key + "=" + value + "\n")
	}

	env.SecretsDir = t.TempDir()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content.String()), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	for key := range validVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	environment, err := Ignite(path, portal.GetDefaultValidator())
	if err != nil {
		t.Fatalf("ignite: %v", err)
	}

	if environment.Network.HttpPort != "8080" {
		t.Fatalf("env not loaded")
	}

	if _, err := Ignite(filepath.Join(t.TempDir(), "missing.env"), portal.GetDefaultValidator()); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func testEnvironment() *env.Environment {
	return &env.Environment{
		App: env.AppEnvironment{
			Name:      "inkpress",
			URL:       "https://blog.example.test",
			Type:      "local",
			SecretKey: "12345678901234567890123456789012",
		},
		Session: env.SessionEnvironment{
			CookieName:       "inkpress",
			TokenTTL:         time.Hour,
			RememberDuration: 24 * time.Hour,
		},
		Site: env.SiteEnvironment{Subsites: []string{"blog", "notes"}},
	}
}

func bootTestRouter(t *testing.T) (http.Handler, *database.Connection, auth.JWTHandler) {
	t.Helper()

	conn, _ := handlertests.MakeTestDB(t)
	environment := testEnvironment()

	jwt, err := auth.MakeJWTHandler([]byte(environment.App.SecretKey), environment.Session.TokenTTL)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	router := NewRouter(environment, conn, portal.GetDefaultValidator(), jwt)
	app := &App{env: environment, db: conn}
	app.SetRouter(router)
	app.Boot()

	return app.Handler(), conn, jwt
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, conn, _ := bootTestRouter(t)

	handlertests.SeedPost(t, conn, "Hello", database.StatusPublish, nil, nil)

	for _, target := range []string{"/ping", "/metrics", "/sitemap.xml", "/blog/posts", "/blog/posts/hello", "/blog/tags", "/blog/categories"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d: %s", target, rec.Code, rec.Body.String())
		}

		if target != "/metrics" && rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: missing request id", target)
		}
	}
}

func TestRouter_ListingIsCached(t *testing.T) {
	h, _, _ := bootTestRouter(t)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/blog/posts", nil))

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/blog/posts", nil))

	if second.Header().Get("X-Cache") != "HIT" || second.Body.String() != first.Body.String() {
		t.Fatalf("expected a cached listing, got %q", second.Header().Get("X-Cache"))
	}
}

func TestRouter_UnknownSubsiteRedirects(t *testing.T) {
	h, _, _ := bootTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere/posts?page=2", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/blog/posts?page=2" {
		t.Fatalf("unexpected redirect %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRouter_AuthoringRequiresSession(t *testing.T) {
	h, _, jwt := bootTestRouter(t)

	body := `{"display_title":"New","content":"Body","action":"draft"}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blog/posts", strings.NewReader(body)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status %d", rec.Code)
	}

	token, _, err := jwt.Generate("editor", 0, false)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/blog/posts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("signed in status %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/blog/drafts", nil)
	req.AddCookie(&http.Cookie{Name: "inkpress", Value: token})

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"nicename":"new"`) {
		t.Fatalf("drafts status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginRoundTrip(t *testing.T) {
	h, _, _ := bootTestRouter(t)

	body := `{"login":"editor","password":"` + handlertests.Password + `"}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "inkpress" {
			session = cookie
		}
	}

	if session == nil {
		t.Fatalf("expected a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/blog/drafts", nil)
	req.AddCookie(session)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("drafts with cookie status %d", rec.Code)
	}
}
