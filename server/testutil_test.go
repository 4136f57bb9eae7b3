package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/config"
	"inkwell/database"
	"inkwell/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubMailer records contact submissions instead of talking SMTP.
type stubMailer struct {
	err  error
	sent []mail.Submission
}

func (m *stubMailer) Send(_ context.Context, sub mail.Submission) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sub)
	return nil
}

// setupTestServer builds a server over an in-memory SQLite database,
// no Redis, and a stub mailer.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *stubMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppSecretKey:  "test-secret-key",
		BotEmail:      "bot@example.com",
		EmailPassword: "app-password",
		SMTPHost:      "localhost",
		SMTPPort:      2525,
	}

	mailer := &stubMailer{}
	srv := newServer(cfg, db, nil, mailer)

	return srv, srv.NewApp(), mailer
}

func doGet(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doPostForm(t *testing.T, app *fiber.App, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// registerUser signs up an account and returns its session cookie.
func registerUser(t *testing.T, app *fiber.App, name, email, password string) *http.Cookie {
	t.Helper()

	resp := doPostForm(t, app, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	session := findCookie(resp, sessionCookie)
	require.NotNil(t, session, "registration establishes a session")
	return session
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name && ck.Value != "" {
			return ck
		}
	}
	return nil
}

// flashFrom returns the one-time message set on the response, if any.
func flashFrom(resp *http.Response) string {
	ck := findCookie(resp, flashCookie)
	if ck == nil {
		return ""
	}
	message, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return message
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
