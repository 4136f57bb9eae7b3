package server

import (
	"net/url"
	"testing"

	"inkwell/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	srv, app, _ := setupTestServer(t)

	session := registerUser(t, app, "alice", "alice@x.com", "pw123")
	assert.NotEmpty(t, session.Value)

	var count int64
	srv.db.Model(&models.User{}).Where("email = ?", "alice@x.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, app, _ := setupTestServer(t)

	registerUser(t, app, "alice", "alice@x.com", "pw123")

	resp := doPostForm(t, app, "/register", url.Values{
		"name":     {"impostor"},
		"email":    {"alice@x.com"},
		"password": {"other"},
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))
	assert.Contains(t, flashFrom(resp), "already exists")

	var count int64
	srv.db.Model(&models.User{}).Where("email = ?", "alice@x.com").Count(&count)
	assert.EqualValues(t, 1, count, "exactly one user row for that email")
}

func TestRegisterValidation(t *testing.T) {
	_, app, _ := setupTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "Missing name", form: url.Values{"email": {"a@x.com"}, "password": {"pw"}}},
		{name: "Missing email", form: url.Values{"name": {"a"}, "password": {"pw"}}},
		{name: "Missing password", form: url.Values{"name": {"a"}, "email": {"a@x.com"}}},
		{name: "Bad email", form: url.Values{"name": {"a"}, "email": {"not-an-email"}, "password": {"pw"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doPostForm(t, app, "/register", tt.form)
			assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/register", resp.Header.Get("Location"))
			assert.NotEmpty(t, flashFrom(resp))
		})
	}
}

func TestLogin(t *testing.T) {
	_, app, _ := setupTestServer(t)

	registerUser(t, app, "alice", "alice@x.com", "pw123")

	tests := []struct {
		name         string
		email        string
		password     string
		wantLocation string
		wantSession  bool
	}{
		{name: "Success", email: "alice@x.com", password: "pw123", wantLocation: "/", wantSession: true},
		{name: "Wrong password", email: "alice@x.com", password: "wrong", wantLocation: "/login", wantSession: false},
		{name: "Unknown email", email: "nobody@x.com", password: "pw123", wantLocation: "/login", wantSession: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doPostForm(t, app, "/login", url.Values{
				"email":    {tt.email},
				"password": {tt.password},
			})
			assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))

			session := findCookie(resp, sessionCookie)
			if tt.wantSession {
				assert.NotNil(t, session)
			} else {
				assert.Nil(t, session)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	_, app, _ := setupTestServer(t)

	session := registerUser(t, app, "alice", "alice@x.com", "pw123")

	resp := doGet(t, app, "/logout", session)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// session cookie is expired for the browser
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			assert.Empty(t, ck.Value)
		}
	}
}

func TestFlashShownExactlyOnce(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp := doPostForm(t, app, "/login", url.Values{
		"email":    {"nobody@x.com"},
		"password": {"pw"},
	})
	flash := findCookie(resp, flashCookie)
	require.NotNil(t, flash)

	first := doGet(t, app, "/login", flash)
	body := decodeJSON(t, first)
	assert.Equal(t, "No user was found with that email", body["flash"])

	// the cookie is cleared with the first render
	cleared := false
	for _, ck := range first.Cookies() {
		if ck.Name == flashCookie && ck.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)

	second := doGet(t, app, "/login")
	assert.Equal(t, "", decodeJSON(t, second)["flash"])
}
