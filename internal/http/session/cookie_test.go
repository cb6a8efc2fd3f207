package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetToken(t *testing.T) {
	rec := httptest.NewRecorder()

	SetToken(rec, "tok", CookieOptions{ExpireDays: 2, Secure: false})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, "/", c.Path)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), c.Expires, time.Minute)
}

func TestSetToken_SecureInProd(t *testing.T) {
	rec := httptest.NewRecorder()

	SetToken(rec, "tok", CookieOptions{ExpireDays: 1, Secure: true})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestClear(t *testing.T) {
	rec := httptest.NewRecorder()

	Clear(rec, CookieOptions{ExpireDays: 1})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "none", c.Value)
	assert.True(t, c.Expires.Before(time.Now()))
	assert.Negative(t, c.MaxAge)
}
