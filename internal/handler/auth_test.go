package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/noticeboard/internal/metrics"
)

type staticVerifier string

func (v staticVerifier) Verify(secret string) bool { return secret == string(v) }

type fakeSessions struct {
	loggedIn  bool
	loginErr  error
	loggedOut bool
}

func (f *fakeSessions) Login(context.Context, time.Time) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.loggedIn = false
	f.loggedOut = true
	return nil
}

func authMux(h *AuthHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
	return mux
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
		wantLogin  bool
		outcome    string
	}{
		{"correct password", `{"password":"admin123"}`, http.StatusOK, `{"success":true}`, true, metrics.LoginSuccess},
		{"wrong password", `{"password":"nope"}`, http.StatusUnauthorized, `{"success":false,"error":"Invalid password"}`, false, metrics.LoginFailure},
		{"missing password", `{}`, http.StatusUnauthorized, `{"success":false,"error":"Invalid password"}`, false, metrics.LoginFailure},
		{"non string password", `{"password":123}`, http.StatusUnauthorized, `{"success":false,"error":"Invalid password"}`, false, metrics.LoginFailure},
		{"malformed body", `{"password":`, http.StatusBadRequest, `{"success":false,"error":"invalid JSON"}`, false, metrics.LoginBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{}
			mux := authMux(NewAuthHandler(staticVerifier("admin123"), sessions, quietLogger()))
			before := testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues(tt.outcome))

			rec := serve(mux, "POST", "/api/login", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantLogin, sessions.loggedIn)
			assert.Equal(t, before+1, testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues(tt.outcome)))
		})
	}
}

func TestLoginSessionFailure(t *testing.T) {
	sessions := &fakeSessions{loginErr: errors.New("db locked")}
	mux := authMux(NewAuthHandler(staticVerifier("admin123"), sessions, quietLogger()))

	before := testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginError))

	rec := serve(mux, "POST", "/api/login", `{"password":"admin123"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginError)))
}

func TestLogout(t *testing.T) {
	sessions := &fakeSessions{loggedIn: true}
	mux := authMux(NewAuthHandler(staticVerifier("admin123"), sessions, quietLogger()))

	rec := serve(mux, "POST", "/api/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.True(t, sessions.loggedOut)
	assert.False(t, sessions.loggedIn)
}
