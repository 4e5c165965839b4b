package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/api/middleware"
)

func TestAuthHandler_Register(t *testing.T) {
	f := newFixture(t)
	handler := NewAuthHandler(f.users, f.cfg, f.log, f.val)

	tests := []struct {
		name           string
		req            dto.RegisterRequest
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid registration",
			req:            dto.RegisterRequest{Username: "carol", Password: "password123", ConfirmPassword: "password123", DisplayName: "Carol"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "passwords differ",
			req:            dto.RegisterRequest{Username: "dave", Password: "password123", ConfirmPassword: "password124"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "password too short",
			req:            dto.RegisterRequest{Username: "erin", Password: "short", ConfirmPassword: "short"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "username taken",
			req:            dto.RegisterRequest{Username: "alice", Password: "password123", ConfirmPassword: "password123"},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.Register(rr, newRequest(t, http.MethodPost, "/api/v1/auth/register", tt.req, 0, nil))

			var resp dto.AuthResponse
			env := decode(t, rr, tt.expectedStatus, &resp)
			if tt.expectedCode != "" {
				if env.Error.Code != tt.expectedCode {
					t.Errorf("error code = %q, want %q", env.Error.Code, tt.expectedCode)
				}
				return
			}
			if resp.User == nil || resp.User.Username != tt.req.Username {
				t.Fatalf("user = %+v", resp.User)
			}
			if resp.User.DisplayName != "Carol" {
				t.Errorf("display name = %q", resp.User.DisplayName)
			}
			if resp.AccessToken == "" || resp.RefreshToken == "" {
				t.Error("expected a token pair")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	f := newFixture(t)
	handler := NewAuthHandler(f.users, f.cfg, f.log, f.val)

	t.Run("valid credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Login(rr, newRequest(t, http.MethodPost, "/api/v1/auth/login",
			dto.LoginRequest{Username: "alice", Password: "password123"}, 0, nil))

		var resp dto.AuthResponse
		decode(t, rr, http.StatusOK, &resp)
		if resp.User.ID != f.alice {
			t.Errorf("user id = %d, want %d", resp.User.ID, f.alice)
		}

		var found bool
		for _, c := range rr.Result().Cookies() {
			if c.Name == middleware.AccessTokenCookie && c.Value == resp.AccessToken {
				found = true
			}
		}
		if !found {
			t.Error("access token cookie not set")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Login(rr, newRequest(t, http.MethodPost, "/api/v1/auth/login",
			dto.LoginRequest{Username: "alice", Password: "nope-nope"}, 0, nil))
		decode(t, rr, http.StatusUnauthorized, nil)
	})

	t.Run("missing username", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Login(rr, newRequest(t, http.MethodPost, "/api/v1/auth/login",
			dto.LoginRequest{Password: "password123"}, 0, nil))
		decode(t, rr, http.StatusBadRequest, nil)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	f := newFixture(t)
	handler := NewAuthHandler(f.users, f.cfg, f.log, f.val)

	rr := httptest.NewRecorder()
	handler.Login(rr, newRequest(t, http.MethodPost, "/api/v1/auth/login",
		dto.LoginRequest{Username: "bob", Password: "password123"}, 0, nil))
	var tokens dto.AuthResponse
	decode(t, rr, http.StatusOK, &tokens)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"refresh token", tokens.RefreshToken, http.StatusOK},
		{"access token is rejected", tokens.AccessToken, http.StatusUnauthorized},
		{"garbage", "not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.RefreshToken(rr, newRequest(t, http.MethodPost, "/api/v1/auth/refresh",
				dto.RefreshTokenRequest{RefreshToken: tt.token}, 0, nil))

			var resp dto.AuthResponse
			decode(t, rr, tt.expectedStatus, &resp)
			if tt.expectedStatus == http.StatusOK && resp.User.Username != "bob" {
				t.Errorf("username = %q", resp.User.Username)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	f := newFixture(t)
	handler := NewAuthHandler(f.users, f.cfg, f.log, f.val)

	rr := httptest.NewRecorder()
	handler.Me(rr, newRequest(t, http.MethodGet, "/api/v1/auth/me", nil, f.bob, nil))
	var u dto.UserDTO
	decode(t, rr, http.StatusOK, &u)
	if u.Username != "bob" || u.DisplayName != "bob" {
		t.Errorf("user = %+v", u)
	}

	rr = httptest.NewRecorder()
	handler.Me(rr, newRequest(t, http.MethodGet, "/api/v1/auth/me", nil, 0, nil))
	decode(t, rr, http.StatusUnauthorized, nil)
}
