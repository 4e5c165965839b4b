package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

func TestUserService_Register(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	service := NewUserService(mockRepo, bcrypt.MinCost, testutil.NewLogger())
	ctx := context.Background()

	tests := []struct {
		name        string
		reg         user.Registration
		wantCode    string
		wantDisplay string
	}{
		{
			name:        "successful registration",
			reg:         user.Registration{Username: "auditor", Password: "s3cretpass", ConfirmPassword: "s3cretpass", DisplayName: "Audit Person"},
			wantDisplay: "Audit Person",
		},
		{
			name:        "display name defaults to username",
			reg:         user.Registration{Username: "second", Password: "s3cretpass", ConfirmPassword: "s3cretpass"},
			wantDisplay: "second",
		},
		{
			name:     "missing username",
			reg:      user.Registration{Password: "s3cretpass", ConfirmPassword: "s3cretpass"},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "password mismatch",
			reg:      user.Registration{Username: "third", Password: "s3cretpass", ConfirmPassword: "other-pass"},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "password too short",
			reg:      user.Registration{Username: "third", Password: "short", ConfirmPassword: "short"},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "mismatch reported before length",
			reg:      user.Registration{Username: "auditor", Password: "short", ConfirmPassword: "shirt"},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "duplicate username",
			reg:      user.Registration{Username: "auditor", Password: "s3cretpass", ConfirmPassword: "s3cretpass"},
			wantCode: errors.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(mockRepo.Users)
			u, err := service.Register(ctx, tt.reg)

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Register() error = %v, want %s", err, tt.wantCode)
				}
				if len(mockRepo.Users) != before {
					t.Error("Register() stored a user on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if u.ID == 0 || u.DisplayName != tt.wantDisplay {
				t.Errorf("Register() = %+v", u)
			}
			if u.PasswordHash == tt.reg.Password {
				t.Error("Register() stored the plain password")
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	service := NewUserService(mockRepo, bcrypt.MinCost, testutil.NewLogger())
	ctx := context.Background()

	created, err := service.Register(ctx, user.Registration{Username: "auditor", Password: "s3cretpass", ConfirmPassword: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid credentials", "auditor", "s3cretpass", false},
		{"wrong password", "auditor", "wrong-pass", true},
		{"unknown user", "nobody", "s3cretpass", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnauthorized) {
					t.Errorf("Authenticate() error = %v, want UNAUTHORIZED", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if u.ID != created.ID {
				t.Errorf("Authenticate() = %+v", u)
			}
		})
	}
}

func TestUserService_GetByID(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	service := NewUserService(mockRepo, bcrypt.MinCost, testutil.NewLogger())
	ctx := context.Background()

	created, _ := service.Register(ctx, user.Registration{Username: "auditor", Password: "s3cretpass", ConfirmPassword: "s3cretpass"})

	if u, err := service.GetByID(ctx, created.ID); err != nil || u.Username != "auditor" {
		t.Errorf("GetByID() = %+v, %v", u, err)
	}
	if _, err := service.GetByID(ctx, 999); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByID(999) error = %v", err)
	}
}
