package auth_test

import (
	"testing"
	"time"

	auth "github.com/SnowLynxSoftware/auth-microservice-template"
	"github.com/stretchr/testify/assert"
)

func TestCheckAccountStatus(t *testing.T) {
	archivedAt := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name            string
		user            *auth.User
		allowUnverified bool
		wantErr         error
		wantContains    string
	}{
		{
			name: "verified active account passes",
			user: &auth.User{Verified: true},
		},
		{
			name:    "unverified account blocked",
			user:    &auth.User{Verified: false},
			wantErr: auth.ErrUserUnverified,
		},
		{
			name:            "unverified account allowed for reset",
			user:            &auth.User{Verified: false},
			allowUnverified: true,
		},
		{
			name:    "archived account blocked",
			user:    &auth.User{Verified: true, ArchivedAt: &archivedAt},
			wantErr: auth.ErrUserArchived,
		},
		{
			name:            "archived account blocked even for reset",
			user:            &auth.User{Verified: false, ArchivedAt: &archivedAt},
			allowUnverified: true,
			wantErr:         auth.ErrUserArchived,
		},
		{
			name:            "banned account blocked even for reset",
			user:            &auth.User{Verified: true, IsBanned: true, BanReason: "spam"},
			allowUnverified: true,
			wantContains:    "User Is Banned: [spam]",
		},
		{
			name: "ban wins over unverified and archived",
			user: &auth.User{
				Verified:   false,
				IsBanned:   true,
				BanReason:  "abuse",
				ArchivedAt: &archivedAt,
			},
			wantContains: "User Is Banned: [abuse]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.CheckAccountStatus(tt.user, tt.allowUnverified)

			if tt.wantErr == nil && tt.wantContains == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			if tt.wantContains != "" {
				assert.ErrorContains(t, err, tt.wantContains)
			}
		})
	}
}

func TestBannedErrorMessage(t *testing.T) {
	err := auth.NewBannedError("chargeback fraud")
	assert.Equal(t, "User Is Banned: [chargeback fraud]", err.Message)
}
