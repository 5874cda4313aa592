package auth_test

import (
	"context"
	"testing"

	auth "github.com/SnowLynxSoftware/auth-microservice-template"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenHandler(t *testing.T) {
	ctx := context.Background()
	tokens := newTestTokenService()

	t.Run("valid refresh token mints a new access token", func(t *testing.T) {
		store := &MockAccountStore{}

		user := verifiedUser("refresh@example.com")
		refresh, err := tokens.Mint(auth.RefreshToken, user.ID.String(), "")
		require.NoError(t, err)

		store.On("FindByID", mock.Anything, user.ID.String()).
			Return(user, nil).Once()
		store.On("SaveAccount", mock.Anything, mock.Anything).
			Return(user, nil).Once()

		handler := auth.NewRefreshTokenHandler(store, tokens, tokens).
			WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.RefreshTokenMessage{RefreshToken: refresh})
		require.NoError(t, err)

		subjectID, err := tokens.Validate(auth.AccessToken, res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), subjectID)

		store.AssertExpectations(t)
	})

	t.Run("access token cannot be replayed as refresh token", func(t *testing.T) {
		store := &MockAccountStore{}

		user := verifiedUser("replay@example.com")
		access, err := tokens.Mint(auth.AccessToken, user.ID.String(), user.Email)
		require.NoError(t, err)

		handler := auth.NewRefreshTokenHandler(store, tokens, tokens).
			WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.RefreshTokenMessage{RefreshToken: access})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)

		store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("account banned after issuance is rejected", func(t *testing.T) {
		store := &MockAccountStore{}

		user := verifiedUser("banned-later@example.com")
		refresh, err := tokens.Mint(auth.RefreshToken, user.ID.String(), "")
		require.NoError(t, err)

		user.IsBanned = true
		user.BanReason = "fraud"

		store.On("FindByID", mock.Anything, user.ID.String()).
			Return(user, nil).Once()

		handler := auth.NewRefreshTokenHandler(store, tokens, tokens).
			WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.RefreshTokenMessage{RefreshToken: refresh})
		assert.Nil(t, res)
		assert.ErrorContains(t, err, "User Is Banned: [fraud]")
	})

	t.Run("deleted account fails with the refresh error", func(t *testing.T) {
		store := &MockAccountStore{}

		user := verifiedUser("deleted@example.com")
		refresh, err := tokens.Mint(auth.RefreshToken, user.ID.String(), "")
		require.NoError(t, err)

		store.On("FindByID", mock.Anything, user.ID.String()).
			Return(nil, repository.NewRecordNotFound()).Once()

		handler := auth.NewRefreshTokenHandler(store, tokens, tokens).
			WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.RefreshTokenMessage{RefreshToken: refresh})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, auth.ErrRefreshFailed)
	})
}
