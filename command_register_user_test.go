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

func TestRegisterUserHandler(t *testing.T) {
	ctx := context.Background()
	tokens := newTestTokenService()

	t.Run("registers a new account and mints a verification token", func(t *testing.T) {
		store := &MockAccountStore{}
		sink := &captureSink{}

		user := verifiedUser("new@example.com")
		user.Verified = false

		store.On("FindByEmail", mock.Anything, "new@example.com").
			Return(nil, repository.NewRecordNotFound()).Once()
		store.On("CreateAccount", mock.Anything, "new@example.com", mock.AnythingOfType("string")).
			Return(user, nil).Once()

		handler := auth.NewRegisterUserHandler(store, tokens).
			WithActivitySink(sink).
			WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Email:    "new@example.com",
			Password: "P@ss1",
		})
		require.NoError(t, err)

		assert.Equal(t, user.ID.String(), res.ID)
		assert.Equal(t, "new@example.com", res.Email)

		subjectID, err := tokens.Validate(auth.VerificationToken, res.VerificationToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), subjectID)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, auth.LogUserRegistered, events[0].Type)
		assert.Equal(t, user.ID.String(), events[0].UserID)

		store.AssertExpectations(t)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		store := &MockAccountStore{}

		store.On("FindByEmail", mock.Anything, "taken@example.com").
			Return(verifiedUser("taken@example.com"), nil).Once()

		handler := auth.NewRegisterUserHandler(store, tokens).WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Email:    "taken@example.com",
			Password: "P@ss1",
		})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, auth.ErrEmailTaken)

		store.AssertExpectations(t)
		store.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		store := &MockAccountStore{}
		handler := auth.NewRegisterUserHandler(store, tokens).WithLogger(testLogger{})

		tests := []auth.RegisterUserMessage{
			{Email: "", Password: "P@ss1"},
			{Email: "not-an-email", Password: "P@ss1"},
			{Email: "ok@example.com", Password: ""},
		}

		for _, msg := range tests {
			res, err := handler.Execute(ctx, msg)
			assert.Nil(t, res)
			assert.Error(t, err)
		}

		store.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		store := &MockAccountStore{}
		handler := auth.NewRegisterUserHandler(store, tokens).WithLogger(testLogger{})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := handler.Execute(cancelled, auth.RegisterUserMessage{
			Email:    "x@example.com",
			Password: "P@ss1",
		})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
