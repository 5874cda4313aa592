package auth_test

import (
	"context"
	"testing"

	auth "github.com/SnowLynxSoftware/auth-microservice-template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanUserHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("ban records reason and emits activity", func(t *testing.T) {
		store := newMemStore()
		sink := &captureSink{}

		user := verifiedUser("target@example.com")
		store.SaveAccountSeed(user)

		handler := auth.NewBanUserHandler(store).
			WithActivitySink(sink).
			WithLogger(testLogger{})

		res, err := handler.Execute(ctx, auth.BanUserMessage{
			ID:      user.ID.String(),
			Reason:  "spamming",
			ActorID: "admin-1",
		})
		require.NoError(t, err)
		assert.True(t, res.IsBanned)
		assert.Equal(t, "spamming", res.BanReason)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, auth.LogUserBanned, events[0].Type)
		assert.Equal(t, "admin-1", events[0].ActorID)
		assert.Contains(t, events[0].Message(), "by [admin-1]")
	})

	t.Run("unban clears the flag and reason", func(t *testing.T) {
		store := newMemStore()
		sink := &captureSink{}

		user := verifiedUser("banned@example.com")
		user.IsBanned = true
		user.BanReason = "old reason"
		store.SaveAccountSeed(user)

		handler := auth.NewBanUserHandler(store).
			WithActivitySink(sink).
			WithLogger(testLogger{})

		res, err := handler.ExecuteUnban(ctx, auth.UnbanUserMessage{
			ID:      user.ID.String(),
			ActorID: "admin-1",
		})
		require.NoError(t, err)
		assert.False(t, res.IsBanned)
		assert.Empty(t, res.BanReason)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, auth.LogUserUnbanned, events[0].Type)
	})

	t.Run("ban requires a reason", func(t *testing.T) {
		store := newMemStore()
		handler := auth.NewBanUserHandler(store).WithLogger(testLogger{})

		user := verifiedUser("noreason@example.com")
		store.SaveAccountSeed(user)

		res, err := handler.Execute(ctx, auth.BanUserMessage{
			ID: user.ID.String(),
		})
		assert.Nil(t, res)
		assert.Error(t, err)
	})

	t.Run("a banned user fails the gate with the stored reason", func(t *testing.T) {
		store := newMemStore()
		handler := auth.NewBanUserHandler(store).WithLogger(testLogger{})

		user := verifiedUser("gated@example.com")
		store.SaveAccountSeed(user)

		_, err := handler.Execute(ctx, auth.BanUserMessage{
			ID:     user.ID.String(),
			Reason: "payment fraud",
		})
		require.NoError(t, err)

		banned, err := store.FindByID(ctx, user.ID.String())
		require.NoError(t, err)

		err = auth.CheckAccountStatus(banned, false)
		assert.ErrorContains(t, err, "User Is Banned: [payment fraud]")
	})
}
