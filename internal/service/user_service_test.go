package service

import (
	"context"
	"testing"

	"github.com/maheshrc27/socialnet-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceCreateAndGet(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(fakeUserRepo{store})
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &transfer.UserCreation{Email: "carol@example.com", Name: "Carol"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	again, err := svc.CreateUser(ctx, &transfer.UserCreation{Email: "carol@example.com", Name: "Other"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	got, err := svc.GetUserInfo(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)

	_, err = svc.GetUserInfo(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateUser(ctx, &transfer.UserCreation{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestPostServiceListReturnsEmptySlice(t *testing.T) {
	store := newMemStore()
	svc := NewPostService(fakePostRepo{store})

	posts, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}
