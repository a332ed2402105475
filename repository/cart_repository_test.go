package repository_test

import (
	"context"
	"testing"
	"time"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepo(t *testing.T) (repository.CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewRedisCartRepository(client, time.Hour), mr
}

func TestCartGet_Missing(t *testing.T) {
	repo, _ := setupCartRepo(t)

	cart, err := repo.Get(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, cart)
}

func TestCartSaveAndGet(t *testing.T) {
	repo, mr := setupCartRepo(t)
	methodID := uuid.New()

	cart := &models.Cart{
		Token:                   "tok-1",
		Email:                   "guest@example.com",
		ShippingAddress:         &models.Address{FirstName: "Jan", Country: "PL"},
		ShippingMethodCountryID: &methodID,
	}
	require.NoError(t, repo.Save(context.Background(), cart))
	assert.False(t, cart.UpdatedAt.IsZero())
	assert.Equal(t, time.Hour, mr.TTL("cart:token:tok-1"))

	got, err := repo.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "PL", got.CountryCode())
	assert.Equal(t, methodID, *got.ShippingMethodCountryID)
}

func TestCartDelete(t *testing.T) {
	repo, _ := setupCartRepo(t)
	require.NoError(t, repo.Save(context.Background(), &models.Cart{Token: "tok-2"}))

	require.NoError(t, repo.Delete(context.Background(), "tok-2"))
	cart, err := repo.Get(context.Background(), "tok-2")
	assert.NoError(t, err)
	assert.Nil(t, cart)
}
