package surrealdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func TestHoldingStore_RoundTrip(t *testing.T) {
	store := NewHoldingStore(testDB(t), testLogger())
	ctx := context.Background()

	set := models.NewHoldingSetFrom([]models.Holding{
		{Symbol: "AAPL", Shares: 10, CostBasis: 150.5},
		{Symbol: "BHP.AU", Shares: 200, CostBasis: 42.1},
	})
	require.NoError(t, store.SaveHoldings(ctx, "alice", set))

	loaded, err := store.LoadHoldings(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	aapl, ok := loaded.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 10.0, aapl.Shares)
	assert.Equal(t, 150.5, aapl.CostBasis)
}

func TestHoldingStore_UnknownUserIsEmpty(t *testing.T) {
	store := NewHoldingStore(testDB(t), testLogger())

	set, err := store.LoadHoldings(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestHoldingStore_SaveReplacesWholeSet(t *testing.T) {
	store := NewHoldingStore(testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveHoldings(ctx, "alice", models.NewHoldingSetFrom([]models.Holding{
		{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		{Symbol: "MSFT", Shares: 5, CostBasis: 200},
	})))
	require.NoError(t, store.SaveHoldings(ctx, "alice", models.NewHoldingSetFrom([]models.Holding{
		{Symbol: "AAPL", Shares: 4, CostBasis: 100},
	})))

	loaded, err := store.LoadHoldings(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	_, ok := loaded.Get("MSFT")
	assert.False(t, ok)
}

func TestHoldingStore_UsersAreIsolated(t *testing.T) {
	store := NewHoldingStore(testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveHoldings(ctx, "alice", models.NewHoldingSetFrom([]models.Holding{
		{Symbol: "AAPL", Shares: 1, CostBasis: 100},
	})))

	bob, err := store.LoadHoldings(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, bob.Len())
}
