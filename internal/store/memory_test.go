package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertBasicKeepsRegistrationData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.UpsertBasic(ctx, 10, "vasya", "Вася", "Иванов"))
	require.NoError(t, m.SetBuilding(ctx, 10, "1.1"))
	require.NoError(t, m.Complete(ctx, 10, "5", "+79001234567"))

	// a later upsert refreshes names but never drops registration
	require.NoError(t, m.UpsertBasic(ctx, 10, "vasya_new", "Вася", ""))

	registered, err := m.IsRegistered(ctx, 10)
	require.NoError(t, err)
	assert.True(t, registered)

	residents, err := m.ListResidents(ctx, "1.1", "5")
	require.NoError(t, err)
	require.Len(t, residents, 1)
	assert.Equal(t, "+79001234567", *residents[0].Phone)
	assert.Equal(t, "vasya_new", *residents[0].Username)
}

func TestIsRegisteredUnknownUser(t *testing.T) {
	m := NewMemory()
	registered, err := m.IsRegistered(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestListResidentsOrderedByRegistrationTime(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i, name := range []string{"Анна", "Борис", "Вера"} {
		id := int64(i + 1)
		require.NoError(t, m.UpsertBasic(ctx, id, "", name, ""))
		require.NoError(t, m.SetBuilding(ctx, id, "1.2"))
		require.NoError(t, m.Complete(ctx, id, "7", "+79000000000"))
	}

	residents, err := m.ListResidents(ctx, "1.2", "7")
	require.NoError(t, err)
	require.Len(t, residents, 3)
	assert.Equal(t, "Анна", residents[0].FirstName)
	assert.Equal(t, "Борис", residents[1].FirstName)
	assert.Equal(t, "Вера", residents[2].FirstName)

	count, err := m.CountResidents(ctx, "1.2", "7")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListResidentsExcludesUnregistered(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.UpsertBasic(ctx, 1, "", "Анна", ""))
	require.NoError(t, m.SetBuilding(ctx, 1, "2.1"))
	// no Complete: building chosen but the flow stalled

	residents, err := m.ListResidents(ctx, "2.1", "9")
	require.NoError(t, err)
	assert.Empty(t, residents)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, SeedDefaultBuildings(ctx, m, 1))
	require.NoError(t, SeedDefaultBuildings(ctx, m, 2))

	buildings, err := m.ListBuildings(ctx)
	require.NoError(t, err)
	require.Len(t, buildings, len(DefaultBuildings))
	for i, b := range buildings {
		assert.Equal(t, DefaultBuildings[i], b.Name)
		// the second seed run must not re-attribute existing rows
		assert.Equal(t, int64(1), b.AddedBy)
	}
}

func TestAddBuildingDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, SeedDefaultBuildings(ctx, m, 1))

	err := m.AddBuilding(ctx, "1.1", 2)
	assert.ErrorIs(t, err, ErrBuildingExists)

	require.NoError(t, m.AddBuilding(ctx, "3.1", 2))

	buildings, err := m.ListBuildings(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(buildings))
	for _, b := range buildings {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"1.1", "1.2", "1.3", "1.4", "2.1", "2.2", "3.1"}, names)
}
