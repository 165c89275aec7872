package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository/postgres"
	"github.com/yeluhq/terminal-server/internal/testutil"
)

func attackEntry(encounterID, actorID uuid.UUID, damage int) *domain.CombatLog {
	return &domain.CombatLog{
		ID:          uuid.New(),
		EncounterID: encounterID,
		ActorID:     actorID,
		ActorName:   "fighter",
		Type:        domain.LogPlayerAttack,
		Message:     "hit",
		Damage:      damage,
		CreatedAt:   time.Now(),
	}
}

func TestCombatLogRepository_CreateMany(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCombatLogRepository(testDB.DB)
	ctx := context.Background()

	t.Run("replaying a batch skips existing IDs", func(t *testing.T) {
		testDB.Truncate(t)

		encounterID := uuid.New()
		entries := []*domain.CombatLog{
			attackEntry(encounterID, uuid.New(), 10),
			attackEntry(encounterID, uuid.New(), 20),
		}
		require.NoError(t, repo.CreateMany(ctx, entries))
		require.NoError(t, repo.CreateMany(ctx, entries))

		stored, err := repo.ListByEncounter(ctx, encounterID)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		testDB.Truncate(t)
		require.NoError(t, repo.CreateMany(ctx, nil))
	})
}

func TestCombatLogRepository_SumAttackDamageByActor(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCombatLogRepository(testDB.DB)
	ctx := context.Background()
	testDB.Truncate(t)

	encounterID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, repo.Create(ctx, attackEntry(encounterID, alice, 10)))
	require.NoError(t, repo.Create(ctx, attackEntry(encounterID, alice, 15)))
	require.NoError(t, repo.Create(ctx, attackEntry(encounterID, bob, 7)))
	// other encounters and non-attack entries stay out of the totals
	require.NoError(t, repo.Create(ctx, attackEntry(uuid.New(), alice, 99)))
	itemID := uuid.New().String()
	require.NoError(t, repo.Create(ctx, &domain.CombatLog{
		ID:          uuid.New(),
		EncounterID: encounterID,
		ActorID:     alice,
		Type:        domain.LogItemUsed,
		Message:     "boom",
		ItemID:      &itemID,
		Damage:      50,
		CreatedAt:   time.Now(),
	}))

	totals, err := repo.SumAttackDamageByActor(ctx, encounterID)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{alice: 25, bob: 7}, totals)
}

func TestBufferedCombatLogRepository_Drain(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBufferedCombatLogRepository(testDB.DB)
	ctx := context.Background()
	testDB.Truncate(t)

	first := uuid.New()
	second := uuid.New()

	push := func(encounterID uuid.UUID, msg string) {
		require.NoError(t, repo.Push(ctx, &domain.BufferedCombatLog{
			ID:          uuid.New(),
			EncounterID: encounterID,
			ActorID:     uuid.New(),
			Type:        domain.LogPlayerAttack,
			Message:     msg,
			CreatedAt:   time.Now(),
		}))
	}
	push(first, "a")
	push(first, "b")
	push(second, "c")

	pending, err := repo.PendingEncounterIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, pending)

	drained, err := repo.Drain(ctx, first)
	require.NoError(t, err)
	require.Len(t, drained, 2)
	assert.Equal(t, "a", drained[0].Message)

	// drained entries are gone, the other encounter is untouched
	drained, err = repo.Drain(ctx, first)
	require.NoError(t, err)
	assert.Empty(t, drained)

	pending, err = repo.PendingEncounterIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second}, pending)
}
