package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mediation-api/core/database"
	"mediation-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepository(t *testing.T) *ParticipantRepository {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "participants.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &db))
	return NewParticipantRepository(&db)
}

// forEachStore runs the same behaviour checks against every store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, repo ParticipantRepositoryInterface)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryRepository()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteRepository(t)) })
}

func inTx[T any](t *testing.T, repo ParticipantRepositoryInterface, caseID uuid.UUID, fn func(tx ParticipantTx) (T, error)) T {
	t.Helper()
	var out T
	err := repo.WithTx(context.Background(), caseID, func(tx ParticipantTx) error {
		var err error
		out, err = fn(tx)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestUpsertInviteIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseID, userID := uuid.New(), uuid.New()

		first := inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, userID, entity.RoleDivorcee)
		})
		second := inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, userID, entity.RoleDivorcee)
		})

		assert.Equal(t, entity.RoleDivorcee, second.Role)
		assert.Equal(t, entity.StatusInvited, second.Status)
		assert.Equal(t, first.CaseID, second.CaseID)
		assert.Equal(t, first.UserID, second.UserID)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

		rows, err := repo.List(ctx, caseID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestUpsertInviteResetsExistingRow(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseID, userID := uuid.New(), uuid.New()

		inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			if _, err := tx.UpsertInvite(ctx, userID, entity.RoleDivorcee); err != nil {
				return nil, err
			}
			return tx.SetActive(ctx, userID)
		})
		got := inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, userID, entity.RoleLawyer)
		})

		assert.Equal(t, entity.RoleLawyer, got.Role)
		assert.Equal(t, entity.StatusInvited, got.Status)
	})
}

func TestSetActivePreservesRole(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseID, userID := uuid.New(), uuid.New()

		got := inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			if _, err := tx.UpsertInvite(ctx, userID, entity.RoleLawyer); err != nil {
				return nil, err
			}
			return tx.SetActive(ctx, userID)
		})
		assert.Equal(t, entity.RoleLawyer, got.Role)
		assert.Equal(t, entity.StatusActive, got.Status)

		err := repo.WithTx(ctx, caseID, func(tx ParticipantTx) error {
			_, err := tx.SetActive(ctx, uuid.New())
			return err
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestApplyPatchUpdatesOnlySuppliedFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseID, userID := uuid.New(), uuid.New()
		mediator := entity.RoleMediator
		active := entity.StatusActive

		inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, userID, entity.RoleDivorcee)
		})

		got := inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.ApplyPatch(ctx, userID, entity.Patch{Role: &mediator})
		})
		assert.Equal(t, entity.RoleMediator, got.Role)
		assert.Equal(t, entity.StatusInvited, got.Status)

		got = inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.ApplyPatch(ctx, userID, entity.Patch{Status: &active})
		})
		assert.Equal(t, entity.RoleMediator, got.Role)
		assert.Equal(t, entity.StatusActive, got.Status)

		err := repo.WithTx(ctx, caseID, func(tx ParticipantTx) error {
			_, err := tx.ApplyPatch(ctx, uuid.New(), entity.Patch{Role: &mediator})
			return err
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveReportsWhetherRowExisted(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseID, userID := uuid.New(), uuid.New()

		inTx(t, repo, caseID, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, userID, entity.RoleLawyer)
		})

		removed := inTx(t, repo, caseID, func(tx ParticipantTx) (bool, error) {
			return tx.Remove(ctx, userID)
		})
		assert.True(t, removed)

		removed = inTx(t, repo, caseID, func(tx ParticipantTx) (bool, error) {
			return tx.Remove(ctx, userID)
		})
		assert.False(t, removed)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseID := uuid.New()
		boom := errors.New("boom")

		err := repo.WithTx(ctx, caseID, func(tx ParticipantTx) error {
			if _, err := tx.UpsertInvite(ctx, uuid.New(), entity.RoleMediator); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		rows, err := repo.List(ctx, caseID)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestListAndLockAreScopedToCase(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo ParticipantRepositoryInterface) {
		ctx := context.Background()
		caseA, caseB := uuid.New(), uuid.New()
		alice, bob := uuid.New(), uuid.New()

		inTx(t, repo, caseA, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, alice, entity.RoleMediator)
		})
		inTx(t, repo, caseB, func(tx ParticipantTx) (*entity.Participant, error) {
			return tx.UpsertInvite(ctx, bob, entity.RoleLawyer)
		})

		rows, err := repo.List(ctx, caseA)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, alice, rows[0].UserID)
		assert.Equal(t, caseA, rows[0].CaseID)

		locked := inTx(t, repo, caseB, func(tx ParticipantTx) ([]entity.Participant, error) {
			return tx.LockCase(ctx)
		})
		require.Len(t, locked, 1)
		assert.Equal(t, bob, locked[0].UserID)

		rows, err = repo.List(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestMemoryWithTxHonoursCancellation(t *testing.T) {
	repo := NewMemoryRepository()
	caseID := uuid.New()
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = repo.WithTx(context.Background(), caseID, func(tx ParticipantTx) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.WithTx(ctx, caseID, func(tx ParticipantTx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestLockCaseQueryPerDialect(t *testing.T) {
	compact := func(q string) string { return strings.Join(strings.Fields(q), " ") }

	postgres := compact(sqlx.Rebind(sqlx.DOLLAR, lockCaseQuery(database.DialectPostgres)))
	assert.Contains(t, postgres, "WHERE case_id = $1")
	assert.True(t, strings.HasSuffix(postgres, "ORDER BY user_id "+database.DialectPostgres.LockRows), postgres)

	sqlite := compact(lockCaseQuery(database.DialectSQLite))
	assert.True(t, strings.HasSuffix(sqlite, "ORDER BY user_id"), sqlite)
	assert.NotContains(t, sqlite, "FOR UPDATE")
}
