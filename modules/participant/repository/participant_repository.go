package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mediation-api/core/database"
	"mediation-api/core/logger"
	"mediation-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("participant not found")

// ParticipantRepositoryInterface is the membership store. Every call is scoped
// to one case.
type ParticipantRepositoryInterface interface {
	// List is a non-locking read of every participant of the case.
	List(ctx context.Context, caseID uuid.UUID) ([]entity.Participant, error)
	// WithTx runs fn in a single transaction, committing only when fn
	// returns nil.
	WithTx(ctx context.Context, caseID uuid.UUID, fn func(tx ParticipantTx) error) error
}

// ParticipantTx is the write surface available inside WithTx.
type ParticipantTx interface {
	// LockCase reads every participant of the case and holds them against
	// concurrent writers until the transaction ends.
	LockCase(ctx context.Context) ([]entity.Participant, error)
	UpsertInvite(ctx context.Context, userID uuid.UUID, role entity.Role) (*entity.Participant, error)
	SetActive(ctx context.Context, userID uuid.UUID) (*entity.Participant, error)
	ApplyPatch(ctx context.Context, userID uuid.UUID, patch entity.Patch) (*entity.Participant, error)
	Remove(ctx context.Context, userID uuid.UUID) (bool, error)
}

const participantColumns = `case_id, user_id, role, status, created_at, updated_at`

// ParticipantRepository stores participants in case_participants through sqlx.
type ParticipantRepository struct {
	db    database.IDatabase
	clock func() time.Time
}

var _ ParticipantRepositoryInterface = (*ParticipantRepository)(nil)

func NewParticipantRepository(db database.IDatabase) *ParticipantRepository {
	return &ParticipantRepository{db: db, clock: time.Now}
}

func (r *ParticipantRepository) List(ctx context.Context, caseID uuid.UUID) ([]entity.Participant, error) {
	query := r.db.Rebind(`
		SELECT ` + participantColumns + `
		FROM case_participants
		WHERE case_id = ?
		ORDER BY created_at, user_id
	`)

	participants := []entity.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, caseID); err != nil {
		logger.Error("ParticipantRepository:List:Error", "case_id", caseID, "error", err)
		return nil, err
	}
	return participants, nil
}

func (r *ParticipantRepository) WithTx(ctx context.Context, caseID uuid.UUID, fn func(tx ParticipantTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("ParticipantRepository:WithTx:BeginTx", "error", err)
		return err
	}
	defer tx.Rollback()

	if err := fn(&participantTx{
		tx:      tx,
		caseID:  caseID,
		dialect: r.db.Dialect(),
		now:     func() time.Time { return r.clock().UTC() },
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ParticipantRepository:WithTx:Commit", "case_id", caseID, "error", err)
		return err
	}
	return nil
}

type participantTx struct {
	tx      *sqlx.Tx
	caseID  uuid.UUID
	dialect database.Dialect
	now     func() time.Time
}

// lockCaseQuery reads a case's rows in user_id order with the dialect's row
// lock appended, so concurrent writers on the same case queue up instead of
// deadlocking.
func lockCaseQuery(dialect database.Dialect) string {
	return `
		SELECT ` + participantColumns + `
		FROM case_participants
		WHERE case_id = ?
		ORDER BY user_id
	` + dialect.LockRows
}

func (t *participantTx) LockCase(ctx context.Context) ([]entity.Participant, error) {
	query := t.tx.Rebind(lockCaseQuery(t.dialect))

	participants := []entity.Participant{}
	if err := t.tx.SelectContext(ctx, &participants, query, t.caseID); err != nil {
		logger.Error("ParticipantRepository:LockCase:Error", "case_id", t.caseID, "error", err)
		return nil, err
	}
	return participants, nil
}

func (t *participantTx) get(ctx context.Context, userID uuid.UUID) (*entity.Participant, error) {
	query := t.tx.Rebind(`
		SELECT ` + participantColumns + `
		FROM case_participants
		WHERE case_id = ? AND user_id = ?
	`)

	var p entity.Participant
	if err := t.tx.GetContext(ctx, &p, query, t.caseID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// exec runs a write and reports whether it touched a row.
func (t *participantTx) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (t *participantTx) UpsertInvite(ctx context.Context, userID uuid.UUID, role entity.Role) (*entity.Participant, error) {
	query := `
		INSERT INTO case_participants (case_id, user_id, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (case_id, user_id) DO UPDATE
		SET role = excluded.role, status = excluded.status, updated_at = excluded.updated_at
	`
	now := t.now()
	if _, err := t.exec(ctx, query, t.caseID, userID, string(role), string(entity.StatusInvited), now, now); err != nil {
		logger.Error("ParticipantRepository:UpsertInvite:Error", "case_id", t.caseID, "user_id", userID, "error", err)
		return nil, err
	}
	return t.get(ctx, userID)
}

func (t *participantTx) SetActive(ctx context.Context, userID uuid.UUID) (*entity.Participant, error) {
	query := `
		UPDATE case_participants
		SET status = ?, updated_at = ?
		WHERE case_id = ? AND user_id = ?
	`
	found, err := t.exec(ctx, query, string(entity.StatusActive), t.now(), t.caseID, userID)
	if err != nil {
		logger.Error("ParticipantRepository:SetActive:Error", "case_id", t.caseID, "user_id", userID, "error", err)
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return t.get(ctx, userID)
}

func (t *participantTx) ApplyPatch(ctx context.Context, userID uuid.UUID, patch entity.Patch) (*entity.Participant, error) {
	query := `
		UPDATE case_participants
		SET role = COALESCE(?, role), status = COALESCE(?, status), updated_at = ?
		WHERE case_id = ? AND user_id = ?
	`
	var role, status any
	if patch.Role != nil {
		role = string(*patch.Role)
	}
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	found, err := t.exec(ctx, query, role, status, t.now(), t.caseID, userID)
	if err != nil {
		logger.Error("ParticipantRepository:ApplyPatch:Error", "case_id", t.caseID, "user_id", userID, "error", err)
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return t.get(ctx, userID)
}

func (t *participantTx) Remove(ctx context.Context, userID uuid.UUID) (bool, error) {
	removed, err := t.exec(ctx, `DELETE FROM case_participants WHERE case_id = ? AND user_id = ?`, t.caseID, userID)
	if err != nil {
		logger.Error("ParticipantRepository:Remove:Error", "case_id", t.caseID, "user_id", userID, "error", err)
		return false, err
	}
	return removed, nil
}
