package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"mediation-api/modules/participant/entity"

	"github.com/google/uuid"
)

// MemoryRepository keeps participants in process memory. Transactions on the
// same case are serialized by a per-case lock and work on a private copy
// that replaces the case's rows only on commit.
type MemoryRepository struct {
	mu    sync.Mutex
	cases map[uuid.UUID]map[uuid.UUID]entity.Participant
	locks map[uuid.UUID]chan struct{}
	clock func() time.Time
}

var _ ParticipantRepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		cases: make(map[uuid.UUID]map[uuid.UUID]entity.Participant),
		locks: make(map[uuid.UUID]chan struct{}),
		clock: time.Now,
	}
}

// Seed stores participants as-is, bypassing every check. For fixtures and the
// bootstrap path only.
func (r *MemoryRepository) Seed(participants ...entity.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock().UTC()
	for _, p := range participants {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		rows, ok := r.cases[p.CaseID]
		if !ok {
			rows = make(map[uuid.UUID]entity.Participant)
			r.cases[p.CaseID] = rows
		}
		rows[p.UserID] = p
	}
}

func (r *MemoryRepository) List(ctx context.Context, caseID uuid.UUID) ([]entity.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedRows(r.cases[caseID], byCreated), nil
}

func (r *MemoryRepository) caseLock(caseID uuid.UUID) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[caseID]
	if !ok {
		lock = make(chan struct{}, 1)
		r.locks[caseID] = lock
	}
	return lock
}

func (r *MemoryRepository) WithTx(ctx context.Context, caseID uuid.UUID, fn func(tx ParticipantTx) error) error {
	lock := r.caseLock(caseID)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	r.mu.Lock()
	working := make(map[uuid.UUID]entity.Participant, len(r.cases[caseID]))
	for id, p := range r.cases[caseID] {
		working[id] = p
	}
	r.mu.Unlock()

	tx := &memoryTx{
		caseID: caseID,
		rows:   working,
		now:    func() time.Time { return r.clock().UTC() },
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.cases[caseID] = tx.rows
	r.mu.Unlock()
	return nil
}

type memoryTx struct {
	caseID uuid.UUID
	rows   map[uuid.UUID]entity.Participant
	now    func() time.Time
}

func (t *memoryTx) LockCase(ctx context.Context) ([]entity.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sortedRows(t.rows, byUserID), nil
}

func (t *memoryTx) UpsertInvite(_ context.Context, userID uuid.UUID, role entity.Role) (*entity.Participant, error) {
	now := t.now()
	p, ok := t.rows[userID]
	if !ok {
		p = entity.Participant{CaseID: t.caseID, UserID: userID, CreatedAt: now}
	}
	p.Role = role
	p.Status = entity.StatusInvited
	p.UpdatedAt = now
	t.rows[userID] = p
	return &p, nil
}

func (t *memoryTx) SetActive(_ context.Context, userID uuid.UUID) (*entity.Participant, error) {
	p, ok := t.rows[userID]
	if !ok {
		return nil, ErrNotFound
	}
	p.Status = entity.StatusActive
	p.UpdatedAt = t.now()
	t.rows[userID] = p
	return &p, nil
}

func (t *memoryTx) ApplyPatch(_ context.Context, userID uuid.UUID, patch entity.Patch) (*entity.Participant, error) {
	p, ok := t.rows[userID]
	if !ok {
		return nil, ErrNotFound
	}
	p = patch.ApplyTo(p)
	p.UpdatedAt = t.now()
	t.rows[userID] = p
	return &p, nil
}

func (t *memoryTx) Remove(_ context.Context, userID uuid.UUID) (bool, error) {
	if _, ok := t.rows[userID]; !ok {
		return false, nil
	}
	delete(t.rows, userID)
	return true, nil
}

func byCreated(a, b entity.Participant) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return byUserID(a, b)
}

func byUserID(a, b entity.Participant) bool {
	return a.UserID.String() < b.UserID.String()
}

func sortedRows(rows map[uuid.UUID]entity.Participant, less func(a, b entity.Participant) bool) []entity.Participant {
	out := make([]entity.Participant, 0, len(rows))
	for _, p := range rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
