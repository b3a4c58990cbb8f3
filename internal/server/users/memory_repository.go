package users

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

// MemoryRepository is an in-process Repository. Accounts are copied in and
// out so callers never share state with the store.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(account.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byID[account.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.byID[account.ID] = account.Clone()
	r.byEmail[key] = account.ID
	return account.Clone(), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

// Update replaces the stored account with the same ID. The email is the
// lookup key and cannot be changed.
func (r *MemoryRepository) Update(ctx context.Context, account *Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[account.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if emailKey(cur.Email) != emailKey(account.Email) {
		return common.ErrorInternal
	}
	r.byID[account.ID] = account.Clone()
	return nil
}
