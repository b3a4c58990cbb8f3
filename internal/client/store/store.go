// Package store persists the current session as two records, "user" and
// "tokens", over a records backend. Both are written in one atomic step and
// read back as a pair; a lone record is never returned.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/cryptox"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
)

type Store struct {
	repo   records.Repository
	sealer *cryptox.Sealer
}

type Option func(*Store)

// WithSealer encrypts records at rest with s.
func WithSealer(s *cryptox.Sealer) Option {
	return func(st *Store) {
		st.sealer = s
	}
}

func New(repo records.Repository, opts ...Option) *Store {
	s := &Store{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save writes both records atomically.
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	tokens, err := json.Marshal(sess.Tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	return s.repo.SetMany(ctx, map[string][]byte{
		common.UserRecordKey:   s.seal(user),
		common.TokensRecordKey: s.seal(tokens),
	})
}

// Load returns the persisted session, or (nil, nil) when there is none.
// A lone record is purged and reported as absent. Records that cannot be
// opened, decoded or that fail validation yield common.ErrCorruptSession;
// the caller decides whether to purge.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	rawUser, err := s.repo.Get(ctx, common.UserRecordKey)
	if err != nil {
		return nil, err
	}
	rawTokens, err := s.repo.Get(ctx, common.TokensRecordKey)
	if err != nil {
		return nil, err
	}

	switch {
	case rawUser == nil && rawTokens == nil:
		return nil, nil
	case rawUser == nil || rawTokens == nil:
		if err := s.Purge(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var sess models.Session
	if err := s.decode(rawUser, &sess.User); err != nil {
		return nil, err
	}
	if err := s.decode(rawTokens, &sess.Tokens); err != nil {
		return nil, err
	}
	if err := validate(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Purge removes both records. Removing absent records is not an error.
func (s *Store) Purge(ctx context.Context) error {
	return s.repo.Delete(ctx, common.UserRecordKey, common.TokensRecordKey)
}

func (s *Store) seal(b []byte) []byte {
	if s.sealer == nil {
		return b
	}
	return s.sealer.Seal(b)
}

func (s *Store) decode(raw []byte, v any) error {
	if s.sealer != nil {
		opened, err := s.sealer.Open(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrCorruptSession, err)
		}
		raw = opened
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", common.ErrCorruptSession, err)
	}
	return nil
}

func validate(sess models.Session) error {
	switch {
	case sess.User.ID == "":
		return fmt.Errorf("%w: user without id", common.ErrCorruptSession)
	case sess.Tokens.AccessToken == "":
		return fmt.Errorf("%w: missing access token", common.ErrCorruptSession)
	case sess.Tokens.TokenType != models.TokenTypeBearer:
		return fmt.Errorf("%w: token type %q", common.ErrCorruptSession, sess.Tokens.TokenType)
	case sess.Tokens.ExpiresAt.IsZero():
		return fmt.Errorf("%w: missing expiry", common.ErrCorruptSession)
	}
	return nil
}

// IsCorrupt reports whether err came from unreadable persisted records.
func IsCorrupt(err error) bool {
	return errors.Is(err, common.ErrCorruptSession)
}
