package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/cryptox"
)

const saltSize = 16

// PassphraseSealer derives the record key from passphrase and the salt kept
// in repo, creating the salt on first use.
func PassphraseSealer(ctx context.Context, repo records.Repository, passphrase string) (*cryptox.Sealer, error) {
	salt, err := repo.Get(ctx, common.SealSaltRecordKey)
	if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}
	if len(salt) == 0 {
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.SetMany(ctx, map[string][]byte{common.SealSaltRecordKey: salt}); err != nil {
			return nil, fmt.Errorf("store salt: %w", err)
		}
	}

	pass := []byte(passphrase)
	key := cryptox.DeriveKey(pass, salt)
	common.WipeByteArray(pass)

	return cryptox.NewSealer(key)
}
