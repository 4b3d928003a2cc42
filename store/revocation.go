package store

import (
	"context"
	"errors"
	"time"

	"github.com/tidwall/buntdb"
)

// BuntRevocations is the embedded fallback revocation store used when no
// valkey address is configured. Entries expire with the token they revoke,
// so the set stays bounded. Single-process only.
type BuntRevocations struct {
	db *buntdb.DB
}

// NewBuntRevocations opens an in-memory buntdb instance.
func NewBuntRevocations() (*BuntRevocations, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	return &BuntRevocations{db: db}, nil
}

func (r *BuntRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// Already past expiry; Verify rejects it anyway.
		return nil
	}
	return r.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set("revoke:"+jti, "1", &buntdb.SetOptions{Expires: true, TTL: ttl})
		return err
	})
}

func (r *BuntRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get("revoke:" + jti)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	return revoked, err
}

func (r *BuntRevocations) Close() error { return r.db.Close() }
