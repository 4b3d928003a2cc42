package store

import (
	"context"
	"fmt"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyRevocations shares the revocation set across replicas through a
// valkey/redis instance, so a token revoked on one pod is rejected by all.
type ValkeyRevocations struct {
	client valkey.Client
	prefix string
}

// NewValkeyRevocations connects to the given address. Prefix defaults to
// "fastadmin:".
func NewValkeyRevocations(addr, prefix string) (*ValkeyRevocations, error) {
	if addr == "" {
		return nil, fmt.Errorf("valkey address is required")
	}
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect valkey: %w", err)
	}
	if prefix == "" {
		prefix = "fastadmin:"
	}
	return &ValkeyRevocations{client: cli, prefix: prefix}, nil
}

func (r *ValkeyRevocations) key(jti string) string { return r.prefix + "revoke:" + jti }

func (r *ValkeyRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Do(ctx, r.client.B().Set().Key(r.key(jti)).Value("1").Ex(ttl).Build()).Error()
}

func (r *ValkeyRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Do(ctx, r.client.B().Exists().Key(r.key(jti)).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ValkeyRevocations) Close() { r.client.Close() }
