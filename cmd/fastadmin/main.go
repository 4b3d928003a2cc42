package main

import (
	"context"
	"errors"
	"log"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/migrate"
	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/seed"
	"github.com/fast-admin/fastadmin/server"
	"github.com/fast-admin/fastadmin/store"
)

// defaultSeedPassword is the first-boot password for the built-in
// accounts. Change it right after the first login.
const defaultSeedPassword = "123456"

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		if errors.Is(err, server.ErrSecretNotSet) {
			log.Fatalf("refusing to start: %v", err)
		}
		log.Fatalf("load config: %v", err)
	}

	// Optionally run schema migrations and the data seed before serving.
	// See migrate.RunFromEnv and seed.RunFromEnv for the env vars.
	if err := migrate.RunFromEnv(); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	if err := seed.RunFromEnv(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	db, err := server.OpenDB(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	ctx := context.Background()
	if err := seed.EnsureDefaultUsers(ctx, db, defaultSeedPassword); err != nil {
		log.Printf("default users not seeded: %v", err)
	}

	// Revocation store: prefer Valkey when configured so revoked tokens
	// survive restarts and are shared across instances, else in-process.
	var revoked auth.RevocationStore
	if cfg.Valkey.Addr != "" {
		vk, err := store.NewValkeyRevocations(cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			log.Fatalf("connect valkey at %s: %v", cfg.Valkey.Addr, err)
		}
		revoked = vk
		log.Printf("using valkey revocation store at %s", cfg.Valkey.Addr)
	} else {
		mem, err := store.NewBuntRevocations()
		if err != nil {
			log.Fatalf("open revocation store: %v", err)
		}
		revoked = mem
		log.Printf("using in-process revocation store")
	}

	srv, err := server.New(cfg, db, revoked)
	if err != nil {
		log.Fatalf("assemble server: %v", err)
	}

	srv.Logs.Append(ctx, models.LogTypeSystem, models.LogSystemStart, nil)

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
