package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hashtagchobi/chobi-site/internal/cache"
	"github.com/hashtagchobi/chobi-site/internal/config"
	"github.com/hashtagchobi/chobi-site/internal/infra/database"
	"github.com/hashtagchobi/chobi-site/internal/infra/docstore"
	"github.com/hashtagchobi/chobi-site/internal/infra/repository"
	"github.com/hashtagchobi/chobi-site/internal/markdown"
	"github.com/hashtagchobi/chobi-site/internal/usecase"
)

const memcachedTimeout = 500 * time.Millisecond

// app is the wired content stack shared by the commands.
type app struct {
	store   docstore.Store
	memory  *docstore.Memory
	rdb     *redis.Client
	content *usecase.ContentUsecase
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{}

	switch cfg.Store.Driver {
	case "firestore":
		client, err := database.NewFirestore(ctx, database.FirestoreOptions{
			ProjectID:       cfg.Firebase.ProjectID,
			DatabaseID:      cfg.Firebase.DatabaseID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
			APIKey:          cfg.Firebase.APIKey,
			EmulatorHost:    cfg.Firebase.EmulatorHost,
		})
		if err != nil {
			return nil, fmt.Errorf("connect firestore: %w", err)
		}
		a.store = docstore.NewFirestore(client)
	case "memory":
		a.memory = docstore.NewMemory()
		if cfg.Store.SeedFile != "" {
			if err := a.memory.LoadFile(cfg.Store.SeedFile); err != nil {
				return nil, fmt.Errorf("load seed file: %w", err)
			}
		}
		a.store = a.memory
	}

	if cfg.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.rdb = rdb
	}

	var backend cache.Backend
	switch cfg.Cache.Driver {
	case "redis":
		backend = cache.NewRedis(a.rdb, cfg.Cache.Prefix)
	case "memcached":
		mc := database.NewMemcached(cfg.Server.MemcachedAddr, memcachedTimeout)
		backend = cache.NewMemcached(mc, cfg.Cache.Prefix)
	default:
		backend = cache.NewMemory(cfg.Cache.TTLDuration())
	}
	c := cache.New(backend, cache.WithTTL(cfg.Cache.TTLDuration()))

	repo := repository.NewContentRepository(a.store, repository.LogReporter{})
	a.content = usecase.NewContentUsecase(repo, c, markdown.New())

	slog.Info(
		"Content stack ready",
		slog.String("store", cfg.Store.Driver),
		slog.String("cache", cfg.Cache.Driver),
		slog.String("ttl", cfg.Cache.TTLDuration().String()),
		slog.String("module", "main"),
	)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("Failed to close store", slog.String("error", err.Error()), slog.String("module", "main"))
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}
