package main

import (
	"context"
	"database/sql"
	"net/http"

	"get-a-pet/internal/adapters/auth/jwt"
	"get-a-pet/internal/adapters/auth/remote"
	imgfs "get-a-pet/internal/adapters/images/fs"
	imgmem "get-a-pet/internal/adapters/images/memory"
	imgminio "get-a-pet/internal/adapters/images/minio"
	imgs3 "get-a-pet/internal/adapters/images/s3"
	mem "get-a-pet/internal/adapters/storage/memory"
	pg "get-a-pet/internal/adapters/storage/postgres"
	"get-a-pet/internal/adapters/storage/sqlite"
	usermem "get-a-pet/internal/adapters/users/memory"
	userpg "get-a-pet/internal/adapters/users/postgres"
	"get-a-pet/internal/adapters/users/rediscache"
	userremote "get-a-pet/internal/adapters/users/remote"
	"get-a-pet/internal/domain/pets"
	"get-a-pet/internal/platform/config"
	"get-a-pet/internal/platform/logger"
	"get-a-pet/internal/ports/auth"
	"get-a-pet/internal/ports/images"
	"get-a-pet/internal/ports/users"
)

// deps son las implementaciones elegidas por configuración.
type deps struct {
	verifier auth.AuthVerifier
	petRepo  pets.Repository
	images   images.Store
	users    users.Directory
	policy   pets.ConcludePolicy

	healthCheck func(*http.Request) error
	closers     []func() error
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

func buildDeps(ctx context.Context, cfg config.Config, log logger.Logger) (*deps, error) {
	d := &deps{policy: pets.ParseConcludePolicy(cfg.Adoption.ConcludePolicy)}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	var db *sql.DB
	if cfg.Storage.Driver == "postgres" || cfg.Users.Driver == "postgres" {
		opened, err := pg.Open(ctx, cfg.Storage.PostgresDSN, pg.Pool{})
		if err != nil {
			return nil, err
		}
		db = opened
		d.closers = append(d.closers, db.Close)
		d.healthCheck = func(r *http.Request) error { return db.PingContext(r.Context()) }
		if cfg.Storage.Migrate {
			if err := pg.Migrate(ctx, db); err != nil {
				return nil, err
			}
		}
	}

	// Auth
	switch cfg.Auth.Mode {
	case "jwt":
		v, err := jwt.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		d.verifier = v
	case "remote":
		v, err := remote.NewVerifier(remote.Config{
			BaseURL: cfg.Auth.RemoteURL,
			APIKey:  cfg.Auth.RemoteAPIKey,
			Timeout: cfg.Auth.Timeout,
		})
		if err != nil {
			return nil, err
		}
		d.verifier = v
	default:
		log.Warn("auth in dev mode: identity taken from X-Debug-User-ID", nil)
	}

	// Pets
	switch cfg.Storage.Driver {
	case "postgres":
		d.petRepo = pg.NewPetsRepo(db)
	case "sqlite":
		repo, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		d.petRepo = repo
		d.closers = append(d.closers, repo.Close)
		d.healthCheck = func(r *http.Request) error { return repo.Ping(r.Context()) }
	default:
		d.petRepo = mem.NewPetRepo()
	}

	// Imágenes
	switch cfg.Images.Driver {
	case "fs":
		s, err := imgfs.New(cfg.Images.Root)
		if err != nil {
			return nil, err
		}
		d.images = s
	case "s3":
		s, err := imgs3.New(ctx, imgs3.Config{
			Bucket:          cfg.Images.Bucket,
			Region:          cfg.Images.Region,
			Endpoint:        cfg.Images.Endpoint,
			AccessKeyID:     cfg.Images.AccessKey,
			SecretAccessKey: cfg.Images.SecretKey,
			PathStyle:       cfg.Images.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		d.images = s
	case "minio":
		s, err := imgminio.New(ctx, imgminio.Config{
			Endpoint:  cfg.Images.Endpoint,
			AccessKey: cfg.Images.AccessKey,
			SecretKey: cfg.Images.SecretKey,
			Bucket:    cfg.Images.Bucket,
			UseSSL:    cfg.Images.UseSSL,
			Region:    cfg.Images.Region,
		})
		if err != nil {
			return nil, err
		}
		d.images = s
	default:
		d.images = imgmem.NewStore()
	}

	// Usuarios
	var dir users.Directory
	switch cfg.Users.Driver {
	case "postgres":
		dir = userpg.NewDirectory(db)
	case "remote":
		r, err := userremote.NewDirectory(userremote.Config{
			BaseURL: cfg.Users.RemoteURL,
			APIKey:  cfg.Users.APIKey,
			Timeout: cfg.Users.Timeout,
		})
		if err != nil {
			return nil, err
		}
		dir = r
	default:
		dir = usermem.NewDirectory()
	}
	if cfg.Users.RedisAddr != "" {
		rdb := rediscache.NewClient(cfg.Users.RedisAddr, cfg.Users.RedisPassword, cfg.Users.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, user cache will fall back to origin", map[string]any{"error": err.Error()})
		}
		d.closers = append(d.closers, rdb.Close)
		dir = rediscache.New(dir, rdb, cfg.Users.CacheTTL, log)
	}
	d.users = dir

	ok = true
	return d, nil
}
