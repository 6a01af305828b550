// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"scaffolder/internal/builder"
	"scaffolder/internal/cache"
	"scaffolder/internal/database"
	"scaffolder/internal/middleware"
	"scaffolder/internal/models"
	"scaffolder/internal/publish"
	"scaffolder/internal/session"
	"scaffolder/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "scaffolder")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "scaffolder")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "builder:*", "listing:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests. Object
// storage stays nil: bundle export and screenshot upload degrade
// gracefully without it.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Users       *store.UserStore
	Drafts      *store.TemplateStore
	Shots       *store.ScreenshotStore
	Market      *store.MarketplaceStore
	Log         *store.PublishLogStore
	States      *builder.StateStore
	Listings    *cache.ListingCache
	Pipeline    *publish.Pipeline
	Auth        *Auth
	Templates   *Templates
	Builder     *Builder
	Screenshots *Screenshots
	Marketplace *Marketplace
}

// newTestEnv creates a complete test environment with all handler
// dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	drafts := store.NewTemplateStore(db)
	shots := store.NewScreenshotStore(db)
	market := store.NewMarketplaceStore(db, drafts)
	publishLog := store.NewPublishLogStore(db)
	states := builder.NewStateStore(vk, time.Hour)
	listings := cache.NewListingCache(vk, time.Minute)
	pipeline := publish.NewPipeline(market)

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		Users:       users,
		Drafts:      drafts,
		Shots:       shots,
		Market:      market,
		Log:         publishLog,
		States:      states,
		Listings:    listings,
		Pipeline:    pipeline,
		Auth:        NewAuth(sessions, users),
		Templates:   NewTemplates(drafts),
		Builder:     NewBuilder(states, drafts, pipeline, listings, nil),
		Screenshots: NewScreenshots(shots, drafts, nil),
		Marketplace: NewMarketplace(market, publishLog, shots, listings, nil),
	}
}

// testUser creates a user with the given email and role in a fresh
// organization, removing it on cleanup. Drafts cascade with the user's
// rows only via explicit cleanup in the tests that create them.
func testUser(t *testing.T, env *testEnv, email string, role models.Role) *models.User {
	t.Helper()

	env.DB.Exec(`DELETE FROM users WHERE email = $1`, email)
	user, err := env.Users.Create(email, "secret123", "Test User", role, uuid.New())
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

// sessionFor builds session data matching a stored user, with 2FA marked
// complete.
func sessionFor(user *models.User) *session.Data {
	return &session.Data{
		UserID:         user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
		TwoFADone:      true,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
