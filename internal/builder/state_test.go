// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"scaffolder/internal/models"
)

// testValkeyClient returns a Redis client for tests. Skips if Valkey is
// unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "builder:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestStateStoreRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStateStore(client, time.Minute)
	ctx := context.Background()

	m := NewMachine(validDraft())
	m.JumpTo(StepVariables)

	if err := s.Save(ctx, "trip", m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx, "trip")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected machine, got nil")
	}
	if loaded.Step() != StepVariables {
		t.Errorf("step: got %q, want %q", loaded.Step(), StepVariables)
	}
	if loaded.Draft().Template.Name != m.Draft().Template.Name {
		t.Errorf("name: got %q, want %q",
			loaded.Draft().Template.Name, m.Draft().Template.Name)
	}
	if len(loaded.Draft().Template.Files) != len(m.Draft().Template.Files) {
		t.Errorf("files: got %d, want %d",
			len(loaded.Draft().Template.Files), len(m.Draft().Template.Files))
	}
}

func TestStateStoreLoadMissing(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStateStore(client, time.Minute)

	loaded, err := s.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil for missing session")
	}
}

func TestStateStoreLoadCorruptStep(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStateStore(client, time.Minute)
	ctx := context.Background()

	// A stored step that is no longer a known step falls back to the
	// initial step on resume.
	client.Set(ctx, "builder:corrupt",
		`{"draft":{"template":{"name":"x"},"meta":{}},"step":"wizardry"}`, time.Minute)

	loaded, err := s.Load(ctx, "corrupt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Step() != StepBasic {
		t.Errorf("step: got %q, want %q", loaded.Step(), StepBasic)
	}
}

func TestStateStoreDelete(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStateStore(client, time.Minute)
	ctx := context.Background()

	m := NewMachine(NewDraft(uuid.New(), uuid.New()))
	if err := s.Save(ctx, "gone", m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	loaded, _ := s.Load(ctx, "gone")
	if loaded != nil {
		t.Error("expected nil after delete")
	}
}

func TestStateStoreActionsSurviveReload(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStateStore(client, time.Minute)
	ctx := context.Background()

	m := NewMachine(NewDraft(uuid.New(), uuid.New()))
	name := "Persisted Draft"
	next, err := Apply(m.Draft(), Action{Op: OpSetBasic, Name: &name})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	next, err = Apply(next, Action{
		Op:   OpAddFile,
		File: &models.ProjectFile{Path: "src/App.tsx", Type: models.FileTypeComponent},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	m = ResumeMachine(next, m.Step())

	if err := s.Save(ctx, "reload", m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, loadErr := s.Load(ctx, "reload")
	if loadErr != nil {
		t.Fatalf("Load: %v", loadErr)
	}
	if loaded.Draft().Template.Name != name {
		t.Errorf("name: got %q", loaded.Draft().Template.Name)
	}
	if len(loaded.Draft().Template.Files) != 1 {
		t.Errorf("files: got %d, want 1", len(loaded.Draft().Template.Files))
	}
}
