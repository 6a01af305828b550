package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"scaffolder/internal/builder"
	"scaffolder/internal/models"
)

// fakeMarketplace records calls and simulates the persistence collaborator.
type fakeMarketplace struct {
	createErr  error
	publishErr error

	createCalls  int
	publishCalls int

	lastPublishedMeta *models.PublishMetadata
	lastTemplateID    uuid.UUID
}

func (f *fakeMarketplace) CreateCustomTemplate(_ context.Context, _ uuid.UUID, tmpl *models.CustomTemplate) (*models.CustomTemplate, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	saved := tmpl.Clone()
	id := uuid.New()
	saved.ID = &id
	return saved, nil
}

func (f *fakeMarketplace) PublishTemplate(_ context.Context, templateID uuid.UUID, meta *models.PublishMetadata, publishedBy uuid.UUID) (*models.ProjectTemplate, error) {
	f.publishCalls++
	f.lastTemplateID = templateID
	f.lastPublishedMeta = meta
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &models.ProjectTemplate{
		ID:          uuid.New(),
		TemplateID:  templateID,
		Version:     1,
		Category:    meta.Category,
		Tags:        append([]string(nil), meta.Tags...),
		PublishedBy: publishedBy,
		PublishedAt: time.Now(),
	}, nil
}

func publishableDraft() *builder.Draft {
	d := builder.NewDraft(uuid.New(), uuid.New())
	d.Template.Name = "Blog Starter"
	d.Template.Description = "A blog scaffold"
	d.Template.Files = []models.ProjectFile{{Path: "src/index.tsx"}}
	d.Template.Config.Framework = models.FrameworkReact
	d.Meta.Category = models.CategoryWebApp
	d.Meta.Tags = []string{"blog"}
	return d
}

// TestPublishUnsavedDraftSavesFirst: a draft without an ID is implicitly
// saved before promotion.
func TestPublishUnsavedDraftSavesFirst(t *testing.T) {
	mk := &fakeMarketplace{}
	p := NewPipeline(mk)

	published, err := p.Publish(context.Background(), publishableDraft(), uuid.New())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if mk.createCalls != 1 {
		t.Errorf("create calls = %d, want 1 (implicit save)", mk.createCalls)
	}
	if mk.publishCalls != 1 {
		t.Errorf("publish calls = %d, want 1", mk.publishCalls)
	}
	if published.TemplateID == uuid.Nil {
		t.Error("published snapshot must reference the saved draft")
	}
}

// TestPublishSavedDraftSkipsSave: an already-saved draft is not re-created.
func TestPublishSavedDraftSkipsSave(t *testing.T) {
	mk := &fakeMarketplace{}
	p := NewPipeline(mk)

	d := publishableDraft()
	id := uuid.New()
	d.Template.ID = &id

	if _, err := p.Publish(context.Background(), d, uuid.New()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if mk.createCalls != 0 {
		t.Errorf("create calls = %d, want 0", mk.createCalls)
	}
	if mk.lastTemplateID != id {
		t.Errorf("published template id = %s, want %s", mk.lastTemplateID, id)
	}
}

// TestPublishMissingCategoryFails: the publish precondition.
func TestPublishMissingCategoryFails(t *testing.T) {
	mk := &fakeMarketplace{}
	p := NewPipeline(mk)

	d := publishableDraft()
	d.Meta.Category = ""

	_, err := p.Publish(context.Background(), d, uuid.New())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if mk.createCalls != 0 || mk.publishCalls != 0 {
		t.Error("no persistence call may happen when validation fails")
	}
}

// TestPublishEmptyTagsSucceeds: a tags warning does not block publication.
func TestPublishEmptyTagsSucceeds(t *testing.T) {
	p := NewPipeline(&fakeMarketplace{})

	d := publishableDraft()
	d.Meta.Tags = nil

	if _, err := p.Publish(context.Background(), d, uuid.New()); err != nil {
		t.Fatalf("publish with empty tags failed: %v", err)
	}
}

// TestPublishEarlierStepErrorFails: the pipeline re-validates every step,
// so reaching publish via jumpTo with a broken basic step still fails.
func TestPublishEarlierStepErrorFails(t *testing.T) {
	p := NewPipeline(&fakeMarketplace{})

	d := publishableDraft()
	d.Template.Name = "   "

	m := builder.NewMachine(d)
	if !m.JumpTo(builder.StepPublish) {
		t.Fatal("jumpTo publish must succeed")
	}

	_, err := p.Publish(context.Background(), m.Draft(), uuid.New())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}

	found := false
	for _, f := range verr.Findings {
		if f.Field == "name" && f.Severity == builder.SeverityError {
			found = true
		}
	}
	if !found {
		t.Errorf("findings %v must include the lingering name error", verr.Findings)
	}
}

// TestPublishPersistenceFailure surfaces collaborator errors as retryable
// persistence failures and leaves the draft untouched.
func TestPublishPersistenceFailure(t *testing.T) {
	t.Run("save fails", func(t *testing.T) {
		mk := &fakeMarketplace{createErr: errors.New("connection refused")}
		p := NewPipeline(mk)
		d := publishableDraft()

		_, err := p.Publish(context.Background(), d, uuid.New())
		var perr *PersistenceError
		if !errors.As(err, &perr) || perr.Op != "save" {
			t.Fatalf("error = %v, want *PersistenceError op=save", err)
		}
		if d.Template.Saved() {
			t.Error("draft must remain unsaved after a failed save")
		}
	})

	t.Run("publish fails", func(t *testing.T) {
		mk := &fakeMarketplace{publishErr: errors.New("write timeout")}
		p := NewPipeline(mk)

		_, err := p.Publish(context.Background(), publishableDraft(), uuid.New())
		var perr *PersistenceError
		if !errors.As(err, &perr) || perr.Op != "publish" {
			t.Fatalf("error = %v, want *PersistenceError op=publish", err)
		}
		if !errors.Is(err, mk.publishErr) {
			t.Error("persistence error must wrap the collaborator error")
		}
	})
}

// TestPublishSnapshotsDraft: edits after the call started must not show up
// in the published record.
func TestPublishSnapshotsDraft(t *testing.T) {
	mk := &fakeMarketplace{}
	p := NewPipeline(mk)
	d := publishableDraft()

	// The fake runs synchronously, so mutate through metadata the fake
	// records at call time instead.
	if _, err := p.Publish(context.Background(), d, uuid.New()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	d.Meta.Tags[0] = "changed"
	if mk.lastPublishedMeta.Tags[0] != "blog" {
		t.Error("published metadata shares memory with the live draft")
	}
}

// TestSaveDraft covers the explicit save path.
func TestSaveDraft(t *testing.T) {
	mk := &fakeMarketplace{}
	p := NewPipeline(mk)

	saved, err := p.SaveDraft(context.Background(), publishableDraft())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.ID == nil {
		t.Fatal("saved draft must carry an assigned ID")
	}

	mk.createErr = errors.New("disk full")
	_, err = p.SaveDraft(context.Background(), publishableDraft())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *PersistenceError", err)
	}
}
