// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// marketplace.go serves the public catalog. Listing responses are cached
// as rendered JSON in Valkey; every publish flushes the whole listing
// keyspace, so stale entries last at most one TTL.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"scaffolder/internal/cache"
	"scaffolder/internal/markdown"
	"scaffolder/internal/models"
	"scaffolder/internal/storage"
	"scaffolder/internal/store"
)

const (
	defaultCatalogLimit = 24
	maxCatalogLimit     = 100

	// bundleURLExpiry is how long a presigned bundle download link stays
	// valid.
	bundleURLExpiry = 1 * time.Hour
)

// Marketplace groups the public marketplace handlers.
type Marketplace struct {
	marketplace *store.MarketplaceStore
	publishLog  *store.PublishLogStore
	screenshots *store.ScreenshotStore
	listings    *cache.ListingCache
	storage     *storage.Client // nil when object storage is not configured
}

// NewMarketplace creates a new Marketplace handler group.
func NewMarketplace(marketplace *store.MarketplaceStore, publishLog *store.PublishLogStore, screenshots *store.ScreenshotStore, listings *cache.ListingCache, storage *storage.Client) *Marketplace {
	return &Marketplace{
		marketplace: marketplace,
		publishLog:  publishLog,
		screenshots: screenshots,
		listings:    listings,
		storage:     storage,
	}
}

// catalogEntry is the listing shape of a published template: the browse
// card fields without the full file payload.
type catalogEntry struct {
	Slug        string          `json:"slug"`
	Version     int             `json:"version"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Tags        []string        `json:"tags"`
	Pricing     models.Pricing  `json:"pricing"`
	License     string          `json:"license"`
	Screenshots []string        `json:"screenshots"`
	PublishedAt time.Time       `json:"published_at"`
}

// Catalog lists published templates, newest first, latest version per
// slug. Supports ?category, ?limit and ?offset.
func (h *Marketplace) Catalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := queryInt(r, "limit", defaultCatalogLimit, maxCatalogLimit)
	offset := queryInt(r, "offset", 0, 1<<30)

	if category != "" && !models.Category(category).Valid() {
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}

	key := cache.CatalogKey(category, limit, offset)
	if body, ok := h.listings.Get(r.Context(), key); ok {
		writeCached(w, body)
		return
	}

	var (
		items []models.ProjectTemplate
		err   error
	)
	if category != "" {
		items, err = h.marketplace.ListByCategory(r.Context(), models.Category(category), limit, offset)
	} else {
		items, err = h.marketplace.List(r.Context(), limit, offset)
	}
	if err != nil {
		slog.Error("catalog query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	entries := make([]catalogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, catalogEntry{
			Slug:        item.Slug,
			Version:     item.Version,
			Name:        item.Name,
			Description: item.Description,
			Category:    item.Category,
			Tags:        item.Tags,
			Pricing:     item.Pricing,
			License:     item.License,
			Screenshots: item.Screenshots,
			PublishedAt: item.PublishedAt,
		})
	}

	body, err := json.Marshal(map[string]any{"templates": entries})
	if err != nil {
		slog.Error("catalog encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.listings.Set(r.Context(), key, body)
	writeCached(w, body)
}

// Detail returns the latest published version for a slug, with the
// description rendered to HTML and a presigned bundle download link when
// object storage is configured. The presigned URL is generated per
// request, so the detail response is not cached as a whole; only the
// stable part is.
func (h *Marketplace) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var published *models.ProjectTemplate
	key := cache.DetailKey(slug)
	if body, ok := h.listings.Get(r.Context(), key); ok {
		published = &models.ProjectTemplate{}
		if err := json.Unmarshal(body, published); err != nil {
			published = nil
		}
	}
	if published == nil {
		var err error
		published, err = h.marketplace.FindBySlug(r.Context(), slug)
		if err != nil {
			slog.Error("detail query failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if published == nil {
			respondError(w, http.StatusNotFound, "template not found")
			return
		}
		if body, err := json.Marshal(published); err == nil {
			h.listings.Set(r.Context(), key, body)
		}
	}

	descriptionHTML, err := markdown.ToHTML(published.Description)
	if err != nil {
		slog.Warn("description render failed", "error", err, "slug", slug)
		descriptionHTML = ""
	}

	resp := map[string]any{
		"template":         published,
		"description_html": descriptionHTML,
	}

	if screenshots, err := h.screenshots.ListByTemplate(r.Context(), published.TemplateID); err == nil && len(screenshots) > 0 {
		views := make([]map[string]any, 0, len(screenshots))
		for i := range screenshots {
			views = append(views, screenshotView(h.storage, &screenshots[i]))
		}
		resp["screenshots"] = views
	}

	if h.storage != nil {
		bundleKey := bundleKeyFor(published)
		url, err := h.storage.PresignedURL(r.Context(), h.storage.PrivateBucket(), bundleKey, bundleURLExpiry)
		if err != nil {
			slog.Warn("bundle presign failed", "error", err, "key", bundleKey)
		} else {
			resp["bundle_url"] = url
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Categories lists the known marketplace categories in display order.
func (h *Marketplace) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"categories": models.Categories})
}

// PublishLog returns the most recent publish events. Admin only.
func (h *Marketplace) PublishLog(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 200)

	entries, err := h.publishLog.RecentEntries(r.Context(), limit)
	if err != nil {
		slog.Error("publish log query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []store.PublishLogEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// bundleKeyFor returns the private-bucket key of a published snapshot's
// exported JSON bundle.
func bundleKeyFor(p *models.ProjectTemplate) string {
	return "bundles/" + p.Slug + "/v" + strconv.Itoa(p.Version) + ".json"
}

// writeCached writes a pre-rendered JSON body.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// queryInt parses an integer query parameter, clamping to [0, max] and
// falling back to def when absent or malformed.
func queryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
