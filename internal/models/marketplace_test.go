package models

import "testing"

// TestCategoryValid verifies the closed category enum.
func TestCategoryValid(t *testing.T) {
	tests := []struct {
		name  string
		cat   Category
		valid bool
	}{
		{name: "web-app", cat: CategoryWebApp, valid: true},
		{name: "mobile-app", cat: CategoryMobileApp, valid: true},
		{name: "dashboard", cat: CategoryDashboard, valid: true},
		{name: "e-commerce", cat: CategoryECommerce, valid: true},
		{name: "landing-page", cat: CategoryLandingPage, valid: true},
		{name: "api", cat: CategoryAPI, valid: true},
		{name: "component-library", cat: CategoryComponentLibrary, valid: true},
		{name: "ai-ml", cat: CategoryAIML, valid: true},
		{name: "empty", cat: Category(""), valid: false},
		{name: "unknown", cat: Category("games"), valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cat.Valid(); got != tc.valid {
				t.Errorf("Category(%q).Valid() = %v, want %v", tc.cat, got, tc.valid)
			}
		})
	}
}

// TestPricingFree treats both the zero value and the explicit free type as free.
func TestPricingFree(t *testing.T) {
	tests := []struct {
		name string
		p    Pricing
		free bool
	}{
		{name: "zero value", p: Pricing{}, free: true},
		{name: "explicit free", p: Pricing{Type: PricingFree}, free: true},
		{name: "one-time", p: Pricing{Type: PricingOneTime, AmountCents: 4900, Currency: "USD"}, free: false},
		{name: "subscription", p: Pricing{Type: PricingSubscription, AmountCents: 900, Currency: "USD"}, free: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Free(); got != tc.free {
				t.Errorf("Pricing.Free() = %v, want %v", got, tc.free)
			}
		})
	}
}

// TestPublishMetadataClone verifies the deep copy is independent.
func TestPublishMetadataClone(t *testing.T) {
	meta := &PublishMetadata{
		Category:    CategoryWebApp,
		Tags:        []string{"blog", "starter"},
		Screenshots: []string{"https://cdn.example.com/a.webp"},
	}

	clone := meta.Clone()
	clone.Tags[0] = "changed"
	clone.Screenshots[0] = "changed"

	if meta.Tags[0] != "blog" {
		t.Error("clone mutation leaked into original tags")
	}
	if meta.Screenshots[0] != "https://cdn.example.com/a.webp" {
		t.Error("clone mutation leaked into original screenshots")
	}
}
