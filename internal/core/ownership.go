package core

import (
	"fmt"
	"strings"

	"github.com/localedge/growthplan/pkg/models"
)

// OwnershipKey builds the composite key that enforces one-money-page-per-
// concept: normalized(service) :: normalized(location|"global") :: intent.
func OwnershipKey(service, location string, intent models.SearchIntent) string {
	loc := normalizeKeyPart(location)
	if loc == "" {
		loc = "global"
	}
	return fmt.Sprintf("%s::%s::%s", normalizeKeyPart(service), loc, intent)
}

// normalizeKeyPart lowercases, trims, and collapses separators so that
// "Emergency  Plumbing" and "emergency-plumbing" produce the same key part.
func normalizeKeyPart(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-"), "-")
}

// OwnershipRegistry is an insertion-ordered map from ownership key to
// canonical page. Insertion order determines precedence: the first claimant
// of a key is canonical and all later claimants lose. Existing pages are
// registered before planned tasks, so existing always wins.
type OwnershipRegistry struct {
	order   []string
	entries map[string]*models.CanonicalPage
}

// NewOwnershipRegistry creates an empty registry.
func NewOwnershipRegistry() *OwnershipRegistry {
	return &OwnershipRegistry{entries: make(map[string]*models.CanonicalPage)}
}

// Lookup returns the canonical page for a key, or nil.
func (r *OwnershipRegistry) Lookup(key string) *models.CanonicalPage {
	return r.entries[key]
}

// Register claims a key for the given page. It returns false without
// mutating the registry when the key is already owned, so a rejected
// claimant never leaves a partially-registered entry behind.
func (r *OwnershipRegistry) Register(page models.CanonicalPage) bool {
	if _, taken := r.entries[page.Key]; taken {
		return false
	}
	r.order = append(r.order, page.Key)
	r.entries[page.Key] = &page
	return true
}

// AddSupport appends a support slug to the canonical page owning the key.
// Returns false when no such entry exists.
func (r *OwnershipRegistry) AddSupport(key, supportSlug string) bool {
	entry, ok := r.entries[key]
	if !ok {
		return false
	}
	entry.SupportSlugs = append(entry.SupportSlugs, supportSlug)
	return true
}

// Pages returns the canonical entries in insertion order.
func (r *OwnershipRegistry) Pages() []models.CanonicalPage {
	out := make([]models.CanonicalPage, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.entries[key])
	}
	return out
}

// Len returns the number of registered keys.
func (r *OwnershipRegistry) Len() int {
	return len(r.order)
}
