package pages

import (
	"errors"
	"testing"
)

const samplePages = `
pages:
  - slug: about-us
    title: About Us
    body: |
      We are a visa processing agency.
  - slug: Refund-Policy
    title: Refund Policy
    body: Refunds are issued before processing begins.
`

func TestParse_GetAndList(t *testing.T) {
	store, err := Parse([]byte(samplePages))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := store.Get("about-us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "About Us" {
		t.Errorf("unexpected title: %q", page.Title)
	}

	// Slugs are case-insensitive in both the file and the lookup.
	if _, err := store.Get("refund-policy"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	pages := store.List()
	if len(pages) != 2 || pages[0].Slug != "about-us" {
		t.Errorf("unexpected page list: %+v", pages)
	}
}

func TestParse_NotFound(t *testing.T) {
	store, err := Parse([]byte(samplePages))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
}

func TestParse_RejectsDuplicateSlugs(t *testing.T) {
	const doc = `
pages:
  - slug: faq
    title: FAQ
  - slug: FAQ
    title: Questions
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected error for duplicate slug")
	}
}

func TestParse_RejectsEmptySlug(t *testing.T) {
	const doc = `
pages:
  - slug: ""
    title: Unnamed
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected error for empty slug")
	}
}
