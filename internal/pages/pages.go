// Package pages serves static marketing and policy content from a YAML
// file so copy edits never require a code change.
package pages

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrPageNotFound is returned when no page exists for a slug.
var ErrPageNotFound = errors.New("page not found")

// Page is a single static content page.
type Page struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// Store holds the loaded pages keyed by slug.
type Store struct {
	pages map[string]Page
	order []string
}

// Load reads and validates the pages file.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML page content. Slugs must be unique and non-empty.
func Parse(raw []byte) (*Store, error) {
	var doc struct {
		Pages []Page `yaml:"pages"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pages file: %w", err)
	}

	store := &Store{pages: make(map[string]Page, len(doc.Pages))}
	for i, page := range doc.Pages {
		slug := strings.ToLower(strings.TrimSpace(page.Slug))
		if slug == "" {
			return nil, fmt.Errorf("page %d has an empty slug", i)
		}
		if _, exists := store.pages[slug]; exists {
			return nil, fmt.Errorf("duplicate page slug %q", slug)
		}
		if strings.TrimSpace(page.Title) == "" {
			return nil, fmt.Errorf("page %q has an empty title", slug)
		}

		page.Slug = slug
		store.pages[slug] = page
		store.order = append(store.order, slug)
	}

	return store, nil
}

// Get returns the page for a slug.
func (s *Store) Get(slug string) (Page, error) {
	page, ok := s.pages[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}
	return page, nil
}

// List returns all pages in file order.
func (s *Store) List() []Page {
	out := make([]Page, 0, len(s.order))
	for _, slug := range s.order {
		out = append(out, s.pages[slug])
	}
	return out
}
