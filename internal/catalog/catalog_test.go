package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("full front matter", func(t *testing.T) {
		src := `---
id: yogurt-stand
title: Yogurt Stand
price: 2500
image: yogurt.jpg
large_image: yogurt-lg.jpg
---

A fine **stand** for yogurt.
`
		item, err := Parse(strings.NewReader(src))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if item.ID != "yogurt-stand" {
			t.Errorf("Parse().ID = %q, want %q", item.ID, "yogurt-stand")
		}
		if item.Title != "Yogurt Stand" {
			t.Errorf("Parse().Title = %q, want %q", item.Title, "Yogurt Stand")
		}
		if item.Price != 2500 {
			t.Errorf("Parse().Price = %d, want 2500", item.Price)
		}
		if item.Image == nil || *item.Image != "yogurt.jpg" {
			t.Errorf("Parse().Image = %v, want yogurt.jpg", item.Image)
		}
		if item.Description != "A fine **stand** for yogurt." {
			t.Errorf("Parse().Description = %q", item.Description)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		src := "---\nprice: 100\n---\nbody"
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Error("Parse() expected error for missing title")
		}
	})

	t.Run("negative price", func(t *testing.T) {
		src := "---\ntitle: Broken\nprice: -5\n---\n"
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Error("Parse() expected error for negative price")
		}
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Yogurt Stand", "yogurt-stand"},
		{"  Fancy   Hat!  ", "fancy-hat"},
		{"Déjà Vu", "d-j-vu"},
		{"123 Go", "123-go"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write seed file: %v", err)
		}
	}

	write("one.md", "---\ntitle: One\nprice: 100\n---\nfirst")
	write("two.md", "---\nid: custom-id\ntitle: Two\nprice: 200\n---\nsecond")
	write("ignored.txt", "not markdown")

	items, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("LoadDir() count = %d, want 2", len(items))
	}

	byID := map[string]bool{}
	for _, item := range items {
		byID[item.ID] = true
	}
	if !byID["one"] {
		t.Error("LoadDir() missing slugified id 'one'")
	}
	if !byID["custom-id"] {
		t.Error("LoadDir() missing explicit id 'custom-id'")
	}

	t.Run("broken file aborts the load", func(t *testing.T) {
		write("broken.md", "---\nprice: 100\n---\nno title")
		if _, err := LoadDir(dir); err == nil {
			t.Error("LoadDir() expected error for broken seed file")
		}
	})
}
