// Package catalog reads seed items from markdown files with YAML front
// matter. The body of the file is the item description.
package catalog

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/hmans/threads/internal/model"
)

// frontMatter is the subset of an item that lives in the YAML header.
type frontMatter struct {
	ID         string  `yaml:"id,omitempty"`
	Title      string  `yaml:"title"`
	Price      int     `yaml:"price"`
	Image      *string `yaml:"image,omitempty"`
	LargeImage *string `yaml:"large_image,omitempty"`
}

// Parse reads one seed item (markdown with YAML front matter). Price is
// in integer minor units. A missing id gets one derived from the title
// by the caller.
func Parse(r io.Reader) (*model.Item, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(r, &fm)
	if err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}

	if fm.Title == "" {
		return nil, fmt.Errorf("seed item has no title")
	}
	if fm.Price < 0 {
		return nil, fmt.Errorf("seed item %q has a negative price", fm.Title)
	}

	return &model.Item{
		ID:          fm.ID,
		Title:       fm.Title,
		Description: strings.TrimSpace(string(body)),
		Price:       fm.Price,
		Image:       fm.Image,
		LargeImage:  fm.LargeImage,
	}, nil
}

// Slugify derives a stable id from a title: lowercase, words joined by
// hyphens, everything else dropped.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// LoadDir parses every .md file under dir. Files that fail to parse
// abort the load; a half-seeded catalog is worse than an error.
func LoadDir(dir string) ([]*model.Item, error) {
	var items []*model.Item

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		item, err := Parse(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if item.ID == "" {
			item.ID = Slugify(item.Title)
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
