package search

import (
	"testing"

	"github.com/hmans/threads/internal/model"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearch(t *testing.T) {
	idx := setupTestIndex(t)

	items := []*model.Item{
		{ID: "1", Title: "Leather Boots", Description: "Sturdy boots for winter"},
		{ID: "2", Title: "Rain Boots", Description: "Rubber boots for puddles"},
		{ID: "3", Title: "Sun Hat", Description: "Wide brim for summer"},
	}
	if err := idx.IndexItems(items); err != nil {
		t.Fatalf("IndexItems() error = %v", err)
	}

	t.Run("title match", func(t *testing.T) {
		ids, err := idx.Search("boots", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("Search(boots) count = %d, want 2", len(ids))
		}
	})

	t.Run("description match", func(t *testing.T) {
		ids, err := idx.Search("summer", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 1 || ids[0] != "3" {
			t.Errorf("Search(summer) = %v, want [3]", ids)
		}
	})

	t.Run("no match", func(t *testing.T) {
		ids, err := idx.Search("spaceship", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("Search(spaceship) = %v, want empty", ids)
		}
	})

	t.Run("limit", func(t *testing.T) {
		ids, err := idx.Search("boots", 1)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 1 {
			t.Errorf("Search(boots, 1) count = %d, want 1", len(ids))
		}
	})
}

func TestIndexMutations(t *testing.T) {
	idx := setupTestIndex(t)

	item := &model.Item{ID: "x", Title: "Green Lamp", Description: "A lamp"}
	if err := idx.IndexItem(item); err != nil {
		t.Fatalf("IndexItem() error = %v", err)
	}

	t.Run("reindex replaces the document", func(t *testing.T) {
		item.Title = "Blue Lamp"
		if err := idx.IndexItem(item); err != nil {
			t.Fatalf("IndexItem() error = %v", err)
		}
		ids, err := idx.Search("green", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("Search(green) = %v, want empty after reindex", ids)
		}
		ids, err = idx.Search("blue", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 1 {
			t.Errorf("Search(blue) count = %d, want 1", len(ids))
		}
	})

	t.Run("delete removes the document", func(t *testing.T) {
		if err := idx.DeleteItem("x"); err != nil {
			t.Fatalf("DeleteItem() error = %v", err)
		}
		ids, err := idx.Search("lamp", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("Search(lamp) = %v, want empty after delete", ids)
		}
	})
}
