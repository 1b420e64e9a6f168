package components

import (
	"errors"
	"strings"
	"testing"

	"shoplist/internal/customproducts"
	"shoplist/internal/models"
)

func TestStorageView_InSync(t *testing.T) {
	v := NewStorageView()
	c := models.Catalog{"Pets": {{Name: "🐶 Dog Food", Icon: "mdi:dog"}}}

	v.SetData(customproducts.SourceShared, c, c, c, nil)

	if !v.InSync() {
		t.Error("Expected identical catalogs to be in sync")
	}
	view := v.View()
	if !strings.Contains(view, "in sync") || !strings.Contains(view, "source: shared") {
		t.Errorf("Unexpected header:\n%s", view)
	}
	if !strings.Contains(view, "Dog Food") {
		t.Error("Expected JSON view to show the product")
	}
}

func TestStorageView_DiffMode(t *testing.T) {
	v := NewStorageView()
	v.Height = 40
	local := models.Catalog{"Pets": {{Name: "🐶 Dog Food", Icon: "mdi:dog"}}}
	shared := models.Catalog{"Pets": {{Name: "🐶 Dog Food", Icon: "mdi:dog"}, {Name: "🐱 Cat Litter", Icon: "mdi:cat"}}}

	v.SetData(customproducts.SourceShared, shared, local, shared, nil)
	if v.InSync() {
		t.Fatal("Expected catalogs to differ")
	}

	v.ToggleMode()
	if v.Mode != StorageDiff {
		t.Fatalf("Expected diff mode, got %d", v.Mode)
	}
	if !strings.Contains(v.View(), "+ ") || !strings.Contains(v.View(), "Cat Litter") {
		t.Errorf("Expected added lines in diff view:\n%s", v.View())
	}

	v.ToggleMode()
	if v.Mode != StorageJSON {
		t.Error("Expected JSON mode again")
	}
}

func TestStorageView_SharedError(t *testing.T) {
	v := NewStorageView()
	local := models.Catalog{"Pets": {{Name: "🐶 Dog Food"}}}

	v.SetData(customproducts.SourceLocal, local, local, nil, errors.New("connection refused"))
	v.ToggleMode()

	view := v.View()
	if !strings.Contains(view, "shared file unavailable") {
		t.Error("Expected warning in header")
	}
	if !strings.Contains(view, "connection refused") {
		t.Error("Expected the error in the diff view")
	}
}

func TestStorageView_Scroll(t *testing.T) {
	v := NewStorageView()
	v.SetData(customproducts.SourceEmpty, nil, nil, nil, nil)

	v.ScrollUp()
	if v.ScrollOffset != 0 {
		t.Errorf("Expected offset 0, got %d", v.ScrollOffset)
	}

	c := models.Catalog{"A": {{Name: "a"}, {Name: "b"}}}
	v.SetData(customproducts.SourceLocal, c, c, c, nil)
	v.ScrollDown()
	if v.ScrollOffset != 1 {
		t.Errorf("Expected offset 1, got %d", v.ScrollOffset)
	}
}
