package customproducts

import (
	"errors"
	"testing"

	"shoplist/internal/models"
)

func TestBuildProduct_Defaults(t *testing.T) {
	p, category, err := BuildProduct(FormInput{Name: "  Dragon fruit  "})
	if err != nil {
		t.Fatalf("BuildProduct() error = %v", err)
	}

	if p.Name != "Dragon fruit" {
		t.Errorf("Expected trimmed name, got %q", p.Name)
	}
	if p.Icon != models.DefaultIcon {
		t.Errorf("Expected default icon, got %s", p.Icon)
	}
	if category != models.OtherCategory {
		t.Errorf("Expected Other category, got %s", category)
	}
	if p.Image != "" {
		t.Errorf("Expected no image, got %s", p.Image)
	}
}

func TestBuildProduct_AllFields(t *testing.T) {
	p, category, err := BuildProduct(FormInput{
		Name:     "🐶 Dog Food",
		Category: "Pets",
		Icon:     "mdi:dog",
		Image:    " https://example.com/dog.png ",
	})
	if err != nil {
		t.Fatalf("BuildProduct() error = %v", err)
	}

	if category != "Pets" {
		t.Errorf("Expected Pets, got %s", category)
	}
	if p.Icon != "mdi:dog" {
		t.Errorf("Expected mdi:dog, got %s", p.Icon)
	}
	if p.Image != "https://example.com/dog.png" {
		t.Errorf("Expected trimmed image, got %q", p.Image)
	}
}

func TestBuildProduct_RejectsEmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		_, _, err := BuildProduct(FormInput{Name: name, Category: "Pets"})
		if !errors.Is(err, ErrNameRequired) {
			t.Errorf("BuildProduct(%q) error = %v, want ErrNameRequired", name, err)
		}
	}
}
