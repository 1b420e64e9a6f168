package customproducts

import (
	"errors"
	"strings"

	"shoplist/internal/models"
)

// ErrNameRequired is returned when the new-product form has no name
var ErrNameRequired = errors.New("please enter a product name")

// FormInput contains the data entered in the add-product dialog.
type FormInput struct {
	Name     string
	Category string
	Icon     string
	Image    string
}

// BuildProduct validates form data and returns the product and its category.
func BuildProduct(in FormInput) (models.Product, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, "", ErrNameRequired
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.OtherCategory
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = models.DefaultIcon
	}

	return models.Product{
		Name:  name,
		Icon:  icon,
		Image: strings.TrimSpace(in.Image),
	}, category, nil
}
