package models

import (
	"fmt"
	"strings"

	dErrors "donorlink/pkg/domain-errors"
)

// Category names one of the three donation collections.
type Category string

const (
	CategoryMedicine  Category = "medicine"
	CategoryEquipment Category = "equipment"
	CategoryBlood     Category = "blood"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryMedicine, CategoryEquipment, CategoryBlood}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMedicine, CategoryEquipment, CategoryBlood:
		return true
	}
	return false
}

// Collection returns the store collection holding records of this category.
func (c Category) Collection() string {
	return string(c) + "Donations"
}

func (c Category) String() string { return string(c) }

// ParseCategory parses a category name as it appears in URLs and CLI args.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown donation category %q", s))
	}
	return c, nil
}

// DonationRecord is one donated item as fetched from the store. Fields that do
// not apply to the record's category are left empty. Records are immutable
// once fetched; callers pass them by value.
type DonationRecord struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`

	// Medicine and equipment.
	Name     string `json:"name,omitempty"`
	Quantity Count  `json:"quantity,omitempty"`

	Location string `json:"location"`

	// Medicine only.
	ExpiryDate string `json:"expiry_date,omitempty"`
	// Equipment only.
	Condition string `json:"condition,omitempty"`
	// Blood only.
	BloodType string `json:"blood_type,omitempty"`
	Age       Count  `json:"age,omitempty"`

	ContactEmail string `json:"-"`
}

// SearchFields returns the values a search query is matched against:
// the item name for medicine and equipment, blood type or location for blood.
func (r DonationRecord) SearchFields() []string {
	switch r.Category {
	case CategoryBlood:
		return []string{r.BloodType, r.Location}
	default:
		return []string{r.Name}
	}
}

// Matches reports whether any search field contains query, ignoring case.
// The empty query matches every record.
func (r DonationRecord) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range r.SearchFields() {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// IsMedicine reports whether the record belongs to the medicine collection.
func (r DonationRecord) IsMedicine() bool {
	return r.Category == CategoryMedicine
}
