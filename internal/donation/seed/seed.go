// Package seed reads realtime-database style exports of the donation
// collections and writes them into a store.
//
// An export is a JSON or YAML document keyed by collection name, each
// collection mapping record keys to records with camelCase fields:
//
//	{"medicineDonations": {"-Nx1": {"medicineName": "Insulin", "email": "a@x.org"}}}
//
// Collections exported as arrays use the element index as record key.
// Unknown collections and fields are ignored.
package seed

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"donorlink/internal/donation/models"
)

// Export is a parsed seed document, one ordered slice per category.
type Export map[models.Category][]models.DonationRecord

// Count returns the total number of records across categories.
func (e Export) Count() int {
	n := 0
	for _, records := range e {
		n += len(records)
	}
	return n
}

type rawDonation struct {
	MedicineName  string       `yaml:"medicineName"`
	EquipmentName string       `yaml:"equipmentName"`
	Quantity      models.Count `yaml:"quantity"`
	Location      string       `yaml:"location"`
	ExpiryDate    string       `yaml:"expiryDate"`
	Condition     string       `yaml:"condition"`
	BloodType     string       `yaml:"bloodType"`
	Age           models.Count `yaml:"age"`
	Email         string       `yaml:"email"`
}

func (r rawDonation) toRecord(id string, category models.Category) models.DonationRecord {
	rec := models.DonationRecord{
		ID:           id,
		Category:     category,
		Location:     r.Location,
		ContactEmail: r.Email,
	}
	switch category {
	case models.CategoryMedicine:
		rec.Name = r.MedicineName
		rec.Quantity = r.Quantity
		rec.ExpiryDate = r.ExpiryDate
	case models.CategoryEquipment:
		rec.Name = r.EquipmentName
		rec.Quantity = r.Quantity
		rec.Condition = r.Condition
	case models.CategoryBlood:
		rec.BloodType = r.BloodType
		rec.Age = r.Age
	}
	return rec
}

var collections = map[string]models.Category{
	models.CategoryMedicine.Collection():  models.CategoryMedicine,
	models.CategoryEquipment.Collection(): models.CategoryEquipment,
	models.CategoryBlood.Collection():     models.CategoryBlood,
}

// Parse decodes an export, preserving document order within each collection.
func Parse(r io.Reader) (Export, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Export{}, nil
		}
		return nil, fmt.Errorf("decode seed document: %w", err)
	}
	if len(doc.Content) == 0 {
		return Export{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("seed document must be a mapping of collections")
	}

	out := Export{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		category, ok := collections[root.Content[i].Value]
		if !ok {
			continue
		}
		records, err := parseCollection(category, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		out[category] = append(out[category], records...)
	}
	return out, nil
}

func parseCollection(category models.Category, node *yaml.Node) ([]models.DonationRecord, error) {
	var records []models.DonationRecord
	add := func(id string, value *yaml.Node) error {
		if value.Kind != yaml.MappingNode {
			// Deleted entries export as null.
			return nil
		}
		var raw rawDonation
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("decode %s/%s: %w", category.Collection(), id, err)
		}
		records = append(records, raw.toRecord(id, category))
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if err := add(node.Content[i].Value, node.Content[i+1]); err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		for i, value := range node.Content {
			if err := add(strconv.Itoa(i), value); err != nil {
				return nil, err
			}
		}
	case yaml.ScalarNode:
		// null collection
	default:
		return nil, fmt.Errorf("collection %s has unsupported shape", category.Collection())
	}
	return records, nil
}

// Saver is the write side of a donation store.
type Saver interface {
	SaveBatch(ctx context.Context, category models.Category, records []models.DonationRecord) error
}

// Import writes every collection of the export, in category display order.
func Import(ctx context.Context, dst Saver, export Export) error {
	for _, category := range models.Categories {
		records := export[category]
		if len(records) == 0 {
			continue
		}
		if err := dst.SaveBatch(ctx, category, records); err != nil {
			return fmt.Errorf("import %s: %w", category.Collection(), err)
		}
	}
	return nil
}
