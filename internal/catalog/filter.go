// Package catalog holds the per-category donation collections of one browse
// session together with the active search query, and loads those collections
// from a donation store.
package catalog

import (
	"donorlink/internal/donation/models"
)

// Filter owns one copy of each category's records and a single free-text
// query. Views are computed on demand so they always reflect the latest query
// and record set. A Filter is not safe for concurrent use; the owning browse
// session serializes access.
type Filter struct {
	query   string
	records map[models.Category][]models.DonationRecord
}

func NewFilter() *Filter {
	return &Filter{records: make(map[models.Category][]models.DonationRecord, len(models.Categories))}
}

// SetQuery replaces the active search string. The empty string matches everything.
func (f *Filter) SetQuery(q string) {
	f.query = q
}

func (f *Filter) Query() string {
	return f.query
}

// Set replaces one category's collection with a copy of records.
func (f *Filter) Set(category models.Category, records []models.DonationRecord) {
	cp := make([]models.DonationRecord, len(records))
	copy(cp, records)
	f.records[category] = cp
}

// Replace swaps in every collection of src, keeping the current query.
func (f *Filter) Replace(src *Filter) {
	for _, category := range models.Categories {
		f.Set(category, src.records[category])
	}
}

// Filtered returns the records of category whose searchable fields contain the
// query, case-insensitively, in collection order. The result is a fresh slice.
func (f *Filter) Filtered(category models.Category) []models.DonationRecord {
	src := f.records[category]
	out := make([]models.DonationRecord, 0, len(src))
	for _, r := range src {
		if r.Matches(f.query) {
			out = append(out, r)
		}
	}
	return out
}

// Find looks up a record by ID in the current collection, ignoring the query.
func (f *Filter) Find(category models.Category, id string) (models.DonationRecord, bool) {
	for _, r := range f.records[category] {
		if r.ID == id {
			return r, true
		}
	}
	return models.DonationRecord{}, false
}

// Len returns the unfiltered size of a category's collection.
func (f *Filter) Len(category models.Category) int {
	return len(f.records[category])
}
