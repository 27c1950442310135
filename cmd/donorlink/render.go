package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"donorlink/internal/browse"
	"donorlink/internal/catalog"
	"donorlink/internal/contact/gate"
	"donorlink/internal/donation/models"
)

var sectionTitles = map[models.Category]string{
	models.CategoryMedicine:  "Medicine",
	models.CategoryEquipment: "Equipment",
	models.CategoryBlood:     "Blood",
}

// renderSections prints the three filtered sections. Restricted medicines are
// marked with an asterisk.
func renderSections(w io.Writer, session *browse.Session, report catalog.LoadReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if q := session.SearchQuery(); q != "" {
		fmt.Fprintf(tw, "Results for %q\n", q)
	}
	for _, category := range models.Categories {
		rows := session.Filtered(category)
		fmt.Fprintf(tw, "\n%s (%d)\n", sectionTitles[category], len(rows))
		if slices.Contains(report.Failed, category) {
			fmt.Fprintln(tw, "  unavailable: the collection could not be loaded")
			continue
		}
		if len(rows) == 0 {
			fmt.Fprintln(tw, "  no matching donations")
			continue
		}
		switch category {
		case models.CategoryMedicine:
			fmt.Fprintln(tw, "  ID\tNAME\tQTY\tEXPIRES\tLOCATION")
			for _, r := range rows {
				name := r.Name
				if r.Restricted {
					name += " *"
				}
				fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\n", r.ID, name, r.Quantity.Int(), r.ExpiryDate, r.Location)
			}
		case models.CategoryEquipment:
			fmt.Fprintln(tw, "  ID\tNAME\tQTY\tCONDITION\tLOCATION")
			for _, r := range rows {
				fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\n", r.ID, r.Name, r.Quantity.Int(), r.Condition, r.Location)
			}
		case models.CategoryBlood:
			fmt.Fprintln(tw, "  ID\tTYPE\tAGE\tLOCATION")
			for _, r := range rows {
				fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n", r.ID, r.BloodType, r.Age.Int(), r.Location)
			}
		}
	}
	return tw.Flush()
}

func renderOutcome(w io.Writer, rec models.DonationRecord, out gate.Outcome) {
	switch {
	case out.Revealed():
		label := rec.Name
		if rec.Category == models.CategoryBlood {
			label = rec.BloodType + " blood"
		}
		fmt.Fprintf(w, "Contact for %s: %s\n", label, out.State.Email())
	case out.Notice != "":
		fmt.Fprintln(w, out.Notice)
	default:
		fmt.Fprintln(w, "No contact revealed.")
	}
}
