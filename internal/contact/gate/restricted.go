package gate

import "donorlink/internal/donation/models"

// restrictedMedicines are the medicine names whose donors may only be
// contacted after an eligibility screening. Matching is exact and
// case-sensitive.
var restrictedMedicines = map[string]struct{}{
	"Adderall":  {},
	"Ritalin":   {},
	"Ambien":    {},
	"Sonata":    {},
	"Warfarin":  {},
	"Heparin":   {},
	"Risperdal": {},
	"Seroquel":  {},
	"Abilify":   {},
	"Lunesta":   {},
	"Concerta":  {},
}

// IsRestricted reports whether contacting rec's donor requires screening.
// Only medicine records are ever restricted.
func IsRestricted(rec models.DonationRecord) bool {
	if !rec.IsMedicine() {
		return false
	}
	_, ok := restrictedMedicines[rec.Name]
	return ok
}

// RestrictedMedicines returns the restricted names, for display.
func RestrictedMedicines() []string {
	out := make([]string, 0, len(restrictedMedicines))
	for name := range restrictedMedicines {
		out = append(out, name)
	}
	return out
}
