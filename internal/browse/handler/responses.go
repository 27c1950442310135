package handler

import (
	"donorlink/internal/browse"
	"donorlink/internal/contact/gate"
)

// SnapshotResponse is the three-section view of a browse session.
type SnapshotResponse struct {
	SessionID   string          `json:"session_id"`
	Query       string          `json:"query"`
	Medicine    []DonationView  `json:"medicine"`
	Equipment   []DonationView  `json:"equipment"`
	Blood       []DonationView  `json:"blood"`
	Contact     ContactResponse `json:"contact"`
	Unavailable []string        `json:"unavailable,omitempty"`
}

// SectionResponse is one category's filtered rows.
type SectionResponse struct {
	Category  string         `json:"category"`
	Donations []DonationView `json:"donations"`
}

// DonationView is one displayed donation. ContactEmail is only present while
// the session has revealed that address.
type DonationView struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Name         string `json:"name,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	Location     string `json:"location,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	Condition    string `json:"condition,omitempty"`
	BloodType    string `json:"blood_type,omitempty"`
	Age          int    `json:"age,omitempty"`
	Restricted   bool   `json:"restricted"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// ContactResponse describes the contact gate. Email is only set when revealed;
// a pending screening exposes the item name only.
type ContactResponse struct {
	State    string `json:"state"`
	ItemName string `json:"item_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Notice   string `json:"notice,omitempty"`
}

func FromSnapshot(snap *browse.Snapshot) *SnapshotResponse {
	resp := &SnapshotResponse{
		SessionID: snap.SessionID.String(),
		Query:     snap.Query,
		Medicine:  FromRows(snap.Medicine),
		Equipment: FromRows(snap.Equipment),
		Blood:     FromRows(snap.Blood),
		Contact:   FromState(snap.Contact),
	}
	for _, c := range snap.Unavailable {
		resp.Unavailable = append(resp.Unavailable, c.String())
	}
	return resp
}

func FromRows(rows []browse.Row) []DonationView {
	out := make([]DonationView, len(rows))
	for i, row := range rows {
		view := DonationView{
			ID:         row.ID,
			Category:   row.Category.String(),
			Name:       row.Name,
			Quantity:   row.Quantity.Int(),
			Location:   row.Location,
			ExpiryDate: row.ExpiryDate,
			Condition:  row.Condition,
			BloodType:  row.BloodType,
			Age:        row.Age.Int(),
			Restricted: row.Restricted,
		}
		if row.ContactVisible {
			view.ContactEmail = row.ContactEmail
		}
		out[i] = view
	}
	return out
}

func FromState(state gate.State) ContactResponse {
	resp := ContactResponse{State: state.Phase().String()}
	switch state.Phase() {
	case gate.PhaseAwaitingEligibility:
		resp.ItemName = state.ItemName()
	case gate.PhaseRevealed:
		resp.Email = state.Email()
	}
	return resp
}

func FromOutcome(out gate.Outcome) ContactResponse {
	resp := FromState(out.State)
	resp.Notice = out.Notice
	return resp
}
