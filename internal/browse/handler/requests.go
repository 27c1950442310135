package handler

import (
	"strings"

	"donorlink/internal/donation/models"
	dErrors "donorlink/pkg/domain-errors"
)

const (
	maxQueryLength      = 200
	maxDonationIDLength = 128
	maxEmailLength      = 320
)

// SetQueryRequest is the body of PUT /browse/sessions/{sessionID}/query.
// An empty query clears the search.
type SetQueryRequest struct {
	Query string `json:"query"`
}

func (r *SetQueryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Query) > maxQueryLength {
		return dErrors.New(dErrors.CodeValidation, "query must be at most 200 characters")
	}
	return nil
}

// ContactRequest is the body of POST /browse/sessions/{sessionID}/contact.
type ContactRequest struct {
	Category   string `json:"category"`
	DonationID string `json:"donation_id"`

	parsedCategory models.Category
}

func (r *ContactRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.DonationID) > maxDonationIDLength {
		return dErrors.New(dErrors.CodeValidation, "donation_id must be at most 128 characters")
	}
	r.DonationID = strings.TrimSpace(r.DonationID)
	if r.DonationID == "" {
		return dErrors.New(dErrors.CodeValidation, "donation_id is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		return err
	}
	r.parsedCategory = category
	return nil
}

// ParsedCategory returns the validated category.
func (r *ContactRequest) ParsedCategory() models.Category {
	return r.parsedCategory
}

// CloseContactRequest is the body of POST /browse/sessions/{sessionID}/contact/close.
type CloseContactRequest struct {
	Email string `json:"email"`
}

func (r *CloseContactRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Email) > maxEmailLength {
		return dErrors.New(dErrors.CodeValidation, "email is too long")
	}
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}

// VerdictRequest is the body of POST /browse/sessions/{sessionID}/contact/eligibility.
type VerdictRequest struct {
	Eligible *bool `json:"eligible"`
}

func (r *VerdictRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Eligible == nil {
		return dErrors.New(dErrors.CodeValidation, "eligible is required")
	}
	return nil
}
