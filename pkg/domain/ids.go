package domain

import (
	"github.com/google/uuid"

	dErrors "donorlink/pkg/domain-errors"
)

// Typed identifiers keep a user ID from being passed where a browse session ID
// is expected. Construct them with the Parse functions at trust boundaries.
type (
	UserID          uuid.UUID
	BrowseSessionID uuid.UUID
)

// maxIDLength rejects oversized input before it reaches the UUID parser.
const maxIDLength = 64

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

// ParseUserID parses an authenticated user's identifier.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParseBrowseSessionID parses a browse session identifier from a URL.
func ParseBrowseSessionID(s string) (BrowseSessionID, error) {
	u, err := parseUUID(s, "session ID")
	return BrowseSessionID(u), err
}

// NewBrowseSessionID returns a fresh random session identifier.
func NewBrowseSessionID() BrowseSessionID {
	return BrowseSessionID(uuid.New())
}

func (id UserID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id BrowseSessionID) String() string { return uuid.UUID(id).String() }

func (id BrowseSessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
