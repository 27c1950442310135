package store

import "errors"

// ErrUnknownCategory is returned when a fetch names a category with no collection.
var ErrUnknownCategory = errors.New("unknown donation category")
