package runtastic

import (
	"errors"
	"fmt"
)

// ErrEmptyTrack is returned when an activity has no GPS samples, so no start
// time can be derived from it.
var ErrEmptyTrack = errors.New("activity has no gps samples")

// MissingFieldError reports a required field absent from a source document.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// MissingFeatureError reports a session descriptor without the feature entry
// that carries a required metric.
type MissingFeatureError struct {
	Type string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing feature %q", e.Type)
}

// MissingEntryError reports an archive entry that a discovered activity needs
// but the export does not contain. File names the GPS-data entry that led to
// the lookup.
type MissingEntryError struct {
	Key  string
	File string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("missing archive entry %q for %s", e.Key, e.File)
}
