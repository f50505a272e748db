// Package datetime formats instants for display and parses free-form date
// strings. The pipeline only talks to the Collaborator interface so tests can
// pin the location to a fixed offset.
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DisplayLayout renders an instant as yyyy-MM-dd HH:mm:ss.
const DisplayLayout = "2006-01-02 15:04:05"

// ErrUnparseableDate is returned when free-form text is not a recognizable date.
var ErrUnparseableDate = errors.New("unrecognized date format")

// Collaborator formats and parses instants on behalf of the timestamp converter.
// Implementations MUST be safe for concurrent use.
type Collaborator interface {
	// FormatInstant renders t using DisplayLayout in the collaborator's location.
	FormatInstant(t time.Time) string
	// ParseFreeform parses a free-form date string. Text without an explicit
	// zone is interpreted in the collaborator's location.
	ParseFreeform(text string) (time.Time, error)
}

// Default is the dateparse-backed Collaborator.
type Default struct {
	loc *time.Location
}

// New returns a Collaborator bound to loc. A nil loc means time.Local.
func New(loc *time.Location) *Default {
	if loc == nil {
		loc = time.Local
	}
	return &Default{loc: loc}
}

// Location returns the location used for formatting and zone-less parsing.
func (d *Default) Location() *time.Location { return d.loc }

// FormatInstant implements Collaborator.
func (d *Default) FormatInstant(t time.Time) string {
	return t.In(d.loc).Format(DisplayLayout)
}

// ParseFreeform implements Collaborator.
func (d *Default) ParseFreeform(text string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(text), d.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrUnparseableDate, text, err)
	}
	return t, nil
}

// LoadLocation resolves a timezone name. "" and "Local" select the host
// zone, "UTC" selects UTC, anything else goes through the IANA database.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc", "Z":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
