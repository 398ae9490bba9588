package bridge

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeOfDayForHour buckets a wall-clock hour: [5,12) morning, [12,17) afternoon,
// [17,21) evening, anything else night.
func TimeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// EntryOptions tune NewJournalEntry. Zero values take the documented defaults.
type EntryOptions struct {
	ID                string
	At                time.Time
	InputType         InputType
	Tags              []string
	ContentPermission ContentPermission
	DurationSeconds   float64
	EnergyLevel       *float64
	VisualContext     string
	EmotionalMarkers  []EmotionalMarker
}

// NewJournalEntry wraps raw text into an entry stamped with the local hour's bucket.
func NewJournalEntry(content string, opts EntryOptions) (JournalEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return JournalEntry{}, errors.New("NewJournalEntry: content is empty")
	}

	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}
	id := opts.ID
	if id == "" {
		id = "journal-" + uuid.NewString()
	}

	return JournalEntry{
		ID:                id,
		Timestamp:         at,
		InputType:         coerce(string(opts.InputType), InputText),
		DurationSeconds:   opts.DurationSeconds,
		SpokenContent:     content,
		VisualContext:     opts.VisualContext,
		EmotionalMarkers:  nonNil(opts.EmotionalMarkers),
		TimeOfDay:         TimeOfDayForHour(at.Hour()),
		EnergyLevel:       score(opts.EnergyLevel, neutralScore),
		Tags:              cleanStrings(opts.Tags),
		ContentPermission: coerce(string(opts.ContentPermission), PermissionFull),
	}, nil
}
