package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// ImportOptions controls ImportJournal.
type ImportOptions struct {
	// ArrayField names the entries array when the top-level value is an object.
	// If empty, the first array-valued field is used.
	ArrayField string

	// Now stamps records that carry no timestamp. Defaults to time.Now.
	Now func() time.Time
}

type ImportResult struct {
	Entries []JournalEntry
	// Skipped counts records with no usable text.
	Skipped int
}

// importRecord is the loose export shape accepted per element. Text is taken
// from the first non-empty of text, content and spoken_content.
type importRecord struct {
	ID                string            `json:"id"`
	Timestamp         json.RawMessage   `json:"timestamp"`
	CreateTime        *float64          `json:"create_time"`
	Text              string            `json:"text"`
	Content           string            `json:"content"`
	SpokenContent     string            `json:"spoken_content"`
	RawTranscript     string            `json:"raw_transcript"`
	InputType         InputType         `json:"input_type"`
	DurationSeconds   float64           `json:"duration_seconds"`
	EnergyLevel       *float64          `json:"energy_level"`
	Tags              []string          `json:"tags"`
	ContentPermission ContentPermission `json:"content_permission"`
	VisualContext     string            `json:"visual_context"`
	EmotionalMarkers  []EmotionalMarker `json:"emotional_markers"`
}

// ImportJournal reads a JSON journal export and returns one entry per element.
//
// The input is either a top-level array of records or an object holding such an
// array. It is decoded as a stream. Repeated ids get a numeric suffix.
func ImportJournal(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	if ctx == nil {
		return ImportResult{}, errors.New("ImportJournal: ctx is nil")
	}
	if r == nil {
		return ImportResult{}, errors.New("ImportJournal: reader is nil")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	dec := json.NewDecoder(bufio.NewReaderSize(r, 1<<20))
	tok, err := dec.Token()
	if err != nil {
		return ImportResult{}, fmt.Errorf("ImportJournal: read first token: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return ImportResult{}, fmt.Errorf("ImportJournal: expected JSON array/object, got %T", tok)
	}

	imp := importer{opts: opts, seen: make(map[string]int)}

	switch delim {
	case '[':
		if err := imp.readArray(ctx, dec); err != nil {
			return ImportResult{}, err
		}
		return imp.res, nil
	case '{':
		found := false
		for dec.More() {
			if err := ctx.Err(); err != nil {
				return ImportResult{}, err
			}
			keyTok, err := dec.Token()
			if err != nil {
				return ImportResult{}, fmt.Errorf("ImportJournal: read object key: %w", err)
			}
			key, _ := keyTok.(string)
			valTok, err := dec.Token()
			if err != nil {
				return ImportResult{}, fmt.Errorf("ImportJournal: read value for key %q: %w", key, err)
			}

			d, isArray := valTok.(json.Delim)
			isArray = isArray && d == '['
			target := !found && (key == opts.ArrayField || (opts.ArrayField == "" && isArray))
			if target {
				if !isArray {
					return ImportResult{}, fmt.Errorf("ImportJournal: key %q is not an array", key)
				}
				found = true
				if err := imp.readArray(ctx, dec); err != nil {
					return ImportResult{}, err
				}
				continue
			}
			if err := skipJSONValue(dec, valTok); err != nil {
				return ImportResult{}, fmt.Errorf("ImportJournal: skip key %q: %w", key, err)
			}
		}
		if _, err := dec.Token(); err != nil {
			return ImportResult{}, fmt.Errorf("ImportJournal: read closing object token: %w", err)
		}
		if !found {
			return ImportResult{}, errors.New("ImportJournal: no entries array found in top-level object")
		}
		return imp.res, nil
	default:
		return ImportResult{}, fmt.Errorf("ImportJournal: unsupported top-level delimiter %q", delim)
	}
}

type importer struct {
	opts ImportOptions
	seen map[string]int
	res  ImportResult
}

// readArray consumes elements up to and including the closing ']'.
func (imp *importer) readArray(ctx context.Context, dec *json.Decoder) error {
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var rec importRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("ImportJournal: decode element %d: %w", len(imp.res.Entries)+imp.res.Skipped, err)
		}
		entry, ok, err := imp.entry(rec)
		if err != nil {
			return err
		}
		if !ok {
			imp.res.Skipped++
			continue
		}
		imp.res.Entries = append(imp.res.Entries, entry)
	}
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("ImportJournal: read closing array token: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != ']' {
		return fmt.Errorf("ImportJournal: expected closing ']', got %v", tok)
	}
	return nil
}

func (imp *importer) entry(rec importRecord) (JournalEntry, bool, error) {
	content := firstText(rec.Text, rec.Content, rec.SpokenContent)
	if content == "" {
		return JournalEntry{}, false, nil
	}
	at, err := recordTime(rec)
	if err != nil {
		return JournalEntry{}, false, fmt.Errorf("ImportJournal: record %q: %w", rec.ID, err)
	}
	if at.IsZero() {
		at = imp.opts.Now()
	}

	id := strings.TrimSpace(rec.ID)
	if id != "" {
		n := imp.seen[id]
		imp.seen[id] = n + 1
		if n > 0 {
			id = fmt.Sprintf("%s-%d", id, n+1)
		}
	}

	e, err := NewJournalEntry(content, EntryOptions{
		ID:                id,
		At:                at,
		InputType:         rec.InputType,
		Tags:              rec.Tags,
		ContentPermission: rec.ContentPermission,
		DurationSeconds:   rec.DurationSeconds,
		EnergyLevel:       rec.EnergyLevel,
		VisualContext:     rec.VisualContext,
		EmotionalMarkers:  rec.EmotionalMarkers,
	})
	if err != nil {
		return JournalEntry{}, false, err
	}
	e.RawTranscript = rec.RawTranscript
	return e, true, nil
}

func firstText(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// recordTime accepts an RFC 3339 string or unix seconds in timestamp, falling
// back to create_time. Zero means absent.
func recordTime(rec importRecord) (time.Time, error) {
	raw := strings.TrimSpace(string(rec.Timestamp))
	switch {
	case raw == "" || raw == "null":
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(rec.Timestamp, &s); err != nil {
			return time.Time{}, err
		}
		if s == "" {
			break
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp: %w", err)
		}
		return t, nil
	default:
		var f float64
		if err := json.Unmarshal(rec.Timestamp, &f); err != nil {
			return time.Time{}, fmt.Errorf("timestamp: %w", err)
		}
		return unixSeconds(f), nil
	}
	if rec.CreateTime != nil {
		return unixSeconds(*rec.CreateTime), nil
	}
	return time.Time{}, nil
}

func unixSeconds(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9))
}

func skipJSONValue(dec *json.Decoder, first json.Token) error {
	d, ok := first.(json.Delim)
	if !ok {
		return nil
	}
	if d != '{' && d != '[' {
		return fmt.Errorf("unexpected delimiter %q", d)
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
