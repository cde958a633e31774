// Package corpus normalizes heterogeneous raw text dumps into the canonical
// document schema, merges the per-source streams, and reads/writes the
// line-delimited corpus artifact.
package corpus

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/debatelab/debatesearch/model"
)

// minBodyLength is the shortest trimmed body a document may carry, counted
// in characters, not bytes, so accented and emoji-heavy texts measure the
// same as plain ASCII.
const minBodyLength = 10

// tombstones are bodies left behind by moderation; records carrying one are
// dropped regardless of source.
var tombstones = map[string]struct{}{
	"[deleted]": {},
	"[removed]": {},
}

// SkipReason classifies why a raw record produced no canonical document.
// Skips are counted, never fatal to the enclosing stream.
type SkipReason string

const (
	SkipHeader        SkipReason = "header"
	SkipTooFewColumns SkipReason = "too_few_columns"
	SkipMalformed     SkipReason = "malformed"
	SkipMissingID     SkipReason = "missing_id"
	SkipEmptyBody     SkipReason = "empty_body"
	SkipBodyTooShort  SkipReason = "body_too_short"
	SkipTombstone     SkipReason = "tombstone"
)

// Stats aggregates the outcome of parsing one stream.
type Stats struct {
	Read    int
	Kept    int
	Skipped map[SkipReason]int
}

func (s *Stats) skip(reason SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[SkipReason]int)
	}
	s.Skipped[reason]++
}

// SkippedTotal returns the number of records skipped for any reason.
func (s *Stats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Add merges other into s.
func (s *Stats) Add(other Stats) {
	s.Read += other.Read
	s.Kept += other.Kept
	for reason, n := range other.Skipped {
		if s.Skipped == nil {
			s.Skipped = make(map[SkipReason]int)
		}
		s.Skipped[reason] += n
	}
}

// Format is one raw source format. The set of formats is closed; the
// ingestion driver selects one by its source tag.
type Format interface {
	// Source returns the source tag stamped on every produced document.
	Source() string

	// Files returns the raw input files for this format under rawDir, in the
	// order they must be processed. A missing path yields an empty slice, not
	// an error: the pipeline continues with the remaining sources.
	Files(rawDir string) ([]string, error)

	// ParseReader parses one raw input stream, calling emit for every record
	// that survives parsing and normalization. Structural corruption in one
	// record never aborts the stream.
	ParseReader(r io.Reader, emit func(model.Document)) Stats
}

// checkBody applies the shared rejection rules to a candidate body field.
// The empty SkipReason means the body is acceptable.
func checkBody(body string) SkipReason {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return SkipEmptyBody
	}
	if _, isTombstone := tombstones[strings.ToLower(trimmed)]; isTombstone {
		return SkipTombstone
	}
	if utf8.RuneCountInString(trimmed) < minBodyLength {
		return SkipBodyTooShort
	}
	return ""
}

// sanitizeText replaces invalid UTF-8 byte sequences so a bad encoding in
// one record cannot poison the artifact.
func sanitizeText(s string) string {
	return strings.ToValidUTF8(s, "�")
}
