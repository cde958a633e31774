package corpus

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/debatelab/debatesearch/model"
)

// annotationRecord is the raw shape of one stance-annotation row after
// structural repair: id, target, stance, and the reconstructed text field.
type annotationRecord struct {
	ID     string
	Target string
	Stance string
	Text   string
}

// AnnotationFormat parses SemEval-style tab-delimited stance annotation
// files. Rows are tolerant of stray quotes, BOM characters, and text fields
// containing literal tabs.
type AnnotationFormat struct{}

// Source implements Format.
func (AnnotationFormat) Source() string { return model.SourceSemEval }

// Files returns the annotation files under rawDir/semeval in sorted name
// order. No matches is not an error.
func (AnnotationFormat) Files(rawDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(rawDir, "semeval", "*all-annotations*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// ParseReader implements Format.
func (f AnnotationFormat) ParseReader(r io.Reader, emit func(model.Document)) Stats {
	stats := Stats{}

	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // column counts vary row to row

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Read++
			stats.skip(SkipMalformed)
			continue
		}
		if len(row) == 0 {
			continue
		}
		stats.Read++

		record, reason := parseAnnotationRow(row)
		if reason != "" {
			stats.skip(reason)
			continue
		}

		doc, reason := normalizeAnnotation(record)
		if reason != "" {
			stats.skip(reason)
			continue
		}
		stats.Kept++
		emit(doc)
	}
	return stats
}

// parseAnnotationRow repairs one raw row into an annotationRecord, or
// reports why it must be skipped. Logical columns are id, target, stance,
// text; any columns past the fourth are fragments of a text field that
// itself contained tabs and are rejoined.
func parseAnnotationRow(row []string) (annotationRecord, SkipReason) {
	cleaned := make([]string, len(row))
	for i, col := range row {
		cleaned[i] = sanitizeText(strings.TrimLeft(col, "\ufeff"))
	}

	switch strings.ToLower(cleaned[0]) {
	case "id", "tweet id":
		return annotationRecord{}, SkipHeader
	}
	if len(cleaned) < 4 {
		return annotationRecord{}, SkipTooFewColumns
	}

	text := cleaned[3]
	if len(cleaned) > 4 {
		text = strings.Join(cleaned[3:], "\t")
	}

	return annotationRecord{
		ID:     cleaned[0],
		Target: cleaned[1],
		Stance: cleaned[2],
		Text:   text,
	}, ""
}

// normalizeAnnotation maps a repaired annotation row to a canonical
// document, applying the shared body rules. Comment-dump fields stay absent.
func normalizeAnnotation(record annotationRecord) (model.Document, SkipReason) {
	if strings.TrimSpace(record.ID) == "" {
		return model.Document{}, SkipMissingID
	}
	if reason := checkBody(record.Text); reason != "" {
		return model.Document{}, reason
	}

	return model.Document{
		ID:         model.SourceSemEval + "-" + record.ID,
		Body:       record.Text,
		Source:     model.SourceSemEval,
		Target:     model.String(record.Target),
		StanceGold: model.String(record.Stance),
	}, ""
}
