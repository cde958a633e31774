// Package model defines the canonical document schema shared by the corpus
// pipeline, the index, and the query API.
package model

import (
	"fmt"
	"strings"
)

// Known source values. The index treats source as an opaque keyword, so the
// direct write path may carry other values; the file pipeline only ever
// produces these two.
const (
	SourceSemEval = "semeval"
	SourceReddit  = "reddit"
)

// Document is the unit of storage and search. ID, Body and Source are always
// present; every other field is optional and nil when the producing source
// did not supply it, so "unknown" stays distinguishable from "empty".
type Document struct {
	ID     string `json:"id"`
	Body   string `json:"body"`
	Source string `json:"source"`

	Title     *string `json:"title,omitempty"`
	URL       *string `json:"url,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`

	// Comment-dump fields.
	Subreddit  *string `json:"subreddit,omitempty"`
	CreatedUTC *int64  `json:"created_utc,omitempty"`
	Score      *int    `json:"score,omitempty"`

	// Annotation fields. StanceGold is one of Favor/Against/Neither for
	// annotated sources and is passed through unvalidated.
	Target     *string `json:"target,omitempty"`
	StanceGold *string `json:"stance_gold,omitempty"`
}

// Validate checks the invariants every stored document must satisfy.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("document id cannot be empty or whitespace-only")
	}
	if strings.TrimSpace(d.Body) == "" {
		return fmt.Errorf("document %q has an empty body", d.ID)
	}
	if strings.TrimSpace(d.Source) == "" {
		return fmt.Errorf("document %q has an empty source", d.ID)
	}
	return nil
}

// TitleOrEmpty returns the title, or "" when the document has none.
func (d *Document) TitleOrEmpty() string {
	if d.Title == nil {
		return ""
	}
	return *d.Title
}

// URLOrEmpty returns the URL, or "" when the document has none.
func (d *Document) URLOrEmpty() string {
	if d.URL == nil {
		return ""
	}
	return *d.URL
}

// AnalyzedField returns the text of one of the document's analyzed fields by
// schema name, or "" for fields the document does not carry. The analyzed set
// is closed: title and body.
func (d *Document) AnalyzedField(field string) string {
	switch field {
	case "title":
		return d.TitleOrEmpty()
	case "body":
		return d.Body
	default:
		return ""
	}
}

// String returns a pointer to s, for filling optional fields.
func String(s string) *string { return &s }

// Int returns a pointer to n, for filling optional fields.
func Int(n int) *int { return &n }

// Int64 returns a pointer to n, for filling optional fields.
func Int64(n int64) *int64 { return &n }
