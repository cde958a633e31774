package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDocumentValidate(t *testing.T) {
	valid := Document{ID: "reddit-a", Body: "A body long enough to index", Source: SourceReddit}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid document = %v", err)
	}

	cases := []struct {
		name string
		doc  Document
	}{
		{"empty id", Document{Body: "some body text here", Source: SourceReddit}},
		{"whitespace id", Document{ID: "   ", Body: "some body text here", Source: SourceReddit}},
		{"empty body", Document{ID: "a", Source: SourceReddit}},
		{"whitespace body", Document{ID: "a", Body: "   ", Source: SourceReddit}},
		{"empty source", Document{ID: "a", Body: "some body text here"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.doc.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDocumentJSON_AbsentFieldsOmitted(t *testing.T) {
	doc := Document{ID: "semeval-1", Body: "A body long enough to index", Source: SourceSemEval}
	data, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"title", "url", "timestamp", "subreddit", "created_utc", "score", "target", "stance_gold"} {
		if strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("absent field %q serialized: %s", field, data)
		}
	}
}

func TestDocumentJSON_ZeroValuesKeptWhenSet(t *testing.T) {
	// A comment with score 0 must serialize the zero, because an explicit 0
	// and an absent score mean different things.
	doc := Document{
		ID:     "reddit-a",
		Body:   "A body long enough to index",
		Source: SourceReddit,
		Score:  Int(0),
	}
	data, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"score":0`) {
		t.Errorf("explicit zero score dropped: %s", data)
	}
}

func TestDocumentJSON_RoundTrip(t *testing.T) {
	doc := Document{
		ID:         "reddit-a",
		Body:       "A body long enough to index",
		Source:     SourceReddit,
		Subreddit:  String("politics"),
		CreatedUTC: Int64(1700000000),
		Score:      Int(-4),
	}
	data, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Subreddit == nil || *back.Subreddit != "politics" {
		t.Errorf("subreddit = %v", back.Subreddit)
	}
	if back.Score == nil || *back.Score != -4 {
		t.Errorf("score = %v", back.Score)
	}
}

func TestAnalyzedField(t *testing.T) {
	doc := Document{
		ID:     "semeval-1",
		Title:  String("Climate Change"),
		Body:   "Global warming is real and measurable",
		Source: SourceSemEval,
	}
	if got := doc.AnalyzedField("title"); got != "Climate Change" {
		t.Errorf("AnalyzedField(title) = %q", got)
	}
	if got := doc.AnalyzedField("body"); got != doc.Body {
		t.Errorf("AnalyzedField(body) = %q", got)
	}
	if got := doc.AnalyzedField("source"); got != "" {
		t.Errorf("AnalyzedField(source) = %q, want empty", got)
	}

	untitled := Document{ID: "reddit-a", Body: "some body", Source: SourceReddit}
	if got := untitled.AnalyzedField("title"); got != "" {
		t.Errorf("AnalyzedField(title) on untitled doc = %q, want empty", got)
	}
}
