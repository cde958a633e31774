package config

// FieldWeight pairs an analyzed text field with its relevance weight.
// Weights multiply the per-term BM25 contribution of the field, so a field
// with weight 2.0 counts double toward the final score.
type FieldWeight struct {
	Field  string  `json:"field"`
	Weight float64 `json:"weight"`
}

// IndexSchema is the fixed schema of the document index: which fields are
// analyzed for tokenized matching (with their search weights), which are
// stored as exact-match keywords, and how dates and numbers are typed.
type IndexSchema struct {
	Name            string        `json:"name"`
	SearchableText  []FieldWeight `json:"searchable_text"`
	KeywordFields   []string      `json:"keyword_fields"`
	DateFields      []string      `json:"date_fields"`
	EpochDateFields []string      `json:"epoch_date_fields"`
	IntegerFields   []string      `json:"integer_fields"`
}

// DefaultSchema returns the schema the pipeline targets. Title carries double
// weight so title matches outrank body-only matches.
func DefaultSchema(name string) IndexSchema {
	return IndexSchema{
		Name: name,
		SearchableText: []FieldWeight{
			{Field: "title", Weight: 2.0},
			{Field: "body", Weight: 1.0},
		},
		KeywordFields:   []string{"source", "url", "subreddit", "target", "stance_gold"},
		DateFields:      []string{"timestamp"},
		EpochDateFields: []string{"created_utc"},
		IntegerFields:   []string{"score"},
	}
}

// Weights returns the searchable field names mapped to their weights.
func (s IndexSchema) Weights() map[string]float64 {
	weights := make(map[string]float64, len(s.SearchableText))
	for _, fw := range s.SearchableText {
		weights[fw.Field] = fw.Weight
	}
	return weights
}
