package index

// PostingEntry records that a document contains a term in one of its analyzed
// fields, together with the term frequency within that field.
type PostingEntry struct {
	DocID     uint32  // Internal numeric ID for efficiency
	FieldName string  // The analyzed field the term was found in ("title", "body")
	TermFreq  float64 // Term frequency within this field for this document
}

// PostingList is a slice of PostingEntry, kept sorted by DocID ascending then
// FieldName ascending so updates and scans are deterministic.
type PostingList []PostingEntry
