package search

import (
	"math"

	"github.com/debatelab/debatesearch/index"
	"github.com/debatelab/debatesearch/internal/tokenizer"
	"github.com/debatelab/debatesearch/store"
)

// BM25 parameters
const (
	bm25K1 = 1.2  // Controls term frequency saturation
	bm25B  = 0.75 // Controls how much effect field length has
)

// bm25Calculator scores one term occurrence per field. Field lengths and
// averages are cached for the duration of a single search. Callers must hold
// read locks on both the index and the store for the calculator's lifetime.
type bm25Calculator struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore

	fieldLengths    map[uint32]map[string]int // docID -> field -> token count
	avgFieldLengths map[string]float64        // field -> average token count
}

func newBM25Calculator(invIndex *index.InvertedIndex, docStore *store.DocumentStore) *bm25Calculator {
	return &bm25Calculator{
		invertedIndex:   invIndex,
		documentStore:   docStore,
		fieldLengths:    make(map[uint32]map[string]int),
		avgFieldLengths: make(map[string]float64),
	}
}

// idf calculates the inverse document frequency:
// log(1 + (N - df + 0.5) / (df + 0.5)). Strictly positive for any indexed
// term, so a term present in every document still contributes to the score.
func (calc *bm25Calculator) idf(term string) float64 {
	totalDocs := float64(len(calc.documentStore.Docs))
	if totalDocs == 0 {
		return 0.0
	}
	docFreq := float64(calc.invertedIndex.DocumentFrequency(term))
	if docFreq == 0 {
		return 0.0
	}
	return math.Log(1 + (totalDocs-docFreq+0.5)/(docFreq+0.5))
}

// score computes the BM25 contribution of a term within one field of one
// document, normalized against that field's length distribution:
// IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|f| / avg|f|)))
func (calc *bm25Calculator) score(idf float64, entry index.PostingEntry) float64 {
	if idf == 0 {
		return 0.0
	}

	fieldLen := calc.fieldLength(entry.DocID, entry.FieldName)
	avgLen := calc.avgFieldLength(entry.FieldName)
	if avgLen == 0 {
		return 0.0
	}

	tf := entry.TermFreq
	norm := tf + bm25K1*(1-bm25B+bm25B*(float64(fieldLen)/avgLen))
	return idf * (tf * (bm25K1 + 1)) / norm
}

func (calc *bm25Calculator) fieldLength(docID uint32, field string) int {
	if lengths, ok := calc.fieldLengths[docID]; ok {
		if n, ok := lengths[field]; ok {
			return n
		}
	}
	doc, exists := calc.documentStore.Docs[docID]
	if !exists {
		return 0
	}
	n := len(tokenizer.Tokenize(doc.AnalyzedField(field)))
	if calc.fieldLengths[docID] == nil {
		calc.fieldLengths[docID] = make(map[string]int)
	}
	calc.fieldLengths[docID][field] = n
	return n
}

func (calc *bm25Calculator) avgFieldLength(field string) float64 {
	if avg, ok := calc.avgFieldLengths[field]; ok {
		return avg
	}
	total := 0
	for docID := range calc.documentStore.Docs {
		total += calc.fieldLength(docID, field)
	}
	avg := 0.0
	if len(calc.documentStore.Docs) > 0 {
		avg = float64(total) / float64(len(calc.documentStore.Docs))
	}
	calc.avgFieldLengths[field] = avg
	return avg
}
