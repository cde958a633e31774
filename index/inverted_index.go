// Package index holds the inverted index mapping analyzed terms to the
// documents and fields that contain them.
package index

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/debatelab/debatesearch/config"
)

// InvertedIndex maps a term (token) to the posting list of documents
// containing that term.
type InvertedIndex struct {
	Mu     sync.RWMutex
	Index  map[string]PostingList
	Schema *config.IndexSchema // Schema of the index this postings map serves
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding
// InvertedIndex data. It excludes the mutex.
type gobInvertedIndexData struct {
	Index  map[string]PostingList
	Schema *config.IndexSchema
}

// GobEncode implements the gob.GobEncoder interface for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	ii.Mu.RLock() // Ensure consistent data during encoding
	defer ii.Mu.RUnlock()

	dataToEncode := gobInvertedIndexData{
		Index:  ii.Index,
		Schema: ii.Schema,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for InvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	ii.Index = decodedData.Index
	ii.Schema = decodedData.Schema

	// Ensure the map is initialized after decoding an empty file.
	if ii.Index == nil {
		ii.Index = make(map[string]PostingList)
	}
	return nil
}

// DocumentFrequency returns the number of distinct documents containing term.
// Callers must hold at least a read lock.
func (ii *InvertedIndex) DocumentFrequency(term string) int {
	postingList, exists := ii.Index[term]
	if !exists {
		return 0
	}

	// A term can appear in several fields of the same document.
	uniqueDocs := make(map[uint32]struct{})
	for _, entry := range postingList {
		uniqueDocs[entry.DocID] = struct{}{}
	}
	return len(uniqueDocs)
}
