package corpus

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/debatelab/debatesearch/model"
)

// maxCommentLine bounds a single JSONL line; comments are small but dumps
// occasionally carry pathological rows.
const maxCommentLine = 1 << 20

// commentRecord is the raw shape of one comment-dump line. Pointer fields
// distinguish absent keys from zero values.
type commentRecord struct {
	ID         string  `json:"id"`
	Subreddit  *string `json:"subreddit"`
	Body       string  `json:"body"`
	CreatedUTC *int64  `json:"created_utc"`
	Score      *int    `json:"score"`
}

// CommentDumpFormat parses line-delimited JSON comment dumps. Each line is a
// self-contained record; a line that fails to parse is skipped, not fatal.
type CommentDumpFormat struct{}

// Source implements Format.
func (CommentDumpFormat) Source() string { return model.SourceReddit }

// Files returns the comment dump under rawDir/kaggle, or nothing when it is
// absent.
func (CommentDumpFormat) Files(rawDir string) ([]string, error) {
	path := filepath.Join(rawDir, "kaggle", "reddit_subset.jsonl")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return []string{path}, nil
}

// ParseReader implements Format.
func (f CommentDumpFormat) ParseReader(r io.Reader, emit func(model.Document)) Stats {
	stats := Stats{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCommentLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Read++

		var record commentRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			stats.skip(SkipMalformed)
			continue
		}

		doc, reason := normalizeComment(record)
		if reason != "" {
			stats.skip(reason)
			continue
		}
		stats.Kept++
		emit(doc)
	}
	// A scanner error (oversized or unreadable line) ends the stream; what
	// was already emitted stands.
	return stats
}

// normalizeComment maps a comment record to a canonical document, applying
// the shared body rules. Score defaults to 0 when the dump omits it;
// annotation fields stay absent.
func normalizeComment(record commentRecord) (model.Document, SkipReason) {
	if strings.TrimSpace(record.ID) == "" {
		return model.Document{}, SkipMissingID
	}
	body := sanitizeText(record.Body)
	if reason := checkBody(body); reason != "" {
		return model.Document{}, reason
	}

	score := record.Score
	if score == nil {
		score = model.Int(0)
	}

	return model.Document{
		ID:         model.SourceReddit + "-" + record.ID,
		Body:       body,
		Source:     model.SourceReddit,
		Subreddit:  record.Subreddit,
		CreatedUTC: record.CreatedUTC,
		Score:      score,
	}, ""
}
