package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/debatelab/debatesearch/model"
)

// WriteDocuments writes documents to w as the corpus artifact format: one
// compact JSON object per line, UTF-8, no wrapping array. Field order is
// fixed by the schema struct, so identical input produces identical bytes.
func WriteDocuments(w io.Writer, docs []model.Document) (int, error) {
	bw := bufio.NewWriter(w)
	count := 0
	for i := range docs {
		data, err := json.Marshal(&docs[i])
		if err != nil {
			return count, fmt.Errorf("marshal document %q: %w", docs[i].ID, err)
		}
		if _, err := bw.Write(data); err != nil {
			return count, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return count, err
		}
		count++
	}
	return count, bw.Flush()
}

// WriteArtifact writes documents to a new artifact file at path, creating
// parent directories as needed.
func WriteArtifact(path string, docs []model.Document) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return 0, fmt.Errorf("create artifact directory: %w", err)
	}
	file, err := os.Create(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return 0, fmt.Errorf("create artifact %s: %w", path, err)
	}
	count, werr := WriteDocuments(file, docs)
	if cerr := file.Close(); werr == nil {
		werr = cerr
	}
	return count, werr
}

// ReadArtifact streams an artifact, calling emit for every well-formed line
// and counting malformed lines instead of failing on them.
func ReadArtifact(r io.Reader, emit func(model.Document)) (read, malformed int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCommentLine)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var doc model.Document
		if err := json.Unmarshal(line, &doc); err != nil {
			malformed++
			continue
		}
		read++
		emit(doc)
	}
	return read, malformed, scanner.Err()
}

// Part names one per-source artifact feeding the merge.
type Part struct {
	Source string
	Path   string
}

// Merge concatenates the per-source artifacts into dstPath in the given
// order and returns the line count written per source. The merger does not
// deduplicate across sources: ids are source-namespaced, so collisions are
// not expected, and a colliding id is resolved later by the index writer's
// upsert (last write wins). A missing part is reported and skipped; the
// merge continues with the remaining parts.
func Merge(dstPath string, parts []Part) (map[string]int, error) {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0750); err != nil {
		return nil, fmt.Errorf("create merge directory: %w", err)
	}
	dst, err := os.Create(dstPath) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("create merged corpus %s: %w", dstPath, err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil {
			log.Printf("Warning: failed to close %s: %v", dstPath, closeErr)
		}
	}()

	out := bufio.NewWriter(dst)
	counts := make(map[string]int, len(parts))
	for _, part := range parts {
		if _, ok := counts[part.Source]; !ok {
			counts[part.Source] = 0
		}
		n, err := appendLines(out, part.Path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Printf("Warning: missing %s artifact %s, merging without it", part.Source, part.Path)
				continue
			}
			return counts, fmt.Errorf("merge %s: %w", part.Path, err)
		}
		counts[part.Source] += n
	}
	return counts, out.Flush()
}

func appendLines(out *bufio.Writer, path string) (int, error) {
	src, err := os.Open(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Printf("Warning: failed to close %s: %v", path, closeErr)
		}
	}()

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCommentLine)
	count := 0
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if _, err := out.Write(scanner.Bytes()); err != nil {
			return count, err
		}
		if err := out.WriteByte('\n'); err != nil {
			return count, err
		}
		count++
	}
	return count, scanner.Err()
}
