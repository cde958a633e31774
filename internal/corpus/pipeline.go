package corpus

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/debatelab/debatesearch/config"
	"github.com/debatelab/debatesearch/model"
)

// SourceResult reports the outcome of building one source's clean artifact.
type SourceResult struct {
	Source   string
	Files    int
	Written  int
	Stats    Stats
	Artifact string
}

// RunResult reports the outcome of a full pipeline run.
type RunResult struct {
	Sources      []SourceResult
	MergedPath   string
	MergedCounts map[string]int
	MergedTotal  int
}

// Pipeline drives the corpus build: raw files through parsing and
// normalization into per-source artifacts, then the ordered merge.
type Pipeline struct {
	cfg     config.PipelineConfig
	formats []Format
	pool    *ants.Pool
}

// NewPipeline creates a pipeline over the default closed set of formats.
// Source order is the merge order: annotation rows precede comment dumps.
func NewPipeline(cfg config.PipelineConfig) (*Pipeline, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pipeline{
		cfg:     cfg,
		formats: []Format{AnnotationFormat{}, CommentDumpFormat{}},
		pool:    pool,
	}, nil
}

// Close releases the worker pool.
func (p *Pipeline) Close() {
	p.pool.Release()
}

// Run builds every source artifact and merges them in source order.
func (p *Pipeline) Run() (*RunResult, error) {
	result := &RunResult{MergedPath: p.cfg.CorpusPath}
	parts := make([]Part, 0, len(p.formats))

	for _, format := range p.formats {
		sourceResult, err := p.buildSource(format)
		if err != nil {
			return nil, err
		}
		result.Sources = append(result.Sources, sourceResult)
		parts = append(parts, Part{Source: format.Source(), Path: sourceResult.Artifact})
		log.Printf("Wrote %d %s rows -> %s (read %d, skipped %d)",
			sourceResult.Written, format.Source(), sourceResult.Artifact,
			sourceResult.Stats.Read, sourceResult.Stats.SkippedTotal())
	}

	counts, err := Merge(p.cfg.CorpusPath, parts)
	if err != nil {
		return nil, fmt.Errorf("merge corpus: %w", err)
	}
	result.MergedCounts = counts
	for _, n := range counts {
		result.MergedTotal += n
	}
	log.Printf("Merged %d rows -> %s", result.MergedTotal, p.cfg.CorpusPath)
	return result, nil
}

// buildSource parses every file of one format and writes the source's clean
// artifact. Independent files are parsed concurrently; output order follows
// the format's sorted file order regardless of completion order.
func (p *Pipeline) buildSource(format Format) (SourceResult, error) {
	result := SourceResult{
		Source:   format.Source(),
		Artifact: filepath.Join(p.cfg.ProcessedDir, format.Source()+"_clean.jsonl"),
	}

	files, err := format.Files(p.cfg.RawDir)
	if err != nil {
		return result, fmt.Errorf("discover %s files: %w", format.Source(), err)
	}
	if len(files) == 0 {
		log.Printf("Warning: no raw input found for source %s under %s", format.Source(), p.cfg.RawDir)
	}
	result.Files = len(files)

	type fileResult struct {
		docs  []model.Document
		stats Stats
	}
	results := make([]fileResult, len(files))

	var wg sync.WaitGroup
	for i, path := range files {
		i, path := i, path
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			docs, stats := parseFile(format, path)
			results[i] = fileResult{docs: docs, stats: stats}
		})
		if submitErr != nil {
			wg.Done()
			return result, fmt.Errorf("submit parse task for %s: %w", path, submitErr)
		}
	}
	wg.Wait()

	docs := make([]model.Document, 0)
	for _, fr := range results {
		docs = append(docs, fr.docs...)
		result.Stats.Add(fr.stats)
	}

	written, err := WriteArtifact(result.Artifact, docs)
	result.Written = written
	if err != nil {
		return result, fmt.Errorf("write %s artifact: %w", format.Source(), err)
	}
	return result, nil
}

// parseFile parses a single raw file. An unreadable file is reported and
// yields an empty stream so the rest of the source still processes.
func parseFile(format Format, path string) ([]model.Document, Stats) {
	file, err := os.Open(path) // #nosec G304 -- paths come from configured raw dir discovery
	if err != nil {
		log.Printf("Warning: cannot open %s: %v, skipping", path, err)
		return nil, Stats{}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close %s: %v", path, closeErr)
		}
	}()

	log.Printf("Parsing %s", filepath.Base(path))
	var docs []model.Document
	stats := format.ParseReader(file, func(doc model.Document) {
		docs = append(docs, doc)
	})
	return docs, stats
}
