package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arise-learning/arise/internal/fallback"
	"github.com/arise-learning/arise/internal/storage"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"
)

// Indexer manages the search index over student snapshots.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewIndexer creates a new search indexer with in-memory Bleve index.
func NewIndexer(logger *zap.Logger) (*Indexer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index, logger: logger}, nil
}

// Build creates an indexer over the latest snapshot of every student in
// store. An unavailable store indexes the synthetic history instead.
func Build(ctx context.Context, store storage.Storage, logger *zap.Logger) (*Indexer, error) {
	idx, err := NewIndexer(logger)
	if err != nil {
		return nil, err
	}

	var snaps []storage.Snapshot
	if store != nil {
		snaps, err = store.AllHistory(ctx)
	}
	switch {
	case store == nil || storage.IsUnavailable(err):
		snaps = fallback.Export(time.Now().UTC()).BehaviorHistory
	case err != nil:
		idx.Close()
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if err := idx.IndexSnapshots(snaps); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	studentMapping := bleve.NewDocumentMapping()

	// Student IDs match exactly
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	studentMapping.AddFieldMappingsAt("student_id", idFieldMapping)

	studentMapping.AddFieldMappingsAt("recommendation", bleve.NewTextFieldMapping())
	studentMapping.AddFieldMappingsAt("cluster", bleve.NewNumericFieldMapping())
	studentMapping.AddFieldMappingsAt("accuracy", bleve.NewNumericFieldMapping())
	studentMapping.AddFieldMappingsAt("avg_response_time", bleve.NewNumericFieldMapping())

	recordedAt := bleve.NewDateTimeFieldMapping()
	recordedAt.Index = false
	recordedAt.IncludeInAll = false
	studentMapping.AddFieldMappingsAt("recorded_at", recordedAt)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", studentMapping)

	return indexMapping
}

// IndexSnapshots indexes the latest snapshot of each student, replacing
// any earlier document for that student.
func (i *Indexer) IndexSnapshots(snaps []storage.Snapshot) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for id, snap := range latestPerStudent(snaps) {
		if err := batch.Index(id, newStudentDocument(snap)); err != nil {
			i.logger.Warn("failed to index snapshot", zap.String("student_id", id), zap.Error(err))
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index snapshots: %w", err)
	}
	return nil
}

// Count returns the number of indexed students.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}
	return nil
}
