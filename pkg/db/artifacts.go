package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/classifier"
	"github.com/yumyai/bgcclass/pkg/embed"
	"github.com/yumyai/bgcclass/pkg/model"
	"github.com/yumyai/bgcclass/pkg/preprocess"
)

type EmbeddingOptions struct {
	K            int
	AllowUnknown bool
	// CacheSize is the number of sequences kept by the LRU cache, 0 disables it.
	CacheSize int
}

// Artifacts are the models of one process, loaded once and shared read-only by every request.
type Artifacts struct {
	Store    *ModelStore
	Dispatch *classifier.Dispatch
	Analysis *model.Analysis
}

func Open(store *ModelStore, opts EmbeddingOptions) (*Artifacts, error) {
	start := time.Now()

	embedder, err := store.LoadEmbedder(opts)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	pipeline, err := store.LoadPipeline()
	if err != nil {
		return nil, fmt.Errorf("preprocessing: %w", err)
	}
	dispatch, err := store.LoadDispatch()
	if err != nil {
		return nil, fmt.Errorf("classifiers: %w", err)
	}
	analysis, err := model.NewAnalysis(embedder, pipeline, dispatch)
	if err != nil {
		return nil, err
	}

	logger.Info("Artifacts loaded",
		zap.String("dir", store.Dir),
		zap.Int("embedding_dim", embedder.Dimension()),
		zap.Int("features", dispatch.NumFeatures()),
		zap.Int("classes", dispatch.NumClasses()),
		zap.Int("backends", len(dispatch.Backends())),
		zap.Duration("took", time.Since(start)),
	)
	return &Artifacts{Store: store, Dispatch: dispatch, Analysis: analysis}, nil
}

// LoadEmbedder reads the ProtVec table from SQLite (.db, .sqlite) or word2vec text (anything else).
func (s *ModelStore) LoadEmbedder(opts EmbeddingOptions) (embed.Embedder, error) {
	path := s.EmbeddingPath()

	var vectors map[string][]float64
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		vectors, err = LoadProtVecSQLite(path)
	default:
		vectors, err = loadWord2VecFile(path)
	}
	if err != nil {
		return nil, err
	}

	pv, err := embed.NewProtVec(vectors, embed.ProtVecOptions{K: opts.K, AllowUnknown: opts.AllowUnknown})
	if err != nil {
		return nil, err
	}
	if opts.CacheSize <= 0 {
		return pv, nil
	}
	return embed.NewCached(pv, opts.CacheSize)
}

func loadWord2VecFile(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vectors, err := embed.LoadWord2VecText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vectors, nil
}

func (s *ModelStore) LoadPipeline() (*preprocess.Pipeline, error) {
	return preprocess.LoadPipeline(s.ScalerPath(), s.ReducerPath())
}

func (s *ModelStore) LoadDispatch() (*classifier.Dispatch, error) {
	return classifier.LoadDispatch(s.ClassifierPaths())
}
