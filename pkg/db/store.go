package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yumyai/bgcclass/internal/util"
	"github.com/yumyai/bgcclass/pkg/classifier"
)

// ArtifactFiles names every artifact relative to the model directory.
type ArtifactFiles struct {
	Embedding   string            `yaml:"embedding"`
	Scaler      string            `yaml:"scaler"`
	Reducer     string            `yaml:"reducer"`
	Classifiers map[string]string `yaml:"classifiers"`
}

// DefaultArtifactFiles follows the layout the models were published with.
func DefaultArtifactFiles() ArtifactFiles {
	return ArtifactFiles{
		Embedding: filepath.Join("biovec", "uniprot2vec.db"),
		Scaler:    filepath.Join("scalers", "RobustScaler.json"),
		Reducer:   filepath.Join("umap", "umap.json"),
		Classifiers: map[string]string{
			string(classifier.RandomForest):  filepath.Join("supervised", "rf.json"),
			string(classifier.AdaBoost):      filepath.Join("supervised", "ada_rf.json"),
			string(classifier.XGBoost):       filepath.Join("supervised", "xgboost.json"),
			string(classifier.KNN):           filepath.Join("supervised", "knn.json"),
			string(classifier.NeuralNetwork): filepath.Join("supervised", "nn.json"),
		},
	}
}

// folder which hosts the embedding, preprocessing and classifier artifacts
type ModelStore struct {
	Dir   string
	Files ArtifactFiles
}

// NewModelStore checks that every artifact is in place. All missing files are reported at once.
func NewModelStore(dir string, files ArtifactFiles) (*ModelStore, error) {
	if !util.DirExists(dir) {
		return nil, fmt.Errorf("%w: model directory %s", os.ErrNotExist, dir)
	}
	if len(files.Classifiers) == 0 {
		return nil, errors.New("no classifier artifacts configured")
	}

	required := []string{files.Embedding, files.Scaler, files.Reducer}
	for _, name := range sortedKeys(files.Classifiers) {
		if _, ok := classifier.ParseBackend(name); !ok {
			return nil, fmt.Errorf("classifier artifact for unknown backend %q", name)
		}
		required = append(required, files.Classifiers[name])
	}

	var missing error
	for _, f := range required {
		if f == "" {
			missing = errors.Join(missing, errors.New("artifact path not set"))
			continue
		}
		if p := filepath.Join(dir, f); !util.FileExists(p) {
			missing = errors.Join(missing, fmt.Errorf("%w: %s", os.ErrNotExist, p))
		}
	}
	if missing != nil {
		return nil, missing
	}

	return &ModelStore{Dir: dir, Files: files}, nil
}

func (s *ModelStore) EmbeddingPath() string { return filepath.Join(s.Dir, s.Files.Embedding) }

func (s *ModelStore) ScalerPath() string { return filepath.Join(s.Dir, s.Files.Scaler) }

func (s *ModelStore) ReducerPath() string { return filepath.Join(s.Dir, s.Files.Reducer) }

// ClassifierPaths maps each configured backend to its artifact.
func (s *ModelStore) ClassifierPaths() map[classifier.Backend]string {
	out := make(map[classifier.Backend]string, len(s.Files.Classifiers))
	for name, f := range s.Files.Classifiers {
		b, _ := classifier.ParseBackend(name)
		out[b] = filepath.Join(s.Dir, f)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
