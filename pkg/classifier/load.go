package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// artifact is the on-disk envelope shared by every model type.
type artifact struct {
	Type      string          `json:"type"`
	NFeatures int             `json:"n_features"`
	NClasses  int             `json:"n_classes"`
	Model     json.RawMessage `json:"model"`
}

// Load reads a classifier artifact. The model type comes from the file, not the backend
// it is registered under.
func Load(path string) (Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func Decode(payload []byte) (Model, error) {
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, err
	}
	if a.NFeatures <= 0 || a.NClasses <= 0 {
		return nil, fmt.Errorf("artifact declares %d features and %d classes", a.NFeatures, a.NClasses)
	}
	if len(a.Model) == 0 {
		return nil, fmt.Errorf("artifact has no model body")
	}
	s := shape{Features: a.NFeatures, Classes: a.NClasses}

	switch a.Type {
	case "random_forest":
		m := &Forest{shape: s}
		return decodeInto(a.Model, m, m.validate)
	case "adaboost":
		m := &AdaBoostEnsemble{shape: s}
		return decodeInto(a.Model, m, m.validate)
	case "gradient_boosting":
		m := &GradientBoostedTrees{shape: s}
		return decodeInto(a.Model, m, m.validate)
	case "knn":
		m := &KNeighbors{shape: s}
		return decodeInto(a.Model, m, m.validate)
	case "mlp":
		m := &MLP{shape: s}
		return decodeInto(a.Model, m, m.validate)
	default:
		return nil, fmt.Errorf("unsupported model type %q", a.Type)
	}
}

func decodeInto(raw json.RawMessage, m Model, validate func() error) (Model, error) {
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, err
	}
	if err := validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadDispatch loads one artifact per backend.
func LoadDispatch(paths map[Backend]string) (*Dispatch, error) {
	models := make(map[Backend]Model, len(paths))
	for b, path := range paths {
		m, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", b, err)
		}
		models[b] = m
	}
	return NewDispatch(models)
}
