package preprocess

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// RobustScaler subtracts the fitted median and divides by the fitted interquartile range.
// Either side may be absent (with_centering / with_scaling off).
type RobustScaler struct {
	Center []float64 `json:"center,omitempty"`
	Scale  []float64 `json:"scale,omitempty"`
}

func (s *RobustScaler) Name() string { return "robust_scaler" }

func (s *RobustScaler) InputDim() int {
	if s.Center != nil {
		return len(s.Center)
	}
	return len(s.Scale)
}

func (s *RobustScaler) OutputDim() int { return s.InputDim() }

func (s *RobustScaler) Transform(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, v := range x {
		if s.Center != nil {
			v -= s.Center[i]
		}
		if s.Scale != nil {
			v /= s.Scale[i]
		}
		out[i] = v
	}
	return out, nil
}

func (s *RobustScaler) validate() error {
	if s.Center == nil && s.Scale == nil {
		return errors.New("robust scaler has neither center nor scale")
	}
	if s.Center != nil && s.Scale != nil && len(s.Center) != len(s.Scale) {
		return fmt.Errorf("robust scaler center has %d values, scale has %d", len(s.Center), len(s.Scale))
	}
	for i, v := range s.Scale {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("robust scaler scale[%d] is not finite", i)
		}
		// a constant feature has zero IQR; it is left unscaled
		if v == 0 {
			s.Scale[i] = 1
		}
	}
	return nil
}

func LoadRobustScaler(path string) (*RobustScaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s RobustScaler
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}
