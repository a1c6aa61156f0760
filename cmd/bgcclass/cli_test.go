package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yumyai/bgcclass/pkg/classifier"
	"github.com/yumyai/bgcclass/pkg/db"
	"github.com/yumyai/bgcclass/pkg/errs"
	"github.com/yumyai/bgcclass/pkg/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestImportProtVec(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "protvec.txt")
	dst := filepath.Join(dir, "protvec.db")
	if err := os.WriteFile(src, []byte("2 3\nAAA 1 2 3\n<unk> 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "import-protvec", src, dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "stored 2 k-mers") {
		t.Errorf("unexpected output %q", out)
	}

	vectors, err := db.LoadProtVecSQLite(dst)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if got := vectors["AAA"]; len(got) != 3 || got[2] != 3 {
		t.Errorf("AAA = %v", got)
	}
}

func TestClassifyRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BGC_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := run(t, "classify", "--backend", "svm", "a.gbk")
	if !errors.Is(err, errs.ErrUnknownBackend) {
		t.Fatalf("expected unknown backend, got %v", err)
	}
	backendName = "all"
}

func TestTableRows(t *testing.T) {
	backendName = "all"
	rows := tableRows([]fileResult{
		{File: "a.gbk", Cluster: make(model.Cluster, 2), Predictions: []classifier.Prediction{
			{Backend: classifier.KNN, Class: 1, Probabilities: []float64{0, 1, 0}},
			{Backend: classifier.NeuralNetwork, Class: 0, Probabilities: []float64{1, 0, 0}},
		}},
		{File: "b.txt", Error: "unsupported file extension"},
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Backend != "knn" || rows[0].Proteins != 2 || rows[1].Class != 0 {
		t.Errorf("unexpected rows %+v", rows[:2])
	}
	if rows[2].Err == nil || rows[2].Backend != "all" {
		t.Errorf("expected error row, got %+v", rows[2])
	}
}

func TestEnvFileSetsModelDir(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "models-from-env")
	env := filepath.Join(dir, "test.env")
	content := "BGC_DATA=" + models + "\nBGC_CONFIG=" + filepath.Join(dir, "missing.yaml") + "\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	// registered for restore, then cleared so the env file is the only source
	t.Setenv("BGC_DATA", "")
	t.Setenv("BGC_CONFIG", "")
	os.Unsetenv("BGC_DATA")
	os.Unsetenv("BGC_CONFIG")

	_, err := run(t, "backends", "--env-file", env)
	if !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), models) {
		t.Fatalf("expected the model directory from the env file, got %v", err)
	}
	envFile = ".env"
}
