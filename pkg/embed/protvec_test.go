package embed

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func testVocabulary() map[string][]float64 {
	return map[string][]float64{
		"MKL":        {1, 0},
		"KLV":        {0, 1},
		"LVA":        {2, 2},
		"VAM":        {1, 1},
		"AMK":        {3, 0},
		UnknownToken: {-1, -1},
	}
}

func TestProtVecFrames(t *testing.T) {
	pv, err := NewProtVec(testVocabulary(), ProtVecOptions{K: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pv.Dimension() != 6 {
		t.Fatalf("expected dimension 6, got %d", pv.Dimension())
	}

	// frames: MKL|VAM  KLV|AMK  LVA
	e, err := pv.Embed("mklvamk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Embedding{{2, 1}, {3, 1}, {2, 2}}
	if len(e) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(e))
	}
	for i := range want {
		for j := range want[i] {
			if e[i][j] != want[i][j] {
				t.Fatalf("row %d: got %v, want %v", i, e[i], want[i])
			}
		}
	}
}

func TestProtVecRejects(t *testing.T) {
	pv, err := NewProtVec(testVocabulary(), ProtVecOptions{K: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, seq := range []string{"", "   ", "MK", "MKL1", "MK-L"} {
		if _, err := pv.Embed(seq); !errors.Is(err, ErrInvalidSequence) {
			t.Errorf("%q: expected invalid sequence, got %v", seq, err)
		}
	}
	if _, err := pv.Embed("WWWW"); !errors.Is(err, ErrUnknownKmer) {
		t.Errorf("expected unknown k-mer, got %v", err)
	}
}

func TestProtVecAllowUnknown(t *testing.T) {
	pv, err := NewProtVec(testVocabulary(), ProtVecOptions{K: 3, AllowUnknown: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, err := pv.Embed("WWW")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e[0][0] != -1 || e[1][0] != 0 {
		t.Fatalf("unexpected embedding %v", e)
	}

	vocab := testVocabulary()
	delete(vocab, UnknownToken)
	if _, err := NewProtVec(vocab, ProtVecOptions{K: 3, AllowUnknown: true}); err == nil {
		t.Fatal("expected error when <unk> is missing")
	}
}

func TestNewProtVecValidates(t *testing.T) {
	if _, err := NewProtVec(nil, ProtVecOptions{}); err == nil {
		t.Error("expected error for empty vocabulary")
	}
	if _, err := NewProtVec(map[string][]float64{"AAA": {1}, "CCC": {1, 2}}, ProtVecOptions{}); err == nil {
		t.Error("expected error for ragged vectors")
	}
	if _, err := NewProtVec(map[string][]float64{"AAAA": {1}}, ProtVecOptions{K: 3}); err == nil {
		t.Error("expected error for wrong k-mer length")
	}
}

func TestLoadWord2VecText(t *testing.T) {
	in := "2 3\nAAA 0.1 0.2 0.3\nCCC 1 2 3\n"
	vectors, err := LoadWord2VecText(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 || vectors["CCC"][2] != 3 {
		t.Fatalf("unexpected vectors %v", vectors)
	}

	for _, bad := range []string{"", "2\n", "1 3\nAAA 1 2\n", "2 1\nAAA 1\n", "1 1\nAAA x\n"} {
		if _, err := LoadWord2VecText(strings.NewReader(bad)); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

type countingEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (c *countingEmbedder) Name() string   { return "counting" }
func (c *countingEmbedder) Dimension() int { return 2 }
func (c *countingEmbedder) Embed(seq string) (Embedding, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return Embedding{{float64(len(seq)), 1}}, nil
}

func TestCachedReturnsCopies(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := NewCached(inner, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := cached.Embed("MKLV")
	first[0][0] = 999

	second, _ := cached.Embed("MKLV")
	if second[0][0] != 4 {
		t.Fatalf("cache entry was mutated through a returned embedding: %v", second)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if cached.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", cached.Len())
	}

	if _, err := NewCached(inner, 0); err == nil {
		t.Fatal("expected error for zero cache size")
	}
}
