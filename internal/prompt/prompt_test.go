package prompt

import (
	"context"
	"strings"
	"testing"

	"rollclean/internal/services/magick"
)

type fakeInspector struct {
	stats magick.ChromaStats
	calls int
}

func (f *fakeInspector) InspectChroma(ctx context.Context, path string) (magick.ChromaStats, error) {
	f.calls++
	return f.stats, nil
}

func TestAskBWYes(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader("y\n"), &out, nil)

	convert, err := p.AskBW(context.Background(), "Smith_000123", "/rolls/first.jpg")
	if err != nil {
		t.Fatalf("AskBW: %v", err)
	}
	if !convert {
		t.Fatal("expected yes answer")
	}
	if !strings.Contains(out.String(), "convert Smith_000123 to B+W?") {
		t.Fatalf("prompt text missing roll name: %q", out.String())
	}
}

func TestAskBWInspectThenNo(t *testing.T) {
	inspector := &fakeInspector{stats: magick.ChromaStats{Mean: 0.001, Max: 0.01}}
	var out strings.Builder
	p := New(strings.NewReader("i\nn\n"), &out, inspector)

	convert, err := p.AskBW(context.Background(), "Smith_000123", "/rolls/first.jpg")
	if err != nil {
		t.Fatalf("AskBW: %v", err)
	}
	if convert {
		t.Fatal("expected no answer")
	}
	if inspector.calls != 1 {
		t.Fatalf("expected one inspection, got %d", inspector.calls)
	}
	if !strings.Contains(out.String(), "is B+W? likely") {
		t.Fatalf("expected likely verdict in output: %q", out.String())
	}
}

func TestAskBWIgnoresUnknownInput(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader("x\n\ny\n"), &out, nil)

	convert, err := p.AskBW(context.Background(), "Jones000124", "/rolls/first.jpg")
	if err != nil {
		t.Fatalf("AskBW: %v", err)
	}
	if !convert {
		t.Fatal("unknown input should re-prompt until answered")
	}
}

func TestAskBWEOFMeansSkip(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader(""), &out, nil)

	convert, err := p.AskBW(context.Background(), "Jones000124", "/rolls/first.jpg")
	if err != nil {
		t.Fatalf("AskBW: %v", err)
	}
	if convert {
		t.Fatal("EOF should skip conversion")
	}
}
