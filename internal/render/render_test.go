package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

func TestOutputNoneAndMessage(t *testing.T) {
	cfg := config.DefaultConfig()
	st := store.New()

	for _, out := range []command.Output{nil, command.None{}} {
		got, err := Output(out, st, cfg)
		if err != nil || got != "" {
			t.Errorf("%#v: got %q, %v", out, got, err)
		}
	}

	got, err := Output(command.Message{Text: "3 papers"}, st, cfg)
	if err != nil || got != "3 papers" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestOutputPapers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Color = false
	cfg.Display.MaxTitleWidth = 20

	st := store.New()
	p, err := st.Add(store.Paper{
		Title:   "Zeus: Understanding and Optimizing GPU Energy",
		Authors: []string{"Jie You", "Jae-Won Chung", "Mosharaf Chowdhury"},
		Venue:   "NSDI",
		Year:    2023,
		Tags:    []string{"gpu"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Output(command.Papers{IDs: []string{p.ID}}, st, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"TITLE", "Zeus: Understandi...", "Jie You et al.", "NSDI", "2023", "gpu"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Optimizing") {
		t.Errorf("expected title to be truncated:\n%s", got)
	}
}

func TestOutputPapersEmptyAndMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Color = false
	st := store.New()

	got, err := Output(command.Papers{}, st, cfg)
	if err != nil || got != "no papers" {
		t.Errorf("got %q, %v", got, err)
	}

	_, err = Output(command.Papers{IDs: []string{"gone"}}, st, cfg)
	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 10, "much to..."},
		{"abcdef", 2, "ab"},
		{"unlimited", 0, "unlimited"},
		{"Schrödinger", 8, "Schrö..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestError(t *testing.T) {
	d := config.DisplayConfig{Color: false}
	if got := Error(errors.New("boom"), d); got != "error: boom" {
		t.Errorf("got %q", got)
	}
}
