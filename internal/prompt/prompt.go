package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"

	"rollclean/internal/services/magick"
)

var commandContext = exec.CommandContext

// Inspector measures the chroma channel of an image for the "i" option.
type Inspector interface {
	InspectChroma(ctx context.Context, path string) (magick.ChromaStats, error)
}

// Prompter asks per roll whether scans should be converted to black and
// white. The first image of the roll can be opened in a viewer or inspected
// before answering.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	inspector Inspector
}

// New constructs a prompter reading answers from in.
func New(in io.Reader, out io.Writer, inspector Inspector) *Prompter {
	return &Prompter{
		in:        bufio.NewReader(in),
		out:       out,
		inspector: inspector,
	}
}

// Interactive reports whether stdin is a terminal. Prompting is skipped in
// pipelines and cron runs.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// AskBW loops until the user answers yes or no for the roll.
func (p *Prompter) AskBW(ctx context.Context, rollName, firstImage string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "  convert %s to B+W? [y->yes, n->no/skip, o->view the first image, i->inspect the first image for B+W]: ", rollName)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		case "i":
			p.inspect(ctx, firstImage)
		case "o":
			fmt.Fprintf(p.out, "  opening %s for viewing...\n", firstImage)
			if err := openImage(ctx, firstImage); err != nil {
				fmt.Fprintf(p.out, "  error while viewing image: %v\n", err)
			}
		}
	}
}

func (p *Prompter) inspect(ctx context.Context, path string) {
	if p.inspector == nil {
		fmt.Fprintln(p.out, "  no inspector available")
		return
	}
	stats, err := p.inspector.InspectChroma(ctx, path)
	if err != nil {
		fmt.Fprintf(p.out, "  error inspecting image: %v\n", err)
		return
	}
	fmt.Fprintf(p.out, "  inspecting %s:\n", path)
	fmt.Fprintf(p.out, "  chroma: mean: %.4f | max: %.4f\n", stats.Mean, stats.Max)
	if stats.LikelyBW() {
		fmt.Fprintln(p.out, "  is B+W? likely")
	} else {
		fmt.Fprintln(p.out, "  is B+W? unlikely")
	}
}

func openImage(ctx context.Context, path string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name = "cmd"
		args = []string{"/c", "start", ""}
	default:
		name = "xdg-open"
	}
	args = append(args, path)
	return commandContext(ctx, name, args...).Run()
}
