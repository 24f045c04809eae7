package exiftool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"rollclean/internal/services"
)

var commandContext = exec.CommandContext

// SuccessMessage is the line exiftool prints after updating a single file.
const SuccessMessage = "1 image files updated"

// Writer applies metadata tags to image files.
type Writer interface {
	WriteTags(ctx context.Context, path string, tags map[string]string) error
	Close() error
}

// Client drives a single long-lived exiftool process in stay-open mode so a
// large batch does not pay process startup per image.
type Client struct {
	binary string

	mu      sync.Mutex
	started bool
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
}

// New constructs an exiftool client. The process is started lazily on the
// first WriteTags call.
func New(binary string) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	return &Client{binary: binary}, nil
}

// WriteTags writes the given tag values into the file at path. Tag names use
// exiftool syntax (for example "EXIF:DateTimeOriginal").
func (c *Client) WriteTags(ctx context.Context, path string, tags map[string]string) error {
	if path == "" {
		return errors.New("image path required")
	}
	if len(tags) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureStarted(ctx); err != nil {
		return err
	}

	args := make([]string, 0, len(tags)+4)
	args = append(args, "-G", "-n", "-overwrite_original")
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, fmt.Sprintf("-%s=%s", name, tags[name]))
	}
	args = append(args, path)

	output, err := c.execute(args)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "write tags", path, err)
	}
	if !strings.Contains(output, SuccessMessage) {
		return services.Wrap(services.ErrExternalTool, "exiftool", "write tags",
			fmt.Sprintf("%s: unexpected response %q", path, strings.TrimSpace(output)), nil)
	}
	return nil
}

// Close asks the exiftool process to exit and waits for it.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.started = false

	if _, err := fmt.Fprintln(c.stdin, "-stay_open"); err != nil {
		_ = c.cmd.Process.Kill()
		return c.cmd.Wait()
	}
	if _, err := fmt.Fprintln(c.stdin, "False"); err != nil {
		_ = c.cmd.Process.Kill()
		return c.cmd.Wait()
	}
	_ = c.stdin.Close()
	return c.cmd.Wait()
}

func (c *Client) ensureStarted(ctx context.Context) error {
	if c.started {
		return nil
	}

	cmd := commandContext(ctx, c.binary, "-stay_open", "True", "-@", "-") //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "start", c.binary, err)
	}

	c.cmd = cmd
	c.stdin = stdin
	c.stdout = bufio.NewReader(stdout)
	c.started = true
	return nil
}

// execute sends one argument batch and reads the response up to the {ready}
// marker. Callers hold c.mu.
func (c *Client) execute(args []string) (string, error) {
	for _, arg := range args {
		if _, err := fmt.Fprintln(c.stdin, arg); err != nil {
			return "", fmt.Errorf("write argument: %w", err)
		}
	}
	if _, err := fmt.Fprintln(c.stdin, "-execute"); err != nil {
		return "", fmt.Errorf("write execute: %w", err)
	}

	var output strings.Builder
	for {
		line, err := c.stdout.ReadString('\n')
		if strings.HasPrefix(line, "{ready}") {
			break
		}
		output.WriteString(line)
		if err != nil {
			return output.String(), fmt.Errorf("read response: %w", err)
		}
	}
	return output.String(), nil
}
