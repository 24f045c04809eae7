package exiftool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"rollclean/internal/services"
)

func stubExiftool(t *testing.T, mode string) string {
	t.Helper()

	capture := filepath.Join(t.TempDir(), "args.txt")
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"EXIFTOOL_HELPER_MODE="+mode,
			"EXIFTOOL_HELPER_CAPTURE="+capture,
		)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return capture
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestWriteTagsSendsSortedArguments(t *testing.T) {
	capture := stubExiftool(t, "success")

	client, err := New("exiftool")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tags := map[string]string{
		"EXIF:SubSecTimeOriginal": "007",
		"EXIF:DateTimeOriginal":   "2024:03:01 08:00:00",
	}
	if err := client.WriteTags(context.Background(), "/rolls/R0123F01.jpg", tags); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(capture)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"-G",
		"-n",
		"-overwrite_original",
		"-EXIF:DateTimeOriginal=2024:03:01 08:00:00",
		"-EXIF:SubSecTimeOriginal=007",
		"/rolls/R0123F01.jpg",
		"-execute",
	}
	if len(got) != len(want) {
		t.Fatalf("argument count: got %d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("argument %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestWriteTagsRejectsUnexpectedResponse(t *testing.T) {
	stubExiftool(t, "nochange")

	client, err := New("exiftool")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	tags := map[string]string{"EXIF:DateTimeOriginal": "2024:03:01 08:00:00"}
	err = client.WriteTags(context.Background(), "/rolls/R0123F01.jpg", tags)
	if err == nil {
		t.Fatal("expected error for response without success message")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestWriteTagsNoTagsIsNoop(t *testing.T) {
	client, err := New("exiftool")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.WriteTags(context.Background(), "/rolls/R0123F01.jpg", nil); err != nil {
		t.Fatalf("WriteTags with no tags: %v", err)
	}
	if client.started {
		t.Fatal("process should not start for an empty tag set")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	mode := os.Getenv("EXIFTOOL_HELPER_MODE")
	capturePath := os.Getenv("EXIFTOOL_HELPER_CAPTURE")
	var capture *os.File
	if capturePath != "" {
		var err error
		capture, err = os.Create(capturePath)
		if err != nil {
			os.Exit(1)
		}
		defer capture.Close()
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "-stay_open" {
			if scanner.Scan() && scanner.Text() == "False" {
				os.Exit(0)
			}
			continue
		}
		if capture != nil {
			fmt.Fprintln(capture, line)
		}
		if line == "-execute" {
			if mode == "nochange" {
				fmt.Println("0 image files updated")
			} else {
				fmt.Println(SuccessMessage)
			}
			fmt.Println("{ready}")
		}
	}
	os.Exit(0)
}
