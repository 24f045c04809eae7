package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"rollclean/internal/config"
	"rollclean/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithGeneration("c4c5"))

	configPath := filepath.Join(t.TempDir(), "config.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestConfigInitCreatesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatalf("expected error for existing config, got output:\n%s", out)
	}
}

func TestProcessDryRunLeavesFilesAlone(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.MakeRollDir(t, env.cfg.Paths.ExportRoot, "Jones000124")
	testsupport.WriteImage(t, filepath.Join(dir, "000007.jpg"), time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))

	out, _, err := runCLI(t, []string{"process", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("process --dry-run: %v", err)
	}
	requireContains(t, out, "R0124F01.jpg")
	requireContains(t, out, "planned")

	if !testsupport.Exists(t, filepath.Join(dir, "000007.jpg")) {
		t.Fatal("dry run must not rename files")
	}
}

func TestJournalListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"journal", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("journal list: %v", err)
	}
	requireContains(t, out, "Journal is empty")
}

func TestProcessRejectsUnknownGeneration(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"process", "--dry-run", "--generation", "fp7000"}, env.configPath)
	if err == nil {
		t.Fatal("expected validation error for unknown generation")
	}
}
