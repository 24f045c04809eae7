package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rollclean/internal/logging"
	"rollclean/internal/organizer"
	"rollclean/internal/roll"
	"rollclean/internal/testsupport"
)

func TestExecuteRenamesInPlace(t *testing.T) {
	root := t.TempDir()
	seq := standardSequence(t, root)

	plan, err := organizer.Planner{Root: root, RollPadding: 4, FramePadding: 2}.Plan(seq, organizer.ModeInPlace)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := organizer.New(logging.NewNop()).Execute(context.Background(), plan); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, name := range []string{"R0124F01.jpg", "R0124F02.jpg", "R0124F03.jpg"} {
		if !testsupport.Exists(t, filepath.Join(seq.Roll.Path, name)) {
			t.Fatalf("missing renamed file %s", name)
		}
	}
	for _, name := range []string{"000001.jpg", "000002.jpg", "000007.jpg"} {
		if testsupport.Exists(t, filepath.Join(seq.Roll.Path, name)) {
			t.Fatalf("source file %s still present", name)
		}
	}
	// In-place mode never deletes the roll directory.
	if !testsupport.Exists(t, seq.Roll.Path) {
		t.Fatal("roll directory should remain in in-place mode")
	}
}

func TestExecuteReorgMovesAndCleansUp(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Smith_000123")
	export := filepath.Join(dir, "Export JPG NoResize")
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	testsupport.WriteImage(t, filepath.Join(export, "R1-00046-0001A.JPG"), base)
	testsupport.WriteImage(t, filepath.Join(export, "R1-00046-0002A.JPG"), base.Add(time.Second))

	seq, err := roll.BuildSequence(roll.Roll{Path: dir, OrderID: "Smith", Number: "000123"}, roll.ProfileMS01)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	plan, err := organizer.Planner{Root: root, RollPadding: 4, FramePadding: 2}.Plan(seq, organizer.ModeReorg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := organizer.New(logging.NewNop()).Execute(context.Background(), plan); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	destDir := filepath.Join(root, "Smith", "20240301", "0123")
	if !testsupport.Exists(t, filepath.Join(destDir, "R0123F0001A.JPG")) {
		t.Fatal("missing moved file in reorg destination")
	}
	if testsupport.Exists(t, export) {
		t.Fatal("emptied export dir should be removed")
	}
	if testsupport.Exists(t, dir) {
		t.Fatal("emptied roll dir should be removed")
	}
}

func TestExecuteReorgLeavesNonEmptyDirs(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Smith_000124")
	base := time.Now()
	testsupport.WriteImage(t, filepath.Join(dir, "R1-00046-0001A.JPG"), base)
	// A stray non-image file blocks roll dir deletion.
	if err := os.WriteFile(filepath.Join(dir, "index.dat"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	seq, err := roll.BuildSequence(roll.Roll{Path: dir, OrderID: "Smith", Number: "000124"}, roll.ProfileMS01)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	plan, err := organizer.Planner{Root: root, RollPadding: 4, FramePadding: 2}.Plan(seq, organizer.ModeReorg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := organizer.New(logging.NewNop()).Execute(context.Background(), plan); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !testsupport.Exists(t, dir) {
		t.Fatal("non-empty roll dir must be left in place")
	}
	if !testsupport.Exists(t, filepath.Join(dir, "index.dat")) {
		t.Fatal("stray file must survive cleanup")
	}
}
