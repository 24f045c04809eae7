package roll_test

import (
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"rollclean/internal/roll"
	"rollclean/internal/services"
	"rollclean/internal/testsupport"
)

func TestFrameRankOrdering(t *testing.T) {
	// X < XA < 00 < 00A < 0 < 0A < 1 < 1A < ... < 40 < 40A < E
	ordered := []string{"X", "XA", "00", "00A"}
	for i := 0; i <= 40; i++ {
		n := strconv.Itoa(i)
		ordered = append(ordered, n, n+"A")
	}
	ordered = append(ordered, "E")

	prev := -1
	for _, token := range ordered {
		rank, ok := roll.FrameRank(token)
		if !ok {
			t.Fatalf("token %q missing from table", token)
		}
		if rank != prev+1 {
			t.Fatalf("token %q has rank %d, expected %d", token, rank, prev+1)
		}
		prev = rank
	}

	if _, ok := roll.FrameRank("41"); ok {
		t.Fatal("token 41 should not be in the table")
	}
	if _, ok := roll.FrameRank("EA"); ok {
		t.Fatal("token EA should not be in the table")
	}
}

func TestBuildSequenceStandardRollSortsByFilename(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Jones000124")
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	// mtimes deliberately out of name order; ordering must not depend on them.
	testsupport.WriteImage(t, filepath.Join(dir, "000002.jpg"), base.Add(5*time.Second))
	testsupport.WriteImage(t, filepath.Join(dir, "000001.jpg"), base)
	testsupport.WriteImage(t, filepath.Join(dir, "000007.jpg"), base.Add(2*time.Second))

	seq, err := roll.BuildSequence(roll.Roll{Path: dir, OrderID: "Jones", Number: "000124"}, roll.ProfileC4C5)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	if seq.HalfFrame {
		t.Fatal("expected standard roll")
	}
	want := []string{"000001", "000002", "000007"}
	if len(seq.Images) != len(want) {
		t.Fatalf("expected %d images, got %d", len(want), len(seq.Images))
	}
	for i, token := range want {
		if seq.Images[i].Token != token {
			t.Fatalf("position %d: got token %q want %q", i, seq.Images[i].Token, token)
		}
	}
	if !seq.BaseTime().Equal(base) {
		t.Fatalf("base time should be first-ordered image mtime, got %v want %v", seq.BaseTime(), base)
	}
}

func TestBuildSequenceHalfFrameGroupsByLeftComponent(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Smith_000123")
	export := filepath.Join(dir, "Export JPG NoResize")
	mtime := time.Now()

	// Lexical discovery order sorts E-* before X-*; frame order must place
	// X first and E last, with all 0-* before 0A-* before 1-*.
	names := []string{
		"R1-00046-0A-0A.JPG",
		"R1-00046-0A-1A.JPG",
		"R1-00046-0-0A.JPG",
		"R1-00046-0-1A.JPG",
		"R1-00046-1-0A.JPG",
		"R1-00046-X-0A.JPG",
		"R1-00046-E-0A.JPG",
	}
	for _, name := range names {
		testsupport.WriteImage(t, filepath.Join(export, name), mtime)
	}

	seq, err := roll.BuildSequence(roll.Roll{Path: dir, OrderID: "Smith", Number: "000123"}, roll.ProfileMS01)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	if !seq.HalfFrame {
		t.Fatal("expected half-frame roll")
	}

	var tokens []string
	for _, img := range seq.Images {
		tokens = append(tokens, img.Token)
	}
	want := []string{"X-0A", "0-0A", "0-1A", "0A-0A", "0A-1A", "1-0A", "E-0A"}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, tokens, want)
		}
	}
}

func TestBuildSequenceHalfFrameTiesKeepDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Smith_000125")
	mtime := time.Now()

	// Same left component "3": files must stay in lexical discovery order.
	for _, name := range []string{"R1-00046-3-0A.JPG", "R1-00046-3-1A.JPG"} {
		testsupport.WriteImage(t, filepath.Join(dir, name), mtime)
	}

	seq, err := roll.BuildSequence(roll.Roll{Path: dir}, roll.ProfileMS01)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	if seq.Images[0].Token != "3-0A" || seq.Images[1].Token != "3-1A" {
		t.Fatalf("tie order lost: %q, %q", seq.Images[0].Token, seq.Images[1].Token)
	}
}

func TestBuildSequenceFailsWholeRollOnBadName(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Jones000124")
	mtime := time.Now()
	testsupport.WriteImage(t, filepath.Join(dir, "000001.jpg"), mtime)
	testsupport.WriteImage(t, filepath.Join(dir, "holiday.jpg"), mtime)

	_, err := roll.BuildSequence(roll.Roll{Path: dir}, roll.ProfileC4C5)
	if err == nil {
		t.Fatal("expected error for malformed frame name")
	}
	if !errors.Is(err, roll.ErrMalformedFrameName) {
		t.Fatalf("expected ErrMalformedFrameName, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation classification, got %v", err)
	}
}

func TestBuildSequenceRejectsUnknownFrameToken(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Smith_000126")
	testsupport.WriteImage(t, filepath.Join(dir, "R1-00046-99-0A.JPG"), time.Now())

	_, err := roll.BuildSequence(roll.Roll{Path: dir}, roll.ProfileMS01)
	if !errors.Is(err, roll.ErrUnknownFrameToken) {
		t.Fatalf("expected ErrUnknownFrameToken, got %v", err)
	}
}

func TestBuildSequenceRejectsEmptyRoll(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Jones000127")
	testsupport.WriteImage(t, filepath.Join(dir, "notes.txt"), time.Now())

	_, err := roll.BuildSequence(roll.Roll{Path: dir}, roll.ProfileC4C5)
	if !errors.Is(err, roll.ErrEmptyRoll) {
		t.Fatalf("expected ErrEmptyRoll, got %v", err)
	}
}

func TestBuildSequenceIgnoresHiddenFiles(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Jones000128")
	mtime := time.Now()
	testsupport.WriteImage(t, filepath.Join(dir, "000001.jpg"), mtime)
	testsupport.WriteImage(t, filepath.Join(dir, ".000002.jpg"), mtime)

	seq, err := roll.BuildSequence(roll.Roll{Path: dir}, roll.ProfileC4C5)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	if len(seq.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(seq.Images))
	}
}

func TestSourceDirsFirstSeenOrder(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.MakeRollDir(t, root, "Smith_000129")
	mtime := time.Now()
	testsupport.WriteImage(t, filepath.Join(dir, "Export JPG NoResize", "R1-00046-0001.JPG"), mtime)
	testsupport.WriteImage(t, filepath.Join(dir, "Export TIFF NoResize", "R1-00046-0002.TIF"), mtime)

	seq, err := roll.BuildSequence(roll.Roll{Path: dir}, roll.ProfileMS01)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	dirs := seq.SourceDirs()
	if len(dirs) != 2 {
		t.Fatalf("expected 2 source dirs, got %v", dirs)
	}
}
