package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"rollclean/internal/roll"
	"rollclean/internal/services"
)

// Sentinel errors for plan validation failures.
var (
	ErrDestinationCollision = errors.New("duplicate destination path")
	ErrDestinationExists    = errors.New("destination already exists")
)

// Mode selects where a roll's renamed images end up.
type Mode int

const (
	// ModeInPlace renames each image inside the directory it was found in.
	ModeInPlace Mode = iota
	// ModeReorg moves images into <export root>/<order id>/<date>/<roll>.
	ModeReorg
)

func (m Mode) String() string {
	if m == ModeReorg {
		return "reorg"
	}
	return "in-place"
}

// Move is one planned rename: a source image and its computed destination.
type Move struct {
	Source roll.ImageFile
	// Designator is the frame part of the new name: the 1-based sequence
	// position for renumbering profiles, or the original frame token for
	// token-preserving profiles.
	Designator string
	DestPath   string
}

// Plan holds every destination for a roll, computed and validated before any
// file is touched.
type Plan struct {
	Roll       roll.Roll
	Mode       Mode
	RollNumber string // zero-padded
	// DestDir is the reorg target directory; empty for in-place plans where
	// each move stays in its source's parent.
	DestDir    string
	Moves      []Move
	SourceDirs []string
}

// Planner computes rename destinations.
type Planner struct {
	// Root is the export root the reorg hierarchy is built under.
	Root         string
	RollPadding  int
	FramePadding int
}

// Plan computes the destination of every image in the sequence and rejects
// the whole roll if any two destinations collide or a destination already
// exists on disk. Nothing is moved here.
func (p Planner) Plan(seq *roll.Sequence, mode Mode) (*Plan, error) {
	number, err := strconv.Atoi(seq.Roll.Number)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "planner", "parse roll number", seq.Roll.Number, err)
	}
	paddedRoll := fmt.Sprintf("%0*d", p.RollPadding, number)

	plan := &Plan{
		Roll:       seq.Roll,
		Mode:       mode,
		RollNumber: paddedRoll,
		SourceDirs: seq.SourceDirs(),
	}
	if mode == ModeReorg {
		date := seq.BaseTime().Format("20060102")
		plan.DestDir = filepath.Join(p.Root, seq.Roll.OrderID, date, paddedRoll)
	}

	claimed := make(map[string]string, len(seq.Images))
	for i, img := range seq.Images {
		designator := img.Token
		if !seq.Profile.PreserveToken {
			designator = fmt.Sprintf("%0*d", p.FramePadding, i+1)
		}

		destDir := plan.DestDir
		if mode == ModeInPlace {
			destDir = filepath.Dir(img.Path)
		}
		dest := filepath.Join(destDir, "R"+paddedRoll+"F"+designator+img.Ext)

		if prev, ok := claimed[dest]; ok {
			return nil, services.Wrap(services.ErrValidation, "planner", "check collisions",
				fmt.Sprintf("%s and %s both map to %s", prev, img.Path, dest), ErrDestinationCollision)
		}
		claimed[dest] = img.Path

		if _, err := os.Stat(dest); err == nil {
			return nil, services.Wrap(services.ErrValidation, "planner", "check collisions",
				fmt.Sprintf("%s maps to existing file %s", img.Path, dest), ErrDestinationExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrTransient, "planner", "stat destination", dest, err)
		}

		plan.Moves = append(plan.Moves, Move{Source: img, Designator: designator, DestPath: dest})
	}

	return plan, nil
}
