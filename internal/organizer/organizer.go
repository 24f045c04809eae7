package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"rollclean/internal/logging"
	"rollclean/internal/services"
)

// Organizer executes a plan: moves every image to its destination and, after
// a reorg, removes the emptied source directories.
type Organizer struct {
	logger *slog.Logger
}

// New constructs the organizer.
func New(logger *slog.Logger) *Organizer {
	return &Organizer{logger: logging.NewComponentLogger(logger, "organizer")}
}

// Execute performs the plan's moves in order. Moves are not transactional: a
// failure mid-roll leaves earlier moves in place, which is safe because
// renamed files no longer match the roll's discovery pattern. The first move
// failure aborts the rest of the roll.
func (o *Organizer) Execute(ctx context.Context, plan *Plan) error {
	logger := logging.WithContext(ctx, o.logger)

	madeDirs := make(map[string]struct{}, 2)
	for _, move := range plan.Moves {
		dir := filepath.Dir(move.DestPath)
		if _, ok := madeDirs[dir]; !ok {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return services.Wrap(services.ErrTransient, "organizer", "create destination dir", dir, err)
			}
			madeDirs[dir] = struct{}{}
		}

		logger.Info("renaming image",
			logging.String("from", filepath.Base(move.Source.Path)),
			logging.String("to", filepath.Base(move.DestPath)),
		)
		if err := moveFile(move.Source.Path, move.DestPath); err != nil {
			return services.Wrap(services.ErrTransient, "organizer", "move image",
				fmt.Sprintf("%s -> %s", move.Source.Path, move.DestPath), err)
		}
	}

	if plan.Mode == ModeReorg {
		o.cleanupSourceDirs(ctx, plan)
	}
	return nil
}

// cleanupSourceDirs removes the now-empty export directories and finally the
// roll directory itself. Leftover non-image files intentionally block
// deletion; that is logged and left alone.
func (o *Organizer) cleanupSourceDirs(ctx context.Context, plan *Plan) {
	logger := logging.WithContext(ctx, o.logger)

	// Deepest directories first, the roll directory itself last.
	dirs := append([]string{}, plan.SourceDirs...)
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	if len(dirs) == 0 || dirs[len(dirs)-1] != plan.Roll.Path {
		dirs = append(dirs, plan.Roll.Path)
	}
	for _, dir := range dirs {
		if err := os.Remove(dir); err != nil {
			logger.Info("directory not empty, leaving in place",
				logging.String("dir", dir),
				logging.Error(err),
			)
		}
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// destination is on a different filesystem.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := copyFile(src, dst); copyErr != nil {
			return copyErr
		}
		return os.Remove(src)
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
