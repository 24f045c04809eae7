package roll

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"rollclean/internal/services"
)

// Roll directories are named <order id><optional delimiter><6-digit roll
// number>, where the order id is 1 to 10 arbitrary characters. Anything else
// in the export root is not a roll and is skipped without comment.
var rollDirPattern = regexp.MustCompile(`^(.{1,10}?)[-_ .]?([0-9]{6})$`)

// Locate returns the immediate child directories of root that follow the
// roll naming contract, sorted lexicographically by path. The sort keeps
// repeated runs processing rolls in the same order, which matters when roll
// base timestamps are derived from the run clock rather than file mtimes.
func Locate(root string) ([]Roll, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "locator", "scan root", fmt.Sprintf("cannot read %s", root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "locator", "scan root", fmt.Sprintf("%s is not a directory", root), nil)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "locator", "scan root", fmt.Sprintf("cannot list %s", root), err)
	}

	var rolls []Roll
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		match := rollDirPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		rolls = append(rolls, Roll{
			Path:    filepath.Join(root, entry.Name()),
			OrderID: match[1],
			Number:  match[2],
		})
	}

	sort.Slice(rolls, func(i, j int) bool { return rolls[i].Path < rolls[j].Path })
	return rolls, nil
}

func parentDir(path string) string {
	return filepath.Dir(path)
}
