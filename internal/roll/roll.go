package roll

import (
	"path/filepath"
	"time"
)

// Roll identifies one scanned film roll's export directory. OrderID and
// Number are derived from the directory name and never change after parsing.
type Roll struct {
	Path    string
	OrderID string
	// Number is the 6-digit roll number exactly as it appears in the
	// directory name.
	Number string
}

// Name returns the roll directory's base name.
func (r Roll) Name() string {
	return filepath.Base(r.Path)
}

// ImageFile is one scanned frame discovered inside a roll directory.
type ImageFile struct {
	Path string
	// Ext is the filename extension including the dot, preserved verbatim
	// (matching is case-insensitive, renames keep the original case).
	Ext string
	// Token is the frame-identifying portion of the stem, extracted by the
	// generation profile's pattern.
	Token   string
	ModTime time.Time
}

// Sequence is a roll's images in physical frame order.
type Sequence struct {
	Roll      Roll
	Profile   Profile
	Images    []ImageFile
	HalfFrame bool
}

// BaseTime returns the modification time of the first image in frame order.
// This is the whole-second capture time shared by every image in the roll;
// it is deliberately not the smallest mtime in the roll, because export
// software does not write files in frame order.
func (s *Sequence) BaseTime() time.Time {
	if len(s.Images) == 0 {
		return time.Time{}
	}
	return s.Images[0].ModTime
}

// SourceDirs returns the unique directories that held images, in first-seen
// order. After a reorg these are the candidates for removal.
func (s *Sequence) SourceDirs() []string {
	seen := make(map[string]struct{}, 2)
	var dirs []string
	for _, img := range s.Images {
		dir := parentDir(img.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
