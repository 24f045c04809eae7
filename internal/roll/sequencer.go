package roll

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"rollclean/internal/services"
)

// Sentinel errors for roll validation failures. They are always wrapped with
// services.ErrValidation so the runner can classify them uniformly.
var (
	ErrMalformedFrameName = errors.New("malformed frame name")
	ErrUnknownFrameToken  = errors.New("unknown frame token")
	ErrEmptyRoll          = errors.New("no images in roll")
)

// Profile describes one scanner-software generation's filename conventions.
type Profile struct {
	Name string
	// PreserveToken keeps the parsed frame token as the rename designator.
	// When false the designator is the image's 1-based sequence position.
	PreserveToken bool

	stem *regexp.Regexp
}

var (
	// ProfileC4C5 covers exports that name frames with a bare 6-digit
	// counter. Counters are unreliable (frames get skipped or repeated), so
	// renamed frames are renumbered by position.
	ProfileC4C5 = Profile{
		Name: "c4c5",
		stem: regexp.MustCompile(`^([0-9]{6})$`),
	}
	// ProfileMS01 covers exports that name frames R1-<internal roll>-<frame
	// token>. The token carries the DX-read frame name (including half-frame
	// and sentinel markers) and is preserved on rename.
	ProfileMS01 = Profile{
		Name:          "ms01",
		PreserveToken: true,
		stem:          regexp.MustCompile(`^R1-[0-9]{5}-(.+)$`),
	}
)

// ProfileFor resolves a generation name from configuration.
func ProfileFor(generation string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(generation)) {
	case ProfileC4C5.Name:
		return ProfileC4C5, nil
	case ProfileMS01.Name:
		return ProfileMS01, nil
	default:
		return Profile{}, services.Wrap(services.ErrConfiguration, "sequencer", "resolve profile", fmt.Sprintf("unknown scanner generation %q", generation), nil)
	}
}

func (p Profile) parseToken(stem string) (string, bool) {
	match := p.stem.FindStringSubmatch(stem)
	if match == nil {
		return "", false
	}
	return match[1], true
}

var imageExtensions = map[string]struct{}{
	".jpg": {},
	".tif": {},
	".bmp": {},
}

// IsImage reports whether a filename has one of the scanner export
// extensions (case-insensitive).
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// BuildSequence discovers a roll's images and orders them by physical frame
// position. Validation is all-or-nothing: a single unparseable filename
// fails the whole roll before anything is touched.
func BuildSequence(r Roll, profile Profile) (*Sequence, error) {
	images, err := collectImages(r, profile)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, services.Wrap(services.ErrValidation, "sequencer", "collect images", fmt.Sprintf("roll %s", r.Path), ErrEmptyRoll)
	}

	// One token tells the roll type: half-frame exports separate the
	// physical position from the half-frame suffix with a dash.
	halfFrame := strings.Contains(images[0].Token, "-")

	if halfFrame {
		if err := sortHalfFrame(images); err != nil {
			return nil, err
		}
	} else {
		sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })
	}

	return &Sequence{Roll: r, Profile: profile, Images: images, HalfFrame: halfFrame}, nil
}

// collectImages walks the roll directory recursively, covering both direct
// children and nested export-format subdirectories. Walk order is lexical,
// which fixes the discovery order used to break half-frame ties.
func collectImages(r Roll, profile Profile) ([]ImageFile, error) {
	var images []ImageFile
	err := filepath.WalkDir(r.Path, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := entry.Name()
		if entry.IsDir() {
			if path != r.Path && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !IsImage(name) {
			return nil
		}

		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		token, ok := profile.parseToken(stem)
		if !ok {
			return services.Wrap(services.ErrValidation, "sequencer", "parse frame name", path, ErrMalformedFrameName)
		}

		info, err := entry.Info()
		if err != nil {
			return services.Wrap(services.ErrTransient, "sequencer", "stat image", path, err)
		}

		images = append(images, ImageFile{
			Path:    path,
			Ext:     ext,
			Token:   token,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrTransient) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTransient, "sequencer", "walk roll", r.Path, err)
	}
	return images, nil
}

// ListBMPs returns every BMP under the roll directory in lexical walk order.
func ListBMPs(r Roll) ([]string, error) {
	var bmps []string
	err := filepath.WalkDir(r.Path, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := entry.Name()
		if entry.IsDir() {
			if path != r.Path && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(name), ".bmp") {
			bmps = append(bmps, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sequencer", "walk roll", r.Path, err)
	}
	return bmps, nil
}

// sortHalfFrame orders by the frame table rank of the token's left
// component. The sort is stable on purpose: the two half-exposures of one
// physical frame share a left component and must keep discovery order, since
// the right-hand suffix only disambiguates which half a file is.
func sortHalfFrame(images []ImageFile) error {
	rankOf := make(map[string]int, len(images))
	for _, img := range images {
		left, _, _ := strings.Cut(img.Token, "-")
		rank, ok := FrameRank(left)
		if !ok {
			return services.Wrap(services.ErrValidation, "sequencer", "rank frame token", fmt.Sprintf("%s (token %q)", img.Path, img.Token), ErrUnknownFrameToken)
		}
		rankOf[img.Path] = rank
	}
	sort.SliceStable(images, func(i, j int) bool { return rankOf[images[i].Path] < rankOf[images[j].Path] })
	return nil
}
