// Package timestamp synthesizes the capture times that force photo tools
// sorting by capture time to reproduce true frame order.
package timestamp

import (
	"fmt"
	"time"
)

// TagTimeFormat is the EXIF datetime layout the metadata writer expects.
const TagTimeFormat = "2006:01:02 15:04:05"

// Stamp is the synthetic capture time for one image: a whole-second base
// shared by the whole roll plus a 3-digit sub-second offset equal to the
// image's position in frame order.
type Stamp struct {
	Original  time.Time
	Digitized time.Time
	// SubSecOriginal and SubSecDigitized are zero-padded 3-digit strings.
	SubSecOriginal  string
	SubSecDigitized string
}

// Synthesizer assigns capture timestamps in sequence order and carries the
// scanner identity written alongside them.
type Synthesizer struct {
	Make  string
	Model string
}

// Stamps produces one Stamp per image for a roll of n images ordered by the
// sequencer. Every stamp shares the base's whole second; sub-second fields
// are the zero-based position modulo 1000, so rolls of 1000+ images wrap and
// lose strict ordering past that point. Filesystem mtimes are never used for
// per-image times because export software does not write files in frame
// order.
func (s Synthesizer) Stamps(base time.Time, n int) []Stamp {
	stamps := make([]Stamp, n)
	for i := range stamps {
		offset := fmt.Sprintf("%03d", i%1000)
		stamps[i] = Stamp{
			Original:        base,
			Digitized:       base,
			SubSecOriginal:  offset,
			SubSecDigitized: offset,
		}
	}
	return stamps
}

// Tags renders the stamp as the tag map handed to the metadata writer.
func (s Synthesizer) Tags(stamp Stamp) map[string]string {
	tags := map[string]string{
		"EXIF:DateTimeOriginal":    stamp.Original.Format(TagTimeFormat),
		"EXIF:DateTimeDigitized":   stamp.Digitized.Format(TagTimeFormat),
		"EXIF:SubSecTimeOriginal":  stamp.SubSecOriginal,
		"EXIF:SubSecTimeDigitized": stamp.SubSecDigitized,
	}
	if s.Make != "" {
		tags["EXIF:Make"] = s.Make
	}
	if s.Model != "" {
		tags["EXIF:Model"] = s.Model
	}
	return tags
}

// RunBase returns the capture time base for the roll at index when file
// mtimes are not trusted at all: the run start plus one second per roll, so
// rolls processed in one invocation never share a base.
func RunBase(runStart time.Time, rollIndex int) time.Time {
	return runStart.Add(time.Duration(rollIndex) * time.Second)
}
