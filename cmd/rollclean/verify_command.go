package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/cobra"

	"rollclean/internal/config"
)

type verifiedImage struct {
	name     string
	dateTime string
	subSec   string
}

func newVerifyCommand(_ *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <dir>",
		Short: "Check that stamped capture times follow frame order",
		Long: "Verify reads EXIF DateTimeOriginal and SubSecTimeOriginal from every " +
			"image in a processed directory and reports whether the capture times " +
			"sort the frames in filename order.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			images, err := readStampedImages(dir)
			if err != nil {
				return err
			}
			if len(images) == 0 {
				return fmt.Errorf("no JPEG or TIFF images with EXIF data under %s", dir)
			}

			rows := make([][]string, 0, len(images))
			ordered := true
			prev := ""
			for _, img := range images {
				key := img.dateTime + "." + img.subSec
				status := "ok"
				if prev != "" && key <= prev {
					status = "out of order"
					ordered = false
				}
				prev = key
				rows = append(rows, []string{img.name, img.dateTime, img.subSec, status})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Image", "DateTimeOriginal", "SubSec", "Order"}, rows))
			if !ordered {
				return errors.New("capture times do not follow filename order")
			}
			fmt.Fprintf(out, "%d images, capture times follow filename order\n", len(images))
			return nil
		},
	}
	return cmd
}

// readStampedImages decodes the ordering tags from every image directly in
// dir, sorted by filename. BMPs carry no EXIF and are skipped.
func readStampedImages(dir string) ([]verifiedImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var images []verifiedImage
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".jpg" && ext != ".tif" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img, err := readStamp(path)
		if err != nil {
			return nil, fmt.Errorf("read EXIF from %s: %w", entry.Name(), err)
		}
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].name < images[j].name })
	return images, nil
}

func readStamp(path string) (verifiedImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return verifiedImage{}, err
	}
	defer file.Close()

	meta, err := exif.Decode(file)
	if err != nil {
		return verifiedImage{}, err
	}

	img := verifiedImage{name: filepath.Base(path)}
	if tag, err := meta.Get(exif.DateTimeOriginal); err == nil {
		img.dateTime, _ = tag.StringVal()
	}
	if tag, err := meta.Get(exif.SubSecTimeOriginal); err == nil {
		img.subSec, _ = tag.StringVal()
	}
	if img.dateTime == "" {
		return verifiedImage{}, errors.New("missing DateTimeOriginal")
	}
	return img, nil
}
