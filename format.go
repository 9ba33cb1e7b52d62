package ytfs

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xfmoulet/qoi"
)

// Format is an image format for frames written to and read from disk.
type Format int

// Supported frame formats
const (
	PNG Format = iota
	QOI
)

var formats = map[string]Format{
	"png": PNG,
	"qoi": QOI,
}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	if f, ok := formats[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown frame format %q", s)
}

// Extension returns the filename extension, without the dot.
func (f Format) Extension() string {
	if f == QOI {
		return "qoi"
	}
	return "png"
}

func (f Format) String() string {
	return f.Extension()
}

func (f Format) encode(w io.Writer, m image.Image) error {
	if f == QOI {
		return qoi.Encode(w, m)
	}
	e := png.Encoder{CompressionLevel: png.BestSpeed}
	return e.Encode(w, m)
}

// pattern is the ffmpeg image2 pattern for frames of format f in dir
func (f Format) pattern(dir string) string {
	return filepath.Join(dir, "%09d."+f.Extension())
}

func frameName(i int, f Format) string {
	return fmt.Sprintf("%09d.%s", i, f.Extension())
}

func writeImage(file string, f Format, m image.Image) error {
	w, err := os.Create(file)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := f.encode(w, m); err != nil {
		return err
	}

	return w.Close()
}

func readImage(file string) (image.Image, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(file), err)
	}

	return m, nil
}

type frameFile struct {
	index uint64
	path  string
}

// listFrames returns the numbered frame images in dir ordered by their
// number. Directory order is not relied upon.
func listFrames(dir string) ([]frameFile, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	names, err := d.Readdirnames(0)
	if err != nil {
		return nil, err
	}

	var files []frameFile
	for _, name := range names {
		// Ignore any hidden files
		if name[0] == '.' {
			continue
		}

		ext := filepath.Ext(name)
		if _, err := ParseFormat(strings.TrimPrefix(ext, ".")); err != nil {
			continue
		}

		i, err := strconv.ParseUint(strings.TrimSuffix(name, ext), 10, 64)
		if err != nil {
			continue
		}

		files = append(files, frameFile{index: i, path: filepath.Join(dir, name)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

	return files, nil
}
