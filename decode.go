package ytfs

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/ytfs/frame"
	"github.com/bodgit/ytfs/header"
	"github.com/bodgit/ytfs/palette"
	"github.com/bodgit/ytfs/symbol"
)

var errNoFrames = errors.New("no frames found")

// ReadFrames recovers the payload from the numbered frames in dir. The
// lowest numbered frame must be the header frame.
func (y *YtFS) ReadFrames(ctx context.Context, dir string) (header.Header, []byte, error) {
	files, err := listFrames(dir)
	if err != nil {
		return header.Header{}, nil, err
	}
	if len(files) == 0 {
		return header.Header{}, nil, errNoFrames
	}

	hm, err := readImage(files[0].path)
	if err != nil {
		return header.Header{}, nil, err
	}

	h, err := header.Read(hm)
	if err != nil {
		return header.Header{}, nil, err
	}

	b := hm.Bounds()
	if err := h.Validate(b.Dx(), b.Dy()); err != nil {
		return header.Header{}, nil, err
	}

	l := frame.Layout{
		Width:       b.Dx(),
		Height:      b.Dy(),
		BlockWidth:  int(h.BlockWidth),
		BlockHeight: int(h.BlockHeight),
	}

	// Only the frames holding the payload need classifying
	need := (symbol.Len(int(h.Size)) + l.Capacity() - 1) / l.Capacity()
	files = files[1:]
	if len(files) < need {
		return header.Header{}, nil, fmt.Errorf("%d data frames needed, only %d found", need, len(files))
	}
	files = files[:need]

	y.logger.Printf("Decoding %d bytes from %d frames of %dx%d blocks\n", h.Size, need, h.BlockWidth, h.BlockHeight)

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	jobs, errc, err := y.classifyJobs(ctx, files)
	if err != nil {
		return header.Header{}, nil, err
	}
	errcList = append(errcList, errc)

	frames := make([][]palette.Symbol, len(files))
	for i := 0; i < y.workers(); i++ {
		errc, err := y.classifyWorker(ctx, jobs, l, frames)
		if err != nil {
			return header.Header{}, nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(cancelFunc, errcList...); err != nil {
		return header.Header{}, nil, err
	}

	// A cancelled pipeline stops early without error
	if err := ctx.Err(); err != nil {
		return header.Header{}, nil, err
	}

	s := make([]palette.Symbol, 0, len(frames)*l.Capacity())
	for _, f := range frames {
		s = append(s, f...)
	}

	p, err := symbol.Decode(s, int(h.Size))
	if err != nil {
		return header.Header{}, nil, err
	}

	return h, p, nil
}

func (y *YtFS) verify(key string, h header.Header, p []byte) error {
	e, err := y.db.Find(key)
	if err != nil {
		return err
	}
	if e == nil {
		y.logger.Printf("No catalogue entry for \"%s\"\n", key)
		return nil
	}

	if e.Header != h {
		return fmt.Errorf("header %+v does not match catalogue %+v", h, e.Header)
	}

	if sum := fmt.Sprintf("%X", sha1.Sum(p)); sum != e.SHA1 {
		return fmt.Errorf("checksum %s does not match catalogue %s", sum, e.SHA1)
	}

	y.logger.Printf("Verified \"%s\" against catalogue\n", key)

	return nil
}

// Decode recovers the file stored in video and writes it to out. If video
// is not a local file it is treated as an identifier and fetched with
// youtube-dl. The result is checked against the catalogue if there is one.
func (y *YtFS) Decode(ctx context.Context, video, out string) error {
	dir, err := os.MkdirTemp("", "ytfs-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	file, key := video, video
	_, err = os.Stat(video)
	switch {
	case err == nil:
		if key, err = filepath.Abs(video); err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		y.logger.Printf("Downloading video \"%s\"\n", video)

		if file, err = y.fetch(ctx, video, dir); err != nil {
			return err
		}
	default:
		return err
	}

	frames := filepath.Join(dir, "frames")
	if err := os.Mkdir(frames, 0o700); err != nil {
		return err
	}

	y.logger.Printf("Extracting frames from \"%s\"\n", file)

	if err := y.extract(ctx, file, frames); err != nil {
		return err
	}

	h, p, err := y.ReadFrames(ctx, frames)
	if err != nil {
		return err
	}

	if y.db != nil {
		if err := y.verify(key, h, p); err != nil {
			return err
		}
	}

	y.logger.Printf("Writing file \"%s\"\n", out)

	return os.WriteFile(out, p, 0o644)
}

// Inspect reports how far the n most representative colors of the frame
// image in file have drifted from the palette.
func (y *YtFS) Inspect(file string, n int) ([]frame.Drift, error) {
	m, err := readImage(file)
	if err != nil {
		return nil, err
	}
	return frame.Inspect(m, n), nil
}
