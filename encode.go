package ytfs

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/bodgit/ytfs/frame"
	"github.com/bodgit/ytfs/header"
	"github.com/bodgit/ytfs/symbol"
)

var errTooBig = errors.New("payload exceeds 4 GiB")

func newHeader(l frame.Layout, size int) (header.Header, error) {
	if uint64(size) > math.MaxUint32 {
		return header.Header{}, errTooBig
	}
	return header.Header{
		BlockWidth:  uint32(l.BlockWidth),
		BlockHeight: uint32(l.BlockHeight),
		Size:        uint32(size),
	}, nil
}

// WriteFrames renders p as a header frame followed by data frames in dir
// using layout l. It returns the number of data frames written.
func (y *YtFS) WriteFrames(ctx context.Context, p []byte, l frame.Layout, dir string) (int, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}

	h, err := newHeader(l, len(p))
	if err != nil {
		return 0, err
	}

	// Render the header first so a bad frame size is caught before any
	// other work
	hm, err := header.Render(h, l.Width, l.Height)
	if err != nil {
		return 0, err
	}

	s := symbol.Encode(p)
	n := l.Frames(len(s))

	y.logger.Printf("Encoding %d bytes as %d symbols in %d frames\n", len(p), len(s), n)

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	frames, errc, err := y.frameIndices(ctx, n)
	if err != nil {
		return 0, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < y.workers(); i++ {
		errc, err := y.renderWorker(ctx, frames, l, s, dir)
		if err != nil {
			return 0, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(cancelFunc, errcList...); err != nil {
		return 0, err
	}

	// A cancelled pipeline stops early without error
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := writeImage(filepath.Join(dir, frameName(0, y.Format)), y.Format, hm); err != nil {
		return 0, err
	}

	return n, nil
}

// Encode reads the file in and writes it as the video out using layout l.
// The video is recorded in the catalogue if there is one.
func (y *YtFS) Encode(ctx context.Context, in, out string, l frame.Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	p, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	h, err := newHeader(l, len(p))
	if err != nil {
		return err
	}

	path, err := filepath.Abs(out)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "ytfs-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	n, err := y.WriteFrames(ctx, p, l, dir)
	if err != nil {
		return err
	}

	y.logger.Printf("Rendering %d frames to \"%s\"\n", n+1, out)

	if err := y.mux(ctx, dir, out); err != nil {
		return err
	}

	if y.db == nil {
		return nil
	}

	return y.db.Add(Entry{
		Path:   path,
		Name:   filepath.Base(path),
		SHA1:   fmt.Sprintf("%X", sha1.Sum(p)),
		Width:  l.Width,
		Height: l.Height,
		Header: h,
	})
}
