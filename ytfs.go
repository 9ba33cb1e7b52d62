/*
Package ytfs is a library for storing arbitrary files as videos.

A file is converted into a sequence of frames where every block of pixels is
one of 64 palette colors carrying 6 bits of data, preceded by a header frame
recording the block size and file size. The frames are assembled into a video
using ffmpeg. Decoding extracts the frames from a video, which may be fetched
with youtube-dl, and classifies each block back to its palette color, so the
file survives the video being recompressed.
*/
package ytfs

import (
	"log"
	"runtime"
)

const (
	defaultFFmpeg    = "ffmpeg"
	defaultYoutubeDL = "youtube-dl"
)

// YtFS encodes files to videos and decodes them again.
type YtFS struct {
	db     *Catalog
	logger *log.Logger

	// Workers is the number of goroutines used to render or classify
	// frames, defaulting to the number of CPUs
	Workers int
	// Format is the image format used for intermediate frames
	Format Format
	// FFmpeg is the path to the ffmpeg binary
	FFmpeg string
	// YoutubeDL is the path to the youtube-dl binary
	YoutubeDL string
}

// New returns a YtFS using the optional catalogue db to record encoded
// videos and verify decoded ones.
func New(db *Catalog, logger *log.Logger) *YtFS {
	return &YtFS{
		db:        db,
		logger:    logger,
		Workers:   runtime.NumCPU(),
		Format:    PNG,
		FFmpeg:    defaultFFmpeg,
		YoutubeDL: defaultYoutubeDL,
	}
}

func (y *YtFS) workers() int {
	if y.Workers < 1 {
		return 1
	}
	return y.Workers
}
