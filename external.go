package ytfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const videoBitrate = "5M"

func muxArgs(pattern, out string) []string {
	return []string{
		"-y", "-nostdin", "-loglevel", "error",
		"-f", "image2",
		"-i", pattern,
		"-vcodec", "libx264",
		"-b:v", videoBitrate,
		out,
	}
}

func extractArgs(video, pattern string) []string {
	return []string{
		"-y", "-nostdin", "-loglevel", "error",
		"-i", video,
		"-start_number", "0",
		pattern,
	}
}

func fetchArgs(id, dir string) []string {
	return []string{
		"-f", "bestvideo[ext=mp4]",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		id,
	}
}

func (y *YtFS) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	y.logger.Printf("Running %s %s\n", name, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, msg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}

	return nil
}

// mux assembles the numbered frames in dir into the video out
func (y *YtFS) mux(ctx context.Context, dir, out string) error {
	return y.run(ctx, y.FFmpeg, muxArgs(y.Format.pattern(dir), out)...)
}

// extract splits video into numbered frames in dir, starting from zero
func (y *YtFS) extract(ctx context.Context, video, dir string) error {
	return y.run(ctx, y.FFmpeg, extractArgs(video, y.Format.pattern(dir))...)
}

// fetch downloads the video identified by id into dir and returns its path
func (y *YtFS) fetch(ctx context.Context, id, dir string) (string, error) {
	if err := y.run(ctx, y.YoutubeDL, fetchArgs(id, dir)...); err != nil {
		return "", err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.mp4"))
	if err != nil {
		return "", err
	}
	if len(files) != 1 {
		return "", errors.New("youtube-dl: no video downloaded")
	}

	return files[0], nil
}
