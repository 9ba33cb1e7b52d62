package ytfs

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/ytfs/frame"
	"github.com/bodgit/ytfs/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYtFS(db *Catalog) *YtFS {
	y := New(db, log.New(io.Discard, "", 0))
	y.Workers = 4
	return y
}

func randomPayload(n int) []byte {
	p := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(p)
	return p
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)

	f, err = ParseFormat("qoi")
	require.NoError(t, err)
	assert.Equal(t, QOI, f)

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestFrameName(t *testing.T) {
	assert.Equal(t, "000000000.png", frameName(0, PNG))
	assert.Equal(t, "000000123.qoi", frameName(123, QOI))
}

func TestListFrames(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"000000010.png", "2.png", "000000001.png", "000000000.png", "notes.txt", ".000000003.png", "abc.png", "000000009.qoi"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := listFrames(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.path))
	}
	assert.Equal(t, []string{"000000000.png", "000000001.png", "2.png", "000000009.qoi", "000000010.png"}, names)
}

func TestRoundTrip(t *testing.T) {
	tables := []struct {
		name   string
		format Format
		layout frame.Layout
		size   int
	}{
		{"empty", PNG, frame.DefaultLayout(), 0},
		{"scenario", PNG, frame.DefaultLayout(), 3},
		{"partial group", PNG, frame.DefaultLayout(), 1000},
		{"beyond minimum", PNG, frame.Layout{Width: 64, Height: 32, BlockWidth: 4, BlockHeight: 4}, 5000},
		{"qoi", QOI, frame.Layout{Width: 128, Height: 64, BlockWidth: 8, BlockHeight: 8}, 4001},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			dir := t.TempDir()
			p := randomPayload(table.size)

			y := newTestYtFS(nil)
			y.Format = table.format

			n, err := y.WriteFrames(context.Background(), p, table.layout, dir)
			require.NoError(t, err)
			assert.Equal(t, table.layout.Frames((table.size+2)/3*4), n)

			files, err := listFrames(dir)
			require.NoError(t, err)
			require.Len(t, files, n+1)
			for i, f := range files {
				assert.Equal(t, uint64(i), f.index)
			}

			h, d, err := y.ReadFrames(context.Background(), dir)
			require.NoError(t, err)
			assert.Equal(t, header.Header{
				BlockWidth:  uint32(table.layout.BlockWidth),
				BlockHeight: uint32(table.layout.BlockHeight),
				Size:        uint32(table.size),
			}, h)
			assert.Equal(t, p, d)
		})
	}
}

func TestScenario(t *testing.T) {
	dir := t.TempDir()

	y := newTestYtFS(nil)
	n, err := y.WriteFrames(context.Background(), []byte{0x00, 0xff, 0x3c}, frame.DefaultLayout(), dir)
	require.NoError(t, err)
	assert.Equal(t, frame.MinFrames, n)

	m, err := readImage(filepath.Join(dir, frameName(0, PNG)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 144), m.Bounds())

	h, err := header.Read(m)
	require.NoError(t, err)
	assert.Equal(t, header.Header{BlockWidth: 32, BlockHeight: 36, Size: 3}, h)
}

func TestReadFramesShiftedNumbering(t *testing.T) {
	// Frame extraction may number from one rather than zero
	src, dir := t.TempDir(), t.TempDir()
	p := randomPayload(300)

	y := newTestYtFS(nil)
	n, err := y.WriteFrames(context.Background(), p, frame.DefaultLayout(), src)
	require.NoError(t, err)

	for i := 0; i <= n; i++ {
		require.NoError(t, os.Rename(filepath.Join(src, frameName(i, PNG)), filepath.Join(dir, fmt.Sprintf("%d.png", i+1))))
	}

	_, d, err := y.ReadFrames(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, p, d)
}

func TestReadFramesMissing(t *testing.T) {
	dir := t.TempDir()
	l := frame.Layout{Width: 64, Height: 32, BlockWidth: 8, BlockHeight: 8}

	y := newTestYtFS(nil)
	n, err := y.WriteFrames(context.Background(), randomPayload(100), l, dir)
	require.NoError(t, err)

	// 100 bytes need 136 symbols or five frames of 32
	for i := 5; i <= n; i++ {
		require.NoError(t, os.Remove(filepath.Join(dir, frameName(i, PNG))))
	}

	_, _, err = y.ReadFrames(context.Background(), dir)
	assert.EqualError(t, err, "5 data frames needed, only 4 found")
}

func TestReadFramesEmpty(t *testing.T) {
	_, _, err := newTestYtFS(nil).ReadFrames(context.Background(), t.TempDir())
	assert.Equal(t, errNoFrames, err)
}

func TestReadFramesBadHeader(t *testing.T) {
	dir := t.TempDir()

	m, err := header.Render(header.Header{BlockWidth: 30, BlockHeight: 36}, 256, 144)
	require.NoError(t, err)
	require.NoError(t, writeImage(filepath.Join(dir, frameName(0, PNG)), PNG, m))

	_, _, err = newTestYtFS(nil).ReadFrames(context.Background(), dir)
	assert.Error(t, err)
}

func TestReadFramesCorrupt(t *testing.T) {
	dir := t.TempDir()

	y := newTestYtFS(nil)
	_, err := y.WriteFrames(context.Background(), randomPayload(10), frame.DefaultLayout(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, frameName(1, PNG)), []byte("garbage"), 0o644))

	_, _, err = y.ReadFrames(context.Background(), dir)
	assert.Error(t, err)
}

func TestWriteFramesBadLayout(t *testing.T) {
	dir := t.TempDir()
	y := newTestYtFS(nil)

	_, err := y.WriteFrames(context.Background(), []byte{1}, frame.Layout{Width: 256, Height: 144, BlockWidth: 30, BlockHeight: 36}, dir)
	assert.True(t, errors.Is(err, frame.ErrBadLayout))

	// Valid block layout, but the header frame cannot be striped
	_, err = y.WriteFrames(context.Background(), []byte{1}, frame.Layout{Width: 100, Height: 100, BlockWidth: 10, BlockHeight: 10}, dir)
	assert.Equal(t, header.ErrBadDimensions, err)

	// Nothing is written before the configuration is rejected
	files, err := listFrames(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWriteFramesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	_, err := newTestYtFS(nil).WriteFrames(ctx, randomPayload(10), frame.DefaultLayout(), dir)
	assert.Equal(t, context.Canceled, err)

	// The header frame is only written once every data frame exists
	_, err = os.Stat(filepath.Join(dir, frameName(0, PNG)))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFramesUnwritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := newTestYtFS(nil).WriteFrames(context.Background(), randomPayload(10), frame.DefaultLayout(), dir)
	assert.Error(t, err)
}

func TestEncodeMissingTool(t *testing.T) {
	in := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(in, randomPayload(64), 0o644))

	y := newTestYtFS(nil)
	y.FFmpeg = filepath.Join(t.TempDir(), "no-such-ffmpeg")

	err := y.Encode(context.Background(), in, in+".avi", frame.DefaultLayout())
	assert.Error(t, err)
}

func TestEncodeMissingInput(t *testing.T) {
	err := newTestYtFS(nil).Encode(context.Background(), filepath.Join(t.TempDir(), "missing"), "out.avi", frame.DefaultLayout())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecodeMissingTool(t *testing.T) {
	y := newTestYtFS(nil)
	y.YoutubeDL = filepath.Join(t.TempDir(), "no-such-youtube-dl")

	err := y.Decode(context.Background(), "dQw4w9WgXcQ", filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	db, err := NewCatalog(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	p := randomPayload(100)
	h := header.Header{BlockWidth: 32, BlockHeight: 36, Size: 100}

	require.NoError(t, db.Add(Entry{
		Path:   "/videos/payload.avi",
		Name:   "payload.avi",
		SHA1:   fmt.Sprintf("%X", sha1.Sum(p)),
		Width:  256,
		Height: 144,
		Header: h,
	}))

	y := newTestYtFS(db)

	assert.NoError(t, y.verify("/videos/payload.avi", h, p))
	assert.NoError(t, y.verify("/videos/unknown.avi", h, p))

	bad := append([]byte{}, p...)
	bad[0] ^= 0xff
	assert.Error(t, y.verify("/videos/payload.avi", h, bad))

	h.BlockWidth = 16
	assert.Error(t, y.verify("/videos/payload.avi", h, p))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	y := newTestYtFS(nil)
	_, err := y.WriteFrames(context.Background(), randomPayload(48), frame.DefaultLayout(), dir)
	require.NoError(t, err)

	drift, err := y.Inspect(filepath.Join(dir, frameName(1, PNG)), 8)
	require.NoError(t, err)
	require.NotEmpty(t, drift)

	_, err = y.Inspect(filepath.Join(dir, "missing.png"), 8)
	assert.Error(t, err)
}

// fakeFFmpeg stands in for ffmpeg by storing the frames in a directory
// named after the video
func fakeFFmpeg(t *testing.T) string {
	return writeScript(t, `if [ "$5" = "-f" ]; then
	mkdir -p "${13}" && cp "$(dirname "$8")"/* "${13}"
else
	cp "$6"/* "$(dirname "$9")"
fi
`)
}

func TestEncodeDecode(t *testing.T) {
	for _, format := range []Format{PNG, QOI} {
		t.Run(format.String(), func(t *testing.T) {
			db := newTestCatalog(t)
			dir, tmp := t.TempDir(), t.TempDir()

			y := newTestYtFS(db)
			y.Format = format
			y.FFmpeg = fakeFFmpeg(t)

			// Working directories are created under tmp
			t.Setenv("TMPDIR", tmp)

			p := randomPayload(2000)
			in := filepath.Join(dir, "payload.bin")
			require.NoError(t, os.WriteFile(in, p, 0o644))

			video := filepath.Join(dir, "payload.bin.avi")
			require.NoError(t, y.Encode(context.Background(), in, video, frame.DefaultLayout()))

			e, err := db.Find(video)
			require.NoError(t, err)
			require.NotNil(t, e)
			assert.Equal(t, video, e.Path)
			assert.Equal(t, "payload.bin.avi", e.Name)
			assert.Equal(t, fmt.Sprintf("%X", sha1.Sum(p)), e.SHA1)
			assert.Equal(t, 256, e.Width)
			assert.Equal(t, 144, e.Height)
			assert.Equal(t, header.Header{BlockWidth: 32, BlockHeight: 36, Size: 2000}, e.Header)

			out := filepath.Join(dir, "payload.out")
			require.NoError(t, y.Decode(context.Background(), video, out))

			d, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, p, d)

			files, err := os.ReadDir(tmp)
			require.NoError(t, err)
			assert.Empty(t, files)
		})
	}
}

func TestDecodeSameName(t *testing.T) {
	db := newTestCatalog(t)

	y := newTestYtFS(db)
	y.FFmpeg = fakeFFmpeg(t)

	var videos []string
	for _, p := range []string{"first payload", "second payload!"} {
		in := filepath.Join(t.TempDir(), "x.bin")
		require.NoError(t, os.WriteFile(in, []byte(p), 0o644))
		require.NoError(t, y.Encode(context.Background(), in, in+".avi", frame.DefaultLayout()))
		videos = append(videos, in+".avi")
	}

	entries, err := db.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	out := filepath.Join(t.TempDir(), "x.bin")
	require.NoError(t, y.Decode(context.Background(), videos[0], out))

	d, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("first payload"), d)
}

func TestDecodeMismatch(t *testing.T) {
	db := newTestCatalog(t)

	y := newTestYtFS(db)
	y.FFmpeg = fakeFFmpeg(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(in, randomPayload(100), 0o644))

	video := filepath.Join(dir, "payload.bin.avi")
	require.NoError(t, y.Encode(context.Background(), in, video, frame.DefaultLayout()))

	e, err := db.Find(video)
	require.NoError(t, err)
	require.NotNil(t, e)
	e.SHA1 = "00"
	require.NoError(t, db.Add(*e))

	out := filepath.Join(dir, "payload.out")
	assert.Error(t, y.Decode(context.Background(), video, out))

	_, err = os.Stat(out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
