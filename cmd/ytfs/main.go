package main

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/bodgit/ytfs"
	"github.com/bodgit/ytfs/frame"
	"github.com/urfave/cli/v2"
)

const defaultDB = "ytfs.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type session struct {
	*ytfs.YtFS
	db *ytfs.Catalog
}

func (s *session) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func newSession(c *cli.Context, withCatalog bool) (*session, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	format, err := ytfs.ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	s := new(session)
	if file := c.String("db"); withCatalog && file != "" {
		if s.db, err = ytfs.NewCatalog(file); err != nil {
			return nil, err
		}
	}

	s.YtFS = ytfs.New(s.db, logger)
	if n := c.Int("workers"); n > 0 {
		s.Workers = n
	}
	s.Format = format
	s.FFmpeg = c.String("ffmpeg")
	s.YoutubeDL = c.String("youtube-dl")

	return s, nil
}

func catalog(c *cli.Context) (*ytfs.Catalog, error) {
	file := c.String("db")
	if file == "" {
		return nil, fmt.Errorf("no catalogue database configured")
	}
	return ytfs.NewCatalog(file)
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func main() {
	app := cli.NewApp()

	app.Name = "ytfs"
	app.Usage = "Store files as videos"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"YTFS_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalogue database, empty to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"YTFS_WORKERS"},
			Usage:   "number of frames to process concurrently, defaults to number of CPUs",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: ytfs.PNG.String(),
			Usage: "intermediate frame image format, png or qoi",
		},
		&cli.StringFlag{
			Name:    "ffmpeg",
			EnvVars: []string{"YTFS_FFMPEG"},
			Value:   "ffmpeg",
			Usage:   "path to ffmpeg",
		},
		&cli.StringFlag{
			Name:    "youtube-dl",
			EnvVars: []string{"YTFS_YOUTUBE_DL"},
			Value:   "youtube-dl",
			Usage:   "path to youtube-dl",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Encode a file as a video",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "video to write, defaults to FILE.avi",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: frame.DefaultWidth,
					Usage: "frame width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: frame.DefaultHeight,
					Usage: "frame height",
				},
				&cli.IntFlag{
					Name:  "block-width",
					Value: frame.DefaultBlockWidth,
					Usage: "block width, must be a factor of the frame width",
				},
				&cli.IntFlag{
					Name:  "block-height",
					Value: frame.DefaultBlockHeight,
					Usage: "block height, must be a factor of the frame height",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l := frame.Layout{
					Width:       c.Int("width"),
					Height:      c.Int("height"),
					BlockWidth:  c.Int("block-width"),
					BlockHeight: c.Int("block-height"),
				}
				if err := l.Validate(); err != nil {
					return cli.Exit(err, 1)
				}

				in := c.Args().First()
				out := c.String("output")
				if out == "" {
					out = in + ".avi"
				}

				s, err := newSession(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Encode(c.Context, in, out, l); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a file from a video",
			Description: "VIDEO is either a local file or an identifier passed to youtube-dl",
			ArgsUsage:   "VIDEO FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Decode(c.Context, c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "link",
			Usage:       "Record the remote identifier of an encoded video",
			Description: "",
			ArgsUsage:   "VIDEO ID",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := catalog(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				path, err := filepath.Abs(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := db.Link(path, c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List encoded videos",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := catalog(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				entries, err := db.List()
				if err != nil {
					return cli.Exit(err, 1)
				}

				w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "PATH\tREMOTE\tSIZE\tFRAME\tBLOCK\tSHA1\tCREATED")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%d\t%dx%d\t%dx%d\t%s\t%s\n", e.Path, e.Remote, e.Header.Size, e.Width, e.Height, e.Header.BlockWidth, e.Header.BlockHeight, e.SHA1, e.Created.Local().Format("2006-01-02 15:04:05"))
				}

				return w.Flush()
			},
		},
		{
			Name:        "inspect",
			Usage:       "Report how far frame colors have drifted from the palette",
			Description: "",
			ArgsUsage:   "IMAGE...",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 16,
					Usage: "number of representative colors to report",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				for _, file := range c.Args().Slice() {
					drift, err := s.Inspect(file, c.Int("colors"))
					if err != nil {
						return cli.Exit(err, 1)
					}

					fmt.Fprintf(c.App.Writer, "%s:\n", file)
					for _, d := range drift {
						r, g, b := d.Symbol.RGB()
						fmt.Fprintf(c.App.Writer, "  %s -> symbol %2d (%d,%d,%d) %s distance %d\n", hex(d.Color), d.Symbol, r, g, b, hex(d.Symbol.Color()), d.Distance)
					}
				}

				return nil
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
