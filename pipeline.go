package ytfs

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/bodgit/ytfs/frame"
	"github.com/bodgit/ytfs/palette"
)

func (y *YtFS) frameIndices(ctx context.Context, n int) (<-chan int, <-chan error, error) {
	out := make(chan int)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i := 0; i < n; i++ {
			select {
			case out <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

func (y *YtFS) renderWorker(ctx context.Context, in <-chan int, l frame.Layout, s []palette.Symbol, dir string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for f := range in {
			if ctx.Err() != nil {
				return
			}

			// Data frames follow the header frame
			file := filepath.Join(dir, frameName(f+1, y.Format))
			if err := writeImage(file, y.Format, l.Render(s, f)); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

type classifyJob struct {
	slot int
	path string
}

func (y *YtFS) classifyJobs(ctx context.Context, files []frameFile) (<-chan classifyJob, <-chan error, error) {
	out := make(chan classifyJob)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, f := range files {
			select {
			case out <- classifyJob{slot: i, path: f.path}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

// classifyWorker stores the symbols of each frame in its own slot of out so
// the result does not depend on the order frames are completed
func (y *YtFS) classifyWorker(ctx context.Context, in <-chan classifyJob, l frame.Layout, out [][]palette.Symbol) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for job := range in {
			if ctx.Err() != nil {
				return
			}

			m, err := readImage(job.path)
			if err != nil {
				errc <- err
				return
			}

			s, err := l.Read(m)
			if err != nil {
				errc <- err
				return
			}
			out[job.slot] = s
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage, cancelling the
// remaining stages, but only once every stage has finished
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
