package texture

import (
	"castlight/internal/logger"
	"castlight/internal/world"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Source names an image file for a material.
type Source struct {
	Material world.MaterialID `yaml:"material"`
	Path     string           `yaml:"path"`
}

// Result reports the outcome of loading one source.
type Result struct {
	Source  Source
	Texture *Texture
	Err     error
}

// Loader decodes texture files off the render loop and publishes them into a Store.
type Loader struct {
	store       *Store
	concurrency int
	open        func(path string) (io.ReadCloser, error)
}

// NewLoader creates a loader decoding at most concurrency files at once
// (<= 0 means one per source).
func NewLoader(store *Store, concurrency int) *Loader {
	return &Loader{
		store:       store,
		concurrency: concurrency,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// LoadAsync starts decoding every source and returns immediately. Each
// successful texture is published before its Result is sent. The channel is
// buffered for all results and closed once every source has been handled.
func (l *Loader) LoadAsync(ctx context.Context, sources []Source) <-chan Result {
	results := make(chan Result, len(sources))

	var g errgroup.Group
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}

	go func() {
		defer close(results)
		for _, src := range sources {
			src := src
			g.Go(func() error {
				results <- l.loadOne(ctx, src)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return results
}

// LoadAll loads every source and waits. The returned error joins the
// individual failures; successfully decoded textures are published regardless.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) error {
	var errs []error
	for res := range l.LoadAsync(ctx, sources) {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

func (l *Loader) loadOne(ctx context.Context, src Source) Result {
	log := logger.Component("texture").WithFields(logrus.Fields{
		"material": src.Material,
		"path":     src.Path,
	})

	if err := ctx.Err(); err != nil {
		return Result{Source: src, Err: err}
	}

	f, err := l.open(src.Path)
	if err != nil {
		log.WithError(err).Warn("texture unavailable")
		return Result{Source: src, Err: fmt.Errorf("open texture %s: %w", src.Path, err)}
	}
	defer f.Close()

	tex, err := Decode(f, src.Path)
	if err != nil {
		log.WithError(err).Warn("texture failed to decode")
		return Result{Source: src, Err: err}
	}

	l.store.Publish(src.Material, tex)
	log.WithFields(logrus.Fields{"width": tex.Width, "height": tex.Height}).Debug("texture loaded")
	return Result{Source: src, Texture: tex}
}
