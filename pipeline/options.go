package pipeline

import "golang.org/x/sync/errgroup"

// Option configures Shred and Recover
type Option func(*config)

type config struct {
	workers int
}

func newConfig(opts []Option) *config {
	c := &config{workers: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithWorkers encodes or decodes up to n blocks concurrently.
// Values below 1 mean sequential processing. Output does not depend on n.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// forEach runs fn(0..n-1), concurrently when more than one worker is allowed.
// It returns the first error encountered.
func (c *config) forEach(n int, fn func(i int) error) error {
	if c.workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
