// Package parallel runs a short burst of independent tasks concurrently.
// The first error cancels the remaining tasks; the tasks themselves are
// expected to degrade to empty results instead of failing hard.
package parallel

import (
	"context"
	"sync"
)

func Run(ctx context.Context, fns ...func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg sync.WaitGroup

		errLock sync.Mutex
		lastErr error
	)

	wg.Add(len(fns))
	for _, fn := range fns {
		go func(fn func(ctx context.Context) error) {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			if err := fn(ctx); err != nil {
				errLock.Lock()
				if lastErr == nil {
					lastErr = err
				}
				errLock.Unlock()
				cancel()
			}
		}(fn)
	}
	wg.Wait()

	return lastErr
}
