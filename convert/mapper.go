package convert

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blockberries/cfdate/types"
)

// chunkSize is the number of elements a worker claims at a time.
// Cancellation is checked between chunks.
const chunkSize = 1024

// mapShape applies f to every element of in and returns a container
// of the same shape. It is the only traversal in the package: scalars,
// vectors, N-dimensional and masked arrays all take this path.
//
// With workers > 1 chunks are processed concurrently. Each output
// position is written by exactly one goroutine. If several elements
// fail, the error of the lowest flat index is returned, so the result
// does not depend on scheduling.
func mapShape[In, Out any](ctx context.Context, in types.NDArray[In], workers int, f func(i int, v In) (Out, error)) (types.NDArray[Out], error) {
	if err := in.Check(); err != nil {
		return types.NDArray[Out]{}, err
	}
	n := len(in.Data)
	out := make([]Out, n)
	chunks := (n + chunkSize - 1) / chunkSize
	if workers < 1 {
		workers = 1
	}
	if workers > chunks {
		workers = chunks
	}

	var (
		next     atomic.Int64
		mu       sync.Mutex
		errIndex = n
		firstErr error
		ctxErr   error
	)
	failedBefore := func(lo int) bool {
		mu.Lock()
		defer mu.Unlock()
		return ctxErr != nil || errIndex < lo
	}
	fail := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if i < errIndex {
			errIndex, firstErr = i, err
		}
	}

	run := func() {
		for {
			c := int(next.Add(1) - 1)
			if c >= chunks {
				return
			}
			lo := c * chunkSize
			hi := min(lo+chunkSize, n)
			if failedBefore(lo) {
				return
			}
			if err := ctx.Err(); err != nil {
				mu.Lock()
				ctxErr = err
				mu.Unlock()
				return
			}
			for i := lo; i < hi; i++ {
				v, err := f(i, in.Data[i])
				if err != nil {
					fail(i, err)
					return
				}
				out[i] = v
			}
		}
	}

	if workers <= 1 {
		run()
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				run()
			}()
		}
		wg.Wait()
	}

	if firstErr != nil {
		return types.NDArray[Out]{}, firstErr
	}
	if ctxErr != nil {
		return types.NDArray[Out]{}, ctxErr
	}
	return types.NDArray[Out]{Shape: types.CloneShape(in.Shape), Data: out}, nil
}
