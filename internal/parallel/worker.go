// Package parallel runs independent work items on a bounded set of goroutines
// and hands results back in input order.
package parallel

import (
	"runtime"
	"sync"
)

// Workers normalizes a requested worker count: values below 1 mean one per CPU,
// and there is never more than one worker per item.
func Workers(requested, items int) int {
	n := requested
	if n < 1 {
		n = runtime.NumCPU()
	}
	if n > items {
		n = items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// MapOrdered applies fn to every item with up to workers goroutines. Results
// are placed at their item's index, so output order never depends on
// completion order. The returned error is the one from the lowest failing
// index; all items still run to completion.
func MapOrdered[T, R any](workers int, items []T, fn func(int, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	results := make([]R, len(items))
	errs := make([]error, len(items))

	if workers <= 1 {
		for i, it := range items {
			results[i], errs[i] = fn(i, it)
		}
		return results, firstError(errs)
	}

	itemCh := make(chan int, len(items))
	for i := range items {
		itemCh <- i
	}
	close(itemCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range itemCh {
				// each index is written by exactly one worker
				results[i], errs[i] = fn(i, items[i])
			}
		}()
	}
	wg.Wait()
	return results, firstError(errs)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
