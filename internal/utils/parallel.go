package utils

import "sync"

// RunParallel executes the tasks concurrently and returns one error slot per
// task, in order. Used where independent store operations can overlap, such
// as the cascade delete of a bootcamp's dependents.
func RunParallel(tasks ...func() error) []error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t func() error) {
			defer wg.Done()
			errs[index] = t()
		}(i, task)
	}

	wg.Wait()
	return errs
}

// FirstError returns the first non-nil error from a RunParallel result.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
