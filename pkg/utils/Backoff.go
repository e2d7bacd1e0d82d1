package utils

import "errors"
import "time"


//=========================================== Exponential Backoff


type ExpBackoffOpts struct {
	MaxRetries *int
	TimeoutInMilliseconds int
}

type ExponentialBackoffStrat [T any] struct {
	depth int
	initialTimeout int
	maxRetries int
}

func NewExponentialBackoffStrat [T any](opts ExpBackoffOpts) *ExponentialBackoffStrat[T] {
	maxRetries := 5
	if opts.MaxRetries != nil { maxRetries = *opts.MaxRetries }

	return &ExponentialBackoffStrat[T]{
		depth: 1,
		initialTimeout: opts.TimeoutInMilliseconds,
		maxRetries: maxRetries,
	}
}

/*
	Perform Backoff:
		1.) perform the operation passed in
		2.) on failure, double the timeout period and retry
		3.) if the max retry count is exceeded, return the last error
*/

func (expStrat *ExponentialBackoffStrat[T]) PerformBackoff(operation func() (T, error)) (T, error) {
	timeout := expStrat.initialTimeout

	var lastErr error

	for expStrat.depth <= expStrat.maxRetries {
		res, err := operation()
		if err == nil {
			expStrat.depth = 1
			return res, nil
		}

		lastErr = err

		time.Sleep(time.Duration(timeout) * time.Millisecond)

		timeout = timeout * 2
		expStrat.depth++
	}

	if lastErr == nil { lastErr = errors.New("max retries exceeded on backoff") }
	return GetZero[T](), lastErr
}
