package synthesis

import "fmt"

// tryWithFallback runs primary and, on any error or panic, returns
// fallback(err) instead. The bool reports whether the fallback was used.
func tryWithFallback[T any](primary func() (T, error), fallback func(error) T) (out T, usedFallback bool) {
	defer func() {
		if r := recover(); r != nil {
			out, usedFallback = fallback(fmt.Errorf("primary panicked: %v", r)), true
		}
	}()
	v, err := primary()
	if err != nil {
		return fallback(err), true
	}
	return v, false
}
