package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDrainRunsEveryStop(t *testing.T) {
	var calls []string
	errFirst := errors.New("first")
	err := Drain(time.Second,
		func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Fatalf("stop ctx has no deadline")
			}
			calls = append(calls, "a")
			return errFirst
		},
		nil,
		func(context.Context) error {
			calls = append(calls, "b")
			return errors.New("second")
		},
	)
	if !errors.Is(err, errFirst) {
		t.Fatalf("err=%v want first", err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls=%v", calls)
	}
}
