package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponentialDurations(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	req.Equal(time.Millisecond, b.NextDuration)

	want := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond}
	for _, d := range want {
		req.NoError(b.Backoff(context.Background()))
		req.Equal(d, b.NextDuration)
	}

	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
	req.Equal(time.Duration(0), b.LastDuration)
}

func TestBackoffCancelled(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.Equal(context.Canceled, b.Backoff(ctx))
	req.Equal(time.Hour, b.NextDuration)
}

func TestRetry(t *testing.T) {
	req := require.New(t)
	boom := errors.New("boom")

	calls := 0
	err := NewExponential(time.Millisecond, 0).Retry(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return boom
		}
		return nil
	})
	req.NoError(err)
	req.Equal(3, calls)

	calls = 0
	err = NewExponential(time.Millisecond, 0).Retry(context.Background(), 2, func() error {
		calls++
		return boom
	})
	req.Equal(boom, err)
	req.Equal(2, calls)
}
