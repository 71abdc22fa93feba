package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLimited = errors.New("limited")

func testPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		RateLimited: Linear{Base: 15 * time.Second, Step: 10 * time.Second},
		Transient:   Linear{Base: 5 * time.Second, Step: 3 * time.Second},
		Classify: func(err error) Class {
			if errors.Is(err, errLimited) {
				return ClassRateLimited
			}
			return ClassTransient
		},
	}
}

func TestClassifiedBackOff_RateLimitedSchedule(t *testing.T) {
	b := testPolicy().NewBackOff()

	var got []time.Duration
	for {
		b.Observe(errLimited)
		d := b.NextBackOff()
		if d == backoff.Stop {
			break
		}
		got = append(got, d)
	}

	// Five attempts means four waits between them.
	assert.Equal(t, []time.Duration{15 * time.Second, 25 * time.Second, 35 * time.Second, 45 * time.Second}, got)
	assert.Equal(t, ClassRateLimited, b.Class())
}

func TestClassifiedBackOff_TransientSchedule(t *testing.T) {
	b := testPolicy().NewBackOff()

	b.Observe(errors.New("boom"))
	assert.Equal(t, 5*time.Second, b.NextBackOff())
	b.Observe(errors.New("boom"))
	assert.Equal(t, 8*time.Second, b.NextBackOff())
	assert.Equal(t, ClassTransient, b.Class())
}

func TestClassifiedBackOff_SharedAttemptCounter(t *testing.T) {
	b := testPolicy().NewBackOff()

	b.Observe(errors.New("boom"))
	assert.Equal(t, 5*time.Second, b.NextBackOff())
	// The second failure is a rate limit: its schedule uses attempt index 1.
	b.Observe(errLimited)
	assert.Equal(t, 25*time.Second, b.NextBackOff())
	assert.Equal(t, 2, b.Attempt())
}

func TestClassifiedBackOff_Reset(t *testing.T) {
	b := testPolicy().NewBackOff()
	b.Observe(errLimited)
	b.NextBackOff()
	b.NextBackOff()

	b.Reset()
	assert.Equal(t, 0, b.Attempt())
	assert.Equal(t, ClassTransient, b.Class())
	b.Observe(errLimited)
	assert.Equal(t, 15*time.Second, b.NextBackOff())
}

func TestClassifiedBackOff_SingleAttempt(t *testing.T) {
	p := testPolicy()
	p.MaxAttempts = 1
	b := p.NewBackOff()
	b.Observe(errLimited)
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

func TestClassifiedBackOff_NilClassifier(t *testing.T) {
	p := testPolicy()
	p.Classify = nil
	b := p.NewBackOff()
	b.Observe(errLimited)
	assert.Equal(t, ClassTransient, b.Class())
}

func TestRecordingSleeper(t *testing.T) {
	s := &RecordingSleeper{}
	require.NoError(t, s.Sleep(context.Background(), time.Second))
	require.NoError(t, s.Sleep(context.Background(), 2*time.Second))
	assert.Equal(t, 3*time.Second, s.Total())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Sleep(ctx, time.Second), context.Canceled)
}

func TestClockSleeper_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ClockSleeper{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
