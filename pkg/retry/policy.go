// Package retry selects a delay schedule by error class. The collector drives
// attempts itself; this package only answers "how long until the next one".
package retry

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Class is the retry classification of an error.
type Class int

const (
	// ClassTransient covers every error that is not a recognized rate limit.
	ClassTransient Class = iota
	// ClassRateLimited is an API rate-limit response.
	ClassRateLimited
)

func (c Class) String() string {
	if c == ClassRateLimited {
		return "rate_limited"
	}
	return "transient"
}

// Classifier maps an error to its Class.
type Classifier func(err error) Class

// Linear is a delay schedule of Base + Step*attempt, attempt counted from 0.
type Linear struct {
	Base time.Duration
	Step time.Duration
}

// Delay returns the wait after the given zero-based attempt.
func (l Linear) Delay(attempt int) time.Duration {
	return l.Base + time.Duration(attempt)*l.Step
}

// Policy is the pluggable strategy: a retry ceiling, one schedule per class
// and the classifier that picks between them.
type Policy struct {
	MaxAttempts int
	RateLimited Linear
	Transient   Linear
	Classify    Classifier
}

// NewBackOff returns a fresh per-unit backoff for p.
func (p Policy) NewBackOff() *ClassifiedBackOff {
	return &ClassifiedBackOff{policy: p}
}

// ClassifiedBackOff implements backoff.BackOff. Observe must be called with
// the failing error before each NextBackOff; the schedule is chosen from the
// class of that error while the attempt counter is shared across classes.
type ClassifiedBackOff struct {
	policy  Policy
	attempt int
	class   Class
}

var _ backoff.BackOff = (*ClassifiedBackOff)(nil)

// Observe records the error of the attempt that just failed.
func (b *ClassifiedBackOff) Observe(err error) {
	b.class = ClassTransient
	if b.policy.Classify != nil {
		b.class = b.policy.Classify(err)
	}
}

// Class returns the class of the last observed error.
func (b *ClassifiedBackOff) Class() Class {
	return b.class
}

// Attempt returns the number of delays handed out so far.
func (b *ClassifiedBackOff) Attempt() int {
	return b.attempt
}

// NextBackOff returns the delay before the next attempt, or backoff.Stop
// once the attempt that just failed was the last one allowed.
func (b *ClassifiedBackOff) NextBackOff() time.Duration {
	if b.attempt+1 >= b.policy.MaxAttempts {
		return backoff.Stop
	}
	var d time.Duration
	if b.class == ClassRateLimited {
		d = b.policy.RateLimited.Delay(b.attempt)
	} else {
		d = b.policy.Transient.Delay(b.attempt)
	}
	b.attempt++
	return d
}

// Reset starts the schedule over.
func (b *ClassifiedBackOff) Reset() {
	b.attempt = 0
	b.class = ClassTransient
}
