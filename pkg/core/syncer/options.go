package syncer

import (
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
)

const (
	DefaultPollInterval   = 20 * time.Second
	DefaultReconcileDelay = 3 * time.Second
	DefaultFetchTimeout   = 30 * time.Second
)

type options struct {
	pollInterval   time.Duration
	reconcileDelay time.Duration
	fetchTimeout   time.Duration
	policy         lifecycle.Policy
	now            func() time.Time
	newID          func() string
}

func defaultOptions() options {
	return options{
		pollInterval:   DefaultPollInterval,
		reconcileDelay: DefaultReconcileDelay,
		fetchTimeout:   DefaultFetchTimeout,
		now:            time.Now,
		newID:          func() string { return uuid.New().String() },
	}
}

// Option configures a Controller
type Option func(*options)

// WithPollInterval sets how often the background loop re-fetches
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithReconcileDelay sets how long after a write the reconciling refresh runs
func WithReconcileDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.reconcileDelay = d
		}
	}
}

// WithFetchTimeout bounds background refreshes, which have no caller context
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithPolicy sets the completion policy
func WithPolicy(p lifecycle.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithClock overrides the clock
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides how new request ids are generated
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}
