package broker

import "time"

const (
	defaultBatchSize     = 10
	defaultBlock         = time.Second
	defaultClaimMinIdle  = 30 * time.Second
	defaultClaimInterval = 15 * time.Second
	defaultBindingTTL    = time.Minute
	errorRetryDelay      = time.Second
)

// Option configures a RedisBroker.
type Option func(*RedisBroker)

// WithBatchSize sets how many entries one read returns at most.
func WithBatchSize(n int) Option {
	return func(b *RedisBroker) {
		if n > 0 {
			b.batchSize = int64(n)
		}
	}
}

// WithBlock sets how long a read waits for new entries.
func WithBlock(d time.Duration) Option {
	return func(b *RedisBroker) {
		if d > 0 {
			b.block = d
		}
	}
}

// WithClaim sets how long an entry stays unacknowledged before another consumer may claim it,
// and how often consumers look for such entries.
func WithClaim(minIdle, interval time.Duration) Option {
	return func(b *RedisBroker) {
		if minIdle > 0 {
			b.claimMinIdle = minIdle
		}

		if interval > 0 {
			b.claimInterval = interval
		}
	}
}

// WithBindingTTL sets how long publishers cache an exchange's bindings client-side.
func WithBindingTTL(d time.Duration) Option {
	return func(b *RedisBroker) {
		if d > 0 {
			b.bindingTTL = d
		}
	}
}
