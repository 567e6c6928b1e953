package dedupe

// Option configures a Deduper.
type Option func(*setDeduper)

// WithCapacity preallocates room for n keys.
func WithCapacity(n int) Option {
	return func(d *setDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}
