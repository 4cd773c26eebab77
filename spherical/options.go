// SPDX-License-Identifier: MIT

package spherical

// Option customizes NewEncoder. Values are validated by NewEncoder, which
// reports ErrInvalidConfig.
type Option func(*options)

type options struct {
	parity Parity
	norm   Normalization
}

func defaultOptions() options {
	return options{parity: Odd, norm: Component}
}

// WithParity sets the parity of the input vector (default Odd, a polar vector).
func WithParity(p Parity) Option {
	return func(o *options) { o.parity = p }
}

// WithNormalization sets the per-degree scale convention (default Component).
func WithNormalization(n Normalization) Option {
	return func(o *options) { o.norm = n }
}
