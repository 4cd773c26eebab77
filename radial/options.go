// SPDX-License-Identifier: MIT

package radial

// Option customizes NewBessel.
type Option func(*options)

type options struct {
	trainable bool
	values    []float64 // nil → DefaultCoefficients
}

// WithTrainable sets trainable_coeff. Coefficients are trainable by default;
// WithTrainable(false) freezes them.
func WithTrainable(trainable bool) Option {
	return func(o *options) { o.trainable = trainable }
}

// WithCoefficients replaces the default nπ/rc initialization. The length must
// equal num_basis; NewBessel reports ErrInvalidConfig otherwise.
func WithCoefficients(values []float64) Option {
	return func(o *options) { o.values = append([]float64(nil), values...) }
}

// WithParameter sets both the initial values and the kind from a tagged
// Coefficients value, e.g. Trainable(DefaultCoefficients(n, rc)).
func WithParameter(c Coefficients) Option {
	return func(o *options) {
		o.values = c.Values()
		o.trainable = c.kind == KindTrainable
	}
}
