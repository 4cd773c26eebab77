// SPDX-License-Identifier: MIT

package geometry

// Option configures a Preprocessor at construction.
type Option func(*options)

type options struct {
	stress bool
}

// WithStress enables the strain leaf and stress gradients (is_stress).
func WithStress(enabled bool) Option {
	return func(o *options) { o.stress = enabled }
}

func gatherOptions(opts ...Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
