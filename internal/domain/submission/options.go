package submission

import "strings"

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDefaultName sets the name stored when a submission has none.
func WithDefaultName(name string) Option {
	return func(n *Normalizer) {
		if name = strings.TrimSpace(name); name != "" {
			n.defaultName = name
		}
	}
}

// WithStrict makes malformed bodies and time values fail instead of defaulting.
func WithStrict(strict bool) Option {
	return func(n *Normalizer) {
		n.strict = strict
	}
}
