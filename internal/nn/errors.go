package nn

import "fmt"

// ConfigError reports an invalid layer configuration. Constructors return it
// instead of a partially built layer.
type ConfigError struct {
	Layer  string // layer type, e.g. "SphericalHarmonics"
	Field  string // offending configuration field
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s %s", e.Layer, e.Field, e.Reason)
}

// InputError reports input that does not satisfy a layer's contract, such as
// a tensor with the wrong shape.
type InputError struct {
	Layer  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Layer, e.Reason)
}
