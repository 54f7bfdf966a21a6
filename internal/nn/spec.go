package nn

import "github.com/spex-ml/spex/internal/tensor"

// SphericalHarmonicsSpec is the reconstructable state of a
// SphericalHarmonics layer. Everything else the layer holds is derived
// from it. The struct marshals to JSON as {"max_angular": n}.
type SphericalHarmonicsSpec struct {
	MaxAngular int `json:"max_angular"`
}

// Spec returns the layer's reconstructable state.
func (s *SphericalHarmonics[T, B]) Spec() SphericalHarmonicsSpec {
	return SphericalHarmonicsSpec{MaxAngular: s.maxAngular}
}

// SphericalHarmonicsFromSpec reconstructs a layer from its spec. The result
// is equivalent to the layer the spec was taken from.
func SphericalHarmonicsFromSpec[T tensor.DType, B tensor.Backend](spec SphericalHarmonicsSpec, backend B) (*SphericalHarmonics[T, B], error) {
	return NewSphericalHarmonics[T, B](spec.MaxAngular, backend)
}
