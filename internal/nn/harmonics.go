package nn

import (
	"fmt"

	"github.com/spex-ml/spex/internal/sphericart"
	"github.com/spex-ml/spex/internal/tensor"
)

// SphericalHarmonics expands Cartesian direction vectors into an orthonormal
// real spherical-harmonic basis, the standard angular featurization for
// equivariant atomistic models.
//
// For a maximum degree lMax the layer maps [n, 3] input vectors to
// [n, (lMax+1)²] features, ordered by degree l and, within a degree, by
// order m from -l to l:
//
//	(l=0,m=0) (l=1,m=-1) (l=1,m=0) (l=1,m=+1) (l=2,m=-2) ...
//
// so the feature for (l, m) sits at column l² + l + m. Values follow the
// orthonormal convention on the unit sphere: the input vectors are
// normalized internally, making the features invariant to the input length.
// Inputs of length zero have no direction and produce NaN features.
//
// The layer holds no trainable state. Evaluation, including the analytic
// Jacobian used by the autodiff backward pass, is delegated to a
// sphericart.Calculator built once at construction.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer, err := nn.NewSphericalHarmonics[float64](3, backend)
//	if err != nil { ... }
//
//	points, _ := tensor.FromVectors([][3]float64{{0, 0, 1}}, backend)
//	features, err := layer.Compute(points) // [1, 16]
type SphericalHarmonics[T tensor.DType, B tensor.Backend] struct {
	maxAngular int
	mPerL      []int
	calc       *sphericart.Calculator
	backend    B
}

// NewSphericalHarmonics creates a spherical-harmonics expansion layer for
// degrees 0..maxAngular. A negative maxAngular returns a *ConfigError.
func NewSphericalHarmonics[T tensor.DType, B tensor.Backend](maxAngular int, backend B) (*SphericalHarmonics[T, B], error) {
	if maxAngular < 0 {
		return nil, &ConfigError{
			Layer:  "SphericalHarmonics",
			Field:  "maxAngular",
			Reason: fmt.Sprintf("must be >= 0, got %d", maxAngular),
		}
	}

	calc, err := sphericart.New(maxAngular, true)
	if err != nil {
		return nil, fmt.Errorf("SphericalHarmonics: %w", err)
	}

	mPerL := make([]int, maxAngular+1)
	for l := range mPerL {
		mPerL[l] = 2*l + 1
	}

	return &SphericalHarmonics[T, B]{
		maxAngular: maxAngular,
		mPerL:      mPerL,
		calc:       calc,
		backend:    backend,
	}, nil
}

// MaxAngular returns the maximum expansion degree.
func (s *SphericalHarmonics[T, B]) MaxAngular() int {
	return s.maxAngular
}

// MPerL returns the number of features per degree, [2l+1 for l in 0..lMax].
// The returned slice is a copy.
func (s *SphericalHarmonics[T, B]) MPerL() []int {
	return append([]int(nil), s.mPerL...)
}

// NumFeatures returns the total output width, Σ(2l+1) = (lMax+1)².
func (s *SphericalHarmonics[T, B]) NumFeatures() int {
	return s.calc.NumFeatures()
}

// Compute expands an [n, 3] batch of vectors into [n, (lMax+1)²] features.
// Input with any other shape returns a *InputError.
func (s *SphericalHarmonics[T, B]) Compute(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != 3 {
		return nil, &InputError{
			Layer:  "SphericalHarmonics",
			Reason: fmt.Sprintf("expected shape [n, 3], got %v", shape),
		}
	}
	return x.SphericalHarmonics(s.calc), nil
}

// Forward implements Module. It panics on invalid input; use Compute for a
// recoverable error.
func (s *SphericalHarmonics[T, B]) Forward(x *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	out, err := s.Compute(x)
	if err != nil {
		panic(err.Error())
	}
	return out
}

// Parameters returns an empty slice; the expansion has no trainable state.
func (s *SphericalHarmonics[T, B]) Parameters() []*Parameter[T, B] {
	return nil
}

// SplitByDegree cuts a [n, (lMax+1)²] feature tensor into per-degree blocks
// of widths 2l+1, in degree order. Downstream consumers typically contract
// each degree separately.
func (s *SphericalHarmonics[T, B]) SplitByDegree(features *tensor.Tensor[T, B]) ([]*tensor.Tensor[T, B], error) {
	shape := features.Shape()
	if len(shape) != 2 || shape[1] != s.NumFeatures() {
		return nil, &InputError{
			Layer:  "SphericalHarmonics",
			Reason: fmt.Sprintf("expected shape [n, %d], got %v", s.NumFeatures(), shape),
		}
	}
	return tensor.Split(features, s.mPerL, -1), nil
}
