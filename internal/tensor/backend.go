package tensor

import "github.com/spex-ml/spex/internal/sphericart"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
//   - Accelerator backends may be added behind the same interface; whether
//     the harmonics evaluation can stay resident on a given device or must
//     round-trip through the host is deliberately left to the backend.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor          // concatenate along dimension
	Split(x *RawTensor, sizes []int, dim int) []*RawTensor // split into segments of the given sizes

	// SphericalHarmonics expands [N, 3] direction vectors into the flattened
	// feature layout of the given evaluator, [N, (lMax+1)²]. The evaluation
	// runs wherever the input tensor resides.
	SphericalHarmonics(x *RawTensor, calc *sphericart.Calculator) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
