package cpu

import (
	"fmt"

	"github.com/spex-ml/spex/internal/tensor"
)

// Sum reduces the tensor to a scalar total.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw("sum", tensor.Shape{}, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		var total float32
		for _, v := range x.AsFloat32() {
			total += v
		}
		result.AsFloat32()[0] = total
	case tensor.Float64:
		var total float64
		for _, v := range x.AsFloat64() {
			total += v
		}
		result.AsFloat64()[0] = total
	}
	return result
}

// SumDim sums along the given dimension. Negative dim counts from the end.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim averages along the given dimension. Negative dim counts from the end.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("meandim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(name, dim, len(shape))

	// Decompose the layout around the reduced dimension: the input is
	// [pre, shape[dim], post] in row-major order.
	pre, post := 1, 1
	for i := 0; i < dim; i++ {
		pre *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		post *= shape[i]
	}
	d := shape[dim]

	outShape := make(tensor.Shape, 0, len(shape))
	for i, s := range shape {
		if i == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, s)
	}

	result := mustNewRaw(name, outShape, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		reduceSlices(x.AsFloat32(), result.AsFloat32(), pre, d, post, mean)
	case tensor.Float64:
		reduceSlices(x.AsFloat64(), result.AsFloat64(), pre, d, post, mean)
	}
	return result
}

func reduceSlices[T tensor.DType](src, dst []T, pre, d, post int, mean bool) {
	for p := 0; p < pre; p++ {
		for q := 0; q < post; q++ {
			var total T
			for k := 0; k < d; k++ {
				total += src[(p*d+k)*post+q]
			}
			if mean {
				total /= T(d)
			}
			dst[p*post+q] = total
		}
	}
}

func normalizeDim(name string, dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: invalid dimension %d for %dD tensor", name, dim, ndim))
	}
	return dim
}
