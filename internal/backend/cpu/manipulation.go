package cpu

import (
	"fmt"

	"github.com/spex-ml/spex/internal/tensor"
)

// Cat concatenates tensors along a dimension. All tensors must agree on
// every other dimension and on dtype.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors given")
	}

	first := tensors[0]
	shape := first.Shape()
	dim = normalizeDim("cat", dim, len(shape))

	total := 0
	for _, t := range tensors {
		ts := t.Shape()
		if len(ts) != len(shape) {
			panic(fmt.Sprintf("cat: rank mismatch: %v vs %v", shape, ts))
		}
		for d := range ts {
			if d != dim && ts[d] != shape[d] {
				panic(fmt.Sprintf("cat: shape mismatch at dimension %d: %v vs %v", d, shape, ts))
			}
		}
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: dtype mismatch: %s vs %s", first.DType(), t.DType()))
		}
		total += ts[dim]
	}

	outShape := shape.Clone()
	outShape[dim] = total
	result := mustNewRaw("cat", outShape, first.DType(), cpu.device)

	// Row-major layout: each tensor contributes contiguous [size*post] byte
	// runs per outer index.
	pre, post := 1, 1
	for i := 0; i < dim; i++ {
		pre *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		post *= shape[i]
	}

	elem := first.DType().Size()
	dst := result.Data()
	rowBytes := total * post * elem
	for p := 0; p < pre; p++ {
		off := p * rowBytes
		for _, t := range tensors {
			run := t.Shape()[dim] * post * elem
			copy(dst[off:off+run], t.Data()[p*run:(p+1)*run])
			off += run
		}
	}
	return result
}

// Split divides a tensor into segments of the given sizes along a dimension.
// The sizes must add up to the dimension's extent. This is the segment-wise
// inverse of Cat, used to separate flattened per-degree feature blocks.
func (cpu *CPUBackend) Split(x *tensor.RawTensor, sizes []int, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("split", dim, len(shape))

	total := 0
	for i, s := range sizes {
		if s <= 0 {
			panic(fmt.Sprintf("split: segment %d has size %d (must be > 0)", i, s))
		}
		total += s
	}
	if total != shape[dim] {
		panic(fmt.Sprintf("split: segment sizes sum to %d, dimension %d has size %d", total, dim, shape[dim]))
	}

	pre, post := 1, 1
	for i := 0; i < dim; i++ {
		pre *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		post *= shape[i]
	}

	elem := x.DType().Size()
	src := x.Data()
	rowBytes := shape[dim] * post * elem

	out := make([]*tensor.RawTensor, len(sizes))
	segOff := 0
	for i, s := range sizes {
		segShape := shape.Clone()
		segShape[dim] = s
		seg := mustNewRaw("split", segShape, x.DType(), cpu.device)

		run := s * post * elem
		dst := seg.Data()
		for p := 0; p < pre; p++ {
			start := p*rowBytes + segOff
			copy(dst[p*run:(p+1)*run], src[start:start+run])
		}
		out[i] = seg
		segOff += run
	}
	return out
}
