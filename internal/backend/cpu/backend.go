// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/spex-ml/spex/internal/tensor"
)

// CPUBackend implements tensor operations on the CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binary dispatches an element-wise binary operation on dtype, with an
// inplace fast path when a uniquely owns its buffer and shapes match.
func (cpu *CPUBackend) binary(
	name string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	if !needsBroadcast {
		if a.IsUnique() {
			// Inplace into a.
			switch a.DType() {
			case tensor.Float32:
				applyBinary(a.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
			case tensor.Float64:
				applyBinary(a.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
			}
			return a
		}

		result := mustNewRaw(name, outShape, a.DType(), cpu.device)
		switch a.DType() {
		case tensor.Float32:
			applyBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
		case tensor.Float64:
			applyBinary(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
		}
		return result
	}

	result := mustNewRaw(name, outShape, a.DType(), cpu.device)
	switch a.DType() {
	case tensor.Float32:
		applyBinaryBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), f32)
	case tensor.Float64:
		applyBinaryBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), f64)
	}
	return result
}

func mustNewRaw(name string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	return result
}

func applyBinary[T tensor.DType](dst, a, b []T, op func(x, y T) T) {
	for i := range dst {
		dst[i] = op(a[i], b[i])
	}
}

// applyBinaryBroadcast evaluates op over the broadcast output shape, mapping
// each output element back to its (possibly size-1) source coordinates.
func applyBinaryBroadcast[T tensor.DType](
	dst, a, b []T,
	outShape, aShape, bShape tensor.Shape,
	op func(x, y T) T,
) {
	outStrides := outShape.ComputeStrides()
	aStrides := aShape.ComputeStrides()
	bStrides := bShape.ComputeStrides()

	for i := range dst {
		aIdx, bIdx := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]

			if ad := d - (len(outShape) - len(aShape)); ad >= 0 {
				c := coord
				if aShape[ad] == 1 {
					c = 0
				}
				aIdx += c * aStrides[ad]
			}
			if bd := d - (len(outShape) - len(bShape)); bd >= 0 {
				c := coord
				if bShape[bd] == 1 {
					c = 0
				}
				bIdx += c * bStrides[bd]
			}
		}
		dst[i] = op(a[aIdx], b[bIdx])
	}
}
