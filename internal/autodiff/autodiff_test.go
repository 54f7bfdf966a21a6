package autodiff

import (
	"math"
	"testing"

	"github.com/spex-ml/spex/internal/backend/cpu"
	"github.com/spex-ml/spex/internal/sphericart"
	"github.com/spex-ml/spex/internal/tensor"
)

type testBackend = *AutodiffBackend[*cpu.CPUBackend]

func newRecordingBackend(t *testing.T) testBackend {
	t.Helper()
	backend := New(cpu.New())
	backend.Tape().StartRecording()
	return backend
}

func fromSlice(t *testing.T, backend testBackend, data []float64, shape tensor.Shape) *tensor.Tensor[float64, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice[float64, testBackend](data, shape, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x
}

func checkGrad(t *testing.T, got *tensor.RawTensor, want []float64, tol float64) {
	t.Helper()
	if got == nil {
		t.Fatal("gradient missing")
	}
	data := got.AsFloat64()
	if len(data) != len(want) {
		t.Fatalf("gradient has %d elements, expected %d", len(data), len(want))
	}
	for i := range want {
		if math.Abs(data[i]-want[i]) > tol {
			t.Errorf("grad[%d]: got %v, expected %v", i, data[i], want[i])
		}
	}
}

func TestAutodiffBackend_Metadata(t *testing.T) {
	backend := New(cpu.New())
	if backend.Name() != "Autodiff(CPU)" {
		t.Errorf("Name: got %q", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device: got %v", backend.Device())
	}
	if backend.Inner() == nil {
		t.Error("Inner returned nil")
	}
}

func TestTape_RecordingControl(t *testing.T) {
	backend := New(cpu.New())
	x := fromSlice(t, backend, []float64{1, 2}, tensor.Shape{2})

	// Nothing recorded while the tape is stopped.
	_ = x.Mul(x)
	if backend.Tape().NumOps() != 0 {
		t.Errorf("Expected empty tape, got %d ops", backend.Tape().NumOps())
	}

	backend.Tape().StartRecording()
	_ = x.Mul(x)
	if backend.Tape().NumOps() != 1 {
		t.Errorf("Expected 1 op, got %d", backend.Tape().NumOps())
	}

	backend.Tape().Clear()
	if backend.Tape().NumOps() != 0 {
		t.Errorf("Clear left %d ops", backend.Tape().NumOps())
	}
	if !backend.Tape().IsRecording() {
		t.Error("Clear should preserve recording state")
	}
}

func TestBackward_MulGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{2, -3}, tensor.Shape{2})

	y := x.Mul(x) // y = x²

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{4, -6}, 1e-12) // dy/dx = 2x
}

func TestBackward_DivGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	a := fromSlice(t, backend, []float64{6, 8}, tensor.Shape{2})
	b := fromSlice(t, backend, []float64{2, 4}, tensor.Shape{2})

	y := a.Div(b)

	grads := Backward(y, backend)
	checkGrad(t, grads[a.Raw()], []float64{0.5, 0.25}, 1e-12)  // 1/b
	checkGrad(t, grads[b.Raw()], []float64{-1.5, -0.5}, 1e-12) // -a/b²
}

func TestBackward_BroadcastReducesGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	a := fromSlice(t, backend, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, backend, []float64{10, 20, 30}, tensor.Shape{3})

	y := a.Add(b).Sum()

	grads := Backward(y, backend)
	checkGrad(t, grads[a.Raw()], []float64{1, 1, 1, 1, 1, 1}, 1e-12)
	// b was broadcast over 2 rows, so its gradient sums to 2 per element.
	checkGrad(t, grads[b.Raw()], []float64{2, 2, 2}, 1e-12)
}

func TestBackward_ScalarChain(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{1, 2, 3}, tensor.Shape{3})

	// y = sum(3x + 1), dy/dx = 3.
	y := x.MulScalar(3).AddScalar(1).Sum()

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{3, 3, 3}, 1e-12)
}

func TestBackward_SqrtGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{4, 16}, tensor.Shape{2})

	y := x.Sqrt()

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{0.25, 0.125}, 1e-12) // 1/(2*sqrt(x))
}

func TestBackward_SumDimGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	y := x.SumDim(1, false)

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{1, 1, 1, 1, 1, 1}, 1e-12)
}

func TestBackward_MeanDimGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	y := x.MeanDim(-1, false)

	grads := Backward(y, backend)
	third := 1.0 / 3.0
	checkGrad(t, grads[x.Raw()], []float64{third, third, third, third, third, third}, 1e-12)
}

func TestBackward_ReshapeTransposeGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	w := fromSlice(t, backend, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})

	// Gradient must flow through the transposed view back to w.
	y := x.Mul(w.T()).Sum()

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{1, 3, 5, 2, 4, 6}, 1e-12)
	checkGrad(t, grads[w.Raw()], []float64{1, 4, 2, 5, 3, 6}, 1e-12)
}

func TestBackward_SplitPartialUse(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 4})

	// Use only the second segment; the first gets a zero gradient.
	parts := tensor.Split(x, []int{1, 3}, 1)
	y := parts[1].Sum()

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{0, 1, 1, 1, 0, 1, 1, 1}, 1e-12)
}

func TestBackward_CatGradient(t *testing.T) {
	backend := newRecordingBackend(t)
	a := fromSlice(t, backend, []float64{1, 2}, tensor.Shape{1, 2})
	b := fromSlice(t, backend, []float64{3, 4, 5, 6}, tensor.Shape{2, 2})

	y := tensor.Cat([]*tensor.Tensor[float64, testBackend]{a, b}, 0).MulScalar(2).Sum()

	grads := Backward(y, backend)
	checkGrad(t, grads[a.Raw()], []float64{2, 2}, 1e-12)
	checkGrad(t, grads[b.Raw()], []float64{2, 2, 2, 2}, 1e-12)
}

func TestBackward_SphericalHarmonicsMatchesFiniteDifferences(t *testing.T) {
	backend := newRecordingBackend(t)

	calc, err := sphericart.New(3, true)
	if err != nil {
		t.Fatalf("sphericart.New failed: %v", err)
	}

	points := []float64{
		0.3, -0.4, 1.2,
		-1.1, 0.5, 0.2,
	}
	x := fromSlice(t, backend, points, tensor.Shape{2, 3})

	y := x.SphericalHarmonics(calc).Sum()

	grads := Backward(y, backend)
	grad := grads[x.Raw()]
	if grad == nil {
		t.Fatal("no gradient for input points")
	}

	// Central finite differences on sum of all features.
	const h = 1e-6
	sumFeatures := func(xyz []float64) float64 {
		out := sphericart.Compute(calc, xyz, 2)
		var total float64
		for _, v := range out {
			total += v
		}
		return total
	}
	gradData := grad.AsFloat64()
	for k := range points {
		plus := append([]float64(nil), points...)
		minus := append([]float64(nil), points...)
		plus[k] += h
		minus[k] -= h
		want := (sumFeatures(plus) - sumFeatures(minus)) / (2 * h)
		if math.Abs(gradData[k]-want) > 1e-5 {
			t.Errorf("grad[%d]: got %v, finite difference %v", k, gradData[k], want)
		}
	}
}

func TestBackward_GradientAccumulation(t *testing.T) {
	backend := newRecordingBackend(t)
	x := fromSlice(t, backend, []float64{3}, tensor.Shape{1})

	// y = x*x + x, dy/dx = 2x + 1 = 7.
	y := x.Mul(x).Add(x)

	grads := Backward(y, backend)
	checkGrad(t, grads[x.Raw()], []float64{7}, 1e-12)
}

func TestBackward_PanicsWithEmptyTape(t *testing.T) {
	backend := New(cpu.New())
	x := fromSlice(t, backend, []float64{1}, tensor.Shape{1})

	defer func() {
		if recover() == nil {
			t.Error("Expected panic with empty tape")
		}
	}()
	Backward(x, backend)
}
