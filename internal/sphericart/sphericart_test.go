package sphericart

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewRejectsNegativeDegree(t *testing.T) {
	_, err := New(-1, true)
	require.Error(t, err)

	c, err := New(0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumFeatures())
}

// closedForm evaluates degrees 0..2 of the orthonormal real basis directly
// from the textbook expressions.
func closedForm(x, y, z float64) []float64 {
	r := math.Sqrt(x*x + y*y + z*z)
	x, y, z = x/r, y/r, z/r
	return []float64{
		math.Sqrt(1 / (4 * math.Pi)),
		math.Sqrt(3/(4*math.Pi)) * y,
		math.Sqrt(3/(4*math.Pi)) * z,
		math.Sqrt(3/(4*math.Pi)) * x,
		0.5 * math.Sqrt(15/math.Pi) * x * y,
		0.5 * math.Sqrt(15/math.Pi) * y * z,
		0.25 * math.Sqrt(5/math.Pi) * (3*z*z - 1),
		0.5 * math.Sqrt(15/math.Pi) * x * z,
		0.25 * math.Sqrt(15/math.Pi) * (x*x - y*y),
	}
}

func TestLowDegreeClosedForms(t *testing.T) {
	c, err := New(2, true)
	require.NoError(t, err)

	vectors := [][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.3, -1.2, 0.8},
		{-2.5, 0.1, -0.4},
	}
	for _, v := range vectors {
		got := Compute(c, v[:], 1)
		want := closedForm(v[0], v[1], v[2])
		assert.True(t, floats.EqualApprox(want, got, 1e-12),
			"harmonics mismatch for %v: got %v want %v", v, got, want)
	}
}

func TestScaleInvariance(t *testing.T) {
	c, err := New(4, true)
	require.NoError(t, err)

	v := []float64{0.7, -0.2, 1.9}
	scaled := []float64{0.7 * 3.5, -0.2 * 3.5, 1.9 * 3.5}

	a := Compute(c, v, 1)
	b := Compute(c, scaled, 1)
	assert.True(t, floats.EqualApprox(a, b, 1e-12), "normalized harmonics must ignore vector length")
}

// The addition theorem fixes the per-degree power of an orthonormal basis:
// sum_m Ylm(u)² = (2l+1)/4π for every direction u. Checking it across random
// rotations of a fixed vector covers both normalization and rotational
// behavior of every degree at once.
func TestAdditionTheorem(t *testing.T) {
	const lMax = 6
	c, err := New(lMax, true)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	base := r3.Vec{X: 0.2, Y: -0.9, Z: 0.5}
	for i := 0; i < 20; i++ {
		axis := r3.Unit(r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()})
		rot := r3.NewRotation(rng.Float64()*2*math.Pi, axis)
		u := rot.Rotate(base)

		sph := Compute(c, []float64{u.X, u.Y, u.Z}, 1)
		for l := 0; l <= lMax; l++ {
			var sum float64
			for m := -l; m <= l; m++ {
				v := sph[l*l+l+m]
				sum += v * v
			}
			want := float64(2*l+1) / (4 * math.Pi)
			assert.InDelta(t, want, sum, 1e-10, "degree %d power at rotation %d", l, i)
		}
	}
}

func TestSolidHarmonicsScaleAsRToTheL(t *testing.T) {
	const lMax = 3
	norm, err := New(lMax, true)
	require.NoError(t, err)
	solid, err := New(lMax, false)
	require.NoError(t, err)

	v := []float64{1.1, -0.6, 0.4}
	r := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])

	ns := Compute(norm, v, 1)
	ss := Compute(solid, v, 1)
	for l := 0; l <= lMax; l++ {
		scale := math.Pow(r, float64(l))
		for m := -l; m <= l; m++ {
			j := l*l + l + m
			assert.InDelta(t, ns[j]*scale, ss[j], 1e-12, "(l=%d m=%d)", l, m)
		}
	}
}

func TestSolidHarmonicsFiniteAtOrigin(t *testing.T) {
	c, err := New(2, false)
	require.NoError(t, err)

	sph := Compute(c, []float64{0, 0, 0}, 1)
	assert.InDelta(t, math.Sqrt(1/(4*math.Pi)), sph[0], 1e-15)
	for j := 1; j < len(sph); j++ {
		assert.Zero(t, sph[j], "solid harmonic %d at origin", j)
	}
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	for _, normalized := range []bool{true, false} {
		c, err := New(4, normalized)
		require.NoError(t, err)

		v := []float64{0.8, -0.3, 1.2}
		w := c.NumFeatures()
		_, grad := ComputeWithGradients(c, v, 1)

		const h = 1e-6
		for k := 0; k < 3; k++ {
			plus := append([]float64(nil), v...)
			minus := append([]float64(nil), v...)
			plus[k] += h
			minus[k] -= h
			sp := Compute(c, plus, 1)
			sm := Compute(c, minus, 1)
			for j := 0; j < w; j++ {
				fd := (sp[j] - sm[j]) / (2 * h)
				assert.InDelta(t, fd, grad[k*w+j], 1e-5,
					"normalized=%v d/dx%d of feature %d", normalized, k, j)
			}
		}
	}
}

func TestFloat32MatchesFloat64(t *testing.T) {
	c, err := New(3, true)
	require.NoError(t, err)

	v64 := []float64{0.5, 1.5, -0.7}
	v32 := []float32{0.5, 1.5, -0.7}

	s64 := Compute(c, v64, 1)
	s32 := Compute(c, v32, 1)
	require.Len(t, s32, len(s64))
	for j := range s64 {
		assert.InDelta(t, s64[j], float64(s32[j]), 1e-5)
	}
}

func TestBatchLayout(t *testing.T) {
	c, err := New(2, true)
	require.NoError(t, err)

	batch := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	sph := Compute(c, batch, 3)
	require.Len(t, sph, 3*c.NumFeatures())

	for i := 0; i < 3; i++ {
		row := sph[i*c.NumFeatures() : (i+1)*c.NumFeatures()]
		single := Compute(c, batch[3*i:3*i+3], 1)
		assert.True(t, floats.EqualApprox(single, row, 1e-15), "row %d", i)
	}
}
