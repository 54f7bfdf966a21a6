// Package sphericart evaluates real spherical harmonics and their Cartesian
// gradients for batches of 3D vectors.
//
// The package plays the role of the native evaluator that the rest of the
// framework delegates to: a Calculator is constructed once for a maximum
// degree, precomputes all recursion coefficients, and is then a pure function
// from vectors to features. Values follow the Wikipedia definition of real
// spherical harmonics, which are orthonormal when integrated over the unit
// sphere:
//
//	Y(0,0)  = sqrt(1/4π)
//	Y(1,-1) = sqrt(3/4π)·ŷ   Y(1,0) = sqrt(3/4π)·ẑ   Y(1,1) = sqrt(3/4π)·x̂
//
// The flattened output is ordered by increasing degree l, and within each
// degree by increasing order m from -l to +l, so feature (l, m) lives at
// column l² + l + m.
//
// The implementation uses the fully normalized associated Legendre recursion
// (Holmes–Featherstone coefficients) with the azimuthal part carried as the
// real and imaginary components of (x+iy)^m, so no trigonometric function is
// evaluated per element and the recursion stays stable for large degrees.
package sphericart

import (
	"fmt"
	"math"
)

// Float is the constraint for supported input precisions. Evaluation runs in
// the input's precision.
type Float interface {
	~float32 | ~float64
}

// Calculator evaluates real spherical harmonics up to a fixed maximum degree.
//
// A Calculator holds only immutable coefficient tables, so a single instance
// may be shared by concurrent callers.
type Calculator struct {
	lMax       int
	normalized bool

	q00  float64   // Y(0,0) = sqrt(1/4π)
	diag []float64 // diagonal step m-1 -> m, index m (1..lMax)
	edge []float64 // below-diagonal step (m,m) -> (m+1,m), index m (0..lMax-1)
	a    []float64 // general recursion, packed by idx(l,m), valid for m <= l-2
	b    []float64
}

// New creates a Calculator for degrees 0..lMax.
//
// With normalized=true the Calculator evaluates orthonormal real spherical
// harmonics of the input direction; the length of the input vector is divided
// out, and a zero vector produces NaN because its direction is undefined.
// With normalized=false it evaluates the solid harmonics r^l·Ylm, which are
// polynomials in the Cartesian components and remain finite everywhere.
func New(lMax int, normalized bool) (*Calculator, error) {
	if lMax < 0 {
		return nil, fmt.Errorf("sphericart: lMax must be non-negative, got %d", lMax)
	}

	c := &Calculator{
		lMax:       lMax,
		normalized: normalized,
		q00:        math.Sqrt(1.0 / (4.0 * math.Pi)),
		diag:       make([]float64, lMax+1),
		edge:       make([]float64, lMax+1),
		a:          make([]float64, packedSize(lMax)),
		b:          make([]float64, packedSize(lMax)),
	}

	for m := 1; m <= lMax; m++ {
		if m == 1 {
			// The sqrt(2) of the real-harmonic convention is folded into the
			// first diagonal step, so every m>0 column carries it.
			c.diag[m] = math.Sqrt(3)
		} else {
			c.diag[m] = math.Sqrt(float64(2*m+1) / float64(2*m))
		}
	}
	for m := 0; m < lMax; m++ {
		c.edge[m] = math.Sqrt(float64(2*m + 3))
	}
	for l := 2; l <= lMax; l++ {
		for m := 0; m <= l-2; m++ {
			i := idx(l, m)
			c.a[i] = math.Sqrt(float64(4*l*l-1) / float64(l*l-m*m))
			c.b[i] = math.Sqrt(float64((l-1)*(l-1)-m*m) / float64(4*(l-1)*(l-1)-1))
		}
	}

	return c, nil
}

// LMax returns the maximum degree this Calculator evaluates.
func (c *Calculator) LMax() int { return c.lMax }

// Normalized reports whether the Calculator evaluates the orthonormal basis
// (true) or solid harmonics (false).
func (c *Calculator) Normalized() bool { return c.normalized }

// NumFeatures returns the flattened output width, (lMax+1)².
func (c *Calculator) NumFeatures() int { return (c.lMax + 1) * (c.lMax + 1) }

// idx packs (l, m) with 0 <= m <= l into a triangular array index.
func idx(l, m int) int { return l*(l+1)/2 + m }

func packedSize(lMax int) int { return (lMax + 1) * (lMax + 2) / 2 }

// Compute evaluates spherical harmonics for n vectors.
//
// xyz is the row-major [n, 3] coordinate buffer; the result is the row-major
// [n, (lMax+1)²] feature buffer. Panics if len(xyz) != 3n: callers validate
// shapes before reaching the evaluator.
func Compute[T Float](c *Calculator, xyz []T, n int) []T {
	if len(xyz) != 3*n {
		panic(fmt.Sprintf("sphericart: coordinate buffer has %d elements, want %d", len(xyz), 3*n))
	}

	w := c.NumFeatures()
	out := make([]T, n*w)
	ws := newWorkspace[T](c, false)
	for i := 0; i < n; i++ {
		ws.sample(xyz[3*i], xyz[3*i+1], xyz[3*i+2], out[i*w:(i+1)*w], nil)
	}
	return out
}

// ComputeWithGradients evaluates spherical harmonics and their Cartesian
// gradients for n vectors.
//
// The second result holds d Ylm / d x_k in row-major [n, 3, (lMax+1)²]
// layout: grad[(i*3+k)*w + j] is the derivative of feature j of sample i
// with respect to coordinate k.
func ComputeWithGradients[T Float](c *Calculator, xyz []T, n int) ([]T, []T) {
	if len(xyz) != 3*n {
		panic(fmt.Sprintf("sphericart: coordinate buffer has %d elements, want %d", len(xyz), 3*n))
	}

	w := c.NumFeatures()
	out := make([]T, n*w)
	grad := make([]T, n*3*w)
	ws := newWorkspace[T](c, true)
	for i := 0; i < n; i++ {
		ws.sample(xyz[3*i], xyz[3*i+1], xyz[3*i+2], out[i*w:(i+1)*w], grad[i*3*w:(i+1)*3*w])
	}
	return out, grad
}

// workspace holds per-batch scratch buffers and coefficient tables converted
// to the evaluation precision, so the per-sample loop allocates nothing.
type workspace[T Float] struct {
	c    *Calculator
	q00  T
	diag []T
	edge []T
	a, b []T

	q  []T // fully normalized Legendre part, packed by idx(l,m)
	qz []T // dq/dz
	qr []T // dq/d(r²), solid mode only
	cm []T // Re (x+iy)^m
	sm []T // Im (x+iy)^m
}

func newWorkspace[T Float](c *Calculator, withGrad bool) *workspace[T] {
	size := packedSize(c.lMax)
	ws := &workspace[T]{
		c:    c,
		q00:  T(c.q00),
		diag: convert[T](c.diag),
		edge: convert[T](c.edge),
		a:    convert[T](c.a),
		b:    convert[T](c.b),
		q:    make([]T, size),
		cm:   make([]T, c.lMax+1),
		sm:   make([]T, c.lMax+1),
	}
	if withGrad {
		ws.qz = make([]T, size)
		if !c.normalized {
			ws.qr = make([]T, size)
		}
	}
	return ws
}

func convert[T Float](src []float64) []T {
	dst := make([]T, len(src))
	for i, v := range src {
		dst[i] = T(v)
	}
	return dst
}

// sample evaluates one vector into out (and grad when non-nil).
func (ws *workspace[T]) sample(x, y, z T, out, grad []T) {
	c := ws.c
	lMax := c.lMax

	rsq := x*x + y*y + z*z
	var invR T
	if c.normalized {
		invR = 1 / sqrtT(rsq)
		x *= invR
		y *= invR
		z *= invR
		rsq = 1
	}

	// Azimuthal part: cm[m] + i·sm[m] = (x+iy)^m.
	ws.cm[0] = 1
	ws.sm[0] = 0
	for m := 1; m <= lMax; m++ {
		ws.cm[m] = ws.cm[m-1]*x - ws.sm[m-1]*y
		ws.sm[m] = ws.sm[m-1]*x + ws.cm[m-1]*y
	}

	// Fully normalized Legendre part. In solid mode rsq is the squared vector
	// length and makes every q[idx(l,m)]·{cm,sm}[m] a homogeneous polynomial
	// of degree l; in normalized mode rsq is 1.
	q := ws.q
	q[0] = ws.q00
	for m := 1; m <= lMax; m++ {
		q[idx(m, m)] = ws.diag[m] * q[idx(m-1, m-1)]
	}
	for m := 0; m < lMax; m++ {
		q[idx(m+1, m)] = ws.edge[m] * z * q[idx(m, m)]
	}
	for l := 2; l <= lMax; l++ {
		for m := 0; m <= l-2; m++ {
			i := idx(l, m)
			q[i] = ws.a[i] * (z*q[idx(l-1, m)] - ws.b[i]*rsq*q[idx(l-2, m)])
		}
	}

	for l := 0; l <= lMax; l++ {
		base := l*l + l
		out[base] = q[idx(l, 0)]
		for m := 1; m <= l; m++ {
			v := q[idx(l, m)]
			out[base+m] = v * ws.cm[m]
			out[base-m] = v * ws.sm[m]
		}
	}

	if grad == nil {
		return
	}
	ws.sampleGradients(x, y, z, rsq, invR, grad)
}

// sampleGradients fills grad for one sample. In normalized mode x, y, z are
// already the unit direction and invR is 1/|v|.
func (ws *workspace[T]) sampleGradients(x, y, z, rsq, invR T, grad []T) {
	c := ws.c
	lMax := c.lMax
	w := c.NumFeatures()
	q, qz := ws.q, ws.qz

	// dq/dz by differentiating the recursion; diagonal entries are constants.
	for m := 0; m <= lMax; m++ {
		qz[idx(m, m)] = 0
	}
	for m := 0; m < lMax; m++ {
		qz[idx(m+1, m)] = ws.edge[m] * q[idx(m, m)]
	}
	for l := 2; l <= lMax; l++ {
		for m := 0; m <= l-2; m++ {
			i := idx(l, m)
			qz[i] = ws.a[i] * (q[idx(l-1, m)] + z*qz[idx(l-1, m)] - ws.b[i]*rsq*qz[idx(l-2, m)])
		}
	}

	// In solid mode x and y also reach the Legendre part through r², so the
	// chain rule needs dq/d(r²) as well.
	var qr []T
	if !c.normalized {
		qr = ws.qr
		for m := 0; m <= lMax; m++ {
			qr[idx(m, m)] = 0
			if m < lMax {
				qr[idx(m+1, m)] = 0
			}
		}
		for l := 2; l <= lMax; l++ {
			for m := 0; m <= l-2; m++ {
				i := idx(l, m)
				qr[i] = ws.a[i] * (z*qr[idx(l-1, m)] - ws.b[i]*(q[idx(l-2, m)]+rsq*qr[idx(l-2, m)]))
			}
		}
	}

	gx := grad[:w]
	gy := grad[w : 2*w]
	gz := grad[2*w : 3*w]

	for l := 0; l <= lMax; l++ {
		base := l*l + l
		gx[base] = 0
		gy[base] = 0
		gz[base] = qz[idx(l, 0)]
		if qr != nil {
			gx[base] = 2 * x * qr[idx(l, 0)]
			gy[base] = 2 * y * qr[idx(l, 0)]
		}
		for m := 1; m <= l; m++ {
			i := idx(l, m)
			v := q[i]
			mf := T(m)
			// d(x+iy)^m = m·(x+iy)^(m-1) in both components.
			gx[base+m] = mf * v * ws.cm[m-1]
			gy[base+m] = -mf * v * ws.sm[m-1]
			gz[base+m] = qz[i] * ws.cm[m]
			gx[base-m] = mf * v * ws.sm[m-1]
			gy[base-m] = mf * v * ws.cm[m-1]
			gz[base-m] = qz[i] * ws.sm[m]
			if qr != nil {
				gx[base+m] += 2 * x * qr[i] * ws.cm[m]
				gy[base+m] += 2 * y * qr[i] * ws.cm[m]
				gx[base-m] += 2 * x * qr[i] * ws.sm[m]
				gy[base-m] += 2 * y * qr[i] * ws.sm[m]
			}
		}
	}

	if c.normalized {
		// The partials above treat the unit direction as free coordinates.
		// Project onto the sphere and scale by d(û)/d(v) = (I - û ûᵀ)/|v|.
		for j := 0; j < w; j++ {
			dot := gx[j]*x + gy[j]*y + gz[j]*z
			gx[j] = (gx[j] - dot*x) * invR
			gy[j] = (gy[j] - dot*y) * invR
			gz[j] = (gz[j] - dot*z) * invR
		}
	}
}

func sqrtT[T Float](v T) T {
	return T(math.Sqrt(float64(v)))
}
