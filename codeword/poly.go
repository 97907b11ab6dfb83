package codeword

import "github.com/aerius-labs/hecc-go/field"

// evalPoly computes sum c[j] * x^j with coefficients in ascending order
func evalPoly(gf *field.Tables, coeffs []uint8, x uint8) uint8 {
	var y uint8
	xPow := uint8(1)
	for _, c := range coeffs {
		if c != 0 {
			y ^= gf.Mul(c, xPow)
		}
		xPow = gf.Mul(xPow, x)
	}
	return y
}

// mulLinear multiplies poly in place by (X - root). poly must have room for
// one more coefficient than its current degree; terms at or beyond len(poly)
// are dropped.
func mulLinear(gf *field.Tables, poly []uint8, deg int, root uint8) int {
	neg := gf.Sub(0, root)
	if deg+1 < len(poly) {
		poly[deg+1] = poly[deg]
	}
	for i := deg; i > 0; i-- {
		poly[i] = gf.Add(poly[i-1], gf.Mul(poly[i], neg))
	}
	poly[0] = gf.Mul(poly[0], neg)
	if deg+1 < len(poly) {
		return deg + 1
	}
	return deg
}

// interpolate returns the first degree coefficients of the unique polynomial
// through (xs[j], ys[j]). The xs must be distinct and nonzero.
func interpolate(gf *field.Tables, xs, ys []uint8, degree int) []uint8 {
	poly := make([]uint8, degree)
	basis := make([]uint8, degree)

	for j := 0; j < degree; j++ {
		for i := range basis {
			basis[i] = 0
		}
		basis[0] = 1
		deg := 0
		denom := uint8(1)
		for m := 0; m < degree; m++ {
			if m == j {
				continue
			}
			denom = gf.Mul(denom, gf.Sub(xs[j], xs[m]))
			deg = mulLinear(gf, basis, deg, xs[m])
		}

		scale := gf.Div(ys[j], denom)
		for i, b := range basis {
			poly[i] ^= gf.Mul(scale, b)
		}
	}
	return poly
}
