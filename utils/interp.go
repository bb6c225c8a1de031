// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through y0..y3 at
// x in [0, 1] between y1 and y2.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := (-y0 + 3*y1 - 3*y2 + y3) / 2
	b := y0 - 2.5*y1 + 2*y2 - y3/2
	c := (y2 - y0) / 2
	return ((a*x+b)*x+c)*x + y1
}
