// Package core provides fundamental types and utilities for the duel server.
// It contains no external dependencies (especially no Bubble Tea) to keep
// gameplay logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Vec3 is a point or direction in arena space.
// X runs along the strafe line, Y is up, Z points from the firing line
// toward the defense line.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsFinite reports whether every component is a real number.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Normalize returns the unit vector along v.
// ok is false for zero-length or non-finite input.
func (v Vec3) Normalize() (unit Vec3, ok bool) {
	if !v.IsFinite() {
		return Vec3{}, false
	}
	// Scaled by the largest component first so huge inputs do not overflow
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if m == 0 {
		return Vec3{}, false
	}
	s := v.Scale(1 / m)
	l := s.Len()
	if l*m < 1e-9 {
		return Vec3{}, false
	}
	return s.Scale(1 / l), true
}

// DirectionFromAim converts yaw and pitch (degrees) into a unit direction.
// Zero yaw and pitch points straight down +Z.
func DirectionFromAim(yawDeg, pitchDeg float64) Vec3 {
	yaw := yawDeg * math.Pi / 180
	pitch := pitchDeg * math.Pi / 180
	return Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

// Ray is a half-line starting at Origin along the unit vector Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Sphere is a hit volume defined by center and radius.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Intersect returns the nearest non-negative distance at which the ray
// enters the sphere. A ray starting inside reports distance 0.
func (s Sphere) Intersect(r Ray) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - c
	if b > 0 || disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	return t, true
}

// Box is an axis-aligned hit volume.
type Box struct {
	Min, Max Vec3
}

// Intersect returns the entry distance of the ray into the box using the
// slab method. A ray starting inside reports distance 0.
func (b Box) Intersect(r Ray) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			// Parallel to this slab: must already be between the planes
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Lerp interpolates between a and b by t, with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = ClampF(t, 0, 1)
	return a + (b-a)*t
}
