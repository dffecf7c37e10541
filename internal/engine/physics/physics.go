// Package physics provides the simulation primitives shared by all games:
// frame-rate-independent gravity and impulse integration, axis-aligned and
// circular collision checks, and the forgiving gap-obstacle collision used
// by Cinna Flight. All functions are pure transformations over bodies the
// caller owns; the package keeps no mutable state.
//
// Units are pixels (terminal cells) and milliseconds. Per-frame increments
// are scaled by deltaMs/ReferenceFrameMs so that doubling the frame time
// doubles the increment.
package physics

import (
	"errors"
	"fmt"
	"math"
)

// ReferenceFrameMs is the default frame duration increments are normalized
// against (one frame at 60 FPS).
const ReferenceFrameMs = 1000.0 / 60.0

// Body is a single moving entity: the player, an enemy, or a projectile.
// Position is the top-left corner. CollisionRadius, when positive, gives
// the body a circular hitbox centered on it; width and height still define
// the visual extent.
type Body struct {
	X, Y            float64
	W, H            float64
	VelX, VelY      float64
	CollisionRadius float64
	Static          bool
}

// Center returns the body's center point.
func (b Body) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Rect is a float axis-aligned rectangle used for collision tests.
type Rect struct {
	X, Y, W, H float64
}

// Params configures a World. Invalid values are rejected by NewWorld, not
// clamped: a non-positive reference frame or fall-speed cap indicates a
// caller bug.
type Params struct {
	Gravity          float64 // downward acceleration per reference frame
	MaxFallSpeed     float64 // cap on downward velocity
	ReferenceFrameMs float64 // zero means ReferenceFrameMs default
}

var (
	errGravity     = errors.New("physics: gravity must be a finite, non-negative number")
	errMaxFall     = errors.New("physics: max fall speed must be positive")
	errRefFrame    = errors.New("physics: reference frame duration must be positive")
	errForgiveness = errors.New("physics: forgiveness must be in (0, 1]")
)

// World holds the validated simulation constants.
type World struct {
	gravity      float64
	maxFallSpeed float64
	refFrameMs   float64
}

// NewWorld validates params and returns a ready World.
func NewWorld(p Params) (World, error) {
	if p.ReferenceFrameMs == 0 {
		p.ReferenceFrameMs = ReferenceFrameMs
	}
	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) || p.Gravity < 0 {
		return World{}, fmt.Errorf("%w: got %v", errGravity, p.Gravity)
	}
	if p.MaxFallSpeed <= 0 || math.IsNaN(p.MaxFallSpeed) {
		return World{}, fmt.Errorf("%w: got %v", errMaxFall, p.MaxFallSpeed)
	}
	if p.ReferenceFrameMs < 0 || math.IsNaN(p.ReferenceFrameMs) {
		return World{}, fmt.Errorf("%w: got %v", errRefFrame, p.ReferenceFrameMs)
	}
	return World{
		gravity:      p.Gravity,
		maxFallSpeed: p.MaxFallSpeed,
		refFrameMs:   p.ReferenceFrameMs,
	}, nil
}

// Gravity returns the configured gravity constant.
func (w World) Gravity() float64 { return w.gravity }

// MaxFallSpeed returns the configured downward velocity cap.
func (w World) MaxFallSpeed() float64 { return w.maxFallSpeed }

// ApplyGravity accelerates the body downward, scaled by frame time.
// Static bodies are exempt.
func (w World) ApplyGravity(b *Body, deltaMs float64) {
	if b.Static {
		return
	}
	b.VelY += w.gravity * (deltaMs / w.refFrameMs)
}

// ApplyImpulse sets (not adds) the body's velocity. The flap action is an
// instantaneous upward velocity override, so additive impulses would let
// rapid flaps stack.
func (w World) ApplyImpulse(b *Body, impulseX, impulseY float64) {
	b.VelX = impulseX
	b.VelY = impulseY
}

// ApplyVelocity advances the body's position, scaled by frame time.
func (w World) ApplyVelocity(b *Body, deltaMs float64) {
	n := deltaMs / w.refFrameMs
	b.X += b.VelX * n
	b.Y += b.VelY * n
}

// ClampVelocity caps downward velocity at the configured terminal speed.
// Upward velocity and horizontal velocity are not clamped here.
func (w World) ClampVelocity(b *Body) {
	if b.VelY > w.maxFallSpeed {
		b.VelY = w.maxFallSpeed
	}
}

// AABB reports whether two rectangles overlap. Rectangles that merely
// share an edge do not overlap: the comparisons are strict, so a.X+a.W ==
// b.X is a miss.
func AABB(a, b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X &&
		a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// CircleCollision reports whether two circular hitboxes overlap. Each
// body's circle is centered on it with its CollisionRadius.
func CircleCollision(a, b Body) bool {
	ax, ay := a.Center()
	bx, by := b.Center()
	return Distance(ax, ay, bx, by) < a.CollisionRadius+b.CollisionRadius
}

// CircleRectCollision reports whether a circle overlaps a rectangle, via
// the closest point on the rectangle to the circle's center. Covers the
// circle fully inside the rect, overlapping an edge, or clipping a corner.
func CircleRectCollision(cx, cy, radius float64, r Rect) bool {
	closestX := clamp(cx, r.X, r.X+r.W)
	closestY := clamp(cy, r.Y, r.Y+r.H)
	return Distance(cx, cy, closestX, closestY) < radius
}

// PlayerObstacleCollision shrinks the body's circular hitbox by the
// forgiveness factor before testing against the rectangle. forgiveness is
// in (0, 1]; 1.0 keeps the full radius. Values below the visual size make
// near misses feel fair.
func PlayerObstacleCollision(b Body, r Rect, forgiveness float64) bool {
	if forgiveness <= 0 || forgiveness > 1 {
		// Caller bug: treat as full-size rather than silently passing
		// everything through a zero radius.
		forgiveness = 1
	}
	cx, cy := b.Center()
	return CircleRectCollision(cx, cy, b.CollisionRadius*forgiveness, r)
}

// CloudGapCollision tests the body against a gap obstacle: a solid region
// above the gap and one below it, each spanning the obstacle's width. The
// top and bottom rectangles are built explicitly so the check cannot
// mis-prioritize one half over the other.
func CloudGapCollision(b Body, obstacleX, obstacleW, gapCenterY, gapHeight, playfieldH, forgiveness float64) bool {
	gapTop := gapCenterY - gapHeight/2
	gapBottom := gapCenterY + gapHeight/2

	top := Rect{X: obstacleX, Y: 0, W: obstacleW, H: gapTop}
	bottom := Rect{X: obstacleX, Y: gapBottom, W: obstacleW, H: playfieldH - gapBottom}

	return PlayerObstacleCollision(b, top, forgiveness) ||
		PlayerObstacleCollision(b, bottom, forgiveness)
}

// Bounds is the vertical play range a body must stay inside.
type Bounds struct {
	MinY, MaxY float64
}

// BoundsHit reports which bound a body crossed.
type BoundsHit struct {
	Top, Bottom bool
}

// OutOfBounds reports whether the body crosses the top or bottom bound.
func OutOfBounds(b Body, bounds Bounds) BoundsHit {
	return BoundsHit{
		Top:    b.Y < bounds.MinY,
		Bottom: b.Y+b.H > bounds.MaxY,
	}
}

// ClampToBounds moves the body back inside the bounds and zeroes its
// vertical velocity when a bound was hit. The caller decides what a hit
// means (Cinna Flight ends the round on floor or ceiling contact).
func ClampToBounds(b *Body, bounds Bounds) BoundsHit {
	var hit BoundsHit
	if b.Y < bounds.MinY {
		b.Y = bounds.MinY
		b.VelY = 0
		hit.Top = true
	}
	if b.Y+b.H > bounds.MaxY {
		b.Y = bounds.MaxY - b.H
		b.VelY = 0
		hit.Bottom = true
	}
	return hit
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ValidateForgiveness rejects forgiveness factors outside (0, 1]. Config
// loading calls this so bad values fail at construction instead of being
// silently clamped at collision time.
func ValidateForgiveness(f float64) error {
	if f <= 0 || f > 1 || math.IsNaN(f) {
		return fmt.Errorf("%w: got %v", errForgiveness, f)
	}
	return nil
}
