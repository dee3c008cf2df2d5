package main

import (
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/softengine/pkg/math3d"
)

// Spring tuning. Frequency 4 with damping 1 is critically damped: fast
// deceleration without overshoot.
const (
	springFrequency = 4.0
	springDamping   = 1.0

	keyImpulse  = 0.05 // radians per frame added by one key press
	spinImpulse = 0.15 // range of a random spin, radians per frame

	zoomStep = 1.0
	zoomMin  = 2.5
	zoomMax  = 40.0
)

// RotationAxis is the angular velocity of one axis, decayed toward zero
// by a spring.
type RotationAxis struct {
	Velocity float64

	spring harmonica.Spring
	accel  float64 // spring velocity of Velocity itself
}

// NewRotationAxis creates a resting axis ticking at fps.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
	}
}

// Update returns the rotation to apply this frame and decays the velocity.
func (a *RotationAxis) Update() float64 {
	delta := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	return delta
}

// RotationState holds the user rotation impulses for pitch, yaw and roll.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

// Update returns this frame's rotation as Euler angles (X pitch, Y yaw,
// Z roll).
func (r *RotationState) Update() math3d.Vec3 {
	return math3d.V3(r.Pitch.Update(), r.Yaw.Update(), r.Roll.Update())
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// RandomImpulse spins the model in a random direction.
func (r *RotationState) RandomImpulse() {
	r.ApplyImpulse(
		(rand.Float64()-0.5)*spinImpulse,
		(rand.Float64()-0.5)*spinImpulse,
		(rand.Float64()-0.5)*spinImpulse,
	)
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Zoom eases the camera distance toward a target with a spring.
type Zoom struct {
	Distance float64
	Target   float64

	spring harmonica.Spring
	vel    float64
}

func NewZoom(fps int, distance float64) *Zoom {
	return &Zoom{
		Distance: distance,
		Target:   distance,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
	}
}

// In moves the target distance closer.
func (z *Zoom) In() {
	z.Target = max(zoomMin, z.Target-zoomStep)
}

// Out moves the target distance farther.
func (z *Zoom) Out() {
	z.Target = min(zoomMax, z.Target+zoomStep)
}

// Update advances the spring one frame and returns the new distance.
func (z *Zoom) Update() float64 {
	z.Distance, z.vel = z.spring.Update(z.Distance, z.vel, z.Target)
	return z.Distance
}
