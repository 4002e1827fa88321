// Package projectile turns a shooter's pose into dynamic sphere spawn requests
// for the host physics world.
package projectile

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a launched sphere.
const (
	DefaultRadius = 2
	DefaultSpeed  = 50
)

// forward is the local viewing direction of a pose.
var forward = mgl32.Vec3{0, 0, -1}

// Pose is the shooter's world transform.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Forward returns the pose's local -Z axis in world space.
func (p Pose) Forward() mgl32.Vec3 {
	return p.Rotation.Rotate(forward)
}

// Config holds launch parameters.
type Config struct {
	Radius float32 `yaml:"radius"`
	Speed  float32 `yaml:"speed"`
}

// DefaultConfig returns the stock sphere radius and launch speed.
func DefaultConfig() Config {
	return Config{Radius: DefaultRadius, Speed: DefaultSpeed}
}

// Projectile is a spawn request for a dynamic sphere body.
type Projectile struct {
	Position       mgl32.Vec3
	Rotation       mgl32.Quat
	Radius         float32
	LinearVelocity mgl32.Vec3
}

// Launch builds a sphere at the pose moving along its forward axis.
// Zero config values fall back to the defaults.
func Launch(pose Pose, cfg Config) Projectile {
	if cfg.Radius <= 0 {
		cfg.Radius = DefaultRadius
	}
	if cfg.Speed == 0 {
		cfg.Speed = DefaultSpeed
	}
	return Projectile{
		Position:       pose.Position,
		Rotation:       pose.Rotation,
		Radius:         cfg.Radius,
		LinearVelocity: pose.Forward().Mul(cfg.Speed),
	}
}

// Spawner adds bodies to the host physics world.
type Spawner interface {
	Spawn(p Projectile)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(p Projectile)

// Spawn calls f(p).
func (f SpawnerFunc) Spawn(p Projectile) { f(p) }

// Queue buffers shoot events between host frames.
type Queue struct {
	mu      sync.Mutex
	cfg     Config
	pending []Pose
}

// NewQueue creates a queue launching with cfg.
func NewQueue(cfg Config) *Queue {
	return &Queue{cfg: cfg}
}

// Send records a shoot event from pose.
func (q *Queue) Send(pose Pose) {
	q.mu.Lock()
	q.pending = append(q.pending, pose)
	q.mu.Unlock()
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain launches every pending event in send order and returns how many were
// spawned. Events sent during Drain wait for the next call.
func (q *Queue) Drain(s Spawner) int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, pose := range pending {
		s.Spawn(Launch(pose, q.cfg))
	}
	return len(pending)
}
