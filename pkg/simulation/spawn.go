package simulation

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// SpawnFlock scatters cfg.NumBoids boids uniformly over the world with a
// uniformly random heading. The same non-zero seed always yields the same flock.
func SpawnFlock(cfg *Config) *flock.Flock {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	agents := make([]flock.Agent, cfg.NumBoids)
	for i := range agents {
		pos := geometry.Vector2D{
			X: rng.Float64() * cfg.WorldWidth,
			Y: rng.Float64() * cfg.WorldHeight,
		}
		agents[i] = flock.NewAgent(pos, cfg.Speed(), rng.Float64()*geometry.TwoPi, cfg.MaxTurnRate)
	}
	return flock.New(cfg.Params(), agents)
}
