package flock

import (
	"time"
)

// Flock is a fixed-size arena of agents. An agent is identified by its index.
// A Flock is not safe for concurrent use.
type Flock struct {
	agents   []Agent
	params   Params
	steering []Steering
}

// New creates a flock holding a copy of agents.
func New(params Params, agents []Agent) *Flock {
	f := &Flock{
		agents:   make([]Agent, len(agents)),
		params:   params,
		steering: make([]Steering, len(agents)),
	}
	copy(f.agents, agents)
	return f
}

// Len returns the number of agents.
func (f *Flock) Len() int {
	return len(f.agents)
}

// Params returns the current tuning.
func (f *Flock) Params() Params {
	return f.params
}

// SetParams replaces the tuning, it applies from the next step.
func (f *Flock) SetParams(p Params) {
	f.params = p
}

// Agent returns a copy of agent i.
func (f *Flock) Agent(i int) Agent {
	return f.agents[i]
}

// Snapshot returns a copy of every agent, in index order.
func (f *Flock) Snapshot() []Agent {
	snapshot := make([]Agent, len(f.agents))
	copy(snapshot, f.agents)
	return snapshot
}

// Step advances every agent by the same elapsed time.
// All agents read the state from before the step. The returned slice is reused
// by the next call.
func (f *Flock) Step(elapsed time.Duration) []Steering {
	snapshot := f.Snapshot()
	dt := elapsed.Seconds()
	for i := range f.agents {
		f.steering[i] = f.agents[i].Update(snapshot, i, dt, f.params)
	}
	return f.steering
}

// StepAt advances every agent by the time elapsed on its own clock since its
// previous update, then sets that clock to now. An agent that was never
// updated gets a zero elapsed time, so it neither turns nor moves.
func (f *Flock) StepAt(now time.Time) []Steering {
	snapshot := f.Snapshot()
	for i := range f.agents {
		a := &f.agents[i]
		var dt float64
		if !a.LastUpdate.IsZero() && now.After(a.LastUpdate) {
			dt = now.Sub(a.LastUpdate).Seconds()
		}
		f.steering[i] = a.Update(snapshot, i, dt, f.params)
		a.LastUpdate = now
	}
	return f.steering
}

// SetMaxTurnRate changes the turn rate of every agent.
func (f *Flock) SetMaxTurnRate(rate float64) {
	for i := range f.agents {
		f.agents[i].MaxTurnRate = rate
	}
}
