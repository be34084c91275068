package flock

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

const frame = time.Second / 60

// randomAgents scatters n agents uniformly over the world.
func randomAgents(n int, width, height float64, seed uint64) []Agent {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	agents := make([]Agent, n)
	for i := range agents {
		agents[i] = NewAgent(
			geometry.Vector2D{X: rng.Float64() * width, Y: rng.Float64() * height},
			geometry.Vector2D{X: 20, Y: 20},
			rng.Float64()*geometry.TwoPi,
			1.0,
		)
	}
	return agents
}

func TestFlock_StepKeepsInvariants(t *testing.T) {
	// 150 agents on 640x480 put nearest neighbors on both sides of every threshold
	p := DefaultParams(640, 480)
	f := New(p, randomAgents(150, p.WorldWidth, p.WorldHeight, 7))
	limit := frame.Seconds() * 1.0

	seen := map[Rule]int{}
	for tick := 0; tick < 300; tick++ {
		before := f.Snapshot()
		steering := f.Step(frame)
		for i := 0; i < f.Len(); i++ {
			a := f.Agent(i)
			seen[steering[i].Rule]++
			if a.Position.X < 0 || a.Position.X >= p.WorldWidth || a.Position.Y < 0 || a.Position.Y >= p.WorldHeight {
				t.Fatalf("tick %d agent %d: position %v outside the world", tick, i, a.Position)
			}
			if a.Heading < 0 || a.Heading >= geometry.TwoPi {
				t.Fatalf("tick %d agent %d: heading %v outside [0, 2π)", tick, i, a.Heading)
			}
			turn := geometry.NormalizeAngle(a.Heading - before[i].Heading)
			if turn > math.Pi {
				turn -= geometry.TwoPi
			}
			if math.Abs(turn) > limit+tolerance {
				t.Fatalf("tick %d agent %d: turned %v; limit %v", tick, i, turn, limit)
			}
		}
	}

	for _, r := range []Rule{RuleAlignment, RuleCohesion, RuleSeparation} {
		if seen[r] == 0 {
			t.Errorf("rule %v never selected", r)
		}
	}
}

func TestFlock_UpdateOrderDoesNotMatter(t *testing.T) {
	p := DefaultParams(200, 150)
	snapshot := randomAgents(120, p.WorldWidth, p.WorldHeight, 42)
	dt := frame.Seconds()

	forward := make([]Agent, len(snapshot))
	copy(forward, snapshot)
	for i := range forward {
		forward[i].Update(snapshot, i, dt, p)
	}

	backward := make([]Agent, len(snapshot))
	copy(backward, snapshot)
	for i := len(backward) - 1; i >= 0; i-- {
		backward[i].Update(snapshot, i, dt, p)
	}

	shuffled := make([]Agent, len(snapshot))
	copy(shuffled, snapshot)
	for _, i := range rand.New(rand.NewPCG(1, 2)).Perm(len(shuffled)) {
		shuffled[i].Update(snapshot, i, dt, p)
	}

	f := New(p, snapshot)
	f.Step(frame)

	for i := range snapshot {
		if forward[i] != backward[i] || forward[i] != shuffled[i] {
			t.Fatalf("agent %d differs between update orders: %+v / %+v / %+v", i, forward[i], backward[i], shuffled[i])
		}
		if got := f.Agent(i); got != forward[i] {
			t.Fatalf("Step agent %d = %+v; want %+v", i, got, forward[i])
		}
	}
}

func TestFlock_NeighborCapLimitsRules(t *testing.T) {
	p := DefaultParams(640, 480)
	agents := make([]Agent, 200)
	agents[0] = agentAt(100, 100, 0.3)
	for i := 1; i < len(agents); i++ {
		heading := 1.0
		if i > p.MaxNeighbors {
			heading = 3.0
		}
		agents[i] = agentAt(100+float64(i)*0.2, 120, heading)
	}
	f := New(p, agents)

	s := f.Step(frame)[0]

	if s.Neighbors != p.MaxNeighbors {
		t.Errorf("Neighbors = %d; want %d", s.Neighbors, p.MaxNeighbors)
	}
	if s.Alignment != 1.0 {
		t.Errorf("Alignment = %v; want 1 (only the first %d agents seen)", s.Alignment, p.MaxNeighbors)
	}
}

func TestFlock_StepAtUsesEachAgentClock(t *testing.T) {
	p := DefaultParams(640, 480)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	agents := []Agent{agentAt(100, 100, math.Pi/2), agentAt(400, 300, math.Pi/2)}
	agents[1].LastUpdate = start.Add(-500 * time.Millisecond)
	f := New(p, agents)

	f.StepAt(start)

	if got := f.Agent(0); !got.Position.Eq(agents[0].Position) {
		t.Errorf("first update moved agent 0 to %v; want no move", got.Position)
	}
	if got := f.Agent(1).Position.X; !near(got, 410) {
		t.Errorf("agent 1 X = %v; want 410 after 0.5s at 20/s", got)
	}

	f.StepAt(start.Add(time.Second))

	if got := f.Agent(0).Position.X; !near(got, 120) {
		t.Errorf("agent 0 X = %v; want 120 after 1s at 20/s", got)
	}
	if got := f.Agent(1).LastUpdate; !got.Equal(start.Add(time.Second)) {
		t.Errorf("agent 1 LastUpdate = %v; want %v", got, start.Add(time.Second))
	}
}

func TestFlock_SnapshotIsACopy(t *testing.T) {
	f := New(DefaultParams(640, 480), []Agent{agentAt(1, 2, 0)})

	snap := f.Snapshot()
	snap[0].Position = geometry.Vector2D{X: 99, Y: 99}

	if got := f.Agent(0).Position; !got.Eq(geometry.Vector2D{X: 1, Y: 2}) {
		t.Errorf("Agent(0).Position = %v; want (1, 2)", got)
	}
}

func TestAgent_ShapeFollowsHeading(t *testing.T) {
	a := agentAt(100, 100, math.Pi/2)
	v := a.Vertices()

	want := [3]geometry.Vector2D{{X: 105, Y: 100}, {X: 95, Y: 95}, {X: 95, Y: 105}}
	for i := range v {
		if !v[i].Eq(want[i]) {
			t.Errorf("Vertices()[%d] = %v; want %v", i, v[i], want[i])
		}
	}

	// many small turns must land on the same shape as one fresh rotation
	b := agentAt(0, 0, 0)
	for i := 0; i < 10000; i++ {
		b.Heading = geometry.NormalizeAngle(b.Heading + 0.001)
	}
	fresh := agentAt(0, 0, b.Heading).Shape()
	if b.Shape() != fresh {
		t.Errorf("Shape() = %v; want %v", b.Shape(), fresh)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
		want   error
	}{
		{"defaults", func(p *Params) {}, nil},
		{"empty world", func(p *Params) { p.WorldWidth = 0 }, ErrInvalidWorld},
		{"radius", func(p *Params) { p.PerceptionRadius = -1 }, ErrInvalidRadius},
		{"limit", func(p *Params) { p.MaxNeighbors = 0 }, ErrInvalidLimit},
		{"thresholds", func(p *Params) { p.CrowdedDistance = -3 }, ErrInvalidThresholds},
		{"alignment", func(p *Params) { p.Alignment = "median" }, ErrInvalidAlignment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams(640, 480)
			tt.modify(&p)
			err := p.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v; want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v; want %v", err, tt.want)
			}
		})
	}
}

func BenchmarkFlock_Step(b *testing.B) {
	p := DefaultParams(640, 480)
	f := New(p, randomAgents(500, p.WorldWidth, p.WorldHeight, 3))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Step(frame)
	}
}

func TestFlock_SetMaxTurnRate(t *testing.T) {
	f := New(DefaultParams(640, 480), []Agent{agentAt(1, 1, 0), agentAt(300, 300, 1)})

	f.SetMaxTurnRate(2.5)

	for i := 0; i < f.Len(); i++ {
		if got := f.Agent(i).MaxTurnRate; got != 2.5 {
			t.Errorf("Agent(%d).MaxTurnRate = %v; want 2.5", i, got)
		}
	}
}
