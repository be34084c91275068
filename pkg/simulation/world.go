package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/telemetry"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ actor.Actor = (*WorldActor)(nil)

// WorldActor owns the flock. Every mutation goes through its mailbox, so the
// flock is only ever touched by one goroutine.
type WorldActor struct {
	cfg   *Config
	flock *flock.Flock

	// Communication with UI
	snapshotCh chan<- *WorldSnapshot
	recorder   *telemetry.Recorder
	now        func() time.Time

	tick     uint64
	simTime  time.Duration
	lastStep time.Time
	metrics  telemetry.Metrics
	steering []flock.Steering

	// --- Benchmark Stats ---
	ticksSinceLog int
	lastLogTime   time.Time
}

type WorldOption func(w *WorldActor)

// WithSnapshots makes the world push a snapshot after every tick.
// Snapshots are dropped while the receiver is busy.
func WithSnapshots(ch chan<- *WorldSnapshot) WorldOption {
	return func(w *WorldActor) { w.snapshotCh = ch }
}

// WithRecorder writes a telemetry row every cfg.TelemetryEvery ticks.
func WithRecorder(r *telemetry.Recorder) WorldOption {
	return func(w *WorldActor) { w.recorder = r }
}

// WithClock replaces time.Now as the clock of the per-agent clock mode.
func WithClock(now func() time.Time) WorldOption {
	return func(w *WorldActor) { w.now = now }
}

// NewWorldActor creates the world logic unit
func NewWorldActor(cfg *Config, opts ...WorldOption) *WorldActor {
	w := &WorldActor{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	if err := w.cfg.Validate(); err != nil {
		return err
	}
	w.flock = SpawnFlock(w.cfg)
	w.lastLogTime = time.Now()
	ctx.ActorSystem().Logger().Infof("World spawned %d boids on %vx%v", w.flock.Len(), w.cfg.WorldWidth, w.cfg.WorldHeight)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("World started: clock=%s alignment=%s", w.cfg.Clock, w.cfg.Alignment)
		w.pushSnapshot()

	// The Main Simulation Step (Driven by Game Loop)
	case *durationpb.Duration:
		w.step(ctx, msg.AsDuration())

	// Dynamic tuning from sliders or clients
	case *structpb.Struct:
		w.applyUpdate(ctx, msg)

	case *emptypb.Empty:
		stats, err := toStruct(w.stats())
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(stats)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) step(ctx *actor.ReceiveContext, elapsed time.Duration) {
	if elapsed < 0 {
		ctx.Logger().Warnf("ignoring tick with negative duration %v", elapsed)
		return
	}
	if w.cfg.Clock == ClockPerAgent {
		// agents step by their own clock, so the tick duration is ignored
		now := w.now()
		elapsed = 0
		if !w.lastStep.IsZero() && now.After(w.lastStep) {
			elapsed = now.Sub(w.lastStep)
		}
		w.lastStep = now
		w.steering = w.flock.StepAt(now)
	} else {
		w.steering = w.flock.Step(elapsed)
	}
	w.tick++
	w.simTime += elapsed
	w.ticksSinceLog++

	w.metrics = telemetry.Compute(w.flock.Snapshot(), w.steering)
	w.metrics.Tick = w.tick
	w.metrics.SimTime = w.simTime.Seconds()
	if w.recorder.Due(w.tick) {
		if err := w.recorder.Write(w.metrics); err != nil {
			ctx.Logger().Errorf("telemetry: %v", err)
		}
	}

	w.logBenchmarks(ctx)
	w.pushSnapshot()
}

func (w *WorldActor) applyUpdate(ctx *actor.ReceiveContext, update *structpb.Struct) {
	next, err := ApplyUpdate(w.cfg, update)
	if err != nil {
		ctx.Logger().Warnf("rejected config update: %v", err)
		return
	}
	w.cfg = next
	w.flock.SetParams(next.Params())
	w.flock.SetMaxTurnRate(next.MaxTurnRate)
	w.recorder.SetEvery(next.TelemetryEvery)
	ctx.Logger().Infof("Config updated: radius=%v limit=%d thresholds=%v/%v/%v turn=%v alignment=%s",
		next.PerceptionRadius, next.MaxNeighbors,
		next.SeparationDistance, next.CrowdedDistance, next.SparseDistance,
		next.MaxTurnRate, next.Alignment)
}

func (w *WorldActor) stats() *Stats {
	return &Stats{
		Tick:    w.tick,
		SimTime: w.simTime.Seconds(),
		Boids:   w.flock.Len(),
		Metrics: w.metrics,
		Config:  *w.cfg,
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if elapsed := time.Since(w.lastLogTime); elapsed >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %.1f/sec | Boids: %d | Polarization: %.2f | Isolated: %d",
			float64(w.ticksSinceLog)/elapsed.Seconds(), w.flock.Len(), w.metrics.Polarization, w.metrics.Isolated)
		w.ticksSinceLog = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- NewWorldSnapshot(w.tick, w.flock.Params(), w.flock.Snapshot(), w.steering, w.metrics):
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks", w.tick)
	return w.recorder.Close()
}
