// Package render draws a running world in an ebiten window.
package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

var whiteImage = ebiten.NewImage(3, 3)

var ruleColors = map[string]color.RGBA{
	flock.RuleNone.String():       {R: 230, G: 230, B: 230, A: 255},
	flock.RuleAlignment.String():  {R: 90, G: 160, B: 255, A: 255},
	flock.RuleCohesion.String():   {R: 110, G: 220, B: 110, A: 255},
	flock.RuleSeparation.String(): {R: 255, G: 90, B: 80, A: 255},
}

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	system     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *simulation.WorldSnapshot
	lastState  *simulation.WorldSnapshot
	cfg        *simulation.Config
	logger     golog.Logger
	paused     bool

	// UI Controls
	panel             *ui.Panel
	widgetPerception  *ui.Slider
	widgetNeighbors   *ui.Slider
	widgetSeparation  *ui.Slider
	widgetCrowded     *ui.Slider
	widgetSparse      *ui.Slider
	widgetTurnRate    *ui.Slider
	widgetCircular    *ui.Checkbox
	widgetShowRadius  *ui.Checkbox
	widgetColourRules *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the world actor in system and builds the control panel.
func NewGame(ctx context.Context, system actor.ActorSystem, cfg *simulation.Config, logger golog.Logger) (*Game, error) {
	snapshotCh := make(chan *simulation.WorldSnapshot, 2)
	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(cfg, simulation.WithSnapshots(snapshotCh)))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		system:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.WorldSnapshot{WorldWidth: cfg.WorldWidth, WorldHeight: cfg.WorldHeight},
		cfg:        cfg,
		logger:     logger,
	}

	panel := ui.NewPanel(10, 10, 220, math.Min(cfg.WorldHeight-20, 420), "Flock [H]ide [Space] pause")
	panel.AddSection("Perception")
	g.widgetPerception = panel.AddSlider("Radius", 5, 200, 1, cfg.PerceptionRadius)
	g.widgetNeighbors = panel.AddSlider("Max neighbors", 1, 256, 1, float64(cfg.MaxNeighbors))

	panel.AddSection("Thresholds")
	g.widgetSeparation = panel.AddSlider("Separation", 0, 50, 0.5, cfg.SeparationDistance)
	g.widgetCrowded = panel.AddSlider("Crowded", 0, 50, 0.5, cfg.CrowdedDistance)
	g.widgetSparse = panel.AddSlider("Sparse", 0, 100, 0.5, cfg.SparseDistance)

	panel.AddSection("Steering")
	g.widgetTurnRate = panel.AddSlider("Turn rate rad/s", 0, 6, 0.05, cfg.MaxTurnRate)
	g.widgetCircular = panel.AddCheckbox("Circular alignment", cfg.Alignment == flock.AlignmentCircular)

	panel.AddSection("Display")
	g.widgetShowRadius = panel.AddCheckbox("Perception circles", false)
	g.widgetColourRules = panel.AddCheckbox("Colour by rule", true)
	panel.AddButton("Pause / resume", g.togglePause)
	g.panel = panel

	return g, nil
}

func (g *Game) togglePause() {
	g.paused = !g.paused
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Hidden = !g.panel.Hidden
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	g.panel.Update()
	g.sendTuning()

	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	if !g.paused {
		elapsed := time.Second / time.Duration(ebiten.TPS())
		if err := g.system.NoSender().Tell(g.ctx, g.worldPID, simulation.NewTick(elapsed)); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
	}
	return nil
}

// sendTuning forwards the widgets that changed since the last frame.
func (g *Game) sendTuning() {
	changes := map[string]interface{}{}
	sliders := map[string]*ui.Slider{
		"perceptionRadius":   g.widgetPerception,
		"maxNeighbors":       g.widgetNeighbors,
		"separationDistance": g.widgetSeparation,
		"crowdedDistance":    g.widgetCrowded,
		"sparseDistance":     g.widgetSparse,
		"maxTurnRate":        g.widgetTurnRate,
	}
	for key, s := range sliders {
		if s.Changed() {
			changes[key] = s.Value
		}
	}
	if g.widgetCircular.Changed() {
		mode := flock.AlignmentArithmetic
		if g.widgetCircular.Value {
			mode = flock.AlignmentCircular
		}
		changes["alignment"] = string(mode)
	}
	if len(changes) == 0 {
		return
	}

	update, err := simulation.NewConfigUpdate(changes)
	if err != nil {
		g.logger.Warnf("ignoring panel update: %v", err)
		return
	}
	if err := g.system.NoSender().Tell(g.ctx, g.worldPID, update); err != nil {
		g.logger.Warnf("failed to send panel update: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	for _, b := range g.lastState.Boids {
		if g.widgetShowRadius.Value {
			vector.StrokeCircle(screen,
				float32(b.Position.X), float32(b.Position.Y),
				float32(g.widgetPerception.Value),
				1, color.RGBA{R: 90, G: 90, B: 120, A: 90}, true)
		}
		clr := ruleColors[flock.RuleNone.String()]
		if g.widgetColourRules.Value {
			clr = ruleColors[b.Rule]
		}
		drawBoid(screen, b, clr)
	}

	g.panel.Draw(screen)
	g.drawStats(screen)
}

func (g *Game) drawStats(screen *ebiten.Image) {
	m := g.lastState.Metrics
	status := ""
	if g.paused {
		status = "PAUSED\n"
	}
	msg := fmt.Sprintf("%sTick: %d\nFPS: %.1f TPS: %.1f\nUpdate: %.2fms Draw: %.2fms\n\nPolarization: %.2f\nNearest: %.1f ± %.1f\nIsolated: %d\nAlign/Coh/Sep: %d/%d/%d",
		status, g.lastState.Tick,
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.updateAvg, g.drawAvg,
		m.Polarization, m.NearestMean, m.NearestStdDev, m.Isolated,
		m.Alignment, m.Cohesion, m.Separation)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-200, 10)
}

// drawBoid fills the boid's triangle.
func drawBoid(screen *ebiten.Image, b simulation.BoidView, clr color.RGBA) {
	r, g, bl, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	vertices := make([]ebiten.Vertex, 3)
	for i, v := range b.Vertices {
		vertices[i] = ebiten.Vertex{
			DstX: float32(v.X),
			DstY: float32(v.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: bl, ColorA: a,
		}
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}
