package ecs

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Stage orders systems within one update.
type Stage uint8

const (
	Startup Stage = iota // once, before the first update
	Update
	PostUpdate // transform propagation runs first here
	Last

	numStages
)

var stageNames = [...]string{"startup", "update", "post_update", "last"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Ctx is passed to every system run. Changes stamped after LastRun are new
// to this system.
type Ctx struct {
	World   *World
	Log     *zap.Logger
	LastRun Tick
	ThisRun Tick
}

// Changed reports whether e's component changed since this system last ran.
func (c *Ctx) Changed(e Entity, id ComponentID) bool {
	return c.World.ChangedSince(e, id, c.LastRun)
}

// Added reports whether e's component was inserted since this system last ran.
func (c *Ctx) Added(e Entity, id ComponentID) bool {
	return c.World.AddedSince(e, id, c.LastRun)
}

// SystemFunc is one scheduled system.
type SystemFunc func(*Ctx)

type system struct {
	name    string
	run     SystemFunc
	lastRun Tick
}

// Plugin configures an app when added.
type Plugin interface {
	Build(app *App)
}

// ReadyPlugin delays readiness until its own warm-up completes.
type ReadyPlugin interface {
	Ready(app *App) bool
}

// FinishPlugin runs once after every plugin is ready.
type FinishPlugin interface {
	Finish(app *App)
}

// App drives a World through a fixed stage schedule.
type App struct {
	world      *World
	log        *zap.Logger
	clock      clock.Clock
	time       *Time
	stages     [numStages][]*system
	plugins    []Plugin
	finished   bool
	startupRan bool
	frame      uint64
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets the logger handed to systems.
func WithLogger(l *zap.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithClock sets the clock behind the Time resource.
func WithClock(c clock.Clock) AppOption {
	return func(a *App) {
		if c != nil {
			a.clock = c
		}
	}
}

// NewApp returns an app over a fresh World with a Time resource and
// transform propagation scheduled in PostUpdate.
func NewApp(opts ...AppOption) *App {
	a := &App{world: NewWorld(), log: zap.NewNop(), clock: clock.New()}
	for _, opt := range opts {
		opt(a)
	}
	a.time = newTime(a.clock)
	SetResource(a.world, a.time)
	a.AddSystem(PostUpdate, "transform_propagate", PropagateTransforms)
	return a
}

func (a *App) World() *World       { return a.world }
func (a *App) Logger() *zap.Logger { return a.log }
func (a *App) Time() *Time         { return a.time }

// Frame returns the number of completed updates.
func (a *App) Frame() uint64 { return a.frame }

// AddSystem appends a system to a stage. Systems in one stage run in the
// order they were added. The schedule is frozen once Finish has run.
func (a *App) AddSystem(stage Stage, name string, fn SystemFunc) *App {
	if a.finished {
		panic("ecs: AddSystem " + name + " after Finish")
	}
	a.stages[stage] = append(a.stages[stage], &system{name: name, run: fn})
	return a
}

// AddPlugin builds p into the app.
func (a *App) AddPlugin(p Plugin) *App {
	if a.finished {
		panic("ecs: AddPlugin after Finish")
	}
	a.plugins = append(a.plugins, p)
	p.Build(a)
	return a
}

// Ready reports whether every plugin has finished warming up.
func (a *App) Ready() bool {
	for _, p := range a.plugins {
		if rp, ok := p.(ReadyPlugin); ok && !rp.Ready(a) {
			return false
		}
	}
	return true
}

// Finish runs plugin finish hooks once and freezes the schedule.
func (a *App) Finish() {
	if a.finished {
		return
	}
	for _, p := range a.plugins {
		if fp, ok := p.(FinishPlugin); ok {
			fp.Finish(a)
		}
	}
	a.finished = true
}

func (a *App) Finished() bool { return a.finished }

// Systems lists the scheduled system names of a stage.
func (a *App) Systems(stage Stage) []string {
	names := make([]string, len(a.stages[stage]))
	for i, s := range a.stages[stage] {
		names[i] = s.name
	}
	return names
}

// Update runs one step: the clock advances, startup systems run on the
// first call, queued state transitions apply, then Update, PostUpdate and
// Last.
func (a *App) Update() {
	a.time.advance()
	if !a.startupRan {
		a.runStage(Startup)
		a.startupRan = true
	}
	a.world.applyStateTransitions()
	for stage := Update; stage < numStages; stage++ {
		a.runStage(stage)
	}
	a.frame++
}

func (a *App) runStage(stage Stage) {
	for _, s := range a.stages[stage] {
		this := a.world.incrementTick()
		s.run(&Ctx{World: a.world, Log: a.log, LastRun: s.lastRun, ThisRun: this})
		s.lastRun = this
		// Writes made after this system returns must look newer than
		// its own run on the next update.
		a.world.incrementTick()
	}
}
