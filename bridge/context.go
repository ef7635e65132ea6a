package bridge

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/ecs-bridge/compiler"
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/errors"
	"github.com/wippyai/ecs-bridge/logging"
	"github.com/wippyai/ecs-bridge/schema"
	"github.com/wippyai/ecs-bridge/wire"
)

// Lifecycle is the state of a Context.
type Lifecycle uint8

const (
	Unloaded Lifecycle = iota
	Loaded
	Initialized
	Running
)

var lifecycleNames = [...]string{"unloaded", "loaded", "initialized", "running"}

func (l Lifecycle) String() string {
	if int(l) < len(lifecycleNames) {
		return lifecycleNames[l]
	}
	return "unknown"
}

// Callbacks receive the per-update batches. Batches are only valid during
// the call.
type (
	CreateFunc  func(b *wire.Batch)
	UpdateFunc  func(b *wire.Batch)
	DestroyFunc func(handles wire.DestroyBatch)
)

// DefaultReadyTimeout bounds how long Init waits for plugins to warm up.
const DefaultReadyTimeout = 5 * time.Second

// Option configures Load.
type Option func(*config)

type config struct {
	project      Project
	level        zapcore.LevelEnabler
	clock        clock.Clock
	readyTimeout time.Duration
}

// WithProject uses p instead of the project registered with SetProject.
func WithProject(p Project) Option {
	return func(c *config) { c.project = p }
}

// WithLevel sets the minimum level forwarded to the host sink.
func WithLevel(l zapcore.LevelEnabler) Option {
	return func(c *config) { c.level = l }
}

// WithClock sets the clock behind the app's Time resource.
func WithClock(clk clock.Clock) Option {
	return func(c *config) { c.clock = clk }
}

// WithReadyTimeout bounds the plugin warm-up wait in Init.
func WithReadyTimeout(d time.Duration) Option {
	return func(c *config) { c.readyTimeout = d }
}

// Context is one embedded simulation bound to a host. Methods are safe to
// call from any goroutine but run one at a time.
type Context struct {
	mu       sync.Mutex
	sink     logging.Sink
	id       string
	state    Lifecycle
	cfg      config
	log      *zap.Logger
	project  Project
	compiled *compiler.Compiled
	app      *ecs.App
	basePath string

	create  CreateFunc
	update  UpdateFunc
	destroy DestroyFunc

	systems *systems
}

// Load attaches the host log sink, compiles the project's schema and
// returns a Loaded context.
func Load(fn logging.Func, opts ...Option) (*Context, error) {
	cfg := config{
		level:        zapcore.DebugLevel,
		clock:        clock.New(),
		readyTimeout: DefaultReadyTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.project == nil {
		cfg.project = registeredProject()
	}

	c := &Context{id: uuid.NewString(), cfg: cfg}
	c.sink.Attach(fn)
	c.log = logging.New(&c.sink, cfg.level).With(zap.String("context_id", c.id))
	c.log.Info("setting up")

	if cfg.project == nil {
		c.sink.Detach()
		return nil, errors.NotFound(errors.PhaseLoad, "project", "registered")
	}
	compiled, err := compiler.Compile(cfg.project.Schema())
	if err == nil {
		err = checkBoundary(compiled)
	}
	if err != nil {
		c.log.Error("schema rejected", zap.Error(err))
		c.sink.Detach()
		return nil, err
	}

	c.state = Loaded
	c.project = cfg.project
	c.compiled = compiled
	return c, nil
}

// checkBoundary verifies the builtins the bridge systems rely on.
func checkBoundary(c *compiler.Compiled) error {
	h, ok := c.HandleMember()
	if !ok {
		return errors.NotFound(errors.PhaseLoad, "builtin with op", string(schema.OpHandle))
	}
	if len(h.Fields) != 2 || h.Fields[0].Type.Scalar != schema.I32 || h.Fields[1].Type.Scalar != schema.I32 ||
		h.Fields[0].Type.IsArray() || h.Fields[1].Type.IsArray() {
		return errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Path(string(schema.CategoryBuiltin), h.Name).
			Detail("handle builtin must hold two i32 fields: index, version").
			Build()
	}
	if _, ok := c.TransformTag(); !ok {
		return errors.NotFound(errors.PhaseLoad, "builtin with op", string(schema.OpTransform))
	}
	for _, name := range []string{InstantiateEntityName, DestroyEntityName, ecs.TransformName, ecs.GlobalTransformName} {
		if _, _, ok := c.Model.Component(name); ok {
			return errors.Duplicate(errors.PhaseLoad, []string{name}, name)
		}
	}
	return nil
}

func (c *Context) ID() string { return c.id }

// State returns the lifecycle state.
func (c *Context) State() Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BasePath returns the asset directory passed to Init.
func (c *Context) BasePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basePath
}

// App returns the embedded app, or nil before Init and after Unload.
func (c *Context) App() *ecs.App {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.app
}

// Compiled returns the compiled schema, or nil after Unload.
func (c *Context) Compiled() *compiler.Compiled {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compiled
}

func (c *Context) Logger() *zap.Logger { return c.log }

func (c *Context) require(op string, allowed ...Lifecycle) error {
	for _, s := range allowed {
		if c.state == s {
			return nil
		}
	}
	return errors.InvalidState(op, c.state.String())
}

// Init builds the app: schema components, state machines and empty prefab
// resources, the bridge systems, then the project's own setup. It waits for
// every plugin to be ready and freezes the schedule. Nil callbacks drop
// their batches.
func (c *Context) Init(basePath string, create CreateFunc, update UpdateFunc, destroy DestroyFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.require("init", Loaded); err != nil {
		return err
	}
	c.log.Info("called init", zap.String("base_path", basePath))

	c.basePath = basePath
	c.create, c.update, c.destroy = create, update, destroy

	app := ecs.NewApp(ecs.WithLogger(c.log), ecs.WithClock(c.cfg.clock))
	if err := c.compiled.Install(app); err != nil {
		return err
	}
	sys, err := newSystems(c, app.World())
	if err != nil {
		return err
	}
	ecs.SetResource(app.World(), &AssetPath{Dir: basePath})
	app.AddSystem(ecs.Last, "bridge_create", sys.create).
		AddSystem(ecs.Last, "bridge_update", sys.update).
		AddSystem(ecs.Last, "bridge_destroy", sys.destroy)

	c.log.Info("calling setup on project")
	if err := c.project.Setup(app, c.compiled); err != nil {
		return err
	}

	deadline := c.cfg.clock.Now().Add(c.cfg.readyTimeout)
	for !app.Ready() {
		if !c.cfg.clock.Now().Before(deadline) {
			return errors.New(errors.PhaseLoad, errors.KindInvalidState).
				Detail("plugins not ready after %s", c.cfg.readyTimeout).
				Build()
		}
		c.cfg.clock.Sleep(time.Millisecond)
	}
	app.Finish()

	c.app, c.systems = app, sys
	c.state = Initialized
	return nil
}

// AssetPath is the world resource carrying the host's asset directory.
type AssetPath struct {
	Dir string
}

// RegisterPrefabs hands the host templates of one prefab enumeration to
// its resource. An unknown resource id is logged and ignored.
func (c *Context) RegisterPrefabs(reg wire.PrefabRegistration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.require("register_prefabs", Initialized, Running); err != nil {
		return err
	}

	p, ok := c.compiled.PrefabByRefID(reg.RefID)
	if !ok {
		c.log.Warn("missing expected resource", zap.Int32("ref_id", reg.RefID))
		return nil
	}
	res, ok := c.compiled.PrefabResource(c.app.World(), p.Name)
	if !ok {
		c.log.Warn("missing expected resource", zap.Int32("ref_id", reg.RefID), zap.String("name", p.Name))
		return nil
	}

	c.log.Info("loading resource prefabs", zap.Int32("ref_id", reg.RefID), zap.String("name", p.Name))
	if n := res.Insert(reg.Refs); n < len(reg.Refs) {
		c.log.Warn("ignoring extra prefab refs",
			zap.String("name", p.Name),
			zap.Int("declared", len(p.Variants)),
			zap.Int("received", len(reg.Refs)))
	}
	return nil
}

// Spawn creates the embedded twin of a host entity: the host handle is
// stored first, then builtin records are dispatched by tag, then project
// components and state ordinals. On error the partial entity is removed.
func (c *Context) Spawn(req wire.SpawnRequest) (ecs.Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.require("spawn", Initialized, Running); err != nil {
		return ecs.Entity{}, err
	}
	c.state = Running

	w := c.app.World()
	e := w.Spawn()
	if err := c.ingest(w, e, req); err != nil {
		w.Despawn(e)
		c.log.Warn("spawn rejected",
			zap.Int32("index", req.Handle.Index),
			zap.Int32("version", req.Handle.Version),
			zap.Error(err))
		return ecs.Entity{}, err
	}
	return e, nil
}

func (c *Context) ingest(w *ecs.World, e ecs.Entity, req wire.SpawnRequest) error {
	h, _ := c.compiled.HandleMember()
	payload := make([]byte, h.Size)
	wire.PutI32(payload[h.Fields[0].Offset:], req.Handle.Index)
	wire.PutI32(payload[h.Fields[1].Offset:], req.Handle.Version)
	if err := c.compiled.Dispatch[h.Tag](w, e, payload); err != nil {
		return err
	}

	if err := c.compiled.ApplyKnown(w, e, req.Known, req.KnownCount); err != nil {
		return err
	}
	if err := c.compiled.ApplyCustom(w, e, req.Custom, req.CustomCount); err != nil {
		return err
	}
	return c.compiled.ApplyStates(w, e, req.States, req.StateCount)
}

// Tick runs one app update. The bridge systems deliver their batches
// before Tick returns.
func (c *Context) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.require("tick", Initialized, Running); err != nil {
		return err
	}
	c.state = Running
	c.app.Update()
	return nil
}

// Unload detaches the log sink and releases the world and project.
func (c *Context) Unload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.require("unload", Loaded, Initialized, Running); err != nil {
		return err
	}
	c.log.Info("unloading")
	c.sink.Detach()

	c.app = nil
	c.systems = nil
	c.compiled = nil
	c.project = nil
	c.create, c.update, c.destroy = nil, nil, nil
	c.state = Unloaded
	return nil
}
