package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/ecs-bridge/bridge"
	"github.com/wippyai/ecs-bridge/compiler"
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/examples/rotate"
	"github.com/wippyai/ecs-bridge/logging"
	"github.com/wippyai/ecs-bridge/wire"
)

type runOptions struct {
	frames   int
	fps      int
	cubes    int
	assets   string
	velocity float32
}

func newRunCmd(verbose *bool) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the example project with a simulated host",
		Long: `Loads the rotating cube project through the same lifecycle a host
engine uses and advances it frame by frame on a simulated clock. One
spinning cube is spawned up front; cubes the project instantiates are
spawned back with a Falling component, as the host would after
instantiating the prefab.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var logFn logging.Func
			if *verbose {
				logFn = stderrLog(cmd.ErrOrStderr())
			}
			return simulate(cmd.OutOrStdout(), logFn, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.frames, "frames", 240, "Frames to simulate")
	flags.IntVar(&opts.fps, "fps", 60, "Simulated frame rate")
	flags.IntVar(&opts.cubes, "cubes", 5, "spawn_count written to a temporary settings file when --assets is empty")
	flags.StringVar(&opts.assets, "assets", "", "Asset directory holding "+rotate.SettingsFile)
	flags.Float32Var(&opts.velocity, "velocity", 4, "Fall speed given to instantiated cubes")
	return cmd
}

func stderrLog(w io.Writer) logging.Func {
	return func(level logging.Level, msg string) {
		fmt.Fprintf(w, "[%s] %s\n", level, msg)
	}
}

// simHost plays the engine side: it owns handles and answers creates by
// spawning the instantiated cube back into the bridge.
type simHost struct {
	next     uint32
	pending  []ecs.Mat4
	created  int
	updated  int
	removed  []wire.Handle
	live     map[wire.Handle]struct{}
	velocity float32
}

func (h *simHost) handle() wire.Handle {
	h.next++
	return wire.Handle{Index: int32(h.next), Version: 1}
}

func (h *simHost) onCreate(c *compiler.Compiled) bridge.CreateFunc {
	tfTag, _ := c.TransformTag()
	return func(b *wire.Batch) {
		for i := range b.Len() {
			snap, err := b.Snapshot(i)
			if err != nil {
				continue
			}
			for _, r := range snap.Known {
				if r.Tag == tfTag {
					h.pending = append(h.pending, ecs.ReadMat4(r.Payload))
				}
			}
		}
		h.created += b.Len()
	}
}

func (h *simHost) onUpdate(b *wire.Batch) { h.updated += b.Len() }

func (h *simHost) onDestroy(d wire.DestroyBatch) {
	for _, handle := range d {
		delete(h.live, handle)
	}
	h.removed = append(h.removed, d...)
}

func simulate(out io.Writer, logFn logging.Func, opts runOptions) error {
	if opts.fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", opts.fps)
	}
	assets := opts.assets
	if assets == "" {
		dir, err := os.MkdirTemp("", "ecsbridge-run-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		if err := writeSettings(dir, opts.cubes); err != nil {
			return err
		}
		assets = dir
	}

	mock := clock.NewMock()
	ctx, err := bridge.Load(logFn,
		bridge.WithProject(&rotate.Project{}),
		bridge.WithClock(mock),
		bridge.WithLevel(zapcore.DebugLevel),
	)
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Unload() }()

	c := ctx.Compiled()
	h := &simHost{live: map[wire.Handle]struct{}{}, velocity: opts.velocity}
	if err := ctx.Init(assets, h.onCreate(c), h.onUpdate, h.onDestroy); err != nil {
		return err
	}

	enc := newEncoder(c)
	template := h.handle()
	if err := ctx.RegisterPrefabs(wire.PrefabRegistration{RefID: 0, Refs: []wire.Handle{template}}); err != nil {
		return err
	}
	if err := spawn(ctx, h, enc.cube(ecs.Identity, 0.25, nil)); err != nil {
		return err
	}
	if _, err := ctx.Spawn(enc.state(h.handle(), rotate.PrefabCube)); err != nil {
		return err
	}

	frame := time.Second / time.Duration(opts.fps)
	for i := range opts.frames {
		mock.Add(frame)
		if err := ctx.Tick(); err != nil {
			return err
		}
		for _, local := range h.pending {
			fall := &falling{velocity: h.velocity, floor: 0}
			if err := spawn(ctx, h, enc.cube(local, 0, fall)); err != nil {
				return err
			}
		}
		created := len(h.pending)
		h.pending = h.pending[:0]

		if created > 0 || len(h.removed) > 0 {
			fmt.Fprintf(out, "frame %4d  created %d  destroyed %d  live %d\n", i+1, created, len(h.removed), len(h.live))
		}
		h.removed = h.removed[:0]
	}

	fmt.Fprintf(out, "%d frames, %d instantiated, %d entity updates, %d live\n",
		opts.frames, h.created, h.updated, len(h.live))
	return nil
}

func spawn(ctx *bridge.Context, h *simHost, req wire.SpawnRequest) error {
	req.Handle = h.handle()
	if _, err := ctx.Spawn(req); err != nil {
		return err
	}
	h.live[req.Handle] = struct{}{}
	return nil
}

func writeSettings(dir string, count int) error {
	path := filepath.Join(dir, rotate.SettingsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, fmt.Appendf(nil, "spawn_count = %d\n", count), 0o644)
}

type falling struct {
	velocity float32
	floor    float32
}

// encoder builds spawn requests for the example schema.
type encoder struct {
	c        *compiler.Compiled
	tfTag    uint8
	rotate   *compiler.Member
	falling  *compiler.Member
	stateTag uint8
}

func newEncoder(c *compiler.Compiled) *encoder {
	e := &encoder{c: c}
	e.tfTag, _ = c.TransformTag()
	e.rotate, _ = c.Custom.Member("DoRotate")
	e.falling, _ = c.Custom.Member("Falling")
	e.stateTag, _ = c.States.Tag("GameState")
	return e
}

func (e *encoder) cube(local ecs.Mat4, speed float32, fall *falling) wire.SpawnRequest {
	var custom []wire.Record
	if speed != 0 {
		p := make([]byte, e.rotate.Size)
		wire.PutF32(p[e.rotate.Fields[0].Offset:], speed)
		custom = append(custom, wire.Record{Tag: e.rotate.Tag, Payload: p})
	}
	if fall != nil {
		p := make([]byte, e.falling.Size)
		v, _ := e.falling.Field("velocity")
		f, _ := e.falling.Field("floor")
		wire.PutF32(p[v.Offset:], fall.velocity)
		wire.PutF32(p[f.Offset:], fall.floor)
		custom = append(custom, wire.Record{Tag: e.falling.Tag, Payload: p})
	}
	return wire.SpawnRequest{
		Known:       e.c.Builtin.Union.Encode([]wire.Record{{Tag: e.tfTag, Payload: local.Bytes()}}),
		KnownCount:  1,
		Custom:      e.c.Custom.Union.Encode(custom),
		CustomCount: len(custom),
	}
}

func (e *encoder) state(h wire.Handle, ordinal uint8) wire.SpawnRequest {
	return wire.SpawnRequest{
		Handle:     h,
		States:     e.c.States.Union.Encode([]wire.Record{{Tag: e.stateTag, Payload: []byte{ordinal}}}),
		StateCount: 1,
	}
}
