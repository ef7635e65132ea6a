package ecs

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ecs-bridge/errors"
)

func TestSpawnDespawnRecycles(t *testing.T) {
	w := NewWorld()

	a := w.Spawn()
	b := w.Spawn()
	assert.Equal(t, Entity{Index: 0, Generation: 1}, a)
	assert.Equal(t, Entity{Index: 1, Generation: 1}, b)
	assert.Equal(t, 2, w.Len())

	require.True(t, w.Despawn(a))
	assert.False(t, w.Alive(a))
	assert.False(t, w.Despawn(a))

	c := w.Spawn()
	assert.Equal(t, uint32(0), c.Index)
	assert.Equal(t, uint32(2), c.Generation)
	assert.False(t, w.Alive(a), "stale handle stays dead")
	assert.True(t, w.Alive(c))
	assert.False(t, w.Alive(Entity{}))
}

func TestEntityBits(t *testing.T) {
	e := Entity{Index: 7, Generation: 3}
	assert.Equal(t, uint64(7)|uint64(3)<<32, e.Bits())
	assert.Equal(t, e, EntityFromBits(e.Bits()))
}

func TestRegister(t *testing.T) {
	w := NewWorld()

	id, err := w.Register("Speed", 4)
	require.NoError(t, err)
	again, err := w.Register("Speed", 4)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = w.Register("Speed", 8)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindDuplicate})

	got, ok := w.Lookup("Speed")
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, "Speed", w.ComponentName(id))
	assert.Equal(t, 4, w.ComponentSize(id))
	assert.Equal(t, -1, w.ComponentSize(99))
}

func TestComponentStorage(t *testing.T) {
	w := NewWorld()
	speed, _ := w.Register("Speed", 4)
	tag, _ := w.Register("Tag", 0)

	e := w.Spawn()
	require.NoError(t, w.Insert(e, speed, []byte{1, 2}))
	require.NoError(t, w.Insert(e, tag, nil))

	v, ok := w.Get(e, speed)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 0, 0}, v, "short values are zero-extended")
	assert.True(t, w.Has(e, tag))
	assert.Equal(t, []ComponentID{speed, tag}, w.Components(e))

	require.NoError(t, w.Set(e, speed, []byte{9, 9, 9, 9, 9}))
	v, _ = w.Get(e, speed)
	assert.Equal(t, []byte{9, 9, 9, 9}, v)

	assert.True(t, w.Remove(e, speed))
	assert.False(t, w.Has(e, speed))
	assert.Error(t, w.Set(e, speed, []byte{1}))

	require.True(t, w.Despawn(e))
	assert.Error(t, w.Insert(e, speed, nil))
	assert.Error(t, w.Insert(w.Spawn(), ComponentID(42), nil))
}

func TestSwapRemoveKeepsOthers(t *testing.T) {
	w := NewWorld()
	id, _ := w.Register("V", 1)

	es := []Entity{w.Spawn(), w.Spawn(), w.Spawn()}
	for i, e := range es {
		require.NoError(t, w.Insert(e, id, []byte{byte(i + 1)}))
	}
	w.Remove(es[0], id)

	v, ok := w.Get(es[2], id)
	require.True(t, ok)
	assert.Equal(t, []byte{3}, v)
	v, _ = w.Get(es[1], id)
	assert.Equal(t, []byte{2}, v)
}

func TestQueryStableOrder(t *testing.T) {
	w := NewWorld()
	a, _ := w.Register("A", 1)
	b, _ := w.Register("B", 1)

	es := make([]Entity, 5)
	for i := range es {
		es[i] = w.Spawn()
	}
	// insert out of index order
	for _, i := range []int{4, 1, 3} {
		require.NoError(t, w.Insert(es[i], a, nil))
	}
	for _, i := range []int{3, 4, 0} {
		require.NoError(t, w.Insert(es[i], b, nil))
	}

	assert.Equal(t, []Entity{es[1], es[3], es[4]}, w.Query(a))
	assert.Equal(t, []Entity{es[3], es[4]}, w.Query(a, b))
	assert.Nil(t, w.Query(a, ComponentID(99)))
}

func TestChangeTicks(t *testing.T) {
	app := NewApp()
	w := app.World()
	id, _ := w.Register("V", 1)

	var seen [][]Entity
	app.AddSystem(Last, "watch", func(ctx *Ctx) {
		var changed []Entity
		for _, e := range ctx.World.Query(id) {
			if ctx.Changed(e, id) {
				changed = append(changed, e)
			}
		}
		seen = append(seen, changed)
	})

	e := w.Spawn()
	require.NoError(t, w.Insert(e, id, []byte{1}))
	app.Update()

	app.Update()

	v, _ := w.Mut(e, id)
	v[0] = 2
	app.Update()

	require.Len(t, seen, 3)
	assert.Equal(t, []Entity{e}, seen[0], "insert counts as change")
	assert.Empty(t, seen[1])
	assert.Equal(t, []Entity{e}, seen[2])
}

func TestSystemDoesNotSeeOwnWrites(t *testing.T) {
	app := NewApp()
	w := app.World()
	id, _ := w.Register("V", 1)
	e := w.Spawn()
	require.NoError(t, w.Insert(e, id, []byte{0}))

	var counts []int
	app.AddSystem(Update, "bump", func(ctx *Ctx) {
		n := 0
		if ctx.Changed(e, id) {
			n++
		}
		counts = append(counts, n)
		_ = ctx.World.Set(e, id, []byte{byte(len(counts))})
	})

	app.Update()
	app.Update()
	assert.Equal(t, []int{1, 0}, counts)
}

func TestHierarchy(t *testing.T) {
	w := NewWorld()
	p, c1, c2 := w.Spawn(), w.Spawn(), w.Spawn()

	require.NoError(t, w.SetParent(c1, p))
	require.NoError(t, w.SetParent(c2, p))
	assert.Equal(t, []Entity{c1, c2}, w.Children(p))

	parent, ok := w.Parent(c1)
	require.True(t, ok)
	assert.Equal(t, p, parent)

	assert.Error(t, w.SetParent(p, c1), "cycle")
	assert.Error(t, w.SetParent(p, p), "self")

	require.NoError(t, w.SetParent(c1, c2))
	assert.Equal(t, []Entity{c2}, w.Children(p))

	w.Despawn(p)
	_, ok = w.Parent(c2)
	assert.False(t, ok, "children are detached")
	assert.True(t, w.Alive(c2))
}

func TestMat4(t *testing.T) {
	m := Translation(1, 2, 3).Mul(Translation(4, 5, 6))
	x, y, z := m.Position()
	assert.Equal(t, []float32{5, 7, 9}, []float32{x, y, z})

	assert.Equal(t, Identity, Identity.Mul(Identity))
	assert.Equal(t, m, ReadMat4(m.Bytes()))

	r := RotationY(math.Pi / 2).Mul(Translation(1, 0, 0))
	x, _, z = r.Position()
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, -1, z, 1e-6)
}

func TestTransformPropagation(t *testing.T) {
	app := NewApp()
	w := app.World()

	root := w.Spawn()
	child := w.Spawn()
	require.NoError(t, w.InsertTransform(root, Translation(10, 0, 0)))
	require.NoError(t, w.InsertTransform(child, Translation(0, 1, 0)))
	require.NoError(t, w.SetParent(child, root))

	app.Update()

	g, ok := w.Get(child, GlobalTransformID)
	require.True(t, ok)
	x, y, _ := ReadMat4(g).Position()
	assert.Equal(t, float32(10), x)
	assert.Equal(t, float32(1), y)

	before := w.ChangeTick()
	app.Update()
	assert.False(t, w.ChangedSince(child, GlobalTransformID, before), "unchanged global is not rewritten")

	require.NoError(t, w.Set(root, TransformID, Translation(20, 0, 0).Bytes()))
	app.Update()
	g, _ = w.Get(child, GlobalTransformID)
	x, _, _ = ReadMat4(g).Position()
	assert.Equal(t, float32(20), x)
}

func TestChangeDetectionPastUint32(t *testing.T) {
	app := NewApp()
	w := app.World()
	id, err := w.Register("Counter", 4)
	require.NoError(t, err)
	e := w.Spawn()
	require.NoError(t, w.Insert(e, id, []byte{0, 0, 0, 0}))

	var seen int
	app.AddSystem(Update, "watch", func(ctx *Ctx) {
		if ctx.Changed(e, id) {
			seen++
		}
	})
	app.Update()
	require.Equal(t, 1, seen)

	w.tick = math.MaxUint32 - 1
	app.Update()
	assert.Equal(t, 1, seen, "no write, no change")

	require.NoError(t, w.Set(e, id, []byte{1, 0, 0, 0}))
	app.Update()
	assert.Equal(t, 2, seen)
	assert.Greater(t, uint64(w.ChangeTick()), uint64(math.MaxUint32))

	app.Update()
	assert.Equal(t, 2, seen)
}

func TestStates(t *testing.T) {
	app := NewApp()
	w := app.World()

	s, err := w.AddState("GameState", []string{"Menu", "Playing"})
	require.NoError(t, err)
	assert.Equal(t, "Menu", s.CurrentName())

	err = s.SetNext(5)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidEnum})

	require.NoError(t, s.SetNext(1))
	assert.Equal(t, uint8(0), s.Current(), "transition waits for the next update")

	app.Update()
	assert.Equal(t, "Playing", s.CurrentName())
	assert.True(t, s.JustEntered())

	app.Update()
	assert.False(t, s.JustEntered())

	same, err := w.AddState("GameState", nil)
	require.NoError(t, err)
	assert.Same(t, s, same)

	_, err = w.AddState("Empty", nil)
	assert.Error(t, err)
}

type counter struct{ n int }

func TestResources(t *testing.T) {
	w := NewWorld()

	_, ok := GetResource[counter](w)
	assert.False(t, ok)

	SetResource(w, &counter{n: 3})
	c, ok := GetResource[counter](w)
	require.True(t, ok)
	assert.Equal(t, 3, c.n)

	RemoveResource[counter](w)
	_, ok = GetResource[counter](w)
	assert.False(t, ok)

	w.SetNamed("CubePrefabs", c)
	v, ok := w.Named("CubePrefabs")
	require.True(t, ok)
	assert.Same(t, c, v)
}

type warmup struct {
	polls    int
	finished bool
}

func (p *warmup) Build(app *App) {}

func (p *warmup) Ready(app *App) bool {
	p.polls++
	return p.polls >= 3
}

func (p *warmup) Finish(app *App) { p.finished = true }

func TestAppPlugins(t *testing.T) {
	app := NewApp()
	p := &warmup{}
	app.AddPlugin(p)

	for !app.Ready() {
	}
	app.Finish()
	assert.Equal(t, 3, p.polls)
	assert.True(t, p.finished)
	assert.True(t, app.Finished())

	assert.Panics(t, func() { app.AddSystem(Update, "late", func(*Ctx) {}) })
}

func TestStartupRunsOnce(t *testing.T) {
	app := NewApp()
	var order []string
	app.AddSystem(Startup, "boot", func(*Ctx) { order = append(order, "boot") })
	app.AddSystem(Update, "tick", func(*Ctx) { order = append(order, "tick") })
	app.AddSystem(Last, "sync", func(*Ctx) { order = append(order, "sync") })

	app.Update()
	app.Update()

	assert.Equal(t, []string{"boot", "tick", "sync", "tick", "sync"}, order)
	assert.Equal(t, uint64(2), app.Frame())
	assert.Equal(t, []string{"transform_propagate"}, app.Systems(PostUpdate))
}

func TestTimeAdvances(t *testing.T) {
	mock := clock.NewMock()
	app := NewApp(WithClock(mock))

	var deltas []float32
	app.AddSystem(Update, "record", func(ctx *Ctx) {
		tm, ok := GetResource[Time](ctx.World)
		require.True(t, ok)
		deltas = append(deltas, tm.DeltaSeconds())
	})

	app.Update()
	mock.Add(250 * time.Millisecond)
	app.Update()
	mock.Add(time.Second)
	app.Update()

	assert.Equal(t, []float32{0, 0.25, 1}, deltas)
	assert.Equal(t, 1250*time.Millisecond, app.Time().Elapsed())
}

func TestDespawnRecursive(t *testing.T) {
	w := NewWorld()
	root, child, grandchild, other := w.Spawn(), w.Spawn(), w.Spawn(), w.Spawn()
	require.NoError(t, w.SetParent(child, root))
	require.NoError(t, w.SetParent(grandchild, child))

	assert.True(t, w.DespawnRecursive(root))
	assert.False(t, w.Alive(root))
	assert.False(t, w.Alive(child))
	assert.False(t, w.Alive(grandchild))
	assert.True(t, w.Alive(other))
	assert.Equal(t, 1, w.Len())
}
