package tabular_test

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-ecs/tabular"
	"github.com/tabular-ecs/tabular/types"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	HP int
}

type Label struct {
	Name string
}

func TestCreateAssignsSequentialSlots(t *testing.T) {
	w := tabular.NewWorld()
	const n = 50

	ids, err := w.CreateMany(n)
	require.NoError(t, err)
	require.Len(t, ids, n)

	seen := make(map[types.EntityID]bool, n)
	for i, id := range ids {
		assert.Equal(t, uint32(i), id.Slot())
		assert.Equal(t, uint32(0), id.Generation())
		assert.True(t, w.Valid(id))
		assert.False(t, seen[id], "ids must be distinct")
		seen[id] = true
	}
	assert.Equal(t, n, w.NumEntities())
	assert.Equal(t, n, w.NumAlive())
	assert.Equal(t, 0, w.NumReusable())
}

func TestDestroyRecyclesSlotWithBumpedGeneration(t *testing.T) {
	w := tabular.NewWorld()

	old, err := w.Create()
	require.NoError(t, err)
	_, err = tabular.Assign(w, old, Position{X: 1})
	require.NoError(t, err)

	require.NoError(t, w.Destroy(old))
	assert.False(t, w.Valid(old))

	recycled, err := w.Create()
	require.NoError(t, err)
	assert.Equal(t, old.Slot(), recycled.Slot())
	assert.Equal(t, old.Generation()+1, recycled.Generation())
	assert.True(t, w.Valid(recycled))
	assert.False(t, w.Valid(old), "superseded handles stay invalid")

	// The recycled slot carries nothing from the old occupant.
	assert.False(t, tabular.Has[Position](w, recycled))
}

func TestFreeListIsAStack(t *testing.T) {
	w := tabular.NewWorld()
	ids, err := w.CreateMany(3)
	require.NoError(t, err)

	require.NoError(t, w.Destroy(ids[0]))
	require.NoError(t, w.Destroy(ids[1]))
	require.NoError(t, w.Destroy(ids[2]))

	// Most recently freed slot is reused first.
	for _, wantSlot := range []uint32{2, 1, 0} {
		id, err := w.Create()
		require.NoError(t, err)
		assert.Equal(t, wantSlot, id.Slot())
		assert.Equal(t, uint32(1), id.Generation())
	}
}

func TestRepeatedRecycleBumpsGeneration(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)

	for gen := uint32(1); gen <= 5; gen++ {
		require.NoError(t, w.Destroy(id))
		id, err = w.Create()
		require.NoError(t, err)
		assert.Equal(t, uint32(0), id.Slot())
		assert.Equal(t, gen, id.Generation())
	}
}

func TestAssignHasRemoveLifecycle(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)

	assert.False(t, tabular.Has[Position](w, id))

	p, err := tabular.Assign(w, id, Position{X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, Position{X: 3, Y: 4}, *p)
	assert.True(t, tabular.Has[Position](w, id))

	require.NoError(t, tabular.Remove[Position](w, id))
	assert.False(t, tabular.Has[Position](w, id))

	_, err = tabular.Assign(w, id, Position{X: 1})
	require.NoError(t, err)
	require.NoError(t, w.Destroy(id))
	assert.False(t, tabular.Has[Position](w, id))
}

func TestAssignTwiceFails(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)

	_, err = tabular.Assign(w, id, Position{X: 1})
	require.NoError(t, err)

	_, err = tabular.Assign(w, id, Position{X: 2})
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentAlreadyOnEntity)

	// The live value is untouched.
	p, err := tabular.Get[Position](w, id)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X)
}

func TestAssignOrReplaceSwapsInPlace(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)

	_, err = tabular.AssignOrReplace(w, id, Position{X: 1})
	require.NoError(t, err)
	v := tabular.View1[Position](w)
	require.Equal(t, 1, v.Len())

	_, err = tabular.AssignOrReplace(w, id, Position{X: 2})
	require.NoError(t, err)

	p, err := tabular.Get[Position](w, id)
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.X)
	assert.Equal(t, 1, v.Len(), "replacement does not change group membership")
}

func TestGetContractViolations(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)

	_, err = tabular.Get[Position](w, id)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentNotRegistered)

	tabular.Register[Position](w)
	_, err = tabular.Get[Position](w, id)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentNotOnEntity)

	require.NoError(t, w.Destroy(id))
	_, err = tabular.Get[Position](w, id)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrEntityDoesNotExist)
}

func TestRemoveMissingComponentFails(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)
	tabular.Register[Position](w)

	err = tabular.Remove[Position](w, id)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentNotOnEntity)
}

func TestHasNeverFailsForUnmanagedTypes(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)

	assert.False(t, tabular.Has[Velocity](w, id), "unmanaged type is simply absent")
	assert.False(t, tabular.Has[Velocity](w, types.Nil))

	ok, err := w.Has(id, types.ComponentID(99))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDuplicateComponentIDsRejected(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)

	_, err := w.Create(pos, pos)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrDuplicateComponents)

	_, err = w.View(pos, pos)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrDuplicateComponents)

	_, err = tabular.View2[Position, Position](w)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrDuplicateComponents)
}

func TestCountAndViewNeverDiverge(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)
	vel := tabular.Register[Velocity](w)

	v, err := w.View(pos, vel)
	require.NoError(t, err)

	checkInvariant := func() {
		t.Helper()
		count, err := w.Count(pos, vel)
		require.NoError(t, err)
		assert.Equal(t, v.Len(), count)
	}

	checkInvariant()

	ids, err := w.CreateMany(20, pos)
	require.NoError(t, err)
	checkInvariant()

	for _, id := range ids[:10] {
		_, err := tabular.Assign(w, id, Velocity{DX: 1})
		require.NoError(t, err)
		checkInvariant()
	}

	for _, id := range ids[:5] {
		require.NoError(t, tabular.Remove[Velocity](w, id))
		checkInvariant()
	}

	require.NoError(t, w.DestroyMany(ids[5:10]))
	checkInvariant()
	assert.Equal(t, 0, v.Len())
}

func TestBulkCreateAndDestroyScenario(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)
	vel := tabular.Register[Velocity](w)

	ids, err := w.CreateMany(100, pos, vel)
	require.NoError(t, err)

	count, err := w.Count(pos, vel)
	require.NoError(t, err)
	assert.Equal(t, 100, count)

	require.NoError(t, w.DestroyMany(ids))

	count, err = w.Count(pos, vel)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	for _, id := range ids {
		assert.False(t, w.Valid(id))
	}
}

func TestViewBuiltBeforeEntitiesUpdatesIncrementally(t *testing.T) {
	w := tabular.NewWorld()

	v, err := tabular.View2[Position, Velocity](w)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())

	pos, err := tabular.ID[Position](w)
	require.NoError(t, err)

	id, err := w.Create(pos)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len(), "partial match stays out of the group")

	_, err = tabular.Assign(w, id, Velocity{DX: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())
	assert.True(t, v.Contains(id))
}

func TestRemoveUpdatesExactlyTouchedGroups(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)
	vel := tabular.Register[Velocity](w)
	hp := tabular.Register[Health](w)

	id, err := w.Create(pos, vel, hp)
	require.NoError(t, err)

	pv, err := w.View(pos, vel)
	require.NoError(t, err)
	ph, err := w.View(pos, hp)
	require.NoError(t, err)
	vh, err := w.View(vel, hp)
	require.NoError(t, err)

	require.Equal(t, 1, pv.Len())
	require.Equal(t, 1, ph.Len())
	require.Equal(t, 1, vh.Len())

	require.NoError(t, tabular.Remove[Position](w, id))

	assert.Equal(t, 0, pv.Len())
	assert.Equal(t, 0, ph.Len())
	assert.Equal(t, 1, vh.Len(), "groups not touching the removed column keep the entity")
	assert.True(t, vh.Contains(id))
}

func TestFilterPermutationInvariance(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)
	vel := tabular.Register[Velocity](w)
	hp := tabular.Register[Health](w)

	perms := [][]types.ComponentID{
		{pos, vel, hp},
		{pos, hp, vel},
		{vel, pos, hp},
		{vel, hp, pos},
		{hp, pos, vel},
		{hp, vel, pos},
	}
	views := make([]*tabular.View, len(perms))
	for i, p := range perms {
		v, err := w.View(p...)
		require.NoError(t, err)
		views[i] = v
	}

	// Populate entities with varying component subsets.
	subsets := [][]types.ComponentID{
		{pos}, {vel}, {hp},
		{pos, vel}, {pos, hp}, {vel, hp},
		{pos, vel, hp}, {pos, vel, hp}, {pos, vel, hp},
		nil,
	}
	for _, subset := range subsets {
		_, err := w.Create(subset...)
		require.NoError(t, err)
	}

	collect := func(v *tabular.View) []types.EntityID {
		var out []types.EntityID
		v.Each(func(id types.EntityID) bool {
			out = append(out, id)
			return true
		})
		return out
	}

	want := collect(views[0])
	require.Len(t, want, 3)
	for _, v := range views[1:] {
		assert.Equal(t, views[0].Len(), v.Len())
		assert.ElementsMatch(t, want, collect(v))
	}
}

func TestCloneCopiesValuesIndependently(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)
	vel := tabular.Register[Velocity](w)

	src, err := w.Create()
	require.NoError(t, err)
	_, err = tabular.Assign(w, src, Position{X: 7, Y: 8})
	require.NoError(t, err)
	_, err = tabular.Assign(w, src, Velocity{DX: 1})
	require.NoError(t, err)

	dup, err := w.Clone(src, pos, vel)
	require.NoError(t, err)
	require.NotEqual(t, src, dup)

	dp, err := tabular.Get[Position](w, dup)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 7, Y: 8}, *dp)

	// Clone storage is independent of the source.
	dp.X = 100
	sp, err := tabular.Get[Position](w, src)
	require.NoError(t, err)
	assert.Equal(t, 7.0, sp.X)

	// Clones join the groups their components imply.
	v, err := w.View(pos, vel)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())
}

func TestCloneRequiresSourceComponents(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)

	src, err := w.Create()
	require.NoError(t, err)

	_, err = w.Clone(src, pos)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentNotOnEntity)

	_, err = w.Clone(types.Nil, pos)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrEntityDoesNotExist)

	_, err = w.Clone(src)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrNoComponents)
}

func TestCloneMany(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)

	src, err := w.Create(pos)
	require.NoError(t, err)

	clones, err := w.CloneMany(src, 4, pos)
	require.NoError(t, err)
	require.Len(t, clones, 4)

	count, err := w.Count(pos)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestOrphanStripsComponentsButKeepsEntity(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)
	vel := tabular.Register[Velocity](w)

	id, err := w.Create(pos, vel)
	require.NoError(t, err)
	v, err := w.View(pos, vel)
	require.NoError(t, err)
	require.Equal(t, 1, v.Len())

	require.NoError(t, w.Orphan(id))

	assert.True(t, w.Valid(id))
	assert.False(t, tabular.Has[Position](w, id))
	assert.False(t, tabular.Has[Velocity](w, id))
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 1, w.NumAlive())
}

func TestBatchAssignAndRemove(t *testing.T) {
	w := tabular.NewWorld()
	pos := tabular.Register[Position](w)

	ids, err := w.CreateMany(5)
	require.NoError(t, err)

	require.NoError(t, w.AssignMany(ids, pos))
	count, err := w.Count(pos)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	err = w.AssignMany(ids, pos)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentAlreadyOnEntity)

	require.NoError(t, w.RemoveMany(ids, pos))
	count, err = w.Count(pos)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSizeCapacityEmpty(t *testing.T) {
	w := tabular.NewWorld(tabular.WithChunkSize(4))
	tabular.Register[Position](w)

	empty, err := tabular.Empty[Position](w)
	require.NoError(t, err)
	assert.True(t, empty)

	ids, err := w.CreateMany(3)
	require.NoError(t, err)
	for _, id := range ids {
		_, err := tabular.Assign(w, id, Position{})
		require.NoError(t, err)
	}

	size, err := tabular.Size[Position](w)
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	capacity, err := tabular.Capacity[Position](w)
	require.NoError(t, err)
	assert.Equal(t, 4, capacity, "three values fit in one chunk of four slots")

	empty, err = tabular.Empty[Position](w)
	require.NoError(t, err)
	assert.False(t, empty)

	_, err = tabular.Size[Velocity](w)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrComponentNotRegistered)
}

func TestReserveAndShrinkToFit(t *testing.T) {
	w := tabular.NewWorld(tabular.WithChunkSize(4))

	tabular.ReserveFor[Position](w, 10)
	capacity, err := tabular.Capacity[Position](w)
	require.NoError(t, err)
	assert.Equal(t, 12, capacity)

	require.NoError(t, tabular.ShrinkToFitFor[Position](w))
	capacity, err = tabular.Capacity[Position](w)
	require.NoError(t, err)
	assert.Equal(t, 0, capacity, "no live values, all chunks released")

	id, err := w.Create()
	require.NoError(t, err)
	_, err = tabular.Assign(w, id, Position{X: 1})
	require.NoError(t, err)
	require.NoError(t, tabular.ShrinkToFitFor[Position](w))
	capacity, err = tabular.Capacity[Position](w)
	require.NoError(t, err)
	assert.Equal(t, 4, capacity, "chunks with live values survive")

	p, err := tabular.Get[Position](w, id)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X)
}

func TestWorldCounters(t *testing.T) {
	w := tabular.NewWorld()
	assert.Equal(t, 0, w.NumComponentTypes())

	tabular.Register[Position](w)
	tabular.Register[Velocity](w)
	assert.Equal(t, 2, w.NumComponentTypes())

	ids, err := w.CreateMany(4)
	require.NoError(t, err)
	require.NoError(t, w.Destroy(ids[0]))

	assert.Equal(t, 4, w.NumEntities())
	assert.Equal(t, 3, w.NumAlive())
	assert.Equal(t, 1, w.NumReusable())
}

func TestDestroyInvalidEntityFails(t *testing.T) {
	w := tabular.NewWorld()
	id, err := w.Create()
	require.NoError(t, err)
	require.NoError(t, w.Destroy(id))

	err = w.Destroy(id)
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), tabular.ErrEntityDoesNotExist)
}
