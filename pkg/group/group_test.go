package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/group"
)

const defaultGroup = "Default"

func newMap(t *testing.T) *group.Map[string, string] {
	t.Helper()

	m, err := group.New[string, string](defaultGroup)
	require.NoError(t, err)

	return m
}

func TestMap_DefaultGroupIsIndexZero(t *testing.T) {
	t.Parallel()

	m := newMap(t)

	assert.Equal(t, 0, m.GroupIndex(defaultGroup))
	assert.Equal(t, -1, m.GroupIndex("G9"))
	assert.Equal(t, 1, m.GroupCount())
	assert.Equal(t, defaultGroup, m.Group("anything"))
	assert.Equal(t, []string{defaultGroup}, m.Groups())
}

func TestMap_GroupLeavesAndRejoinsAtEnd(t *testing.T) {
	t.Parallel()

	m := newMap(t)

	require.NoError(t, m.MapKeyToGroup("K1", "G1"))
	assert.Equal(t, 1, m.GroupIndex("G1"))

	require.NoError(t, m.MapKeyToGroup("K3", "G2"))
	assert.Equal(t, 2, m.GroupIndex("G2"))

	m.UnmapKey("K1")
	assert.Equal(t, -1, m.GroupIndex("G1"))
	assert.Equal(t, defaultGroup, m.Group("K1"))
	assert.Equal(t, 1, m.GroupIndex("G2"))

	require.NoError(t, m.MapKeyToGroup("K2", "G1"))
	assert.Equal(t, 2, m.GroupIndex("G1"))
	assert.Equal(t, []string{defaultGroup, "G2", "G1"}, m.Groups())
}

func TestMap_ReassignKeepsGroupWithOtherMembers(t *testing.T) {
	t.Parallel()

	m := newMap(t)

	require.NoError(t, m.MapKeyToGroup("K1", "G1"))
	require.NoError(t, m.MapKeyToGroup("K2", "G1"))
	require.NoError(t, m.MapKeyToGroup("K1", "G2"))

	assert.Equal(t, 1, m.GroupIndex("G1"))
	assert.Equal(t, 2, m.GroupIndex("G2"))
	assert.Equal(t, 1, m.KeyCount("G1"))

	// Re-mapping to the same group keeps it.
	require.NoError(t, m.MapKeyToGroup("K2", "G1"))
	assert.Equal(t, 1, m.GroupIndex("G1"))
}

func TestMap_ExplicitDefaultMapping(t *testing.T) {
	t.Parallel()

	m := newMap(t)

	require.NoError(t, m.MapKeyToGroup("K1", "G1"))
	require.NoError(t, m.MapKeyToGroup("K1", defaultGroup))

	assert.Equal(t, -1, m.GroupIndex("G1"))
	assert.Equal(t, 1, m.GroupCount())
	// Only explicit mappings are counted, never-mapped keys are not.
	assert.Equal(t, 1, m.KeyCount(defaultGroup))
}

func TestMap_NilHandling(t *testing.T) {
	t.Parallel()

	_, err := group.New[string, any](nil)
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	m, err := group.New[any, any]("D")
	require.NoError(t, err)

	require.ErrorIs(t, m.MapKeyToGroup(nil, "G"), dataset.ErrInvalidArgument)

	require.NoError(t, m.MapKeyToGroup("K", "G"))
	require.NoError(t, m.MapKeyToGroup("K", nil))
	assert.Equal(t, "D", m.Group("K"))
	assert.Equal(t, -1, m.GroupIndex("G"))
}

type node struct {
	name string
}

func TestMap_TypedNilPointers(t *testing.T) {
	t.Parallel()

	var nilNode *node

	_, err := group.New[string, *node](nilNode)
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	_, err = group.New[string, any](nilNode)
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	def, g := &node{name: "D"}, &node{name: "G"}

	m, err := group.New[*node, *node](def)
	require.NoError(t, err)

	require.ErrorIs(t, m.MapKeyToGroup(nilNode, g), dataset.ErrInvalidArgument)

	key := &node{name: "K"}
	require.NoError(t, m.MapKeyToGroup(key, g))
	assert.Equal(t, 2, m.GroupCount())

	require.NoError(t, m.MapKeyToGroup(key, nilNode))
	assert.Same(t, def, m.Group(key))
	assert.Equal(t, 1, m.GroupCount())
	assert.Equal(t, -1, m.GroupIndex(g))
}

type label struct {
	name *string
}

func (l label) Clone() label {
	n := *l.name

	return label{name: &n}
}

func TestMap_CloneUsesCloner(t *testing.T) {
	t.Parallel()

	def, g1 := "def", "g1"

	m, err := group.New[string, label](label{name: &def})
	require.NoError(t, err)
	require.NoError(t, m.MapKeyToGroup("K", label{name: &g1}))

	c := m.Clone()
	cloned := c.Group("K")

	require.NotSame(t, m.Group("K").name, cloned.name)
	assert.Equal(t, "g1", *cloned.name)
	assert.Equal(t, 1, c.KeyCount(cloned))
}

func TestMap_CloneEqual(t *testing.T) {
	t.Parallel()

	m := newMap(t)
	require.NoError(t, m.MapKeyToGroup("K1", "G1"))

	c := m.Clone()
	assert.True(t, m.Equal(c))

	require.NoError(t, c.MapKeyToGroup("K2", "G2"))
	assert.False(t, m.Equal(c))
}

func TestMap_CloneKeepsGroupIdentity(t *testing.T) {
	t.Parallel()

	def, g1 := "def", "g1"

	m, err := group.New[string, label](label{name: &def})
	require.NoError(t, err)
	require.NoError(t, m.MapKeyToGroup("K", label{name: &g1}))

	c := m.Clone()
	assert.Equal(t, 1, c.GroupIndex(c.Group("K")))
}
