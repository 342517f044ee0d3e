package less

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_GetWalksParentChain(t *testing.T) {
	root := NewFrame(nil)
	root.Set("@x", Number{Val: 1})

	child := root.Push(nil)

	v, ok := child.Get("@x")
	require.True(t, ok)
	assert.Equal(t, Number{Val: 1}, v)
}

func TestFrame_GetPrefersPrimaryChainOverStoreParent(t *testing.T) {
	declSite := NewFrame(nil)
	declSite.Set("@x", PlainString("decl-site"))

	callSite := NewFrame(nil)
	callSite.Set("@x", PlainString("call-site"))

	frame := callSite.Push(nil)
	frame.StoreParent = declSite

	v, ok := frame.Get("@x")
	require.True(t, ok)
	assert.Equal(t, PlainString("call-site"), v)
}

func TestFrame_GetFallsBackToStoreParentWhenUnset(t *testing.T) {
	declSite := NewFrame(nil)
	declSite.Set("@y", PlainString("from-decl-site"))

	callSite := NewFrame(nil)

	frame := callSite.Push(nil)
	frame.StoreParent = declSite

	v, ok := frame.Get("@y")
	require.True(t, ok)
	assert.Equal(t, PlainString("from-decl-site"), v)
}

func TestFrame_GetReturnsFalseWhenUnbound(t *testing.T) {
	frame := NewFrame(nil)

	_, ok := frame.Get("@never-set")
	assert.False(t, ok)
}

func TestFrame_ArgumentsResolvesSpecialName(t *testing.T) {
	frame := NewFrame(nil)
	frame.Arguments = []Value{Number{Val: 1}, Number{Val: 2}}

	v, ok := frame.Get("@arguments")
	require.True(t, ok)

	list, ok := v.(List)
	require.True(t, ok)
	assert.Len(t, list.Items, 2)
}

func TestFrame_StartSeenDetectsCycle(t *testing.T) {
	frame := NewFrame(nil)

	assert.True(t, frame.StartSeen("@x"))
	assert.False(t, frame.StartSeen("@x"), "second StartSeen for the same name should report a cycle")

	frame.EndSeen("@x")
	assert.True(t, frame.StartSeen("@x"), "after EndSeen the name should be resolvable again")
}
