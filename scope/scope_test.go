package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/sassgo/scope"
	"github.com/titpetric/sassgo/value"
)

func TestGetMissingVariableIsNullNotError(t *testing.T) {
	s := scope.New()
	require.Same(t, value.TheNull, s.Get("nope"))
}

func TestDefineAndGetWalksParentChain(t *testing.T) {
	root := scope.New()
	root.Define("x", value.Scalar(1), false)

	child := root.Child()
	got := child.Get("x")
	require.True(t, value.Equal(value.Scalar(1), got), "child resolves a variable defined in an ancestor")
}

func TestDefineInChildDoesNotLeakToParent(t *testing.T) {
	root := scope.New()
	child := root.Child()
	child.Define("x", value.Scalar(1), false)

	require.Same(t, value.TheNull, root.Get("x"), "a non-global define in a child must not be visible from the parent")
}

func TestDefineGlobalAscendsToRoot(t *testing.T) {
	root := scope.New()
	mid := root.Child()
	leaf := mid.Child()

	leaf.Define("g", value.Scalar(42), true)

	require.True(t, value.Equal(value.Scalar(42), root.Get("g")), "!global write must land on the root scope")
	require.True(t, value.Equal(value.Scalar(42), mid.Get("g")), "and be visible from every descendant")
}

func TestDefineDefaultOnlyWhenCurrentlyNull(t *testing.T) {
	s := scope.New()
	s.DefineDefault("x", value.Scalar(1), false)
	require.True(t, value.Equal(value.Scalar(1), s.Get("x")))

	s.DefineDefault("x", value.Scalar(2), false)
	require.True(t, value.Equal(value.Scalar(1), s.Get("x")), "define_default must not overwrite an already-bound variable")
}

func TestNameNormalizationDashUnderscoreInterchangeable(t *testing.T) {
	s := scope.New()
	s.Define("font_size", value.Scalar(14), false)
	require.True(t, value.Equal(value.Scalar(14), s.Get("font-size")))
}

func TestMixinLookupClonesOnRetrieval(t *testing.T) {
	s := scope.New()
	m := &scope.Mixin{Name: "box", Params: []string{"a", "b"}}
	s.DefineMixin(m)

	got1, ok := s.GetMixin("box")
	require.True(t, ok)
	got1.Params[0] = "mutated"

	got2, ok := s.GetMixin("box")
	require.True(t, ok)
	require.Equal(t, "a", got2.Params[0], "mutating a retrieved mixin must not affect the stored declaration")
}

func TestMixinLookupWalksParents(t *testing.T) {
	root := scope.New()
	root.DefineMixin(&scope.Mixin{Name: "shared"})

	child := root.Child()
	_, ok := child.GetMixin("shared")
	require.True(t, ok)

	_, ok = child.GetMixin("missing")
	require.False(t, ok)
}

func TestFunctionLookupWalksParents(t *testing.T) {
	root := scope.New()
	root.DefineFunction(&scope.Function{Name: "double", Params: []string{"n"}})

	child := root.Child()
	fn, ok := child.GetFunction("double")
	require.True(t, ok)
	require.Equal(t, "double", fn.Name)
}

func TestRootWalksToOutermostAncestor(t *testing.T) {
	root := scope.New()
	mid := root.Child()
	leaf := mid.Child()

	require.Same(t, root, leaf.Root())
	require.Same(t, root, root.Root())
}

func TestDumpDoesNotPanicAcrossScopeChain(t *testing.T) {
	root := scope.New()
	root.Define("a", value.Scalar(1), false)
	child := root.Child()
	child.Define("b", value.Scalar(2), false)

	var buf writeCounter
	child.Dump(&buf)
	require.Greater(t, buf.n, 0, "Dump should write a non-empty trace across both scope frames")
}

type writeCounter struct{ n int }

func (w *writeCounter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
