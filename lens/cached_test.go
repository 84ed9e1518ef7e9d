package lens

import (
	"reflect"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"
)

// sameMap reports whether two map values share the same backing data,
// i.e. are the identical object rather than merely deep-equal.
func sameMap(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestCachedReturnsSameRecordAcrossReentry(t *testing.T) {
	calls := 0
	var inner Single[TermContainer, Record]
	cached := Cached(func(c TermContainer, rc *RunContext) (Record, error) {
		calls++
		// re-enter for the same focus before returning, like a cyclic
		// shape would (Point.next -> Point).
		again, err := inner(c, rc)
		if err != nil {
			return nil, err
		}
		require.NotNil(t, again)
		return Record{"self": again}, nil
	})
	inner = cached

	rc := NewRunContext()
	c := NewTerm(quad.IRI("p"), nil)
	out, err := cached(c, rc)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.True(t, sameMap(out["self"], Record(out))) // identity-preserving: closes the cycle
}

func TestCachedDistinguishesDifferentLensesOnSameFocus(t *testing.T) {
	c := NewTerm(quad.IRI("p"), nil)
	rc := NewRunContext()

	a := Cached(func(_ TermContainer, _ *RunContext) (Record, error) { return Record{"kind": "a"}, nil })
	b := Cached(func(_ TermContainer, _ *RunContext) (Record, error) { return Record{"kind": "b"}, nil })

	ra, err := a(c, rc)
	require.NoError(t, err)
	rb, err := b(c, rc)
	require.NoError(t, err)
	require.False(t, sameMap(ra, rb))
	require.Equal(t, "a", ra["kind"])
	require.Equal(t, "b", rb["kind"])
}
