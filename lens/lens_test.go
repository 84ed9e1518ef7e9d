package lens

import (
	"strconv"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"
)

func tr(s, p, o quad.Value) quad.Quad {
	return quad.Quad{Subject: s, Predicate: p, Object: o}
}

func TestMapOverExpectOne(t *testing.T) {
	quads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("name"), quad.String("alice")),
	}
	c := NewTerm(quad.IRI("a"), quads)
	rc := NewRunContext()

	toString := Map(ExpectOne(Pred(quad.IRI("name"))), func(c TermContainer) (string, error) {
		return string(c.ID.(quad.String)), nil
	})
	out, err := toString(c, rc)
	require.NoError(t, err)
	require.Equal(t, "alice", out)
}

func TestOrFallsThroughAndClonesLineage(t *testing.T) {
	quads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("y"), quad.Int(8)),
	}
	c := NewTerm(quad.IRI("a"), quads)
	rc := NewRunContext()

	missingX := ExpectOne(Pred(quad.IRI("x")))
	hasY := ExpectOne(Pred(quad.IRI("y")))
	combined := Or(missingX, hasY)

	out, err := combined(c, rc)
	require.NoError(t, err)
	require.Equal(t, quad.Int(8), out.ID)
	// the failed "x" branch must not have leaked a frame onto rc.
	require.Empty(t, rc.lineage)
}

func TestOrAllAlternativesFail(t *testing.T) {
	c := NewTerm(quad.IRI("a"), nil)
	rc := NewRunContext()
	combined := Or(ExpectOne(Pred(quad.IRI("x"))), ExpectOne(Pred(quad.IRI("y"))))
	_, err := combined(c, rc)
	require.Error(t, err)
	var multi *MultiError
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Errors, 2)
}

func TestThenAllStrictVsThenSomeTolerant(t *testing.T) {
	quads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("item"), quad.Int(1)),
		tr(quad.IRI("a"), quad.IRI("item"), quad.String("nope")),
	}
	c := NewTerm(quad.IRI("a"), quads)

	asInt := func(c TermContainer, _ *RunContext) (int64, error) {
		i, ok := c.ID.(quad.Int)
		if !ok {
			return 0, NewError(NewRunContext(), KindOther, "not an int")
		}
		return int64(i), nil
	}

	strict := ThenAll(Pred(quad.IRI("item")), asInt)
	_, err := strict(c, NewRunContext())
	require.Error(t, err)

	tolerant := ThenSome(Pred(quad.IRI("item")), asInt)
	out, err := tolerant(c, NewRunContext())
	require.NoError(t, err)
	require.Equal(t, []int64{1}, out)
}

func TestReduceSum(t *testing.T) {
	quads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("n"), quad.Int(1)),
		tr(quad.IRI("a"), quad.IRI("n"), quad.Int(2)),
		tr(quad.IRI("a"), quad.IRI("n"), quad.Int(3)),
	}
	c := NewTerm(quad.IRI("a"), quads)

	nums := MapAll(Pred(quad.IRI("n")), func(c TermContainer) (int, error) {
		return int(c.ID.(quad.Int)), nil
	})
	sum := Reduce(nums, func(v int, acc int) (int, error) {
		return acc + v, nil
	}, func(_ TermContainer, _ *RunContext) (int, error) { return 0, nil })

	out, err := sum(c, NewRunContext())
	require.NoError(t, err)
	require.Equal(t, 6, out)
}

func TestFilter(t *testing.T) {
	quads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("n"), quad.Int(1)),
		tr(quad.IRI("a"), quad.IRI("n"), quad.Int(2)),
		tr(quad.IRI("a"), quad.IRI("n"), quad.Int(3)),
	}
	c := NewTerm(quad.IRI("a"), quads)
	even := Filter(Pred(quad.IRI("n")), func(c TermContainer) bool {
		return int64(c.ID.(quad.Int))%2 == 0
	})
	out, err := even(c, NewRunContext())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, quad.Int(2), out[0].ID)
}

func TestNamedPushesLineageOnFailure(t *testing.T) {
	c := NewTerm(quad.IRI("a"), nil)
	rc := NewRunContext()
	named := Named("y-field", nil, nil, ExpectOne(Pred(quad.IRI("y"))))
	_, err := named(c, rc)
	require.Error(t, err)
	var lensErr *Error
	require.ErrorAs(t, err, &lensErr)
	require.Len(t, lensErr.Lineage, 1)
	require.Equal(t, "y-field", lensErr.Lineage[0].Name)
	// the frame must be popped once Named returns.
	require.Empty(t, rc.lineage)
}

func TestAndSliceMergesRecords(t *testing.T) {
	makeField := func(name string, v int) Single[TermContainer, Record] {
		return func(_ TermContainer, _ *RunContext) (Record, error) {
			return Record{name: strconv.Itoa(v)}, nil
		}
	}
	merged := AndSlice([]Single[TermContainer, Record]{
		makeField("x", 1), makeField("y", 2),
	}, func(rs []Record) (Record, error) {
		out := Record{}
		for _, r := range rs {
			for k, v := range r {
				out[k] = v
			}
		}
		return out, nil
	})
	out, err := merged(NewTerm(quad.IRI("a"), nil), NewRunContext())
	require.NoError(t, err)
	require.Equal(t, Record{"x": "1", "y": "2"}, out)
}
