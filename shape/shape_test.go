package shape

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
	"github.com/stretchr/testify/require"

	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/vocab"
)

func tr(s, p, o quad.Value) quad.Quad {
	return quad.Quad{Subject: s, Predicate: p, Object: o}
}

func nodeShapeQuads(shapeID quad.Value, targetClass quad.Value, fields ...[]quad.Quad) []quad.Quad {
	var out []quad.Quad
	out = append(out,
		tr(shapeID, quad.IRI(rdf.Type).Full(), quad.IRI(vocab.NodeShape)),
		tr(shapeID, quad.IRI(vocab.TargetClass), targetClass),
	)
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

// scalarPropQuads builds a `sh:property [sh:path <pred>; sh:name name;
// sh:minCount min; sh:maxCount max; sh:datatype dt]` block attached to
// shapeID, returning its quads. A negative max omits sh:maxCount
// (unbounded).
func scalarPropQuads(shapeID quad.Value, propID quad.Value, pred quad.Value, name string, min, max int, dt quad.Value) []quad.Quad {
	qs := []quad.Quad{
		tr(shapeID, quad.IRI(vocab.Property), propID),
		tr(propID, quad.IRI(vocab.Path), pred),
		tr(propID, quad.IRI(vocab.Name), quad.String(name)),
		tr(propID, quad.IRI(vocab.MinCount), quad.Int(min)),
		tr(propID, quad.IRI(vocab.Datatype), dt),
	}
	if max >= 0 {
		qs = append(qs, tr(propID, quad.IRI(vocab.MaxCount), quad.Int(max)))
	}
	return qs
}

func classField(shapeID quad.Value, propID quad.Value, pred quad.Value, name string, min, max int, class quad.Value) []quad.Quad {
	qs := []quad.Quad{
		tr(shapeID, quad.IRI(vocab.Property), propID),
		tr(propID, quad.IRI(vocab.Path), pred),
		tr(propID, quad.IRI(vocab.Name), quad.String(name)),
		tr(propID, quad.IRI(vocab.MinCount), quad.Int(min)),
		tr(propID, quad.IRI(vocab.Class), class),
	}
	if max >= 0 {
		qs = append(qs, tr(propID, quad.IRI(vocab.MaxCount), quad.Int(max)))
	}
	return qs
}

func pointShapeQuads() []quad.Quad {
	var out []quad.Quad
	out = append(out, nodeShapeQuads(quad.IRI("PointShape"), quad.IRI("Point"),
		scalarPropQuads(quad.IRI("PointShape"), quad.BNode("px"), quad.IRI("x"), "x", 1, 1, quad.IRI(vocab.Integer)),
		scalarPropQuads(quad.IRI("PointShape"), quad.BNode("py"), quad.IRI("y"), "y", 1, 1, quad.IRI(vocab.Integer)),
	)...)
	return out
}

// TestPointExtraction exercises scenario S1.
func TestPointExtraction(t *testing.T) {
	shapeQuads := pointShapeQuads()
	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)

	l, ok := shapes.Cache.Get(quad.IRI("Point").String())
	require.True(t, ok)

	dataQuads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("x"), quad.Int(5)),
		tr(quad.IRI("a"), quad.IRI("y"), quad.Int(8)),
	}
	out, err := l(lens.NewTerm(quad.IRI("a"), dataQuads), lens.NewRunContext())
	require.NoError(t, err)
	rec := out.(lens.Record)
	require.Equal(t, int64(5), rec["x"])
	require.Equal(t, int64(8), rec["y"])
}

// TestExtractionIsDeterministic exercises property 1: running the same
// lens against the same focus and quad set twice yields equal records,
// each run getting its own RunContext.
func TestExtractionIsDeterministic(t *testing.T) {
	shapeQuads := pointShapeQuads()
	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)
	l, ok := shapes.Cache.Get(quad.IRI("Point").String())
	require.True(t, ok)

	dataQuads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("x"), quad.Int(5)),
		tr(quad.IRI("a"), quad.IRI("y"), quad.Int(8)),
	}

	out1, err := l(lens.NewTerm(quad.IRI("a"), dataQuads), lens.NewRunContext())
	require.NoError(t, err)
	out2, err := l(lens.NewTerm(quad.IRI("a"), dataQuads), lens.NewRunContext())
	require.NoError(t, err)
	require.Equal(t, out1, out2)

	// A fresh RunContext each call must not change the result: the
	// memo is an optimization, not a source of hidden state.
	out3, err := l(lens.NewTerm(quad.IRI("a"), dataQuads), lens.NewRunContext())
	require.NoError(t, err)
	require.Equal(t, out1, out3)
}

// TestMissingRequiredFieldFails exercises scenario S2.
func TestMissingRequiredFieldFails(t *testing.T) {
	shapeQuads := pointShapeQuads()
	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)

	l, ok := shapes.Cache.Get(quad.IRI("Point").String())
	require.True(t, ok)

	dataQuads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("x"), quad.Int(5)),
	}
	_, err = l(lens.NewTerm(quad.IRI("a"), dataQuads), lens.NewRunContext())
	require.Error(t, err)
	var lensErr *lens.Error
	require.ErrorAs(t, err, &lensErr)
	require.Equal(t, lens.KindMissingRequired, lensErr.Kind)
}

// TestCardinalityEnforcement exercises property 5: minCount=1
// maxCount=1 raises on zero and on two matches.
func TestCardinalityEnforcement(t *testing.T) {
	shapeQuads := nodeShapeQuads(quad.IRI("S"), quad.IRI("T"),
		scalarPropQuads(quad.IRI("S"), quad.BNode("f"), quad.IRI("v"), "v", 1, 1, quad.IRI(vocab.Integer)),
	)
	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)
	l, _ := shapes.Cache.Get(quad.IRI("T").String())

	_, err = l(lens.NewTerm(quad.IRI("a"), nil), lens.NewRunContext())
	require.Error(t, err)

	twoMatches := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("v"), quad.Int(1)),
		tr(quad.IRI("a"), quad.IRI("v"), quad.Int(2)),
	}
	_, err = l(lens.NewTerm(quad.IRI("a"), twoMatches), lens.NewRunContext())
	require.Error(t, err)
	var lensErr *lens.Error
	require.ErrorAs(t, err, &lensErr)
	require.Equal(t, lens.KindCardinality, lensErr.Kind)
}

// TestListValuedField exercises scenario S5: an RDF-list-valued
// unbounded field.
func TestListValuedField(t *testing.T) {
	shapeQuads := nodeShapeQuads(quad.IRI("S"), quad.IRI("T"),
		scalarPropQuads(quad.IRI("S"), quad.BNode("f"), quad.IRI("string"), "strings", 0, -1, quad.IRI(vocab.String)),
	)
	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)
	l, _ := shapes.Cache.Get(quad.IRI("T").String())

	head := quad.Value(quad.IRI(rdf.Nil).Full())
	var listQuads []quad.Quad
	for i, v := range []string{"3", "2", "1"} {
		node := quad.BNode("ls" + string(rune('0'+i)))
		listQuads = append(listQuads,
			tr(node, quad.IRI(rdf.First).Full(), quad.String(v)),
			tr(node, quad.IRI(rdf.Rest).Full(), head),
		)
		head = node
	}
	dataQuads := append(listQuads, tr(quad.IRI("p"), quad.IRI("string"), head))

	out, err := l(lens.NewTerm(quad.IRI("p"), dataQuads), lens.NewRunContext())
	require.NoError(t, err)
	rec := out.(lens.Record)
	require.Equal(t, []any{"1", "2", "3"}, rec["strings"])
}

// TestSubclassDispatch exercises property 7 and scenario S6: extracting
// a 3DPoint-typed node through TypedExtract yields the union of Point's
// and 3DPoint's fields, with 3DPoint able to override Point.
func TestSubclassDispatch(t *testing.T) {
	var shapeQuads []quad.Quad
	shapeQuads = append(shapeQuads, pointShapeQuads()...)
	shapeQuads = append(shapeQuads, nodeShapeQuads(quad.IRI("3DPointShape"), quad.IRI("3DPoint"),
		scalarPropQuads(quad.IRI("3DPointShape"), quad.BNode("pz"), quad.IRI("z"), "z", 1, 1, quad.IRI(vocab.Integer)),
	)...)
	shapeQuads = append(shapeQuads, tr(quad.IRI("3DPoint"), quad.IRI(rdfs.SubClassOf).Full(), quad.IRI("Point")))

	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)
	dispatcher, ok := shapes.Cache.Get(vocab.TypedExtract)
	require.True(t, ok)

	dataQuads := []quad.Quad{
		tr(quad.IRI("p"), quad.IRI(rdf.Type).Full(), quad.IRI("3DPoint")),
		tr(quad.IRI("p"), quad.IRI("x"), quad.Int(1)),
		tr(quad.IRI("p"), quad.IRI("y"), quad.Int(2)),
		tr(quad.IRI("p"), quad.IRI("z"), quad.Int(3)),
	}
	out, err := dispatcher(lens.NewTerm(quad.IRI("p"), dataQuads), lens.NewRunContext())
	require.NoError(t, err)
	rec := out.(lens.Record)
	require.Equal(t, int64(1), rec["x"])
	require.Equal(t, int64(2), rec["y"])
	require.Equal(t, int64(3), rec["z"])

	// typed only as Point: no z field, no error.
	pointOnly := []quad.Quad{
		tr(quad.IRI("q"), quad.IRI(rdf.Type).Full(), quad.IRI("Point")),
		tr(quad.IRI("q"), quad.IRI("x"), quad.Int(4)),
		tr(quad.IRI("q"), quad.IRI("y"), quad.Int(5)),
	}
	out, err = dispatcher(lens.NewTerm(quad.IRI("q"), pointOnly), lens.NewRunContext())
	require.NoError(t, err)
	rec = out.(lens.Record)
	require.NotContains(t, rec, "z")

	// no rdf:type at all: TypedExtract fails with KindNoType.
	_, err = dispatcher(lens.NewTerm(quad.IRI("r"), nil), lens.NewRunContext())
	require.Error(t, err)
	var lensErr *lens.Error
	require.ErrorAs(t, err, &lensErr)
	require.Equal(t, lens.KindNoType, lensErr.Kind)
}

// TestCycleSafety exercises property 6: a shape whose field of class X
// references class X terminates and returns the shared identity on
// both visits.
func TestCycleSafety(t *testing.T) {
	shapeQuads := nodeShapeQuads(quad.IRI("NodeShape1"), quad.IRI("Node"),
		classField(quad.IRI("NodeShape1"), quad.BNode("pn"), quad.IRI("next"), "next", 0, 1, quad.IRI("Node")),
	)
	shapes, err := ExtractShapes(shapeQuads, nil, nil)
	require.NoError(t, err)
	l, ok := shapes.Cache.Get(quad.IRI("Node").String())
	require.True(t, ok)

	// a -> a (self-loop)
	dataQuads := []quad.Quad{
		tr(quad.IRI("a"), quad.IRI("next"), quad.IRI("a")),
	}
	rc := lens.NewRunContext()
	out, err := l(lens.NewTerm(quad.IRI("a"), dataQuads), rc)
	require.NoError(t, err)
	rec := out.(lens.Record)
	next1, ok := rec["next"].(lens.Record)
	require.True(t, ok)
	next2, ok := next1["next"].(lens.Record)
	require.True(t, ok)
	// both visits to the cyclic "next" field return the identical
	// Record object, not merely an equal-valued copy.
	require.True(t, sameMap(next1, next2))
}

func sameMap(a, b lens.Record) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	// reference equality via a probe write, since plain maps don't
	// support reflect.DeepEqual identity checks.
	a["__probe__"] = struct{}{}
	_, ok := b["__probe__"]
	delete(a, "__probe__")
	return ok
}
