package datatype

import (
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/vocab"
)

func TestCoerceBuiltinTypes(t *testing.T) {
	cases := []struct {
		dt   string
		lit  quad.Value
		want any
	}{
		{vocab.Integer, quad.String("5"), int64(5)},
		{vocab.Float, quad.String("3.5"), 3.5},
		{vocab.String, quad.String("hi"), "hi"},
		{vocab.Boolean, quad.String("true"), true},
		{vocab.Boolean, quad.String("false"), false},
		{vocab.AnyURI, quad.String("http://example.org/x"), quad.IRI("http://example.org/x")},
	}
	for _, c := range cases {
		got, err := Coerce(quad.IRI(c.dt), c.lit)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestCoerceDateTime(t *testing.T) {
	got, err := Coerce(quad.IRI(vocab.DateTime), quad.String("2024-01-02T03:04:05Z"))
	require.NoError(t, err)
	want, _ := time.Parse(time.RFC3339, "2024-01-02T03:04:05Z")
	require.Equal(t, want, got)
}

func TestCoerceUnknownDatatypePassesThrough(t *testing.T) {
	lit := quad.String("opaque")
	got, err := Coerce(quad.IRI("http://example.org/customType"), lit)
	require.NoError(t, err)
	require.Equal(t, lit, got)
}

type fakeEnv map[string]string

func (f fakeEnv) Lookup(key string) (string, bool) { v, ok := f[key]; return v, ok }

func envVarQuads(key string, def quad.Value, dt quad.Value) (quad.Value, []quad.Quad) {
	node := quad.BNode("v")
	quads := []quad.Quad{
		{Subject: node, Predicate: quad.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), Object: quad.IRI(vocab.EnvVariable)},
		{Subject: node, Predicate: quad.IRI(vocab.EnvKey), Object: quad.String(key)},
	}
	if def != nil {
		quads = append(quads, quad.Quad{Subject: node, Predicate: quad.IRI(vocab.EnvDefault), Object: def})
	}
	if dt != nil {
		quads = append(quads, quad.Quad{Subject: node, Predicate: quad.IRI(vocab.VarDatatype), Object: dt})
	}
	return node, quads
}

func TestEnvLensResolvesFromEnv(t *testing.T) {
	node, quads := envVarQuads("PORT", quad.String("8080"), quad.IRI(vocab.Integer))
	out, err := EnvLens(fakeEnv{"PORT": "9090"}, nil)(lens.NewTerm(node, quads), lens.NewRunContext())
	require.NoError(t, err)
	require.Equal(t, int64(9090), out)
}

func TestEnvLensFallsBackToDefault(t *testing.T) {
	node, quads := envVarQuads("PORT", quad.String("8080"), quad.IRI(vocab.Integer))
	out, err := EnvLens(fakeEnv{}, nil)(lens.NewTerm(node, quads), lens.NewRunContext())
	require.NoError(t, err)
	require.Equal(t, int64(8080), out)
}

func TestEnvLensFailsWithoutValueOrDefault(t *testing.T) {
	node, quads := envVarQuads("PORT", nil, nil)
	_, err := EnvLens(fakeEnv{}, nil)(lens.NewTerm(node, quads), lens.NewRunContext())
	require.Error(t, err)
	var lensErr *lens.Error
	require.ErrorAs(t, err, &lensErr)
	require.Equal(t, lens.KindEnvUnresolved, lensErr.Kind)
}
