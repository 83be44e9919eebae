package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayushs/campusguide/internal/domain"
)

func buildMap(edges []struct {
	from, to    string
	weight      float64
	instruction string
}) domain.CampusMap {
	m := make(domain.CampusMap)
	for _, e := range edges {
		m.AddConnection(e.from, e.to, domain.Connection{Weight: e.weight, Instruction: e.instruction})
		m.AddLocation(e.to)
	}
	return m
}

func TestRoute_TwoHopScenario(t *testing.T) {
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"A", "B", 5, "turn left"},
		{"B", "C", 5, "go straight"},
	})

	route := Route(m, "A", "C")
	require.True(t, route.Exists())
	assert.Equal(t, 10.0, route.Cost)
	assert.Equal(t, []string{"A", "B", "C"}, route.Nodes)
	assert.Equal(t, []string{"turn left", "go straight"}, route.Instructions)
}

func TestRoute_PicksCheaperPath(t *testing.T) {
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"A", "B", 1, "via b"},
		{"B", "D", 1, "b to d"},
		{"A", "C", 5, "via c"},
		{"C", "D", 1, "c to d"},
	})

	route := Route(m, "A", "D")
	require.True(t, route.Exists())
	assert.Equal(t, 2.0, route.Cost)
	assert.Equal(t, []string{"A", "B", "D"}, route.Nodes)
}

func TestRoute_MatchesBruteForceOnSmallGraphs(t *testing.T) {
	// Fully enumerable diamond with a tempting greedy trap.
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"S", "A", 1, ""},
		{"S", "B", 4, ""},
		{"A", "B", 1, ""},
		{"A", "T", 10, ""},
		{"B", "T", 2, ""},
	})

	best := bruteForce(m, "S", "T", map[string]bool{"S": true}, 0)
	route := Route(m, "S", "T")
	require.True(t, route.Exists())
	assert.Equal(t, best, route.Cost)
	assert.Equal(t, 4.0, route.Cost) // S->A->B->T

	// Cost equals the sum of traversed edge weights.
	var sum float64
	for i := 0; i+1 < len(route.Nodes); i++ {
		sum += m[route.Nodes[i]][route.Nodes[i+1]].Weight
	}
	assert.Equal(t, route.Cost, sum)
}

func bruteForce(m domain.CampusMap, at, end string, visited map[string]bool, cost float64) float64 {
	if at == end {
		return cost
	}
	best := math.Inf(1)
	for target, conn := range m[at] {
		if visited[target] {
			continue
		}
		visited[target] = true
		if c := bruteForce(m, target, end, visited, cost+conn.Weight); c < best {
			best = c
		}
		delete(visited, target)
	}
	return best
}

func TestRoute_InstructionCountIsNodesMinusOne(t *testing.T) {
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"A", "B", 2, "x"},
		{"B", "C", 2, "y"},
		{"C", "D", 2, "z"},
	})

	for _, end := range []string{"B", "C", "D"} {
		route := Route(m, "A", end)
		require.True(t, route.Exists(), "route to %s", end)
		assert.Len(t, route.Instructions, len(route.Nodes)-1)
	}
}

func TestRoute_StartEqualsEnd(t *testing.T) {
	m := make(domain.CampusMap)
	m.AddLocation("A")

	route := Route(m, "A", "A")
	require.True(t, route.Exists())
	assert.Equal(t, 0.0, route.Cost)
	assert.Equal(t, []string{"A"}, route.Nodes)
	assert.Empty(t, route.Instructions)
}

func TestRoute_NoPath(t *testing.T) {
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"A", "B", 1, ""},
	})
	m.AddLocation("C")

	route := Route(m, "A", "C")
	assert.False(t, route.Exists())
	assert.True(t, math.IsInf(route.Cost, 1))
	assert.Empty(t, route.Nodes)
	assert.Empty(t, route.Instructions)
}

func TestRoute_DirectedEdgesAreNotSymmetric(t *testing.T) {
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"A", "B", 1, "forward"},
	})

	assert.True(t, Route(m, "A", "B").Exists())
	assert.False(t, Route(m, "B", "A").Exists())
}

func TestRoute_UnknownStartBehavesAsNoPath(t *testing.T) {
	m := make(domain.CampusMap)
	m.AddLocation("A")

	route := Route(m, "GHOST", "A")
	assert.False(t, route.Exists())
}

func TestRoute_EqualCostTieIsDeterministic(t *testing.T) {
	// Two cost-2 paths A->B->D and A->C->D. Neighbors expand in
	// lexicographic order, so the B branch is enqueued first and wins.
	m := buildMap([]struct {
		from, to    string
		weight      float64
		instruction string
	}{
		{"A", "B", 1, "via b"},
		{"A", "C", 1, "via c"},
		{"B", "D", 1, "finish b"},
		{"C", "D", 1, "finish c"},
	})

	for i := 0; i < 10; i++ {
		route := Route(m, "A", "D")
		require.True(t, route.Exists())
		assert.Equal(t, []string{"A", "B", "D"}, route.Nodes)
		assert.Equal(t, []string{"via b", "finish b"}, route.Instructions)
	}
}
