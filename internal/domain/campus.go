package domain

import "math"

// Default values applied when the graph store carries no explicit weight or
// instruction on a connection.
const (
	DefaultWeight      = 1.0
	DefaultInstruction = "move forward"
)

// Connection is a directed, weighted edge between two locations. Instruction
// is the human-readable action for traversing it ("turn left towards the
// lift"). A reverse connection may exist with a different weight and
// instruction, or not at all.
type Connection struct {
	Weight      float64
	Instruction string
}

// CampusMap is the adjacency view of the location graph: location name to its
// outgoing connections keyed by target name. Every known location is present
// as a key even when it has no outgoing connections, so terminal nodes remain
// reachable and lookups never fail.
type CampusMap map[string]map[string]Connection

// AddLocation registers a location with an empty edge set if it is not
// already present.
func (m CampusMap) AddLocation(name string) {
	if _, ok := m[name]; !ok {
		m[name] = make(map[string]Connection)
	}
}

// AddConnection records a directed edge, creating the source entry if
// missing. Duplicate (source, target) pairs overwrite the previous value.
func (m CampusMap) AddConnection(source, target string, conn Connection) {
	if conn.Weight <= 0 {
		conn.Weight = DefaultWeight
	}
	if conn.Instruction == "" {
		conn.Instruction = DefaultInstruction
	}
	m.AddLocation(source)
	m[source][target] = conn
}

// Contains reports whether the location exists in the map.
func (m CampusMap) Contains(name string) bool {
	_, ok := m[name]
	return ok
}

// Route is the result of a shortest-path computation. Nodes runs from start
// to end inclusive; Instructions[i] describes the move from Nodes[i] to
// Nodes[i+1], so len(Instructions) == len(Nodes)-1 for any successful route.
// A route with no path has infinite cost and empty sequences.
type Route struct {
	Cost         float64
	Nodes        []string
	Instructions []string
}

// Exists reports whether the computation found a path.
func (r Route) Exists() bool {
	return !math.IsInf(r.Cost, 1) && len(r.Nodes) > 0
}
