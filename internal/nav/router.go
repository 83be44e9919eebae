// Package nav computes least-cost routes over a campus map, pairing every hop
// with the human-readable instruction stored on the connection.
package nav

import (
	"container/heap"
	"math"
	"sort"

	"github.com/aayushs/campusguide/internal/domain"
)

// Route runs Dijkstra's algorithm from start to end. On success it returns
// the total cost, the node sequence including both endpoints, and the
// parallel instruction sequence (one entry per traversed connection). When no
// path exists the cost is +Inf and both sequences are empty.
//
// Determinism: a node's outgoing connections are expanded in lexicographic
// target-name order, and equal-cost queue entries pop in insertion order, so
// routes are reproducible for a fixed map. A start or end name absent from
// the map simply yields "no path"; callers wanting a distinct "unknown
// location" reply must check presence themselves.
func Route(m domain.CampusMap, start, end string) domain.Route {
	queue := &entryQueue{}
	heap.Init(queue)
	heap.Push(queue, &entry{node: start})

	seen := make(map[string]struct{}, len(m))
	seq := 0

	for queue.Len() > 0 {
		cur := heap.Pop(queue).(*entry)
		if _, ok := seen[cur.node]; ok {
			continue
		}
		seen[cur.node] = struct{}{}

		nodes := appendCopy(cur.nodes, cur.node)
		if cur.node == end {
			return domain.Route{
				Cost:         cur.cost,
				Nodes:        nodes,
				Instructions: cur.instructions,
			}
		}

		for _, target := range sortedTargets(m[cur.node]) {
			if _, ok := seen[target]; ok {
				continue
			}
			conn := m[cur.node][target]
			seq++
			heap.Push(queue, &entry{
				cost:         cur.cost + conn.Weight,
				seq:          seq,
				node:         target,
				nodes:        nodes,
				instructions: appendCopy(cur.instructions, conn.Instruction),
			})
		}
	}

	return domain.Route{Cost: math.Inf(1)}
}

// entry is a frontier item: the accumulated cost, the node it reaches, and
// the node/instruction paths taken to get there. The paths exclude the node
// itself; it is appended when the entry is settled.
type entry struct {
	cost         float64
	seq          int
	node         string
	nodes        []string
	instructions []string
}

type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}

func (q entryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *entryQueue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func sortedTargets(conns map[string]domain.Connection) []string {
	if len(conns) == 0 {
		return nil
	}
	targets := make([]string, 0, len(conns))
	for target := range conns {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// appendCopy never shares backing arrays between frontier entries.
func appendCopy(s []string, v string) []string {
	out := make([]string, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}
