package model

import "sort"

// Graph is the immutable production network consumed by the simulation
// engine. Built once by BuildGraph; accessors never expose mutable
// internals beyond the shared Node/Edge pointers, which the engine treats
// as read-only.
type Graph struct {
	nodes    map[string]*Node
	order    []string // declaration order, for deterministic iteration
	edges    []*Edge
	inbound  map[string][]*Edge
	outbound map[string][]*Edge
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Edges returns all edges in declaration order.
func (g *Graph) Edges() []*Edge {
	return append([]*Edge(nil), g.edges...)
}

// Inbound returns the edges targeting the given node, in declaration order.
func (g *Graph) Inbound(id string) []*Edge {
	return append([]*Edge(nil), g.inbound[id]...)
}

// InboundByPriority returns the inbound edges sorted ascending by priority;
// ties keep declaration order. Multi-source replenishment serves sources
// in this order.
func (g *Graph) InboundByPriority(id string) []*Edge {
	edges := g.Inbound(id)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Priority < edges[j].Priority
	})
	return edges
}

// Outbound returns the edges originating at the given node.
func (g *Graph) Outbound(id string) []*Edge {
	return append([]*Edge(nil), g.outbound[id]...)
}

// Downstream returns the ids of nodes directly downstream of id.
func (g *Graph) Downstream(id string) []string {
	edges := g.outbound[id]
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Target)
	}
	return out
}

// IncomingTransit sums the in-flight transit quantity declared on edges
// targeting the given node.
func (g *Graph) IncomingTransit(id string) int {
	var sum int
	for _, e := range g.inbound[id] {
		sum += e.TransitQty
	}
	return sum
}
