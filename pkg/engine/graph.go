package engine

import (
	"fmt"
	"sort"
)

// Graph is an immutable, validated workflow: a node table, a routing rule
// per node and a designated entry node. Once built it is safe for
// concurrent use by any number of executors.
type Graph struct {
	nodes map[string]Node
	rules map[string]Rule
	entry string
}

// Entry returns the entry node id
func (g *Graph) Entry() string {
	return g.entry
}

// Node returns the node with the given id
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Rule returns the routing rule for the given node id
func (g *Graph) Rule(id string) (Rule, bool) {
	r, ok := g.rules[id]
	return r, ok
}

// NodeIDs returns the node ids in the graph, sorted
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builder assembles a workflow graph. Defects are collected and reported
// together by Build as a GraphDefinitionError.
type Builder struct {
	nodes  map[string]Node
	rules  map[string]Rule
	entry  string
	issues []string
}

// NewBuilder creates an empty graph builder
func NewBuilder() *Builder {
	return &Builder{
		nodes: make(map[string]Node),
		rules: make(map[string]Rule),
	}
}

// AddNode adds a node to the graph. The first node added becomes the entry
// unless SetEntry overrides it.
func (b *Builder) AddNode(node Node) *Builder {
	if node == nil {
		b.issues = append(b.issues, "nil node")
		return b
	}
	if _, exists := b.nodes[node.ID()]; exists {
		b.issues = append(b.issues, fmt.Sprintf("duplicate node '%s'", node.ID()))
		return b
	}
	b.nodes[node.ID()] = node
	if b.entry == "" {
		b.entry = node.ID()
	}
	return b
}

// AddRule sets the routing rule for a node. A node may have exactly one rule.
func (b *Builder) AddRule(nodeID string, rule Rule) *Builder {
	if _, exists := b.rules[nodeID]; exists {
		b.issues = append(b.issues, fmt.Sprintf("duplicate rule for node '%s'", nodeID))
		return b
	}
	b.rules[nodeID] = rule
	return b
}

// SetEntry designates the entry node
func (b *Builder) SetEntry(nodeID string) *Builder {
	b.entry = nodeID
	return b
}

// Build validates the graph and freezes it. It rejects: missing entry,
// rules for unknown nodes, rule or fallback targets that are not present,
// nodes without a rule, and nodes unreachable from the entry.
func (b *Builder) Build() (*Graph, error) {
	issues := append([]string(nil), b.issues...)

	if b.entry == "" {
		issues = append(issues, "no entry node")
	} else if _, ok := b.nodes[b.entry]; !ok {
		issues = append(issues, fmt.Sprintf("entry node '%s' not found", b.entry))
	}

	if len(b.nodes) == 0 {
		issues = append(issues, "graph has no nodes")
	}

	for nodeID := range b.rules {
		if _, ok := b.nodes[nodeID]; !ok {
			issues = append(issues, fmt.Sprintf("rule for unknown node '%s'", nodeID))
		}
	}

	for id, node := range b.nodes {
		rule, ok := b.rules[id]
		if !ok {
			issues = append(issues, fmt.Sprintf("node '%s' has no routing rule", id))
			continue
		}
		for _, target := range rule.targets() {
			if _, ok := b.nodes[target]; !ok {
				issues = append(issues, fmt.Sprintf("node '%s' routes to unknown node '%s'", id, target))
			}
		}
		if fb := node.Policy().Fallback; fb != "" {
			if _, ok := b.nodes[fb]; !ok {
				issues = append(issues, fmt.Sprintf("node '%s' falls back to unknown node '%s'", id, fb))
			}
			if fb == id {
				issues = append(issues, fmt.Sprintf("node '%s' falls back to itself", id))
			}
		}
	}

	if len(issues) == 0 {
		for _, id := range b.unreachable() {
			issues = append(issues, fmt.Sprintf("node '%s' is unreachable from entry", id))
		}
	}

	if len(issues) > 0 {
		sort.Strings(issues)
		return nil, &GraphDefinitionError{Issues: issues}
	}

	g := &Graph{
		nodes: make(map[string]Node, len(b.nodes)),
		rules: make(map[string]Rule, len(b.rules)),
		entry: b.entry,
	}
	for id, node := range b.nodes {
		g.nodes[id] = node
	}
	for id, rule := range b.rules {
		g.rules[id] = rule
	}
	return g, nil
}

// unreachable walks rule and fallback edges from the entry and returns the
// ids of nodes the walk never visits
func (b *Builder) unreachable() []string {
	visited := make(map[string]bool, len(b.nodes))
	queue := []string{b.entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		if rule, ok := b.rules[id]; ok {
			queue = append(queue, rule.targets()...)
		}
		if node, ok := b.nodes[id]; ok {
			if fb := node.Policy().Fallback; fb != "" {
				queue = append(queue, fb)
			}
		}
	}

	var missing []string
	for id := range b.nodes {
		if !visited[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
