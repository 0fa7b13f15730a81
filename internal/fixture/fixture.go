// Package fixture loads YAML-defined graphs and serves their adjacency in the
// neighbor-lookup wire format. It backs local development and tests.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/persistorai/graphcrawl/client"
)

// Graph is an adjacency list keyed by node ID.
//
//	neighbors:
//	  A: [B, C]
//	  B: [D]
type Graph struct {
	Neighbors map[string][]string `yaml:"neighbors"`

	known map[string]struct{}
}

// Parse decodes a YAML graph. Nodes that only appear as neighbors are leaves.
func Parse(data []byte) (*Graph, error) {
	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	if err := g.index(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Load reads and parses a YAML graph file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	return Parse(data)
}

// FromMap builds a graph from an in-memory adjacency list.
func FromMap(adj map[string][]string) *Graph {
	g := &Graph{Neighbors: adj}
	if err := g.index(); err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) index() error {
	if g.Neighbors == nil {
		g.Neighbors = map[string][]string{}
	}
	g.known = make(map[string]struct{}, len(g.Neighbors))
	for id, ns := range g.Neighbors {
		if id == "" {
			return fmt.Errorf("graph: empty node id")
		}
		g.known[id] = struct{}{}
		for _, n := range ns {
			if n == "" {
				return fmt.Errorf("graph: node %q has an empty neighbor id", id)
			}
			g.known[n] = struct{}{}
		}
	}
	return nil
}

// Len returns the number of distinct nodes in the graph.
func (g *Graph) Len() int {
	return len(g.known)
}

// Lookup returns the neighbors of id and whether the node exists.
func (g *Graph) Lookup(id string) ([]string, bool) {
	if _, ok := g.known[id]; !ok {
		return nil, false
	}
	ns := g.Neighbors[id]
	if ns == nil {
		ns = []string{}
	}
	return ns, true
}

// Fetch serves a lookup in-process, without a network round-trip. Unknown
// nodes fail the way a 404 from the lookup service would.
func (g *Graph) Fetch(ctx context.Context, node string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &client.FetchError{Node: node, Err: err}
	}
	ns, ok := g.Lookup(node)
	if !ok {
		return nil, &client.FetchError{Node: node, StatusCode: 404, Body: "node not found"}
	}
	payload, err := json.Marshal(client.NeighborResponse{Neighbors: ns})
	if err != nil {
		return nil, &client.FetchError{Node: node, Err: err}
	}
	return payload, nil
}
