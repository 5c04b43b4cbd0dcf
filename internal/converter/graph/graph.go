// Package graph строит граф маршрутов этажа из узлов nav_node и рёбер nav_edge
// и ищет кратчайший путь между двумя точками.
package graph

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"wayfinding/internal/converter/models"
)

// DefaultTolerance - точки ближе этого расстояния считаются одной вершиной.
const DefaultTolerance = 2.0

var (
	ErrNoVertex = errors.New("point is not on the route graph")
	ErrNoPath   = errors.New("no path between points")
)

// ============================================================
// Graph Types
// ============================================================

type Vertex struct {
	ID       string
	Name     string
	Position orb.Point
}

type edge struct {
	to     int
	weight float64
}

// Graph - неориентированный граф с евклидовыми весами рёбер.
type Graph struct {
	vertices  []Vertex
	adjacency [][]edge
	tolerance float64
}

func (g *Graph) Vertices() []Vertex {
	return g.vertices
}

// Degree - число соседей вершины.
func (g *Graph) Degree(v int) int {
	return len(g.adjacency[v])
}

// ============================================================
// Graph Builder
// ============================================================

type Builder struct {
	tolerance float64
	vertices  []Vertex
	links     []map[int]float64
}

func NewBuilder(tolerance float64) *Builder {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Builder{tolerance: tolerance}
}

// Build собирает граф: сначала узлы nav_node, затем рёбра nav_edge.
// Концы рёбер, не совпавшие ни с одним узлом, становятся новыми вершинами.
func (b *Builder) Build(fc *geojson.FeatureCollection) *Graph {
	b.reset()

	for _, f := range fc.Features {
		if featureType(f) != models.FeatureNavNode {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		v := b.findOrCreateVertex(pt)
		if b.vertices[v].Name == "" {
			b.vertices[v].Name = strings.TrimSpace(stringProp(f, "name"))
		}
	}

	for _, f := range fc.Features {
		if featureType(f) != models.FeatureNavEdge {
			continue
		}
		line, ok := f.Geometry.(orb.LineString)
		if !ok || len(line) < 2 {
			continue
		}
		for i := 1; i < len(line); i++ {
			b.connect(b.findOrCreateVertex(line[i-1]), b.findOrCreateVertex(line[i]))
		}
	}

	return b.graph()
}

func (b *Builder) reset() {
	b.vertices = nil
	b.links = nil
}

// findOrCreateVertex возвращает существующую вершину в пределах tolerance
// или создаёт новую.
func (b *Builder) findOrCreateVertex(p orb.Point) int {
	for i, v := range b.vertices {
		if distance(v.Position, p) < b.tolerance {
			return i
		}
	}
	b.vertices = append(b.vertices, Vertex{
		ID:       fmt.Sprintf("v%d", len(b.vertices)),
		Position: p,
	})
	b.links = append(b.links, map[int]float64{})
	return len(b.vertices) - 1
}

func (b *Builder) connect(a, c int) {
	if a == c {
		return
	}
	w := distance(b.vertices[a].Position, b.vertices[c].Position)
	if old, ok := b.links[a][c]; ok && old <= w {
		return
	}
	b.links[a][c] = w
	b.links[c][a] = w
}

func (b *Builder) graph() *Graph {
	g := &Graph{
		vertices:  b.vertices,
		adjacency: make([][]edge, len(b.vertices)),
		tolerance: b.tolerance,
	}
	for v, links := range b.links {
		edges := make([]edge, 0, len(links))
		for to, w := range links {
			edges = append(edges, edge{to: to, weight: w})
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].to < edges[j].to })
		g.adjacency[v] = edges
	}
	b.reset()
	return g
}

// ============================================================
// Routing
// ============================================================

// Nearest возвращает ближайшую к точке вершину в пределах tolerance.
func (g *Graph) Nearest(p orb.Point) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, v := range g.vertices {
		if d := distance(v.Position, p); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist >= g.tolerance {
		return -1, false
	}
	return best, true
}

// ShortestPath - Дейкстра по индексам вершин. Возвращает вершины пути
// от from до to включительно и его длину.
func (g *Graph) ShortestPath(from, to int) ([]int, float64, error) {
	n := len(g.vertices)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, 0, ErrNoVertex
	}

	dist := make([]float64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[from] = 0

	pq := &queue{{vertex: from}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if cur.dist > dist[cur.vertex] {
			continue
		}
		if cur.vertex == to {
			break
		}
		for _, e := range g.adjacency[cur.vertex] {
			if d := cur.dist + e.weight; d < dist[e.to] {
				dist[e.to] = d
				prev[e.to] = cur.vertex
				heap.Push(pq, item{vertex: e.to, dist: d})
			}
		}
	}

	if math.IsInf(dist[to], 1) {
		return nil, 0, ErrNoPath
	}

	var path []int
	for v := to; v != -1; v = prev[v] {
		path = append(path, v)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[to], nil
}

// Route ищет путь между двумя точками карты. Точки привязываются
// к ближайшим вершинам графа.
func (g *Graph) Route(from, to orb.Point) (orb.LineString, float64, error) {
	start, ok := g.Nearest(from)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %v", ErrNoVertex, from)
	}
	end, ok := g.Nearest(to)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %v", ErrNoVertex, to)
	}

	path, length, err := g.ShortestPath(start, end)
	if err != nil {
		return nil, 0, err
	}
	// Путь из одной вершины не образует линию.
	if len(path) < 2 {
		return nil, 0, ErrNoPath
	}

	line := make(orb.LineString, len(path))
	for i, v := range path {
		line[i] = g.vertices[v].Position
	}
	return line, length, nil
}

// ============================================================
// Helpers
// ============================================================

type item struct {
	vertex int
	dist   float64
}

type queue []item

func (q queue) Len() int            { return len(q) }
func (q queue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x interface{}) { *q = append(*q, x.(item)) }
func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func distance(p1, p2 orb.Point) float64 {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	return math.Sqrt(dx*dx + dy*dy)
}

func featureType(f *geojson.Feature) string {
	return stringProp(f, "type")
}

// stringProp не паникует на нестроковых значениях, в отличие от MustString.
func stringProp(f *geojson.Feature, key string) string {
	s, _ := f.Properties[key].(string)
	return s
}
