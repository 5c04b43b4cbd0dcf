package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"wayfinding/internal/converter/models"
)

// ============================================================
// Renderer
// ============================================================

const (
	minPadding    = 10.0
	paddingRatio  = 0.02
	strokeDivisor = 500.0
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render рисует карту в SVG: зоны навигации, стены, рёбра и узлы маршрута.
// Ось Y чертежа направлена вверх, поэтому при выводе она переворачивается.
func (r *Renderer) Render(fc *geojson.FeatureCollection) (string, error) {
	if fc == nil || len(fc.Features) == 0 {
		return "", fmt.Errorf("feature collection is empty")
	}

	bound, ok := r.bound(fc)
	if !ok {
		return "", fmt.Errorf("feature collection has no geometry")
	}

	v := newViewport(bound)

	var elements []string
	elements = append(elements, r.renderAreas(fc, v)...)
	elements = append(elements, r.renderWalls(fc, v)...)
	elements = append(elements, r.renderEdges(fc, v)...)
	elements = append(elements, r.renderNodes(fc, v)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(v.width), formatFloat(v.height), formatFloat(v.width), formatFloat(v.height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Viewport
// ============================================================

func (r *Renderer) bound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if !found {
			bound, found = f.Geometry.Bound(), true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound, found
}

type viewport struct {
	bound   orb.Bound
	padding float64
	width   float64
	height  float64
	stroke  float64
}

func newViewport(bound orb.Bound) viewport {
	w := bound.Max[0] - bound.Min[0]
	h := bound.Max[1] - bound.Min[1]
	padding := math.Max(minPadding, math.Max(w, h)*paddingRatio)

	return viewport{
		bound:   bound,
		padding: padding,
		width:   w + 2*padding,
		height:  h + 2*padding,
		stroke:  math.Max(1, math.Max(w, h)/strokeDivisor),
	}
}

func (v viewport) project(p orb.Point) models.Point {
	return models.Point{
		X: p[0] - v.bound.Min[0] + v.padding,
		Y: v.bound.Max[1] - p[1] + v.padding,
	}
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderWalls(fc *geojson.FeatureCollection, v viewport) []string {
	var out []string

	for _, f := range fc.Features {
		line, ok := f.Geometry.(orb.LineString)
		if !ok || len(line) < 2 || featureType(f) != models.FeatureWall {
			continue
		}

		out = append(out, fmt.Sprintf(`<polyline data-layer="%s" points="%s" fill="none" stroke="#000" stroke-width="%s" />`,
			html.EscapeString(featureLayer(f)), formatPoints(line, v), formatFloat(v.stroke)))
	}

	return out
}

func (r *Renderer) renderAreas(fc *geojson.FeatureCollection, v viewport) []string {
	var out []string

	for _, f := range fc.Features {
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 || len(poly[0]) < 3 || featureType(f) != models.FeatureNavArea {
			continue
		}

		out = append(out, fmt.Sprintf(`<polygon data-layer="%s" points="%s" fill="#dff0d8" stroke="#2ca02c" stroke-width="%s" />`,
			html.EscapeString(featureLayer(f)), formatPoints(orb.LineString(poly[0]), v), formatFloat(v.stroke)))
	}

	return out
}

// renderEdges - рёбра графа маршрутов пунктиром поверх стен.
func (r *Renderer) renderEdges(fc *geojson.FeatureCollection, v viewport) []string {
	var out []string

	for _, f := range fc.Features {
		line, ok := f.Geometry.(orb.LineString)
		if !ok || len(line) < 2 || featureType(f) != models.FeatureNavEdge {
			continue
		}

		out = append(out, fmt.Sprintf(`<polyline class="nav-edge" points="%s" fill="none" stroke="#1f77b4" stroke-dasharray="4 2" stroke-width="%s" />`,
			formatPoints(line, v), formatFloat(v.stroke)))
	}

	return out
}

func (r *Renderer) renderNodes(fc *geojson.FeatureCollection, v viewport) []string {
	var out []string

	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok || featureType(f) != models.FeatureNavNode {
			continue
		}

		p := v.project(pt)
		name := f.Properties.MustString("name", "")
		out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="#d62728"><title>%s</title></circle>`,
			formatFloat(p.X), formatFloat(p.Y), formatFloat(v.stroke*3), html.EscapeString(name)))
	}

	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func featureType(f *geojson.Feature) string {
	return f.Properties.MustString("type", "")
}

func featureLayer(f *geojson.Feature) string {
	return f.Properties.MustString("layer", "")
}

func formatPoints(line orb.LineString, v viewport) string {
	parts := make([]string, len(line))
	for i, pt := range line {
		p := v.project(pt)
		parts[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	return strings.Join(parts, " ")
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
