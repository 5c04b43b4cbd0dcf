package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"

	"wayfinding/internal/converter/models"
	"wayfinding/internal/converter/parser"
)

// ============================================================
// Extractor
// ============================================================

// DefaultScale - масштаб по умолчанию (единицы чертежа → единицы карты).
const DefaultScale = 20.0

var ErrSourceNotFound = errors.New("source drawing not found")

type Options struct {
	// Scale умножает обе координаты каждой точки. Ноль означает DefaultScale.
	Scale float64
	// FloorLayers - слои, замкнутые полилинии которых становятся nav_area.
	FloorLayers models.LayerSet
	// Simplify - допуск Douglas-Peucker для стен; ноль отключает упрощение.
	Simplify float64
}

func (o Options) scale() float64 {
	if o.Scale == 0 {
		return DefaultScale
	}
	return o.Scale
}

// Stats - итоги одного прохода.
type Stats struct {
	Walls    int `json:"walls"`
	NavAreas int `json:"nav_areas"`
	Skipped  int `json:"skipped"`
	NavNodes int `json:"nav_nodes,omitempty"`
	NavEdges int `json:"nav_edges,omitempty"`
}

type Extractor struct {
	opts  Options
	stats Stats
}

func New(opts Options) *Extractor {
	if opts.FloorLayers == nil {
		opts.FloorLayers = models.NewLayerSet()
	}
	return &Extractor{opts: opts}
}

// Extract читает чертёж sourcePath и записывает GeoJSON в outputPath.
// Если исходного файла нет, ничего не пишется и возвращается ErrSourceNotFound.
func Extract(sourcePath, outputPath string, opts Options) error {
	if _, err := os.Stat(sourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, sourcePath)
		}
		return fmt.Errorf("stat source: %w", err)
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	x := New(opts)
	fc, err := x.Convert(f)
	if err != nil {
		return err
	}

	if err := WriteFile(outputPath, fc); err != nil {
		return err
	}

	stats := x.Stats()
	log.Printf("[EXTRACT] Saved %s (walls: %d, nav areas: %d, skipped: %d)",
		outputPath, stats.Walls, stats.NavAreas, stats.Skipped)
	return nil
}

// Convert DXF → GeoJSON FeatureCollection
func (x *Extractor) Convert(r io.Reader) (*geojson.FeatureCollection, error) {
	entities, err := parser.ParseDXF(r)
	if err != nil {
		return nil, fmt.Errorf("parse DXF: %w", err)
	}
	return x.Features(entities), nil
}

// Features делает один проход по элементам с сохранением порядка.
// Каждый элемент даёт не более одного объекта: стену либо зону навигации.
func (x *Extractor) Features(entities []models.Entity) *geojson.FeatureCollection {
	x.stats = Stats{}
	fc := geojson.NewFeatureCollection()

	for i, e := range entities {
		kind := e.Kind()
		if kind == models.KindUnknown {
			continue
		}

		layer := e.Layer()

		var feature *geojson.Feature
		switch {
		case !x.opts.FloorLayers.Has(layer):
			feature = x.wall(i, e)
		case kind.IsPolyline() && e.Closed():
			feature = x.navArea(i, e)
		}

		if feature != nil {
			fc.Append(feature)
		}
	}

	return fc
}

func (x *Extractor) Stats() Stats {
	return x.stats
}

// ============================================================
// Feature builders
// ============================================================

func (x *Extractor) wall(index int, e models.Entity) *geojson.Feature {
	pts, ok := x.points(index, e)
	if !ok {
		return nil
	}

	line := orb.LineString(pts)
	if x.opts.Simplify > 0 && len(line) > 2 {
		if simplified, ok := simplify.DouglasPeucker(x.opts.Simplify).Simplify(line.Clone()).(orb.LineString); ok {
			line = simplified
		}
	}
	if len(line) < 2 {
		return nil
	}

	x.stats.Walls++
	return newFeature(line, models.FeatureWall, e.Layer())
}

func (x *Extractor) navArea(index int, e models.Entity) *geojson.Feature {
	pts, ok := x.points(index, e)
	if !ok || len(pts) < 3 {
		return nil
	}

	x.stats.NavAreas++
	return newFeature(orb.Polygon{orb.Ring(pts)}, models.FeatureNavArea, e.Layer())
}

// points читает и масштабирует вершины; ошибка чтения пропускает элемент.
func (x *Extractor) points(index int, e models.Entity) ([]orb.Point, bool) {
	src, err := e.Points()
	if err != nil {
		x.stats.Skipped++
		log.Printf("[EXTRACT] Skip entity #%d (%s on %q): %v", index, e.Kind(), e.Layer(), err)
		return nil, false
	}

	scale := x.opts.scale()
	out := make([]orb.Point, len(src))
	for i, p := range src {
		scaled := p.Scale(scale)
		if !finite(scaled.X) || !finite(scaled.Y) {
			x.stats.Skipped++
			log.Printf("[EXTRACT] Skip entity #%d (%s on %q): vertex %d is not finite after scaling", index, e.Kind(), e.Layer(), i)
			return nil, false
		}
		out[i] = orb.Point{scaled.X, scaled.Y}
	}
	return out, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func newFeature(geometry orb.Geometry, featureType, layer string) *geojson.Feature {
	f := geojson.NewFeature(geometry)
	f.Properties["type"] = featureType
	f.Properties["layer"] = layer
	return f
}

// ============================================================
// Output
// ============================================================

// collectionDoc повторяет FeatureCollection, но свойства кодируются нашим
// encoder'ом: orb кодирует их через json.Marshal, который экранирует <, >, &.
type collectionDoc struct {
	Type     string       `json:"type"`
	Features []featureDoc `json:"features"`
}

type featureDoc struct {
	Type       string             `json:"type"`
	Geometry   *geojson.Geometry  `json:"geometry"`
	Properties geojson.Properties `json:"properties"`
}

// Write сериализует коллекцию с отступами, не экранируя не-ASCII и HTML символы.
func Write(w io.Writer, fc *geojson.FeatureCollection) error {
	doc := collectionDoc{Type: "FeatureCollection", Features: make([]featureDoc, 0, len(fc.Features))}
	for _, f := range fc.Features {
		doc.Features = append(doc.Features, featureDoc{
			Type:       "Feature",
			Geometry:   geojson.NewGeometry(f.Geometry),
			Properties: f.Properties,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode GeoJSON: %w", err)
	}
	return nil
}

// Marshal возвращает то же, что Write, в виде байтов.
func Marshal(fc *geojson.FeatureCollection) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, fc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile перезаписывает path целиком.
func WriteFile(path string, fc *geojson.FeatureCollection) error {
	data, err := Marshal(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
