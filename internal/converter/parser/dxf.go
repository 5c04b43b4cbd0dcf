package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"wayfinding/internal/converter/models"
)

// ============================================================
// DXF Parser
// ============================================================

var (
	ErrBinaryDXF = errors.New("binary DXF is not supported")
	ErrMalformed = errors.New("malformed DXF")
)

var binarySentinel = []byte("AutoCAD Binary DXF")

// ParseDXF читает ASCII DXF и возвращает элементы пространства модели
// в порядке файла. Ошибки отдельных элементов сохраняются в самих
// элементах; ошибкой всего файла считается только нарушенная структура.
func ParseDXF(r io.Reader) ([]models.Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read DXF: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]models.Entity, error) {
	if bytes.HasPrefix(data, binarySentinel) {
		return nil, ErrBinaryDXF
	}

	pairs, err := readPairs(data)
	if err != nil {
		return nil, err
	}

	records := splitRecords(pairs)
	decoder := newTextDecoder(headerVars(records), data)

	return decodeEntities(sections(records)["ENTITIES"], decoder), nil
}

func decodeEntities(records []record, dec textDecoder) []models.Entity {
	var entities []models.Entity

	for i := 0; i < len(records); i++ {
		rec := records[i]

		if rec.typ == "POLYLINE" {
			// Вершины POLYLINE идут отдельными записями до SEQEND
			var vertices []record
			for i+1 < len(records) && records[i+1].typ == "VERTEX" {
				i++
				vertices = append(vertices, records[i])
			}
			if i+1 < len(records) && records[i+1].typ == "SEQEND" {
				i++
			}
			if inPaperSpace(rec) {
				continue
			}
			entities = append(entities, decodePolyline(rec, vertices, dec))
			continue
		}

		if inPaperSpace(rec) {
			continue
		}

		switch rec.typ {
		case "LINE":
			entities = append(entities, decodeLine(rec, dec))
		case "LWPOLYLINE":
			entities = append(entities, decodeLWPolyline(rec, dec))
		case "VERTEX", "SEQEND":
			// осиротевшие записи без POLYLINE
		default:
			entities = append(entities, &models.Unsupported{
				Type:      rec.typ,
				LayerName: layerOf(rec, dec),
			})
		}
	}

	return entities
}

// ============================================================
// Entity decoders
// ============================================================

func decodeLine(rec record, dec textDecoder) *models.Segment {
	seg := &models.Segment{LayerName: layerOf(rec, dec)}

	for _, p := range rec.pairs {
		var target *float64
		switch p.code {
		case 10:
			target = &seg.Start.X
		case 20:
			target = &seg.Start.Y
		case 11:
			target = &seg.End.X
		case 21:
			target = &seg.End.Y
		default:
			continue
		}
		if err := parseFloat(p, target); err != nil {
			seg.Err = fmt.Errorf("LINE: %w", err)
			break
		}
	}

	return seg
}

func decodeLWPolyline(rec record, dec textDecoder) *models.LightPolyline {
	poly := &models.LightPolyline{LayerName: layerOf(rec, dec)}

	for _, p := range rec.pairs {
		var err error
		switch p.code {
		case 70:
			poly.Flags, err = parseInt(p)
		case 10:
			poly.Vertices = append(poly.Vertices, models.Point{})
			err = parseFloat(p, &poly.Vertices[len(poly.Vertices)-1].X)
		case 20:
			if len(poly.Vertices) == 0 {
				err = fmt.Errorf("line %d: code 20 before code 10", p.line)
				break
			}
			err = parseFloat(p, &poly.Vertices[len(poly.Vertices)-1].Y)
		}
		if err != nil {
			poly.Err = fmt.Errorf("LWPOLYLINE: %w", err)
			break
		}
	}

	return poly
}

func decodePolyline(rec record, vertices []record, dec textDecoder) *models.HeavyPolyline {
	poly := &models.HeavyPolyline{LayerName: layerOf(rec, dec)}

	if v, ok := rec.value(70); ok {
		flags, err := parseInt(pair{code: 70, value: v})
		if err != nil {
			poly.Err = fmt.Errorf("POLYLINE: %w", err)
			return poly
		}
		poly.Flags = flags
	}

	for _, vertex := range vertices {
		var pt models.Point
		for _, p := range vertex.pairs {
			var err error
			switch p.code {
			case 10:
				err = parseFloat(p, &pt.X)
			case 20:
				err = parseFloat(p, &pt.Y)
			}
			if err != nil {
				poly.Err = fmt.Errorf("POLYLINE vertex: %w", err)
				return poly
			}
		}
		poly.Vertices = append(poly.Vertices, pt)
	}

	return poly
}

// ============================================================
// Field helpers
// ============================================================

func layerOf(rec record, dec textDecoder) string {
	layer, _ := rec.value(8)
	return dec.decode(layer)
}

// inPaperSpace: код 67 = 1 означает пространство листа.
func inPaperSpace(rec record) bool {
	v, ok := rec.value(67)
	return ok && v == "1"
}

func parseFloat(p pair, target *float64) error {
	f, err := strconv.ParseFloat(p.value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("line %d: code %d: invalid number %q", p.line, p.code, p.value)
	}
	*target = f
	return nil
}

func parseInt(p pair) (int, error) {
	n, err := strconv.Atoi(p.value)
	if err != nil {
		return 0, fmt.Errorf("line %d: code %d: invalid integer %q", p.line, p.code, p.value)
	}
	return n, nil
}
