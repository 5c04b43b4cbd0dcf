// Package dxftest собирает небольшие ASCII DXF файлы для тестов.
package dxftest

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type Builder struct {
	header   []string
	entities []string
}

func New() *Builder {
	return &Builder{}
}

// Header добавляет переменную заголовка, например ("$ACADVER", 1, "AC1015").
func (b *Builder) Header(name string, code int, value string) *Builder {
	b.header = append(b.header, "9", name, strconv.Itoa(code), value)
	return b
}

func (b *Builder) Line(layer string, x1, y1, x2, y2 float64) *Builder {
	b.entities = append(b.entities,
		"0", "LINE",
		"8", layer,
		"10", num(x1), "20", num(y1), "30", "0.0",
		"11", num(x2), "21", num(y2), "31", "0.0",
	)
	return b
}

func (b *Builder) LWPolyline(layer string, closed bool, pts ...[2]float64) *Builder {
	b.entities = append(b.entities,
		"0", "LWPOLYLINE",
		"8", layer,
		"90", strconv.Itoa(len(pts)),
		"70", flags(closed),
	)
	for _, p := range pts {
		b.entities = append(b.entities, "10", num(p[0]), "20", num(p[1]))
	}
	return b
}

func (b *Builder) Polyline(layer string, closed bool, pts ...[2]float64) *Builder {
	b.entities = append(b.entities,
		"0", "POLYLINE",
		"8", layer,
		"66", "1",
		"70", flags(closed),
	)
	for _, p := range pts {
		b.entities = append(b.entities,
			"0", "VERTEX",
			"8", layer,
			"10", num(p[0]), "20", num(p[1]), "30", "0.0",
		)
	}
	b.entities = append(b.entities, "0", "SEQEND", "8", layer)
	return b
}

// Raw добавляет произвольные пары «код, значение» в секцию ENTITIES.
func (b *Builder) Raw(pairs ...string) *Builder {
	b.entities = append(b.entities, pairs...)
	return b
}

func (b *Builder) String() string {
	var lines []string
	if len(b.header) > 0 {
		lines = append(lines, "0", "SECTION", "2", "HEADER")
		lines = append(lines, b.header...)
		lines = append(lines, "0", "ENDSEC")
	}
	lines = append(lines, "0", "SECTION", "2", "ENTITIES")
	lines = append(lines, b.entities...)
	lines = append(lines, "0", "ENDSEC", "0", "EOF")
	return strings.Join(lines, "\n") + "\n"
}

func (b *Builder) Bytes() []byte {
	return []byte(b.String())
}

// WriteFile сохраняет чертёж во временный каталог теста и возвращает путь.
func (b *Builder) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flags(closed bool) string {
	if closed {
		return "1"
	}
	return "0"
}
