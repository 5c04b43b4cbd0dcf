// Package locate сопоставляет текст места назначения (например, «Local/Consultório»
// из записи пациента) с именованными узлами маршрута на карте этажа.
package locate

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"wayfinding/internal/converter/models"
)

// minWordLength - более короткие слова запроса не участвуют в пословном сравнении.
const minWordLength = 3

type Strategy string

const (
	MatchExact   Strategy = "exact"
	MatchPartial Strategy = "partial"
	MatchWord    Strategy = "word"
)

type Node struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Position orb.Point `json:"position"`
}

type Match struct {
	Node     Node     `json:"node"`
	Strategy Strategy `json:"strategy"`
}

// Normalize убирает диакритику, приводит к нижнему регистру и обрезает пробелы.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Names возвращает именованные узлы nav_node в порядке коллекции.
func Names(fc *geojson.FeatureCollection) []Node {
	var nodes []Node
	for _, f := range fc.Features {
		if f.Properties.MustString("type", "") != models.FeatureNavNode {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		name := strings.TrimSpace(f.Properties.MustString("name", ""))
		if name == "" {
			continue
		}
		nodes = append(nodes, Node{
			ID:       f.Properties.MustString("id", ""),
			Name:     name,
			Position: pt,
		})
	}
	return nodes
}

// Find ищет узел по тексту: сначала точное совпадение, затем вхождение
// в любую сторону, затем совпадение отдельных слов.
func Find(fc *geojson.FeatureCollection, query string) (Match, bool) {
	q := Normalize(query)
	if q == "" {
		return Match{}, false
	}

	nodes := Names(fc)
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = Normalize(n.Name)
	}

	for i, name := range names {
		if name == q {
			return Match{Node: nodes[i], Strategy: MatchExact}, true
		}
	}

	for i, name := range names {
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return Match{Node: nodes[i], Strategy: MatchPartial}, true
		}
	}

	queryWords := strings.Fields(q)
	for i, name := range names {
		for _, qw := range queryWords {
			if utf8.RuneCountInString(qw) < minWordLength {
				continue
			}
			for _, nw := range strings.Fields(name) {
				if strings.Contains(nw, qw) || strings.Contains(qw, nw) {
					return Match{Node: nodes[i], Strategy: MatchWord}, true
				}
			}
		}
	}

	return Match{}, false
}

// SortedNames - имена узлов по алфавиту, для подсказок в ответе 404.
func SortedNames(fc *geojson.FeatureCollection) []string {
	nodes := Names(fc)
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	sort.Strings(out)
	return out
}
