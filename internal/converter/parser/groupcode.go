package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// Group code pairs
// ============================================================

// pair - одна пара «групповой код / значение» ASCII DXF.
type pair struct {
	code  int
	value string
	line  int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readPairs разбивает файл на пары строк. Значения остаются в исходной
// кодировке файла, перекодируются только строковые поля (см. encoding.go).
func readPairs(data []byte) ([]pair, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	lines := strings.Split(string(data), "\n")
	// Хвостовые пустые строки после EOF не считаются данными
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("%w: dangling group code at line %d", ErrMalformed, len(lines))
	}

	pairs := make([]pair, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		raw := strings.TrimSpace(lines[i])
		code, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid group code %q at line %d", ErrMalformed, raw, i+1)
		}
		pairs = append(pairs, pair{
			code:  code,
			value: strings.TrimSpace(strings.TrimSuffix(lines[i+1], "\r")),
			line:  i + 2,
		})
	}

	return pairs, nil
}

// record - запись, начинающаяся с кода 0 (SECTION, LINE, VERTEX, …).
type record struct {
	typ   string
	pairs []pair
}

// splitRecords группирует пары по записям; пары до первого кода 0 отбрасываются.
func splitRecords(pairs []pair) []record {
	var out []record
	for _, p := range pairs {
		if p.code == 0 {
			out = append(out, record{typ: strings.ToUpper(p.value)})
			continue
		}
		if len(out) == 0 {
			continue
		}
		last := &out[len(out)-1]
		last.pairs = append(last.pairs, p)
	}
	return out
}

// value возвращает первое значение группового кода в записи.
func (r record) value(code int) (string, bool) {
	for _, p := range r.pairs {
		if p.code == code {
			return p.value, true
		}
	}
	return "", false
}

// sections возвращает записи каждой секции по имени (HEADER, ENTITIES, …).
func sections(records []record) map[string][]record {
	out := make(map[string][]record)

	var (
		name    string
		inside  bool
		content []record
	)
	for _, rec := range records {
		switch {
		case rec.typ == "SECTION":
			name, _ = rec.value(2)
			name = strings.ToUpper(name)
			inside = true
			content = nil
		case rec.typ == "ENDSEC" && inside:
			out[name] = append(out[name], content...)
			inside = false
		case inside:
			content = append(content, rec)
		}
	}
	// Секция без ENDSEC (обрезанный файл) всё равно читается
	if inside {
		out[name] = append(out[name], content...)
	}

	return out
}
