package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ============================================================
// Text encoding
// ============================================================

// Начиная с AutoCAD 2007 (AC1021) DXF всегда в UTF-8.
const utf8Version = "AC1021"

const defaultCodepage = "ANSI_1252"

var codepages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
}

// textDecoder перекодирует строковые значения в UTF-8.
type textDecoder struct {
	dec *encoding.Decoder
}

// newTextDecoder выбирает кодировку по переменным заголовка.
// Файлы, уже являющиеся валидным UTF-8, не перекодируются.
func newTextDecoder(header map[string]string, data []byte) textDecoder {
	if version := strings.ToUpper(header["$ACADVER"]); version >= utf8Version {
		return textDecoder{}
	}
	if utf8.Valid(data) {
		return textDecoder{}
	}

	codepage := strings.ToUpper(header["$DWGCODEPAGE"])
	if codepage == "" {
		codepage = defaultCodepage
	}
	enc, ok := codepages[codepage]
	if !ok {
		return textDecoder{}
	}
	return textDecoder{dec: enc.NewDecoder()}
}

var unicodeEscape = regexp.MustCompile(`\\[Uu]\+([0-9A-Fa-f]{4})`)

func (d textDecoder) decode(s string) string {
	if d.dec != nil {
		if out, err := d.dec.String(s); err == nil {
			s = out
		}
	}
	if !strings.Contains(s, `\U+`) && !strings.Contains(s, `\u+`) {
		return s
	}
	return unicodeEscape.ReplaceAllStringFunc(s, func(m string) string {
		r, err := strconv.ParseUint(m[3:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(r))
	})
}

// headerVars читает переменные секции HEADER ($ACADVER, $DWGCODEPAGE, …).
// Пары заголовка не содержат кода 0, поэтому лежат в самой записи SECTION.
func headerVars(records []record) map[string]string {
	vars := make(map[string]string)
	for _, rec := range records {
		if rec.typ != "SECTION" {
			continue
		}
		if name, _ := rec.value(2); !strings.EqualFold(name, "HEADER") {
			continue
		}

		var current string
		for _, p := range rec.pairs {
			switch {
			case p.code == 9:
				current = strings.ToUpper(p.value)
			case current != "":
				if _, seen := vars[current]; !seen {
					vars[current] = p.value
				}
			}
		}
		break
	}
	return vars
}
