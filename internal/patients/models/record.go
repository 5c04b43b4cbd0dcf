package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// Patient Record
// ============================================================

// RecordNumberColumn - колонка с номером медицинской карты (prontuário).
const RecordNumberColumn = "Prontuário"

// Record - одна строка таблицы записей (приём пациента), ключи - имена колонок.
type Record map[string]any

// RecordNumber возвращает номер карты, если он целый.
func (r Record) RecordNumber() (int64, bool) {
	switch v := r[RecordNumberColumn].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// Text возвращает значение колонки строкой; пустые ячейки дают "".
func (r Record) Text(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ParseCell приводит ячейку таблицы к типу: целое, дробное, nil или строка.
func ParseCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "nN") {
		return f
	}
	return s
}
