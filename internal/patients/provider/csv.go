package provider

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"wayfinding/internal/patients/models"
)

// ============================================================
// CSV Provider
// ============================================================

// CSV держит всю таблицу в памяти; файл читается один раз при создании.
type CSV struct {
	columns []string
	records []models.Record
	index   map[int64][]int
}

// NewCSV читает файл path. Отсутствие файла - ошибка запуска сервиса.
func NewCSV(path string) (*CSV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patients CSV %s: %w", path, err)
	}
	return ReadCSV(bytes.NewReader(data))
}

// ReadCSV разбирает таблицу; разделитель (',' или ';') определяется по заголовку.
func ReadCSV(r io.Reader) (*CSV, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV is empty")
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	codeCol := -1
	for i, name := range header {
		if name == models.RecordNumberColumn {
			codeCol = i
			break
		}
	}
	if codeCol < 0 {
		return nil, fmt.Errorf("CSV has no %q column", models.RecordNumberColumn)
	}

	p := &CSV{columns: header, index: make(map[int64][]int)}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}

		if codeCol >= len(row) {
			return nil, fmt.Errorf("CSV line %d: missing %q", line, models.RecordNumberColumn)
		}
		code, err := strconv.ParseInt(strings.TrimSpace(row[codeCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %q is not an integer: %q", line, models.RecordNumberColumn, row[codeCol])
		}

		rec := make(models.Record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = models.ParseCell(row[i])
			} else {
				rec[name] = nil
			}
		}
		rec[models.RecordNumberColumn] = code

		p.index[code] = append(p.index[code], len(p.records))
		p.records = append(p.records, rec)
	}

	return p, nil
}

func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// Columns возвращает заголовок таблицы.
func (p *CSV) Columns() []string {
	return append([]string(nil), p.columns...)
}

func (p *CSV) List(ctx context.Context) ([]models.Record, error) {
	out := make([]models.Record, len(p.records))
	for i, rec := range p.records {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

func (p *CSV) ByRecordNumber(ctx context.Context, code int64) ([]models.Record, error) {
	rows, ok := p.index[code]
	if !ok {
		return nil, fmt.Errorf("patient %d: %w", code, ErrNotFound)
	}
	out := make([]models.Record, len(rows))
	for i, idx := range rows {
		out[i] = copyRecord(p.records[idx])
	}
	return out, nil
}

func copyRecord(r models.Record) models.Record {
	out := make(models.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
