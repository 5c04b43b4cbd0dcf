package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wayfinding/internal/patients/models"
	"wayfinding/internal/patients/provider"
)

// ============================================================
// Patients Service
// ============================================================

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrNoDestination   = errors.New("patient has no destination")
)

// destinationColumns - колонки с местом приёма, в порядке приоритета.
var destinationColumns = []string{"Local/Consultório", "Local/Consultorio", "consultorio"}

type Patients struct {
	provider provider.Provider
}

func New(p provider.Provider) *Patients {
	return &Patients{provider: p}
}

func (s *Patients) List(ctx context.Context) ([]models.Record, error) {
	return s.provider.List(ctx)
}

// Appointments возвращает все приёмы пациента.
func (s *Patients) Appointments(ctx context.Context, code int64) ([]models.Record, error) {
	records, err := s.provider.ByRecordNumber(ctx, code)
	if errors.Is(err, provider.ErrNotFound) {
		return nil, fmt.Errorf("%d: %w", code, ErrPatientNotFound)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Destinations возвращает места приёмов пациента в порядке записей.
// Для каждой записи берётся первая непустая колонка из destinationColumns.
func (s *Patients) Destinations(ctx context.Context, code int64) ([]string, error) {
	records, err := s.Appointments(ctx, code)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, rec := range records {
		if dest := destination(rec); dest != "" {
			out = append(out, dest)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%d: %w", code, ErrNoDestination)
	}
	return out, nil
}

func destination(rec models.Record) string {
	for _, col := range destinationColumns {
		if v := strings.TrimSpace(rec.Text(col)); v != "" {
			return v
		}
	}
	return ""
}
