package provider

import (
	"context"
	"errors"

	"wayfinding/internal/patients/models"
)

// ============================================================
// Provider contract
// ============================================================

var ErrNotFound = errors.New("not found")

// Provider - табличный источник записей пациентов (CSV или SQLite).
type Provider interface {
	// List возвращает все записи в порядке источника.
	List(ctx context.Context) ([]models.Record, error)
	// ByRecordNumber возвращает все записи (приёмы) пациента или ErrNotFound.
	ByRecordNumber(ctx context.Context, code int64) ([]models.Record, error)
}
