package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"

	"wayfinding/internal/converter/mapper"
)

// ============================================================
// Map Storage
// ============================================================

const mapExt = ".geojson"

var (
	ErrInvalidFloor = errors.New("invalid floor id")
	ErrMapNotFound  = errors.New("map not found")
)

var floorPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// MapStorage хранит карты этажей как <root>/<floor>.geojson.
type MapStorage struct {
	root string
}

func NewMapStorage(root string) *MapStorage {
	return &MapStorage{root: root}
}

func (s *MapStorage) Root() string {
	return s.root
}

func (s *MapStorage) Path(floor string) (string, error) {
	if !floorPattern.MatchString(floor) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFloor, floor)
	}
	return filepath.Join(s.root, floor+mapExt), nil
}

func (s *MapStorage) EnsureDir() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("mkdir maps dir: %w", err)
	}
	return nil
}

// Save перезаписывает карту этажа.
func (s *MapStorage) Save(floor string, fc *geojson.FeatureCollection) (string, error) {
	path, err := s.Path(floor)
	if err != nil {
		return "", err
	}
	if err := s.EnsureDir(); err != nil {
		return "", err
	}
	if err := mapper.WriteFile(path, fc); err != nil {
		return "", err
	}
	return path, nil
}

// Raw возвращает сохранённый GeoJSON как есть.
func (s *MapStorage) Raw(floor string) ([]byte, error) {
	path, err := s.Path(floor)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMapNotFound, floor)
		}
		return nil, fmt.Errorf("read map: %w", err)
	}
	return data, nil
}

func (s *MapStorage) Load(floor string) (*geojson.FeatureCollection, error) {
	data, err := s.Raw(floor)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode map %s: %w", floor, err)
	}
	return fc, nil
}

// List возвращает идентификаторы сохранённых этажей по алфавиту.
func (s *MapStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list maps: %w", err)
	}

	floors := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), mapExt) {
			continue
		}
		floor := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if floorPattern.MatchString(floor) {
			floors = append(floors, floor)
		}
	}
	sort.Strings(floors)
	return floors, nil
}
