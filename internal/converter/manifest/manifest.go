// Package manifest описывает пакетную конвертацию этажей в YAML файле.
package manifest

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"wayfinding/internal/converter/mapper"
	"wayfinding/internal/converter/models"
)

// Manifest - файл вида:
//
//	scale: 20
//	floors:
//	  - name: andar6
//	    source: plans/hc6.dxf
//	    output: maps/andar6.geojson
//	    scale: 15
//	    floor_layers: [PISO]
type Manifest struct {
	Scale       float64  `yaml:"scale,omitempty"`
	FloorLayers []string `yaml:"floor_layers,omitempty"`
	Floors      []Floor  `yaml:"floors"`

	// dir - каталог файла; относительные пути считаются от него.
	dir string
}

type Floor struct {
	Name        string   `yaml:"name"`
	Source      string   `yaml:"source"`
	Output      string   `yaml:"output"`
	Scale       float64  `yaml:"scale,omitempty"`
	FloorLayers []string `yaml:"floor_layers,omitempty"`
	Simplify    float64  `yaml:"simplify,omitempty"`
}

// Result - итог конвертации одного этажа.
type Result struct {
	Floor  string
	Output string
	Err    error
}

// Load читает и проверяет манифест.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	if len(m.Floors) == 0 {
		return errors.New("manifest: no floors")
	}
	seen := make(map[string]bool)
	for i, f := range m.Floors {
		if f.Name == "" {
			return fmt.Errorf("manifest: floor #%d has no name", i+1)
		}
		if seen[f.Name] {
			return fmt.Errorf("manifest: duplicate floor %q", f.Name)
		}
		seen[f.Name] = true
		if f.Source == "" || f.Output == "" {
			return fmt.Errorf("manifest: floor %q needs source and output", f.Name)
		}
		if f.Scale < 0 || m.Scale < 0 {
			return fmt.Errorf("manifest: floor %q has negative scale", f.Name)
		}
	}
	return nil
}

// Options собирает параметры извлечения этажа; значения этажа важнее общих.
func (m *Manifest) Options(f Floor) mapper.Options {
	scale := f.Scale
	if scale == 0 {
		scale = m.Scale
	}
	layers := f.FloorLayers
	if len(layers) == 0 {
		layers = m.FloorLayers
	}
	return mapper.Options{
		Scale:       scale,
		FloorLayers: models.NewLayerSet(layers...),
		Simplify:    f.Simplify,
	}
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}

// Run конвертирует этажи по очереди. Ошибка одного этажа не останавливает остальные.
func (m *Manifest) Run() []Result {
	results := make([]Result, 0, len(m.Floors))
	for _, f := range m.Floors {
		out := m.resolve(f.Output)
		err := mapper.Extract(m.resolve(f.Source), out, m.Options(f))
		if err != nil {
			log.Printf("[MANIFEST] Floor %s failed: %v", f.Name, err)
		}
		results = append(results, Result{Floor: f.Name, Output: out, Err: err})
	}
	return results
}
