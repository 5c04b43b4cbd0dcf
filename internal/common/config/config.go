package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Converter
	MapsDir     string
	Scale       float64
	FloorLayers []string
	BodyLimit   int

	// Patients
	PatientsProvider string
	PatientsCSV      string
	PatientsDB       string
	MigrationsPath   string

	// Gateway
	ConverterURL string
	PatientsURL  string
	DocsPath     string
	CORSOrigins  []string
}

// Load читает конфигурацию из переменных окружения и, если задан
// CONFIG_FILE, из YAML файла. Переменные окружения имеют приоритет.
func Load() *Config {
	return load(viper.New(), "3000")
}

// LoadWithPort как Load, но подставляет порт сервиса, если PORT не задан.
func LoadWithPort(defaultPort string) *Config {
	return load(viper.New(), defaultPort)
}

func load(v *viper.Viper, defaultPort string) *Config {
	setDefaults(v)
	v.SetDefault("port", defaultPort)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("[CONFIG] read %s: %v", path, err)
		} else {
			log.Printf("[CONFIG] using config file %s", v.ConfigFileUsed())
		}
	}

	return &Config{
		Port:             v.GetString("port"),
		Environment:      v.GetString("env"),
		ReadTimeout:      v.GetInt("read_timeout"),
		WriteTimeout:     v.GetInt("write_timeout"),
		MapsDir:          v.GetString("maps_dir"),
		Scale:            v.GetFloat64("scale"),
		FloorLayers:      stringList(v, "floor_layers"),
		BodyLimit:        v.GetInt("body_limit"),
		PatientsProvider: strings.ToLower(v.GetString("patients_provider")),
		PatientsCSV:      v.GetString("patients_csv"),
		PatientsDB:       v.GetString("patients_db"),
		MigrationsPath:   v.GetString("migrations_path"),
		ConverterURL:     v.GetString("converter_url"),
		PatientsURL:      v.GetString("patients_url"),
		DocsPath:         v.GetString("docs_path"),
		CORSOrigins:      stringList(v, "cors_origins"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("read_timeout", 10)
	v.SetDefault("write_timeout", 10)
	v.SetDefault("maps_dir", "data/maps")
	v.SetDefault("scale", 20.0)
	v.SetDefault("floor_layers", "")
	v.SetDefault("body_limit", 64*1024*1024)
	v.SetDefault("patients_provider", "csv")
	v.SetDefault("patients_csv", "data/pacientes.csv")
	v.SetDefault("patients_db", "data/db/patients.db")
	v.SetDefault("migrations_path", "migrations/001_init_patients.sql")
	v.SetDefault("converter_url", "http://localhost:3001")
	v.SetDefault("patients_url", "http://localhost:3002")
	v.SetDefault("docs_path", "docs/openapi.yaml")
	v.SetDefault("cors_origins", "")
}

// stringList читает список и из строки через запятую (env), и из YAML списка.
// Строку не отдаём в GetStringSlice: он делит по пробелам, а имена слоёв
// могут их содержать.
func stringList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return splitList(raw)
	}
	var out []string
	for _, item := range v.GetStringSlice(key) {
		out = append(out, splitList(item)...)
	}
	return out
}

// splitList разбирает список через запятую, пустые элементы отбрасываются.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
