// Package config defines the JSON-serializable configuration model for the
// loader. It is intentionally small and explicit so that a load can be fully
// described by a file under configs/ and passed through the program without
// additional glue code.
//
// Decoding is performed by the standard library. Credentials never live in
// the file or in source: an empty storage.dsn falls back to the CSVLOAD_DSN
// environment variable (the wiring layer loads a .env file first, so local
// setups can keep the DSN there).
//
// Example:
//
//	{
//	  "job":    "customers",
//	  "source": { "path": "data/customers.csv", "has_header": true },
//	  "storage": { "kind": "mssql", "table": "dbo.Customers", "batch_size": 500 }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnvDSN is the environment variable consulted when storage.dsn is empty.
const EnvDSN = "CSVLOAD_DSN"

// Config describes one load: where the file is, how to parse it, and where
// the rows go.
type Config struct {
	// Job is the logical job name used in logs and metrics.
	Job string `json:"job"`

	Source  Source  `json:"source"`
	Storage Storage `json:"storage"`
}

// Source describes the input file and its parsing options.
type Source struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`

	// Delimiter is the field separator; the first rune is used. Empty means ','.
	Delimiter string `json:"delimiter"`

	// HasHeader indicates whether the first row carries column names.
	HasHeader bool `json:"has_header"`

	// TrimSpace trims surrounding spaces from every field value.
	TrimSpace bool `json:"trim_space"`

	// NormalizeHeaders folds header names to snake_case ASCII. Leave false
	// when the destination table's columns must match the file verbatim.
	NormalizeHeaders bool `json:"normalize_headers"`

	// HeaderMap maps source header names to destination column names.
	HeaderMap map[string]string `json:"header_map,omitempty"`
}

// Storage describes the destination database and table.
type Storage struct {
	// Kind selects the storage backend: "mssql", "mysql", "postgres", "sqlite".
	Kind string `json:"kind"`

	// DSN is the driver connection string. Empty means "read EnvDSN".
	DSN string `json:"dsn,omitempty"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table"`

	// BatchSize caps the rows per bulk write. 0 means the storage default.
	BatchSize int `json:"batch_size,omitempty"`
}

// Load decodes a Config from the JSON file at path and resolves the DSN from
// the environment when the file leaves it empty.
func Load(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ResolveDSN()
	return cfg, nil
}

// ResolveDSN fills Storage.DSN from EnvDSN when the config left it empty.
func (c *Config) ResolveDSN() {
	if c.Storage.DSN == "" {
		c.Storage.DSN = os.Getenv(EnvDSN)
	}
}

// DelimiterRune returns the configured delimiter as a rune, defaulting to ','.
func (s Source) DelimiterRune() rune {
	if s.Delimiter == "" {
		return ','
	}
	return []rune(s.Delimiter)[0]
}
