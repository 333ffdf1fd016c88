package types

import "errors"

// Config holds backend selection and parameters for the bundled stores.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// DSN is the connection string for the postgres backend.
	DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`

	// Table and ParentIndex configure the dynamodb backend.
	Table       string `json:"table" yaml:"table" mapstructure:"table"`
	ParentIndex string `json:"parent_index" yaml:"parent_index" mapstructure:"parent_index"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// Default DynamoDB names.
const (
	DefaultDynamoTable       = "treegrid_nodes"
	DefaultDynamoParentIndex = "parent_id-position-index"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDSNEmpty       = errors.New("dsn must not be empty for the postgres backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
	BackendDynamoDB: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNEmpty
	}
	return nil
}

// DynamoTable returns Table or its default.
func (c Config) DynamoTable() string {
	if c.Table == "" {
		return DefaultDynamoTable
	}
	return c.Table
}

// DynamoParentIndex returns ParentIndex or its default.
func (c Config) DynamoParentIndex() string {
	if c.ParentIndex == "" {
		return DefaultDynamoParentIndex
	}
	return c.ParentIndex
}
