package types

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "oracle", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "postgres without dsn",
			config:  Config{Backend: "postgres"},
			wantErr: ErrDSNEmpty,
		},
		{
			name:    "postgres with dsn",
			config:  Config{Backend: "postgres", DSN: "postgres://localhost/treegrid"},
			wantErr: nil,
		},
		{
			name:    "dynamodb uses defaults",
			config:  Config{Backend: "dynamodb"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_DynamoDefaults(t *testing.T) {
	var c Config
	if got := c.DynamoTable(); got != DefaultDynamoTable {
		t.Fatalf("DynamoTable() = %q", got)
	}
	if got := c.DynamoParentIndex(); got != DefaultDynamoParentIndex {
		t.Fatalf("DynamoParentIndex() = %q", got)
	}
	c = Config{Table: "t", ParentIndex: "i"}
	if c.DynamoTable() != "t" || c.DynamoParentIndex() != "i" {
		t.Fatalf("explicit names not kept: %+v", c)
	}
}
