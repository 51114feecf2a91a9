package docstore

import (
	"testing"
)

func TestPostgresConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PostgresConfig
		wantErr bool
	}{
		{"valid", PostgresConfig{DSN: "postgres://localhost/registry"}, false},
		{"custom table", PostgresConfig{DSN: "postgres://localhost/registry", Table: "firmware_docs"}, false},
		{"missing dsn", PostgresConfig{}, true},
		{"blank dsn", PostgresConfig{DSN: "   "}, true},
		{"table injection", PostgresConfig{DSN: "postgres://localhost/registry", Table: "docs; DROP TABLE x"}, true},
		{"table leading digit", PostgresConfig{DSN: "postgres://localhost/registry", Table: "1docs"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestS3Config_Validate(t *testing.T) {
	valid := S3Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "firmware",
	}
	tests := []struct {
		name    string
		mutate  func(*S3Config)
		wantErr bool
	}{
		{"valid", func(*S3Config) {}, false},
		{"hostname only", func(c *S3Config) { c.Endpoint = "s3.amazonaws.com" }, false},
		{"missing endpoint", func(c *S3Config) { c.Endpoint = "" }, true},
		{"missing access key", func(c *S3Config) { c.AccessKey = "" }, true},
		{"missing secret key", func(c *S3Config) { c.SecretKey = "" }, true},
		{"short bucket", func(c *S3Config) { c.Bucket = "ab" }, true},
		{"blank bucket", func(c *S3Config) { c.Bucket = "  " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewS3_InvalidConfig(t *testing.T) {
	if _, err := NewS3(S3Config{}); err == nil {
		t.Error("expected config error")
	}
}
