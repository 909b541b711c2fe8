package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
)

const validConfig = `
region: us-east-1
log_level: debug
s3:
  bucket: etl-data
  datafeeds:
    - name: orders
      prefix: raw/orders/
    - name: clicks
      prefix: raw/clicks/
lambda:
  functions:
    - name: orders-ingest
      datafeed: orders
    - name: clicks-ingest
      datafeed: clicks
pricing:
  s3:
    storage_per_gb_month: 0.023
    put_request_per_1000: 0.005
    get_request_per_1000: 0.0004
  lambda:
    request_per_million: 0.20
    duration_per_gb_second: 0.0000166667
monitoring:
  refresh_interval_seconds: 60
  lookback_hours: 12
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newTestService(env map[string]string) *service {
	return &service{getenv: func(key string) string { return env[key] }}
}

func TestGetSettings_FromFile(t *testing.T) {
	path := writeConfig(t, validConfig)

	got, err := newTestService(nil).GetSettings(model.Flags{ConfigPath: path})
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}

	if got.Region != "us-east-1" || got.Bucket != "etl-data" || got.LogLevel != "debug" {
		t.Errorf("unexpected top-level settings: %+v", got)
	}
	if len(got.Datafeeds) != 2 || got.Datafeeds[0].Name != "orders" || got.Datafeeds[1].Prefix != "raw/clicks/" {
		t.Errorf("unexpected datafeeds: %+v", got.Datafeeds)
	}
	if len(got.Functions) != 2 || got.Functions[1].Datafeed != "clicks" {
		t.Errorf("unexpected functions: %+v", got.Functions)
	}
	if got.Pricing.StoragePerGBMonth != 0.023 || got.Pricing.DurationPerGBSecond != 0.0000166667 {
		t.Errorf("unexpected pricing: %+v", got.Pricing)
	}
	if got.Monitoring.RefreshInterval != time.Minute {
		t.Errorf("RefreshInterval = %v, want 1m", got.Monitoring.RefreshInterval)
	}
	if got.Monitoring.LookbackHours != 12 {
		t.Errorf("LookbackHours = %d, want 12", got.Monitoring.LookbackHours)
	}
	if got.Monitoring.CallTimeout != 30*time.Second {
		t.Errorf("CallTimeout = %v, want default 30s", got.Monitoring.CallTimeout)
	}
	if got.Monitoring.Workers != defaultWorkers {
		t.Errorf("Workers = %d, want default %d", got.Monitoring.Workers, defaultWorkers)
	}
}

func TestGetSettings_Precedence(t *testing.T) {
	path := writeConfig(t, validConfig)
	env := map[string]string{
		"ETLCOST_REGION":           "eu-west-1",
		"ETLCOST_BUCKET":           "other-bucket",
		"ETLCOST_LOOKBACK_HOURS":   "48",
		"ETLCOST_REFRESH_INTERVAL": "120",
		"ETLCOST_WORKERS":          "8",
	}

	got, err := newTestService(env).GetSettings(model.Flags{
		ConfigPath:    path,
		Region:        "ap-south-1",
		LookbackHours: 6,
	})
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}

	if got.Region != "ap-south-1" {
		t.Errorf("Region = %q, flag should win", got.Region)
	}
	if got.Bucket != "other-bucket" {
		t.Errorf("Bucket = %q, env should override file", got.Bucket)
	}
	if got.Monitoring.LookbackHours != 6 {
		t.Errorf("LookbackHours = %d, flag should win", got.Monitoring.LookbackHours)
	}
	if got.Monitoring.RefreshInterval != 2*time.Minute {
		t.Errorf("RefreshInterval = %v, env should override file", got.Monitoring.RefreshInterval)
	}
	if got.Monitoring.Workers != 8 {
		t.Errorf("Workers = %d, want 8", got.Monitoring.Workers)
	}
}

func TestGetSettings_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, validConfig)

	got, err := newTestService(map[string]string{"ETLCOST_CONFIG": path}).GetSettings(model.Flags{})
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got.Bucket != "etl-data" {
		t.Errorf("Bucket = %q, want etl-data", got.Bucket)
	}
}

func TestGetSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing rate",
			content: strings.Replace(validConfig, "    get_request_per_1000: 0.0004\n", "", 1),
			wantMsg: "pricing.s3.get_request_per_1000 is required",
		},
		{
			name:    "negative rate",
			content: strings.Replace(validConfig, "request_per_million: 0.20", "request_per_million: -1", 1),
			wantMsg: "pricing.lambda.request_per_million must be non-negative",
		},
		{
			name:    "infinite rate",
			content: strings.Replace(validConfig, "storage_per_gb_month: 0.023", "storage_per_gb_month: .inf", 1),
			wantMsg: "pricing.s3.storage_per_gb_month must be a finite number",
		},
		{
			name:    "not a number rate",
			content: strings.Replace(validConfig, "duration_per_gb_second: 0.0000166667", "duration_per_gb_second: .nan", 1),
			wantMsg: "pricing.lambda.duration_per_gb_second must be a finite number",
		},
		{
			name:    "missing bucket",
			content: strings.Replace(validConfig, "  bucket: etl-data\n", "", 1),
			wantMsg: "s3.bucket is required",
		},
		{
			name:    "duplicate datafeed",
			content: strings.Replace(validConfig, "name: clicks\n", "name: orders\n", 1),
			wantMsg: `duplicate datafeed "orders"`,
		},
		{
			name:    "unknown key",
			content: validConfig + "unexpected: true\n",
			wantMsg: "field unexpected not found",
		},
		{
			name:    "zero lookback",
			content: strings.Replace(validConfig, "lookback_hours: 12", "lookback_hours: 0", 1),
			wantMsg: "monitoring.lookback_hours must be positive",
		},
		{
			name:    "lookback beyond retention",
			content: strings.Replace(validConfig, "lookback_hours: 12", "lookback_hours: 20000", 1),
			wantMsg: "monitoring.lookback_hours must be at most 10920",
		},
		{
			name:    "bad env integer",
			content: validConfig,
			env:     map[string]string{"ETLCOST_WORKERS": "many"},
			wantMsg: "ETLCOST_WORKERS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := newTestService(tt.env).GetSettings(model.Flags{ConfigPath: path})
			if err == nil {
				t.Fatal("GetSettings() expected error")
			}
			if !errors.Is(err, model.ErrInvalidSettings) {
				t.Errorf("error %v should wrap ErrInvalidSettings", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGetSettings_MissingFile(t *testing.T) {
	_, err := newTestService(nil).GetSettings(model.Flags{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	if !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("error = %v, want ErrInvalidSettings", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, should wrap os.ErrNotExist", err)
	}
}
