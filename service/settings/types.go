package settings

import "github.com/elC0mpa/etl-cost-monitor/model"

const envPrefix = "ETLCOST_"

const (
	defaultRefreshIntervalSeconds = 300
	defaultLookbackHours          = 24
	defaultCallTimeoutSeconds     = 30
	defaultWorkers                = 4
	defaultLogLevel               = "info"
)

// fileConfig mirrors the YAML file. Pricing rates are pointers so a missing
// rate can be told apart from an explicit zero.
type fileConfig struct {
	Region     string           `yaml:"region"`
	LogLevel   string           `yaml:"log_level"`
	S3         s3Config         `yaml:"s3"`
	Lambda     lambdaConfig     `yaml:"lambda"`
	Pricing    pricingConfig    `yaml:"pricing"`
	Monitoring monitoringConfig `yaml:"monitoring"`
}

type s3Config struct {
	Bucket    string           `yaml:"bucket"`
	Datafeeds []datafeedConfig `yaml:"datafeeds"`
}

type datafeedConfig struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
}

type lambdaConfig struct {
	Functions []functionConfig `yaml:"functions"`
}

type functionConfig struct {
	Name     string `yaml:"name"`
	Datafeed string `yaml:"datafeed"`
}

type pricingConfig struct {
	S3     s3PricingConfig     `yaml:"s3"`
	Lambda lambdaPricingConfig `yaml:"lambda"`
}

type s3PricingConfig struct {
	StoragePerGBMonth *float64 `yaml:"storage_per_gb_month"`
	PutRequestPer1000 *float64 `yaml:"put_request_per_1000"`
	GetRequestPer1000 *float64 `yaml:"get_request_per_1000"`
}

type lambdaPricingConfig struct {
	RequestPerMillion   *float64 `yaml:"request_per_million"`
	DurationPerGBSecond *float64 `yaml:"duration_per_gb_second"`
}

type monitoringConfig struct {
	RefreshIntervalSeconds int    `yaml:"refresh_interval_seconds"`
	LookbackHours          int    `yaml:"lookback_hours"`
	CallTimeoutSeconds     int    `yaml:"call_timeout_seconds"`
	Workers                int    `yaml:"workers"`
	ListenAddr             string `yaml:"listen_addr"`
}

type service struct {
	getenv func(string) string
}

type SettingsService interface {
	GetSettings(flags model.Flags) (model.Settings, error)
}
