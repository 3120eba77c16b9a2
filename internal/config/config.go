package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// SourceConfig says where the raw dataset comes from and where it is cached.
type SourceConfig struct {
	DataDir         string        `yaml:"data_dir" json:"data_dir" validate:"required"`
	DatasetURL      string        `yaml:"dataset_url" json:"dataset_url" validate:"required,url"`
	DatasetFile     string        `yaml:"dataset_file" json:"dataset_file" validate:"required"`
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
}

// OutputConfig controls console preview and CSV export. An empty Dir disables
// the export.
type OutputConfig struct {
	Dir         string `yaml:"dir" json:"dir"`
	PreviewRows int    `yaml:"preview_rows" json:"preview_rows" validate:"gte=0"`
}

// Config represents the application configuration
type Config struct {
	Source SourceConfig `yaml:"source" json:"source"`
	Output OutputConfig `yaml:"output" json:"output"`
}

var validate = validator.New()

// LoadConfig builds the configuration from defaults, environment variables
// and an optional config.yaml, in that order of precedence (file wins).
func LoadConfig() (*Config, error) {
	// Set default configuration
	config := &Config{}

	config.Source = SourceConfig{
		DataDir:         "../Data",
		DatasetURL:      "https://www.dropbox.com/s/wmgqf23ugn9sr3b/nba2k-full.csv?dl=1",
		DatasetFile:     "nba2k-full.csv",
		DownloadTimeout: 2 * time.Minute,
	}
	config.Output.PreviewRows = 10

	// Load configuration from environment variables
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		config.Source.DataDir = dir
	}
	if url := os.Getenv("DATASET_URL"); url != "" {
		config.Source.DatasetURL = url
	}
	if file := os.Getenv("DATASET_FILE"); file != "" {
		config.Source.DatasetFile = file
	}
	if timeout, err := time.ParseDuration(os.Getenv("DOWNLOAD_TIMEOUT")); err == nil {
		config.Source.DownloadTimeout = timeout
	}
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" {
		config.Output.Dir = dir
	}
	if rows, err := strconv.Atoi(os.Getenv("PREVIEW_ROWS")); err == nil {
		config.Output.PreviewRows = rows
	}

	// Load configuration from file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use default and environment values
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// Config file found, override default and environment values
		if viper.IsSet("source.data_dir") {
			config.Source.DataDir = viper.GetString("source.data_dir")
		}

		if viper.IsSet("source.dataset_url") {
			config.Source.DatasetURL = viper.GetString("source.dataset_url")
		}

		if viper.IsSet("source.dataset_file") {
			config.Source.DatasetFile = viper.GetString("source.dataset_file")
		}

		if viper.IsSet("source.download_timeout") {
			config.Source.DownloadTimeout = viper.GetDuration("source.download_timeout")
		}

		if viper.IsSet("output.dir") {
			config.Output.Dir = viper.GetString("output.dir")
		}

		if viper.IsSet("output.preview_rows") {
			config.Output.PreviewRows = viper.GetInt("output.preview_rows")
		}
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}
