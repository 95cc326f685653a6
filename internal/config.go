package internal

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Trove/internal/api"
	"github.com/hbomb79/Trove/internal/database"
	"github.com/hbomb79/Trove/internal/extract"
	"github.com/hbomb79/Trove/internal/ingest"
	"github.com/hbomb79/Trove/pkg/logger"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// TroveConfig is the struct used to contain the
// various user config supplied by file and/or
// environment variables.
type TroveConfig struct {
	RestConfig api.RestConfig          `yaml:"rest"`
	Database   database.DatabaseConfig `yaml:"database"`
	Ingest     ingest.Config           `yaml:"ingest"`
	Extractor  extract.Config          `yaml:"extractor"`
	LogLevel   string                  `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO" validate:"oneof=VERBOSE DEBUG INFO WARNING ERROR"`
}

// LoadFromFile loads a configuration file formatted in YAML in to the
// config, with environment variables taking precedence. If the path is
// empty, the config is read from the environment alone.
func (config *TroveConfig) LoadFromFile(configPath string) error {
	var err error
	if configPath == "" {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(configPath, config)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return config.finalise()
}

// finalise expands the user paths in the config and validates it.
func (config *TroveConfig) finalise() error {
	for _, path := range []*string{&config.Ingest.LibraryPath, &config.Database.Path, &config.Extractor.Binary} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return fmt.Errorf("failed to expand path '%s': %w", *path, err)
		}
		*path = expanded
	}

	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	return nil
}

func (config *TroveConfig) MinLogLevel() logger.LogStatus {
	level, err := logger.ParseLevel(config.LogLevel)
	if err != nil {
		return logger.INFO
	}

	return level
}
