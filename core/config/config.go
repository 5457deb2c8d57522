package config

import (
	"reflect"
	"strings"

	"card-mirror/core/database"
	"card-mirror/core/fetcher"
	"card-mirror/core/filestore"
	"card-mirror/core/logger"
	"card-mirror/core/server"
	"card-mirror/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP lookup API.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the publication bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the export database.
	Database database.Config `mapstructure:"database"`
	// Mirror holds the cache layout and the manifest endpoint.
	Mirror filestore.Config `mapstructure:"mirror"`
	// Fetch holds the outbound request limits.
	Fetch fetcher.Config `mapstructure:"fetch"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load the .env file next to the working directory, if any
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	// 2. Register every key with its default
	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// 3. Let environment variables override the defaults
	// Map environment variables to nested keys (e.g. MIRROR_CACHE_DIR -> mirror.cache_dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Decode into the typed sections
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// Accept a pointer to the struct as well
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		// Untagged fields are not configuration
		if tag == "" {
			continue
		}

		// Nested sections are dot-separated
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Recurse into nested sections
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
