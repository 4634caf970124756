package weaviate

import (
	"fmt"
	"reflect"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig reads a YAML file (optional, pass "" to skip) on top of
// DefaultConfig and applies the environment overrides named by the env
// tags on Config, e.g. WEAVIATE_GRPC_PORT. Any dotenv files are loaded first; they never
// replace variables that are already set.
func LoadConfig(path string, dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) > 0 {
		if err := godotenv.Load(dotenvFiles...); err != nil {
			return nil, fmt.Errorf("[Weaviate] failed to load env files: %w", err)
		}
	}

	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("host", def.Host)
	v.SetDefault("http_port", def.HTTPPort)
	v.SetDefault("grpc_port", def.GRPCPort)
	v.SetDefault("secure", def.Secure)
	v.SetDefault("api_key", def.APIKey)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("connect_timeout", def.ConnectTimeout)
	v.SetDefault("batch_concurrency", def.BatchConcurrency)
	v.SetDefault("version_override", def.VersionOverride)
	v.SetDefault("check_version_on_start", def.CheckVersionOnStart)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("[Weaviate] failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("[Weaviate] failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnv binds each Config field that has an env tag to that variable.
func bindEnv(v *viper.Viper) error {
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		env, key := f.Tag.Get("env"), f.Tag.Get("mapstructure")
		if env == "" || key == "" {
			continue
		}
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("[Weaviate] failed to bind %s: %w", env, err)
		}
	}
	return nil
}
