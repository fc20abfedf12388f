package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Providers struct {
		Gemini struct {
			Model       string  `mapstructure:"model"`
			Temperature float32 `mapstructure:"temperature"`
		} `mapstructure:"gemini"`
		Places struct {
			Language string `mapstructure:"language"`
			Region   string `mapstructure:"region"`
		} `mapstructure:"places"`
	} `mapstructure:"providers"`
	Cache struct {
		Backend       string        `mapstructure:"backend"` // "memory" or "redis"
		RedisAddr     string        `mapstructure:"redisAddr"`
		RedisDB       int           `mapstructure:"redisDB"`
		GeocodeTTL    time.Duration `mapstructure:"geocodeTTL"`
		SearchTTL     time.Duration `mapstructure:"searchTTL"`
		CleanupPeriod time.Duration `mapstructure:"cleanupPeriod"`
	} `mapstructure:"cache"`
	Itinerary struct {
		MaxKeywords     int `mapstructure:"maxKeywords"`
		MaxCandidates   int `mapstructure:"maxCandidates"`
		PromptPoolLimit int `mapstructure:"promptPoolLimit"`
	} `mapstructure:"itinerary"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config, fall back to the embedded copy
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
