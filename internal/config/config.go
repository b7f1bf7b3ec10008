package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Program generation tuning.
	ExercisesPerDayMin int    `mapstructure:"EXERCISES_PER_DAY_MIN"`
	ExercisesPerDayMax int    `mapstructure:"EXERCISES_PER_DAY_MAX"`
	DefaultVideoLink   string `mapstructure:"DEFAULT_VIDEO_LINK"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("EXERCISES_PER_DAY_MIN", 2)
	v.SetDefault("EXERCISES_PER_DAY_MAX", 3)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("EXERCISES_PER_DAY_MIN")
	v.BindEnv("EXERCISES_PER_DAY_MAX")
	v.BindEnv("DEFAULT_VIDEO_LINK")

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks the configuration beyond the presence checks in Load.
func (c *Config) Validate() error {
	if c.ExercisesPerDayMin < 1 || c.ExercisesPerDayMin > 7 {
		return fmt.Errorf("EXERCISES_PER_DAY_MIN must be between 1 and 7, got %d", c.ExercisesPerDayMin)
	}
	if c.ExercisesPerDayMax > 7 {
		return fmt.Errorf("EXERCISES_PER_DAY_MAX must be at most 7, got %d", c.ExercisesPerDayMax)
	}
	if c.ExercisesPerDayMax < c.ExercisesPerDayMin {
		return fmt.Errorf("EXERCISES_PER_DAY_MAX (%d) must not be below EXERCISES_PER_DAY_MIN (%d)",
			c.ExercisesPerDayMax, c.ExercisesPerDayMin)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
