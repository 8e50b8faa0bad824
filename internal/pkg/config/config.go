package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Geodesy   GeodesyConfig   `mapstructure:"geodesy"`
	Shapes    ShapesConfig    `mapstructure:"shapes"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr     string `mapstructure:"addr"`
	CacheTTL int    `mapstructure:"cache_ttl"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// GeodesyConfig selects the ellipsoid and the solver parameters.
type GeodesyConfig struct {
	EquatorialRadius float64 `mapstructure:"equatorial_radius"`
	Flattening       float64 `mapstructure:"flattening"`
	Precision        int     `mapstructure:"precision"`
	MaxIterations    int     `mapstructure:"max_iterations"`
	Tolerance        float64 `mapstructure:"tolerance"`
}

// Solver builds the configured geodesic solver.
func (g GeodesyConfig) Solver() (geodesy.Solver, error) {
	e, err := geodesy.NewEllipsoid(g.EquatorialRadius, g.Flattening)
	if err != nil {
		return geodesy.Solver{}, err
	}
	s := geodesy.NewSolver(e)
	s.Precision = g.Precision
	s.MaxIterations = g.MaxIterations
	s.Tolerance = g.Tolerance
	return s, nil
}

// ShapesConfig bounds and defaults the shape generators.
type ShapesConfig struct {
	WedgeSteps  int `mapstructure:"wedge_steps"`
	CircleSteps int `mapstructure:"circle_steps"`
	MaxSteps    int `mapstructure:"max_steps"`
	MaxRings    int `mapstructure:"max_rings"`
	RingWorkers int `mapstructure:"ring_workers"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "geoshape")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "geoshape")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.cache_ttl", 3600)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "geoshape-rings")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("geodesy.equatorial_radius", geodesy.WGS84.Radius())
	v.SetDefault("geodesy.flattening", geodesy.WGS84.Flattening())
	v.SetDefault("geodesy.precision", geodesy.DefaultPrecision)
	v.SetDefault("geodesy.max_iterations", geodesy.DefaultMaxIterations)
	v.SetDefault("geodesy.tolerance", geodesy.DefaultTolerance)
	v.SetDefault("shapes.wedge_steps", 15)
	v.SetDefault("shapes.circle_steps", 36)
	v.SetDefault("shapes.max_steps", 3600)
	v.SetDefault("shapes.max_rings", 100)
	v.SetDefault("shapes.ring_workers", 4)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOSHAPE_GEODESY_PRECISION → geodesy.precision
	v.SetEnvPrefix("GEOSHAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	g := c.Geodesy
	if g.EquatorialRadius <= 0 || math.IsNaN(g.EquatorialRadius) {
		errs = append(errs, fmt.Sprintf("geodesy.equatorial_radius must be positive, got %v", g.EquatorialRadius))
	}
	if g.Flattening < 0 || g.Flattening >= 1 {
		errs = append(errs, fmt.Sprintf("geodesy.flattening must be in [0, 1), got %v", g.Flattening))
	}
	if g.Precision < 0 || g.Precision > 15 {
		errs = append(errs, fmt.Sprintf("geodesy.precision must be 0-15, got %d", g.Precision))
	}
	if g.MaxIterations < 1 {
		errs = append(errs, "geodesy.max_iterations must be at least 1")
	}
	if g.Tolerance < 0 {
		errs = append(errs, "geodesy.tolerance must not be negative")
	}

	s := c.Shapes
	if s.WedgeSteps < 2 {
		errs = append(errs, "shapes.wedge_steps must be at least 2")
	}
	if s.CircleSteps < 1 {
		errs = append(errs, "shapes.circle_steps must be at least 1")
	}
	if s.MaxSteps < s.WedgeSteps || s.MaxSteps < s.CircleSteps {
		errs = append(errs, "shapes.max_steps must cover the default step counts")
	}
	if s.MaxRings < 1 {
		errs = append(errs, "shapes.max_rings must be at least 1")
	}
	if s.RingWorkers < 1 {
		errs = append(errs, "shapes.ring_workers must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
