package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Log            LogConfig            `mapstructure:"log"`
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Query          QueryConfig          `mapstructure:"query"`
	Telemetry      TelemetryConfig      `mapstructure:"telemetry"`
	Alert          AlertConfig          `mapstructure:"alert"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds graph store connection configuration.
type DatabaseConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// QueryConfig holds the retrieval and ranking knobs. The scoring constants
// in pkg/rank are empirically chosen; these are the operator-facing subset.
type QueryConfig struct {
	// MaxHops bounds path and neighborhood search depth. Valid range 1-5.
	MaxHops int `mapstructure:"max_hops"`
	// ResultLimit caps the ranked result list. Valid range 1-100.
	ResultLimit int `mapstructure:"result_limit"`
	// MinPathWeight is the threshold below which a path's whole relevance
	// score is halved as a penalty.
	MinPathWeight float64 `mapstructure:"min_path_weight"`
	// MinEdgeWeight discards any path containing an edge at or below this
	// weight, before the path weight is computed.
	MinEdgeWeight float64 `mapstructure:"min_edge_weight"`
	// PagerankBoostFactor rescales stored centrality in the relevance score.
	PagerankBoostFactor float64 `mapstructure:"pagerank_boost_factor"`
	// MaxEntitiesPerSpan caps how many entities one query span may resolve
	// to, bounding the pairwise search fan-out.
	MaxEntitiesPerSpan int `mapstructure:"max_entities_per_span"`
	// MaxPathsPerPair caps paths materialized per (pair, hop) search.
	MaxPathsPerPair int `mapstructure:"max_paths_per_pair"`
	// SearchWorkers bounds concurrent store round-trips; size it to the
	// store's connection pool.
	SearchWorkers int `mapstructure:"search_workers"`
	// Timeout bounds the whole query. Searches still in flight when it
	// expires are dropped and the completed ones are ranked.
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig holds telemetry configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// AlertConfig holds configuration for alerting.
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around the
// graph store.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)
	config.Query = config.Query.Clamped()

	return config, nil
}

// DefaultQueryConfig returns the query knobs at their documented defaults.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		MaxHops:             3,
		ResultLimit:         20,
		MinPathWeight:       0.01,
		MinEdgeWeight:       0.1,
		PagerankBoostFactor: 2.0,
		MaxEntitiesPerSpan:  3,
		MaxPathsPerPair:     5,
		SearchWorkers:       4,
		Timeout:             30 * time.Second,
	}
}

// Clamped returns a copy with every knob forced into its valid range and
// zero values replaced by defaults.
func (q QueryConfig) Clamped() QueryConfig {
	def := DefaultQueryConfig()

	if q.MaxHops == 0 {
		q.MaxHops = def.MaxHops
	}
	q.MaxHops = clampInt(q.MaxHops, 1, 5)

	if q.ResultLimit == 0 {
		q.ResultLimit = def.ResultLimit
	}
	q.ResultLimit = clampInt(q.ResultLimit, 1, 100)

	if q.MinPathWeight == 0 {
		q.MinPathWeight = def.MinPathWeight
	}
	q.MinPathWeight = clampFloat(q.MinPathWeight, 0.0, 1.0)

	if q.MinEdgeWeight == 0 {
		q.MinEdgeWeight = def.MinEdgeWeight
	}
	if q.PagerankBoostFactor == 0 {
		q.PagerankBoostFactor = def.PagerankBoostFactor
	}
	if q.MaxEntitiesPerSpan <= 0 {
		q.MaxEntitiesPerSpan = def.MaxEntitiesPerSpan
	}
	if q.MaxPathsPerPair <= 0 {
		q.MaxPathsPerPair = def.MaxPathsPerPair
	}
	if q.SearchWorkers <= 0 {
		q.SearchWorkers = def.SearchWorkers
	}
	if q.Timeout <= 0 {
		q.Timeout = def.Timeout
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.uri", "bolt://localhost:7687")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "neo4j")

	def := DefaultQueryConfig()
	viper.SetDefault("query.max_hops", def.MaxHops)
	viper.SetDefault("query.result_limit", def.ResultLimit)
	viper.SetDefault("query.min_path_weight", def.MinPathWeight)
	viper.SetDefault("query.min_edge_weight", def.MinEdgeWeight)
	viper.SetDefault("query.pagerank_boost_factor", def.PagerankBoostFactor)
	viper.SetDefault("query.max_entities_per_span", def.MaxEntitiesPerSpan)
	viper.SetDefault("query.max_paths_per_pair", def.MaxPathsPerPair)
	viper.SetDefault("query.search_workers", def.SearchWorkers)
	viper.SetDefault("query.timeout", def.Timeout)

	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.graphquery/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USERNAME"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}
}
