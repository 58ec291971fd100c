package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix      = "SCIONVIZ"
	ConfigName     = "scionviz"
	DefaultListen  = "0.0.0.0:8080"
	DefaultSciond  = "172.20.0.20:30255"
	DefaultLogTail = 20
)

var DefaultLogKeywords = []string{"beacon", "path", "signer", "error"}

// Config holds every setting of the visualizer backend.
type Config struct {
	ProjectRoot string          `mapstructure:"project_root" yaml:"project_root"`
	Server      ServerConfig    `mapstructure:"server" yaml:"server"`
	Exec        ExecConfig      `mapstructure:"exec" yaml:"exec"`
	SCION       SCIONConfig     `mapstructure:"scion" yaml:"scion"`
	Logs        LogsConfig      `mapstructure:"logs" yaml:"logs"`
	DNS         DNSConfig       `mapstructure:"dns" yaml:"dns"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Listen          string        `mapstructure:"listen" yaml:"listen"`
	StaticDir       string        `mapstructure:"static_dir" yaml:"static_dir"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type ExecConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SCIONConfig names the container the scion CLI runs in and the
// endpoints it is pointed at.
type SCIONConfig struct {
	Container        string `mapstructure:"container" yaml:"container"`
	Sciond           string `mapstructure:"sciond" yaml:"sciond"`
	PathsDestination string `mapstructure:"paths_destination" yaml:"paths_destination"`
	// PingTarget is a SCION address (ISD-AS,IP) or a host name carrying a
	// "scion=" TXT record.
	PingTarget string `mapstructure:"ping_target" yaml:"ping_target"`
	PingCount  int    `mapstructure:"ping_count" yaml:"ping_count"`
}

type LogsConfig struct {
	Tail     int      `mapstructure:"tail" yaml:"tail"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
	MaxLines int      `mapstructure:"max_lines" yaml:"max_lines"`
}

type DNSConfig struct {
	Server  string        `mapstructure:"server" yaml:"server"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Requests  int           `mapstructure:"requests" yaml:"requests"`
	Window    time.Duration `mapstructure:"window" yaml:"window"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project_root", ".")

	v.SetDefault("server.listen", DefaultListen)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 45*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("exec.timeout", 30*time.Second)

	v.SetDefault("scion.container", "scion-as111")
	v.SetDefault("scion.sciond", DefaultSciond)
	v.SetDefault("scion.paths_destination", "2-ff00:0:211")
	v.SetDefault("scion.ping_target", "1-ff00:0:110,172.20.0.10")
	v.SetDefault("scion.ping_count", 3)

	v.SetDefault("logs.tail", DefaultLogTail)
	v.SetDefault("logs.keywords", DefaultLogKeywords)
	v.SetDefault("logs.max_lines", 15)

	v.SetDefault("dns.server", "127.0.0.1:53")
	v.SetDefault("dns.timeout", 5*time.Second)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 60)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("ratelimit.redis_addr", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance with defaults and environment overrides
// (SCIONVIZ_SERVER_LISTEN, SCIONVIZ_EXEC_TIMEOUT, ...) configured.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path into v. With an empty path it looks
// for scionviz.yaml in the working directory and falls back to defaults
// when none exists.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return &ConfigError{Field: "server.listen", Message: err.Error()}
	}
	if c.ProjectRoot == "" {
		return &ConfigError{Field: "project_root", Message: "must not be empty"}
	}
	if c.Exec.Timeout <= 0 {
		return &ConfigError{Field: "exec.timeout", Message: "must be positive"}
	}
	if c.SCION.Container == "" {
		return &ConfigError{Field: "scion.container", Message: "is required"}
	}
	if c.SCION.PingCount <= 0 {
		return &ConfigError{Field: "scion.ping_count", Message: "must be positive"}
	}
	if c.Logs.Tail <= 0 || c.Logs.MaxLines <= 0 {
		return &ConfigError{Field: "logs", Message: "tail and max_lines must be positive"}
	}
	if len(c.Logs.Keywords) == 0 {
		return &ConfigError{Field: "logs.keywords", Message: "at least one keyword is required"}
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return &ConfigError{Field: "ratelimit", Message: "requests and window must be positive when enabled"}
	}
	return nil
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
