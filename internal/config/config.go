package config

type Config struct {
	ConfigVersion int           `yaml:"configVersion"`
	Extract       ExtractConfig `yaml:"extract"`
	Limits        Limits        `yaml:"limits"`
	Server        ServerConfig  `yaml:"server"`
	Logging       LoggingConfig `yaml:"logging"`
	Metrics       MetricsConfig `yaml:"metrics"`

	baseDir string `yaml:"-"`
}

type ExtractConfig struct {
	Categories []string        `yaml:"categories"`
	Normalize  NormalizeConfig `yaml:"normalize"`
}

type NormalizeConfig struct {
	Trim           bool `yaml:"trim"`
	URLDecode      bool `yaml:"urlDecode"`
	HTMLEntity     bool `yaml:"htmlEntity"`
	MaxDecodeDepth int  `yaml:"maxDecodeDepth"`
}

type Limits struct {
	MaxInputBytes int64 `yaml:"maxInputBytes"`
}

type ServerConfig struct {
	Listen    string          `yaml:"listen"`
	TLS       TLSConfig       `yaml:"tls"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
}

type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Key        string  `yaml:"key"`
	RPS        float64 `yaml:"rps"`
	Burst      int     `yaml:"burst"`
	StatusCode int     `yaml:"statusCode"`
}

type LoggingConfig struct {
	ResultLog string `yaml:"resultLog"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

const (
	RateLimitKeyIP       = "ip"
	RateLimitKeyEndpoint = "ip_endpoint"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ConfigVersion: 1,
		Extract: ExtractConfig{
			Categories: []string{"emails", "urls", "phones", "credit_cards", "times", "html_tags", "hashtags", "currency"},
			Normalize: NormalizeConfig{
				Trim:           true,
				MaxDecodeDepth: 2,
			},
		},
		Limits: Limits{MaxInputBytes: 1 << 20},
		Server: ServerConfig{
			Listen: ":8080",
			RateLimit: RateLimitConfig{
				Key:        RateLimitKeyIP,
				RPS:        10,
				Burst:      20,
				StatusCode: 429,
			},
		},
		Metrics: MetricsConfig{Listen: ":9090"},
	}
}

func (c *Config) BaseDir() string {
	return c.baseDir
}

func (c *Config) ResolvePath(path string) string {
	return c.resolvePath(path)
}
