package pollboard

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pollboard/paging"
	"github.com/eringen/pollboard/rank"
	"github.com/eringen/pollboard/source"
	"github.com/eringen/pollboard/views"
)

// SiteConfig holds all configuration for a pollboard site.
type SiteConfig struct {
	Name        string `yaml:"name" json:"name"`               // Site name (default "Poll Board")
	URL         string `yaml:"url" json:"url"`                 // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description" json:"description"` // Meta description and RSS channel text

	Addr string `yaml:"addr" json:"addr"` // Listen address (default ":3000")

	SourceURL       string        `yaml:"source_url" json:"source_url"`               // Poll feed (default source.DefaultURL)
	ThreadURLFormat string        `yaml:"thread_url_format" json:"thread_url_format"` // printf format for thread links
	FetchTimeout    time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`         // Feed request timeout (default 10s)

	// RefreshInterval is the minimum time between two upstream refreshes
	// (default 1m). RefreshPerMinute caps refresh requests per client IP.
	RefreshInterval  time.Duration `yaml:"refresh_interval" json:"refresh_interval"`
	RefreshPerMinute int           `yaml:"refresh_per_minute" json:"refresh_per_minute"`

	PageSize int    `yaml:"page_size" json:"page_size"` // Table rows per page (default 100)
	VizLimit int    `yaml:"viz_limit" json:"viz_limit"` // Visualization words (default 75)
	FontPath string `yaml:"font_path" json:"font_path"` // Optional TTF/OTF for /viz.png

	SessionSecret string `yaml:"session_secret" json:"session_secret"` // Required: session cookie secret
	CookieSecure  bool   `yaml:"cookie_secure" json:"cookie_secure"`   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Poll Board"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.SourceURL == "" {
		c.SourceURL = source.DefaultURL
	}
	if c.ThreadURLFormat == "" {
		c.ThreadURLFormat = views.DefaultThreadURLFormat
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = time.Minute
	}
	if c.RefreshPerMinute == 0 {
		c.RefreshPerMinute = 5
	}
	if c.PageSize == 0 {
		c.PageSize = paging.DefaultPageSize
	}
	if c.VizLimit == 0 {
		c.VizLimit = rank.DefaultLimit
	}
}

// viewConfig is the subset templates see.
func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:            c.Name,
		URL:             c.URL,
		Description:     c.Description,
		SourceURL:       c.SourceURL,
		ThreadURLFormat: c.ThreadURLFormat,
	}
}

const configSchema = `
#Config: {
	name:               string & !=""
	url:                =~"^https?://"
	description:        string
	addr:               string & !=""
	source_url:         =~"^https?://"
	thread_url_format:  =~"%d"
	fetch_timeout:      int & >0
	refresh_interval:   int & >=0
	refresh_per_minute: int & >0
	page_size:          int & >0 & <=1000
	viz_limit:          int & >0 & <=500
	font_path:          string
	session_secret:     string
	cookie_secure:      bool
}
`

// Validate checks the configuration against the CUE schema above.
func (c SiteConfig) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("pollboard: compile config schema: %w", err)
	}
	v := schema.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("pollboard: invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a SiteConfig from an optional YAML file, then applies
// POLLBOARD_* environment overrides and defaults, and validates the result.
// An empty path falls back to $POLLBOARD_CONFIG; no file at all is fine.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path == "" {
		path = os.Getenv("POLLBOARD_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("pollboard: read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("pollboard: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	c.Name = EnvOr("POLLBOARD_NAME", c.Name)
	c.URL = EnvOr("POLLBOARD_URL", c.URL)
	c.Description = EnvOr("POLLBOARD_DESCRIPTION", c.Description)
	c.Addr = EnvOr("POLLBOARD_ADDR", c.Addr)
	c.SourceURL = EnvOr("POLLBOARD_SOURCE_URL", c.SourceURL)
	c.ThreadURLFormat = EnvOr("POLLBOARD_THREAD_URL_FORMAT", c.ThreadURLFormat)
	c.FontPath = EnvOr("POLLBOARD_FONT_PATH", c.FontPath)
	c.SessionSecret = EnvOr("POLLBOARD_SESSION_SECRET", c.SessionSecret)

	durations := map[string]*time.Duration{
		"POLLBOARD_FETCH_TIMEOUT":    &c.FetchTimeout,
		"POLLBOARD_REFRESH_INTERVAL": &c.RefreshInterval,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("pollboard: %s: %w", key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"POLLBOARD_PAGE_SIZE":          &c.PageSize,
		"POLLBOARD_VIZ_LIMIT":          &c.VizLimit,
		"POLLBOARD_REFRESH_PER_MINUTE": &c.RefreshPerMinute,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("pollboard: %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("POLLBOARD_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("pollboard: POLLBOARD_COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets a directory of extra static assets served under
// /public/ after the embedded ones (default none).
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSource replaces the HTTP feed client, e.g. with a fixture in tests.
func WithSource(f source.Fetcher) Option {
	return func(a *App) {
		a.source = f
	}
}
