package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid     string `yaml:"appid"`
	Location  string `yaml:"location"`
	Workdir   string `yaml:"workdir"`
	PublicDir string `yaml:"public_dir"`
	Debug     bool   `yaml:"debug"`
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// WebConfig accessor API listener
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig catalog document locations and currencies
type CatalogConfig struct {
	Dir               string  `yaml:"dir"`
	OverrideFile      string  `yaml:"override_file"`
	GeneratedFile     string  `yaml:"generated_file"`
	RatesFile         string  `yaml:"rates_file"`
	SheetSidecarFile  string  `yaml:"sheet_sidecar_file"`
	BaseCurrency      string  `yaml:"base_currency"`
	SecondaryCurrency string  `yaml:"secondary_currency"`
	StoreName         string  `yaml:"store_name"`
	FallbackRate      float64 `yaml:"fallback_rate"`
}

// SheetConfig tabular export fetch settings
type SheetConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	Attempts  int           `yaml:"attempts"`
	Backoff   time.Duration `yaml:"backoff"`
	UserAgent string        `yaml:"user_agent"`
}

// AssetsConfig delivery and image trees under the public dir
type AssetsConfig struct {
	ProductsDir string `yaml:"products_dir"`
	ImagesDir   string `yaml:"images_dir"`
	QRFile      string `yaml:"qr_file"`
	Required    bool   `yaml:"required"`
	Workers     int    `yaml:"workers"`
}

// RatesConfig exchange rate provider
type RatesConfig struct {
	ProviderURL string        `yaml:"provider_url"`
	Timeout     time.Duration `yaml:"timeout"`
	HistoryDir  string        `yaml:"history_dir"`
}

// StoreConfig snapshot persistence
type StoreConfig struct {
	Path      string `yaml:"path"`
	Retention int    `yaml:"retention"`
	NodeID    int64  `yaml:"node_id"`
}

// JobsConfig cron specs for serve mode
type JobsConfig struct {
	CatalogRefresh string `yaml:"catalog_refresh"`
	RatesUpdate    string `yaml:"rates_update"`
}

// VerifyConfig diagnostics behaviour
type VerifyConfig struct {
	Strict bool `yaml:"strict"`
}

// SmokeConfig banned identifier scan
type SmokeConfig struct {
	BannedIdentifiers []string `yaml:"banned_identifiers"`
	ScanRoots         []string `yaml:"scan_roots"`
	Extensions        []string `yaml:"extensions"`
	IgnoreDirs        []string `yaml:"ignore_dirs"`
}

// AppConfig storecatalog application configuration
type AppConfig struct {
	System  SysConfig     `yaml:"system"`
	Logger  LogConfig     `yaml:"logger"`
	Web     WebConfig     `yaml:"web"`
	Catalog CatalogConfig `yaml:"catalog"`
	Sheet   SheetConfig   `yaml:"sheet"`
	Assets  AssetsConfig  `yaml:"assets"`
	Rates   RatesConfig   `yaml:"rates"`
	Store   StoreConfig   `yaml:"store"`
	Jobs    JobsConfig    `yaml:"jobs"`
	Verify  VerifyConfig  `yaml:"verify"`
	Smoke   SmokeConfig   `yaml:"smoke"`
}

// PublicPath joins elements under the public directory
func (c *AppConfig) PublicPath(elem ...string) string {
	return filepath.Join(append([]string{c.publicRoot()}, elem...)...)
}

// CatalogPath joins elements under the catalog directory
func (c *AppConfig) CatalogPath(name string) string {
	return c.PublicPath(c.Catalog.Dir, name)
}

// WorkPath joins elements under the working directory
func (c *AppConfig) WorkPath(elem ...string) string {
	return filepath.Join(append([]string{c.System.Workdir}, elem...)...)
}

// ResolvePath returns p unchanged when absolute, otherwise joined to the workdir
func (c *AppConfig) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return c.WorkPath(p)
}

func (c *AppConfig) publicRoot() string {
	if filepath.IsAbs(c.System.PublicDir) {
		return c.System.PublicDir
	}
	return filepath.Join(c.System.Workdir, c.System.PublicDir)
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:     "storecatalog",
			Location:  "Asia/Bangkok",
			Workdir:   ".",
			PublicDir: "public",
		},
		Logger: LogConfig{
			Mode:     "development",
			Filename: "logs/storecatalog.log",
		},
		Web: WebConfig{Host: "0.0.0.0", Port: 8088},
		Catalog: CatalogConfig{
			Dir:               "catalog",
			OverrideFile:      "meta.json",
			GeneratedFile:     "auto.json",
			RatesFile:         "rates.json",
			SheetSidecarFile:  "sheet.json",
			BaseCurrency:      "THB",
			SecondaryCurrency: "USD",
			StoreName:         "InkChain AI Store",
			FallbackRate:      0.028,
		},
		Sheet: SheetConfig{
			Timeout:   10 * time.Second,
			Attempts:  3,
			Backoff:   300 * time.Millisecond,
			UserAgent: "storecatalog/1.0 (+catalog-sync)",
		},
		Assets: AssetsConfig{
			ProductsDir: "products",
			ImagesDir:   "images",
			QRFile:      "qr-promptpay.png",
			Workers:     16,
		},
		Rates: RatesConfig{
			ProviderURL: "https://api.frankfurter.app/latest",
			Timeout:     10 * time.Second,
			HistoryDir:  "data/rates",
		},
		Store: StoreConfig{Path: "data/catalog.db", Retention: 30, NodeID: 1},
		Jobs: JobsConfig{
			CatalogRefresh: "@every 15m",
			RatesUpdate:    "@daily",
		},
		Smoke: SmokeConfig{
			BannedIdentifiers: []string{"buildDisplayPrice", "applyUSDPolicyFromTHB", "applyUSDPolicyOnManualUSD"},
			ScanRoots:         []string{"."},
			Extensions:        []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"},
			IgnoreDirs:        []string{"node_modules", ".next", ".git", ".vercel", "dist", "out", "coverage", "vendor", "_examples"},
		},
	}
}

// Load reads the YAML file (optional), dotenv files and environment overrides.
// An empty path falls back to storecatalog.yml in the working directory.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = "storecatalog.yml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	// .env.local wins over .env; neither overrides variables already set
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
	cfg.applyEnvOverrides()
	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("STORECATALOG_WORKDIR"); v != "" {
		c.System.Workdir = v
	}
	if v := os.Getenv("STORECATALOG_PUBLIC_DIR"); v != "" {
		c.System.PublicDir = v
	}
	if v := os.Getenv("SHEET_CSV_URL"); v != "" {
		c.Sheet.URL = v
	}
	if v := os.Getenv("STORECATALOG_LOG_MODE"); v != "" {
		c.Logger.Mode = v
	}
	if v := os.Getenv("STORECATALOG_WEB_PORT"); v != "" {
		if port, err := cast.ToIntE(v); err == nil {
			c.Web.Port = port
		}
	}
	if v := os.Getenv("STORECATALOG_ASSETS_REQUIRED"); v != "" {
		c.Assets.Required = cast.ToBool(v)
	}
	if v := os.Getenv("STORECATALOG_STRICT"); v != "" {
		c.Verify.Strict = cast.ToBool(v)
	}
	if v := os.Getenv("STORECATALOG_DEBUG"); v != "" {
		c.System.Debug = cast.ToBool(v)
	}
	if v := os.Getenv("STORECATALOG_BANNED_IDENTIFIERS"); v != "" {
		c.Smoke.BannedIdentifiers = splitList(v)
	}
}

func (c *AppConfig) normalize() {
	if c.System.Workdir == "" {
		c.System.Workdir = "."
	}
	if c.Sheet.Attempts < 1 {
		c.Sheet.Attempts = 1
	}
	if c.Sheet.Backoff < 0 {
		c.Sheet.Backoff = 0
	}
	if c.Assets.Workers < 1 {
		c.Assets.Workers = 1
	}
	c.Catalog.BaseCurrency = strings.ToUpper(strings.TrimSpace(c.Catalog.BaseCurrency))
	c.Catalog.SecondaryCurrency = strings.ToUpper(strings.TrimSpace(c.Catalog.SecondaryCurrency))
	if c.Catalog.FallbackRate <= 0 {
		c.Catalog.FallbackRate = 0.028
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
