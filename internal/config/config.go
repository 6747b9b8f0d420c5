package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dto-generator/internal/analyze"
	"dto-generator/internal/gen"
	"dto-generator/internal/mapping"
	"dto-generator/internal/plan"
)

// FileName is the base name of the project configuration file.
const FileName = "dto-generator"

// EnvPrefix prefixes environment overrides, e.g. DTOGEN_STRICT=true.
const EnvPrefix = "DTOGEN"

// Defaults.
const (
	DefaultPattern        = "./..."
	DefaultMaxSuggestions = 3
	DefaultDebounceMillis = 300
	DefaultLogLevel       = "info"
)

// Config is the complete tool configuration.
type Config struct {
	// Dir is the working directory for package patterns and relative paths.
	Dir string `mapstructure:"dir"`
	// Packages are the Go package patterns to scan.
	Packages []string `mapstructure:"packages"`
	// MappingFile is an optional YAML or TOML mapping file.
	MappingFile string `mapstructure:"mappingFile"`

	Output OutputConfig `mapstructure:"output"`

	Concurrency    int  `mapstructure:"concurrency"`
	Strict         bool `mapstructure:"strict"`
	MaxSuggestions int  `mapstructure:"maxSuggestions"`

	// Aliases adds annotation spellings on top of the defaults.
	Aliases []Alias `mapstructure:"aliases"`

	Log   LogConfig   `mapstructure:"log"`
	Watch WatchConfig `mapstructure:"watch"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// OutputConfig controls where and how generated code is written.
type OutputConfig struct {
	Package     string `mapstructure:"package"`
	PackageName string `mapstructure:"packageName"`
	Dir         string `mapstructure:"dir"`
	Suffix      string `mapstructure:"suffix"`
	Comments    bool   `mapstructure:"comments"`
}

// Alias maps an annotation spelling to a canonical identity or known spelling.
// Map keys are case-folded by the config layer, so aliases are a list.
type Alias struct {
	Name   string `mapstructure:"name"`
	Target string `mapstructure:"target"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type WatchConfig struct {
	DebounceMillis int `mapstructure:"debounceMillis"`
}

// Debounce is the quiet period before a change triggers regeneration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"dir":         "dir",
	"packages":    "packages",
	"mapping":     "mappingFile",
	"output-pkg":  "output.package",
	"output-name": "output.packageName",
	"output-dir":  "output.dir",
	"suffix":      "output.suffix",
	"comments":    "output.comments",
	"concurrency": "concurrency",
	"strict":      "strict",
	"suggestions": "maxSuggestions",
	"log-level":   "log.level",
	"dev-log":     "log.development",
	"debounce-ms": "watch.debounceMillis",
}

func setDefaults(v *viper.Viper) {
	gc := gen.DefaultGeneratorConfig()

	v.SetDefault("dir", "")
	v.SetDefault("packages", []string{DefaultPattern})
	v.SetDefault("mappingFile", "")
	v.SetDefault("output.package", "")
	v.SetDefault("output.packageName", "")
	v.SetDefault("output.dir", "")
	v.SetDefault("output.suffix", gc.FileSuffix)
	v.SetDefault("output.comments", gc.GenerateComments)
	v.SetDefault("concurrency", 0)
	v.SetDefault("strict", false)
	v.SetDefault("maxSuggestions", DefaultMaxSuggestions)
	v.SetDefault("aliases", []Alias{})
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.development", false)
	v.SetDefault("watch.debounceMillis", DefaultDebounceMillis)
}

// Default returns the configuration used when nothing is configured.
// The environment is not consulted.
func Default() Config {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}

	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. An explicit path must exist; otherwise
// dto-generator.yaml is looked up in searchDir and its absence is not an
// error. Environment variables override the file; flags that were set on
// the command line override both. flags may be nil.
func Load(path, searchDir string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if searchDir == "" {
			searchDir = "."
		}

		v.SetConfigName(FileName)
		v.AddConfigPath(searchDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}

	cfg.File = v.ConfigFileUsed()

	// Paths in a config file are relative to the file.
	if cfg.File != "" && !filepath.IsAbs(cfg.Dir) && !flagChanged(flags, "dir") {
		cfg.Dir = filepath.Join(filepath.Dir(cfg.File), cfg.Dir)
	}

	return cfg, cfg.Validate()
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}

		err = v.BindPFlag(key, f)
	})

	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	return nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	return flags != nil && flags.Changed(name)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c Config) Validate() error {
	var errs []error

	if len(c.Packages) == 0 {
		errs = append(errs, errors.New("packages must not be empty"))
	}

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency))
	}

	if c.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("maxSuggestions must be >= 0, got %d", c.MaxSuggestions))
	}

	for i, a := range c.Aliases {
		if a.Name == "" || a.Target == "" {
			errs = append(errs, fmt.Errorf("aliases[%d]: name and target are required", i))
		}
	}

	if c.Watch.DebounceMillis <= 0 {
		errs = append(errs, fmt.Errorf("watch.debounceMillis must be > 0, got %d", c.Watch.DebounceMillis))
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if err := c.GeneratorConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}

	return errors.Join(errs...)
}

// Path resolves p against Dir.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}

	return filepath.Join(c.Dir, p)
}

// GeneratorConfig returns the code generation settings.
func (c Config) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		OutputPackage:     c.Output.Package,
		OutputPackageName: c.Output.PackageName,
		OutputDir:         c.Path(c.Output.Dir),
		FileSuffix:        c.Output.Suffix,
		GenerateComments:  c.Output.Comments,
	}
}

// ResolutionConfig returns the resolver settings.
func (c Config) ResolutionConfig() plan.ResolutionConfig {
	rc := plan.DefaultConfig()
	if c.Concurrency > 0 {
		rc.Concurrency = c.Concurrency
	}

	rc.StrictMode = c.Strict
	rc.MaxSuggestions = c.MaxSuggestions

	return rc
}

// AnnotationAliases returns the default annotation spellings plus the configured ones.
func (c Config) AnnotationAliases() analyze.Aliases {
	extra := make(map[string]string, len(c.Aliases))
	for _, a := range c.Aliases {
		extra[a.Name] = a.Target
	}

	return mapping.MergeAliases(extra)
}

// NewLogger builds the process logger. Logs go to stderr.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}
