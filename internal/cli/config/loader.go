package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit --config path. It must exist.
	ConfigFile string

	// TargetPath is the verified path; archlint.yaml is searched upward from it.
	TargetPath string

	// Flags are the parsed command flags. Only flags that were set are loaded.
	Flags *pflag.FlagSet
}

// findConfigUpward searches upward from startDir for an archlint config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// searchStart returns the directory the config search starts in.
func searchStart(target string) string {
	if target == "" {
		target = "."
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

// defaults flattens the default rule set into koanf keys.
func defaults() map[string]interface{} {
	rs := core.DefaultRuleSetConfig()
	return map[string]interface{}{
		"root_namespace":      rs.RootNamespace,
		"reserved_names":      rs.ReservedNames,
		"config_namespace":    rs.ConfigNamespace,
		"common_namespace":    rs.CommonNamespace,
		"suffix_conventions":  toAnyMap(rs.SuffixConventions),
		"role_markers":        toAnyMap(rs.RoleMarkers),
		"transaction_markers": rs.TransactionMarkers,
		"suppression_marker":  rs.SuppressionMarker,
		"thresholds": map[string]interface{}{
			"use_cases_per_module":  rs.Thresholds.UseCasesPerModule,
			"classes_per_module":    rs.Thresholds.ClassesPerModule,
			"aggregates_per_module": rs.Thresholds.AggregatesPerModule,
		},
		"format":          DefaultFormat,
		"fail_on_warning": false,
		"verbose":         false,
	}
}

func toAnyMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// envKey maps ARCHLINT_THRESHOLDS__CLASSES_PER_MODULE to thresholds.classes_per_module.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// flagKey maps a flag to its config key. Flags that are not configuration
// return an empty key.
func flagKey(name string) string {
	switch name {
	case "config", "help":
		return ""
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Load loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Maps such as role_markers merge key by key with the defaults; lists replace them.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cfgFile := opts.ConfigFile
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, &core.ConfigurationError{Problems: []string{fmt.Sprintf("config file %s: %v", cfgFile, err)}}
		}
	} else {
		cfgFile = findConfigUpward(searchStart(opts.TargetPath))
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, &core.ConfigurationError{Problems: []string{fmt.Sprintf("error reading config file %s: %v", cfgFile, err)}}
		}
	}

	// 3. Environment variables (ARCHLINT_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := flagKey(f.Name)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Decode
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return nil, &core.ConfigurationError{Problems: []string{fmt.Sprintf("unable to decode config: %v", err)}}
	}
	cfg.ConfigFile = cfgFile
	cfg.Include = trimAll(cfg.Include)
	cfg.Exclude = trimAll(cfg.Exclude)
	cfg.DisabledRules = trimAll(cfg.DisabledRules)
	cfg.SuppressedRules = trimAll(cfg.SuppressedRules)
	cfg.PromoteSignals = trimAll(cfg.PromoteSignals)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// trimAll drops blanks left over from comma-separated env values.
func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
