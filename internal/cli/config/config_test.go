package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archlint/pkg/core"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "archlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("format", "", "")
	fs.String("root-namespace", "", "")
	fs.String("rules", "", "")
	fs.Bool("fail-on-warning", false, "")
	fs.StringSlice("exclude", nil, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{TargetPath: t.TempDir()})
	require.NoError(t, err)

	def := core.DefaultRuleSetConfig()
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, def.Thresholds, cfg.Thresholds)
	assert.Equal(t, def.RoleMarkers, cfg.RoleMarkers)
	assert.Equal(t, def.SuffixConventions, cfg.SuffixConventions)
	assert.Equal(t, []string{"Transactional"}, cfg.TransactionMarkers)
	assert.Equal(t, "SuppressArchRule", cfg.SuppressionMarker)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_FileSearchedUpward(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
root_namespace: com.acme.shop
reserved_names: [config, common, shared]
thresholds:
  classes_per_module: 40
role_markers:
  Aggregate: PersistentEntity
disabled_rules: [R8]
`)
	nested := filepath.Join(root, "src", "main", "java")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(LoadOptions{TargetPath: nested})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "com.acme.shop", cfg.RootNamespace)
	assert.Equal(t, []string{"config", "common", "shared"}, cfg.ReservedNames)
	assert.Equal(t, 40, cfg.Thresholds.ClassesPerModule)
	assert.Equal(t, core.DefaultUseCasesPerModule, cfg.Thresholds.UseCasesPerModule, "unset keys keep defaults")
	assert.Equal(t, "PersistentEntity", cfg.RoleMarkers["Aggregate"])
	assert.Equal(t, "ServiceFacade", cfg.RoleMarkers["Service"], "maps merge with defaults")
	assert.Equal(t, []string{"R8"}, cfg.DisabledRules)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "root_namespace: com.acme.shop\n")
	t.Setenv("ARCHLINT_ROOT_NAMESPACE", "org.example")
	t.Setenv("ARCHLINT_THRESHOLDS__AGGREGATES_PER_MODULE", "7")
	t.Setenv("ARCHLINT_SUPPRESSED_RULES", "R4, R6")

	cfg, err := Load(LoadOptions{TargetPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "org.example", cfg.RootNamespace)
	assert.Equal(t, 7, cfg.Thresholds.AggregatesPerModule)
	assert.Equal(t, []string{"R4", "R6"}, cfg.SuppressedRules)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "root_namespace: com.acme.shop\nformat: text\n")
	t.Setenv("ARCHLINT_ROOT_NAMESPACE", "org.example")

	flags := testFlags(t, "--root-namespace", "io.flag", "--fail-on-warning", "--exclude", "**/gen,**/tmp")
	cfg, err := Load(LoadOptions{TargetPath: dir, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "io.flag", cfg.RootNamespace)
	assert.True(t, cfg.FailOnWarning)
	assert.Equal(t, []string{"**/gen", "**/tmp"}, cfg.Exclude)
	assert.Equal(t, "text", cfg.Format, "unset flags do not override the file")
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	other := t.TempDir()
	path := filepath.Join(other, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_namespace: custom\n"), 0o644))

	cfg, err := Load(LoadOptions{ConfigFile: path, TargetPath: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.RootNamespace)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts func(t *testing.T) LoadOptions
	}{
		{
			name: "missing explicit file",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}
			},
		},
		{
			name: "malformed yaml",
			opts: func(t *testing.T) LoadOptions {
				dir := t.TempDir()
				writeConfig(t, dir, "thresholds: [unclosed\n")
				return LoadOptions{TargetPath: dir}
			},
		},
		{
			name: "wrong type",
			opts: func(t *testing.T) LoadOptions {
				dir := t.TempDir()
				writeConfig(t, dir, "thresholds:\n  classes_per_module: lots\n")
				return LoadOptions{TargetPath: dir}
			},
		},
		{
			name: "unknown format",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{TargetPath: t.TempDir(), Flags: testFlags(t, "--format", "xml")}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts(t))
			require.Error(t, err)
			var cerr *core.ConfigurationError
			assert.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "root_namespace", envKey("ARCHLINT_ROOT_NAMESPACE"))
	assert.Equal(t, "thresholds.use_cases_per_module", envKey("ARCHLINT_THRESHOLDS__USE_CASES_PER_MODULE"))
}

func TestRuleSet_IsCopy(t *testing.T) {
	cfg, err := Load(LoadOptions{TargetPath: t.TempDir()})
	require.NoError(t, err)
	rs := cfg.RuleSet()
	rs.RootNamespace = "changed"
	assert.Empty(t, cfg.RootNamespace)
}
