package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/aecgrid/internal/buildgraph"
	"github.com/vk/aecgrid/internal/descriptor"
	"github.com/vk/aecgrid/internal/testutil"
	"github.com/vk/aecgrid/internal/units"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	aecTarget    = "audio_algo_aec_test"
	aecLibrary   = "audio_algo_aec"
	testMainPath = "audio_algo_aec_test/test/main.go"
)

// setupApp creates an app over modulesPath with debug logging.
func setupApp(t *testing.T, modulesPath string, reg *units.Registry) (*App, *testutil.SafeBuffer) {
	t.Helper()

	cfg, err := NewConfig(Config{
		ModulesPath: modulesPath,
		LogLevel:    "debug",
		LogFormat:   "text",
		Target:      descriptor.Target{OS: "linux", Arch: "amd64"},
	})
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	testutil.DumpLogs(t, logs)
	return NewApp(context.Background(), logs, cfg, reg), logs
}

// shippedTree copies the shipped descriptors, optionally replacing the test
// binary's descriptor.
func shippedTree(t *testing.T, binaryHCL string) string {
	t.Helper()
	if binaryHCL == "" {
		binaryHCL = testutil.ReadShippedDescriptor(t, aecTarget)
	}
	return testutil.WriteTree(t, map[string]string{
		"audio_algo_aec/module.hcl":      testutil.ReadShippedDescriptor(t, aecLibrary),
		"audio_algo_aec_test/module.hcl": binaryHCL,
	})
}

func TestBuild_ShippedModules(t *testing.T) {
	t.Parallel()

	a, logs := setupApp(t, testutil.ShippedModulesPath(t), nil)
	require.NoError(t, a.LoadModules())

	bin, report, err := a.Build(aecTarget)
	require.NoError(t, err, logs.String())

	assert.Equal(t, []string{aecLibrary, aecTarget}, report.Modules)
	assert.Equal(t, []string{
		"audio_algo_aec/aec/lms.go",
		"audio_algo_aec/aec/nlms.go",
		testMainPath,
		"audio_algo_aec_test/test/debug.go",
	}, report.Compiled)
	assert.Equal(t, report.Compiled, bin.Sources)
	assert.Equal(t, aecTarget, bin.Name)
	assert.Equal(t, testMainPath, bin.Symbols[units.MainSymbol])
	require.NotNil(t, bin.Entry)
}

func TestBuild_UnresolvedDependencyCompilesNothing(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"audio_algo_aec_test/module.hcl": testutil.ReadShippedDescriptor(t, aecTarget),
	})
	a, _ := setupApp(t, root, nil)
	require.NoError(t, a.LoadModules())

	bin, report, err := a.Build(aecTarget)
	require.Error(t, err)
	assert.Nil(t, bin)

	var unresolved *buildgraph.UnresolvedDependencyError
	require.ErrorAs(t, err, &unresolved)
	assert.ErrorContains(t, err, "unresolved dependency: audio_algo_aec")
	assert.Empty(t, report.Compiled)
}

func TestBuild_MissingSourceIsAnUndefinedSymbol(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		sources string
		want    string
	}{
		{
			name:    "without debug.go",
			sources: `["test/main.go"]`,
			want:    "undefined symbol debug.Logger referenced by " + testMainPath,
		},
		{
			name:    "without main.go",
			sources: `["test/debug.go"]`,
			want:    "undefined symbol main",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			hcl := strings.Replace(testutil.ReadShippedDescriptor(t, aecTarget),
				`["test/main.go", "test/debug.go"]`, tc.sources, 1)
			require.Contains(t, hcl, tc.sources)

			a, _ := setupApp(t, shippedTree(t, hcl), nil)
			require.NoError(t, a.LoadModules())

			_, _, err := a.Build(aecTarget)
			var linkErr *LinkError
			require.ErrorAs(t, err, &linkErr)
			assert.Contains(t, linkErr.Problems, tc.want)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	t.Run("source without a unit", func(t *testing.T) {
		t.Parallel()
		hcl := strings.Replace(testutil.ReadShippedDescriptor(t, aecTarget),
			`"test/debug.go"`, `"test/debug.go", "test/extra.go"`, 1)
		a, _ := setupApp(t, shippedTree(t, hcl), nil)
		require.NoError(t, a.LoadModules())

		_, report, err := a.Build(aecTarget)
		var compileErr *CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.ErrorContains(t, err, "compile failed: no source unit registered for audio_algo_aec_test/test/extra.go")
		assert.Len(t, report.Compiled, 4)
	})

	t.Run("library cannot be linked", func(t *testing.T) {
		t.Parallel()
		a, _ := setupApp(t, shippedTree(t, ""), nil)
		require.NoError(t, a.LoadModules())

		_, _, err := a.Build(aecLibrary)
		assert.ErrorContains(t, err, "module is a LIBRARY, only BINARY modules can be linked")
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()
		a, _ := setupApp(t, shippedTree(t, ""), nil)
		require.NoError(t, a.LoadModules())

		_, _, err := a.Build("audio_algo_aec_bench")
		var unknown *UnknownModuleError
		require.ErrorAs(t, err, &unknown)
	})

	t.Run("modules not loaded", func(t *testing.T) {
		t.Parallel()
		a, _ := setupApp(t, shippedTree(t, ""), nil)
		_, _, err := a.Build(aecTarget)
		assert.ErrorContains(t, err, "modules are not loaded")
	})

	t.Run("duplicate symbols and missing entry point", func(t *testing.T) {
		t.Parallel()
		reg := units.New()
		reg.Register("tool/a.go", &units.Unit{Provides: []string{units.MainSymbol, "x"}})
		reg.Register("tool/b.go", &units.Unit{Provides: []string{"x"}})
		root := testutil.WriteTree(t, map[string]string{
			"tool/module.hcl": "module \"tool\" {\n  kind    = \"BINARY\"\n  sources = [\"a.go\", \"b.go\"]\n}\n",
		})
		a, _ := setupApp(t, root, reg)
		require.NoError(t, a.LoadModules())

		_, _, err := a.Build("tool")
		var linkErr *LinkError
		require.ErrorAs(t, err, &linkErr)
		assert.Equal(t, []string{
			"duplicate symbol x in tool/a.go and tool/b.go",
			"tool/a.go provides main without an entry point",
		}, linkErr.Problems)
	})
}

func TestLoadModules_ConflictingDeclarations(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"a/module.hcl": "module \"m\" {\n  kind = \"PACKAGE\"\n}\n",
		"b/module.hcl": "module \"m\" {\n  kind = \"PREBUILD\"\n}\n",
	})
	a, _ := setupApp(t, root, units.New())

	var dup *buildgraph.DuplicateModuleError
	require.ErrorAs(t, a.LoadModules(), &dup)
}

func TestLoadModules_RepeatedDeclarationIsIdempotent(t *testing.T) {
	t.Parallel()

	lib := testutil.ReadShippedDescriptor(t, aecLibrary)
	root := testutil.WriteTree(t, map[string]string{
		"audio_algo_aec/module.hcl":      lib,
		"copy/audio_algo_aec/module.hcl": lib,
	})
	a, _ := setupApp(t, root, nil)
	require.NoError(t, a.LoadModules())

	assert.Equal(t, 1, a.Graph().Len())
	require.Len(t, a.Modules(), 1)

	d, err := a.Describe(aecLibrary)
	require.NoError(t, err)
	assert.Equal(t, descriptor.KindLibrary, d.Kind)

	_, err = a.Describe("nope")
	assert.ErrorContains(t, err, "unknown module 'nope'")
}

func TestRun_ShippedBinary(t *testing.T) {
	t.Parallel()

	a, logs := setupApp(t, testutil.ShippedModulesPath(t), nil)
	require.NoError(t, a.LoadModules())

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code, err := a.Run(aecTarget, []string{"--synthetic", "--seconds=0.5", "--output=", "--filter-out="}, stdout, stderr)
	require.NoError(t, err)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "PASS")
	assert.Contains(t, logs.String(), "exit_code=0")
}

func TestRun_BuildFailure(t *testing.T) {
	t.Parallel()

	a, _ := setupApp(t, testutil.ShippedModulesPath(t), nil)
	require.NoError(t, a.LoadModules())

	code, err := a.Run(aecLibrary, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      Config
		wantErr string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "defaults",
			in:   Config{ModulesPath: "modules"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "text", c.LogFormat)
				assert.Equal(t, "info", c.LogLevel)
				assert.Equal(t, descriptor.HostTarget(), c.Target)
			},
		},
		{
			name: "normalised case",
			in:   Config{ModulesPath: "modules", LogFormat: "JSON", LogLevel: "Verbose", Target: descriptor.Target{Mode: "debug"}},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "json", c.LogFormat)
				assert.Equal(t, "verbose", c.LogLevel)
				assert.Equal(t, descriptor.ModeDebug, c.Target.Mode)
			},
		},
		{name: "missing modules path", in: Config{}, wantErr: "ModulesPath is a required configuration field"},
		{name: "bad format", in: Config{ModulesPath: "m", LogFormat: "xml"}, wantErr: "invalid log-format"},
		{name: "bad level", in: Config{ModulesPath: "m", LogLevel: "trace"}, wantErr: "invalid log-level"},
		{name: "bad mode", in: Config{ModulesPath: "m", Target: descriptor.Target{Mode: "profile"}}, wantErr: "invalid build mode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}
