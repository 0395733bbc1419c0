package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

const recordsJSON = `[
  {"latitude": 34.1, "longitude": -118.2, "magnitude": 5.6, "place": "Los Angeles", "time": "2023-01-01T00:00:00Z"}
]`

const bindingsJSON = `{"bindings": [
  {"prefix": "geo", "namespace": "http://www.w3.org/2003/01/geo/wgs84_pos#"},
  {"prefix": "eq", "namespace": "http://example.org/eq#"},
  {"prefix": "qudt", "namespace": "http://qudt.org/schema/qudt#"},
  {"prefix": "lode", "namespace": "http://linkedevents.org/ontology/"}
]}`

// resetFlags restores every flag of cmd and its children to its default,
// since the command tree is package state shared between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func fixtures(t *testing.T) (dir, records, bindings string) {
	t.Helper()
	dir = t.TempDir()
	records = filepath.Join(dir, "quakes.json")
	bindings = filepath.Join(dir, "bindings.json")
	require.NoError(t, os.WriteFile(records, []byte(recordsJSON), 0o644))
	require.NoError(t, os.WriteFile(bindings, []byte(bindingsJSON), 0o644))
	return dir, records, bindings
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quakerdf v"+Version+"\n", out)
}

func TestFormats(t *testing.T) {
	out, _, err := execute(t, "formats")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "FORMAT"))
	assert.Contains(t, out, "pretty-xml")
	assert.Contains(t, out, ".ttl")
}

func TestCreate_Stdout(t *testing.T) {
	_, records, bindings := fixtures(t)

	out, _, err := execute(t, "create", records, "-b", bindings, "-f", "nt")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "\n"))
	assert.Contains(t, out, `<http://linkedevents.org/ontology/atPlace> "Los Angeles" .`)
}

func TestCreate_File(t *testing.T) {
	dir, records, bindings := fixtures(t)
	base := filepath.Join(dir, "out")

	out, _, err := execute(t, "create", records, "-b", bindings, "-f", "turtle", "-o", base,
		"--base-uri", "http://example.org/eq/", "--workers", "2")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(base + ".ttl")
	require.NoError(t, err)
	assert.Regexp(t, `<http://example.org/eq/[0-9a-f]{32}> a eq:Earthquake ;`, string(data))
}

func TestCreate_UnsupportedFormat(t *testing.T) {
	dir, records, bindings := fixtures(t)

	_, _, err := execute(t, "create", records, "-b", bindings, "-f", "yaml", "-o", filepath.Join(dir, "out"))
	require.ErrorIs(t, err, rdf.ErrUnsupportedFormat)

	_, statErr := os.Stat(filepath.Join(dir, "out.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreate_MissingBindings(t *testing.T) {
	dir, records, _ := fixtures(t)

	_, _, err := execute(t, "create", records, "-b", filepath.Join(dir, "nope.json"))
	assert.ErrorIs(t, err, rdf.ErrConfig)
}

func TestCreate_MissingSettingsFile(t *testing.T) {
	dir, records, bindings := fixtures(t)

	_, _, err := execute(t, "--config", filepath.Join(dir, "nope.yaml"), "create", records, "-b", bindings)
	assert.ErrorIs(t, err, rdf.ErrConfig)
}

func TestConfigInitThenCreate(t *testing.T) {
	dir, records, _ := fixtures(t)
	confDir := filepath.Join(dir, "conf")

	out, _, err := execute(t, "config", "init", confDir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(confDir, "quakerdf.yaml"))

	// The sample bindings path is resolved next to the settings file
	out, _, err = execute(t, "--config", filepath.Join(confDir, "quakerdf.yaml"), "create", records, "-f", "nt")
	require.NoError(t, err)
	assert.Contains(t, out, "<http://example.org/earthquake#Earthquake>")

	_, _, err = execute(t, "config", "init", confDir)
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("format: nt\nworkers: 3\n"), 0o644))

	out, _, err := execute(t, "--config", settings, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "format: nt")
	assert.Contains(t, out, "workers: 3")
}

func TestWatchSession_RebuildReloadsBindings(t *testing.T) {
	_, records, bindings := fixtures(t)
	cfg := model.DefaultConfig()
	cfg.Bindings = bindings
	cfg.Format = "nt"

	var out bytes.Buffer
	s, err := newWatchSession(cfg, []string{records}, &out)
	require.NoError(t, err)
	_, err = s.run.create(context.Background(), s.patterns)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<http://example.org/eq#Earthquake>")

	// Bindings and records saved in the same burst
	rebound := strings.Replace(bindingsJSON, "http://example.org/eq#", "http://example.org/quake#", 1)
	require.NoError(t, os.WriteFile(bindings, []byte(rebound), 0o644))
	require.NoError(t, os.WriteFile(records, []byte(recordsJSON), 0o644))

	out.Reset()
	require.NoError(t, s.rebuild(context.Background(), []string{bindings, records}))
	assert.Contains(t, out.String(), "<http://example.org/quake#Earthquake>")
	assert.NotContains(t, out.String(), "<http://example.org/eq#Earthquake>")
	assert.Equal(t, 6, strings.Count(out.String(), "\n"))
}

func TestWatchSession_RebuildStartsFromEmptyGraph(t *testing.T) {
	_, records, bindings := fixtures(t)
	cfg := model.DefaultConfig()
	cfg.Bindings = bindings
	cfg.Format = "nt"

	var out bytes.Buffer
	s, err := newWatchSession(cfg, []string{records}, &out)
	require.NoError(t, err)
	_, err = s.run.create(context.Background(), s.patterns)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, s.rebuild(context.Background(), []string{records}))
	assert.Equal(t, 6, strings.Count(out.String(), "\n"))
}

func TestWatchSession_BadBindingsKeepPreviousRun(t *testing.T) {
	_, records, bindings := fixtures(t)
	cfg := model.DefaultConfig()
	cfg.Bindings = bindings
	cfg.Format = "nt"

	var out bytes.Buffer
	s, err := newWatchSession(cfg, []string{records}, &out)
	require.NoError(t, err)
	previous := s.run

	require.NoError(t, os.WriteFile(bindings, []byte("{not json"), 0o644))
	err = s.rebuild(context.Background(), []string{bindings})
	assert.ErrorIs(t, err, rdf.ErrConfig)
	assert.Same(t, previous, s.run)
}
