package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/namespace"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage quakerdf settings and bindings files",
	Long: `Manage quakerdf settings and bindings files.

Settings are resolved in this order (highest priority first):
1. CLI flags
2. Settings file (--config)
3. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()
		if err := viper.Unmarshal(cfg); err != nil {
			return rdf.NewConfigError(viper.ConfigFileUsed(), err, "decode settings")
		}
		cfg.Normalize()

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Settings file: %s\n\n", used)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No settings file (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(yamlData)
		return err
	},
}

// sampleBindings covers every prefix the mapper needs
var sampleBindings = struct {
	Bindings []namespace.Binding `yaml:"bindings"`
}{
	Bindings: []namespace.Binding{
		{Prefix: "eq", Namespace: "http://example.org/earthquake#"},
		{Prefix: "geo", Namespace: "http://www.w3.org/2003/01/geo/wgs84_pos#"},
		{Prefix: "qudt", Namespace: "http://qudt.org/schema/qudt#"},
		{Prefix: "lode", Namespace: "http://linkedevents.org/ontology/"},
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a sample settings file and bindings file",
	Long: `Write quakerdf.yaml and bindings.yaml into dir (default: the current
directory). Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		settingsPath := filepath.Join(dir, "quakerdf.yaml")
		bindingsPath := filepath.Join(dir, "bindings.yaml")

		for _, p := range []string{settingsPath, bindingsPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("file already exists: %s", p)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return &rdf.IOError{Op: "stat", Path: p, Err: err}
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &rdf.IOError{Op: "mkdir", Path: dir, Err: err}
		}

		cfg := model.DefaultConfig()
		cfg.Bindings = "bindings.yaml"
		settings, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		header := "# quakerdf settings, use with --config\n# Flags given on the command line take precedence.\n\n"
		if err := writeNew(settingsPath, append([]byte(header), settings...)); err != nil {
			return err
		}

		bindings, err := yaml.Marshal(sampleBindings)
		if err != nil {
			return fmt.Errorf("marshal bindings: %w", err)
		}
		if err := writeNew(bindingsPath, bindings); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s\n", settingsPath)
		fmt.Fprintf(out, "Created %s\n", bindingsPath)
		fmt.Fprintf(out, "\nTo convert records:\n  quakerdf create --config %s quakes.json\n", settingsPath)
		return nil
	},
}

// writeNew creates path, failing if it exists
func writeNew(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &rdf.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &rdf.IOError{Op: "close", Path: path, Err: closeErr}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &rdf.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
