package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// Version is the release reported by the version command.
const Version = "0.3.0"

var (
	cfgFile   string
	verbose   bool
	configErr error
	logger    = slog.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quakerdf",
	Short: "quakerdf - earthquake records as RDF",
	Long: `quakerdf converts earthquake records into an RDF graph and writes it
as RDF/XML, Notation3, Turtle, N-Triples, pretty RDF/XML or TriX.

Each record becomes one eq:Earthquake resource with its latitude, longitude,
magnitude, place and time. Prefixes for the vocabularies come from a
bindings file.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quakerdf v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the settings file named by --config. Nothing is read from
// the environment or from default locations.
func initConfig() {
	configErr = nil
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		configErr = rdf.NewConfigError(cfgFile, err, "read settings")
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("Using settings file", "path", used)
	}
	return nil
}

// addRunFlags registers the flags shared by create and watch
func addRunFlags(fs *pflag.FlagSet) {
	defaults := model.DefaultConfig()
	fs.StringP("format", "f", defaults.Format, "output format: xml, n3, turtle, nt, pretty-xml, trix")
	fs.StringP("bindings", "b", defaults.Bindings, "namespace bindings file")
	fs.StringP("output", "o", defaults.Output, "output base name; the extension follows the format (default stdout)")
	fs.String("base-uri", defaults.BaseURI, "give records IRIs under this base instead of blank nodes")
	fs.Int("workers", defaults.Workers, "records mapped concurrently")
	fs.Bool("atomic", defaults.Atomic, "roll the graph back when any record fails")
}

// loadConfig merges defaults, the settings file and the flags of cmd, in
// increasing priority.
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	fs := cmd.Flags()
	for key, flag := range map[string]string{
		"format":   "format",
		"bindings": "bindings",
		"output":   "output",
		"base_uri": "base-uri",
		"workers":  "workers",
		"atomic":   "atomic",
	} {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, rdf.NewConfigError(viper.ConfigFileUsed(), err, "decode settings")
	}
	cfg.Normalize()

	// A bindings path from the settings file is relative to that file
	if used := viper.ConfigFileUsed(); used != "" && cfg.Bindings != "" && !fs.Changed("bindings") && !filepath.IsAbs(cfg.Bindings) {
		cfg.Bindings = filepath.Join(filepath.Dir(used), cfg.Bindings)
	}
	return cfg, nil
}
