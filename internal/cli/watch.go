package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/loader"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/watcher"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <records>...",
	Short: "Rebuild the RDF document whenever the inputs change",
	Long: `Watch runs create once and then again every time one of the record
files or the bindings file is written. Each rebuild starts from an empty
graph. A failed rebuild is logged and the previous output is left in place.

Example:
  quakerdf watch quakes.json -b bindings.json -o out/quakes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addRunFlags(watchCmd.Flags())
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newWatchSession(cfg, args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := s.run.create(ctx, args); err != nil {
		return err
	}

	files, err := loader.Expand(args)
	if err != nil {
		return err
	}
	if cfg.Bindings != "" {
		files = append(files, cfg.Bindings)
	}

	err = watcher.New(files, func(changed []string) { _ = s.rebuild(ctx, changed) }).
		WithDebounce(watchDebounce).
		WithLogger(logger).
		Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchSession repeats create for one set of record patterns
type watchSession struct {
	cfg          *model.Config
	patterns     []string
	stdout       io.Writer
	bindingsPath string
	run          *run
}

func newWatchSession(cfg *model.Config, patterns []string, stdout io.Writer) (*watchSession, error) {
	r, err := newRun(cfg, stdout)
	if err != nil {
		return nil, err
	}
	s := &watchSession{cfg: cfg, patterns: patterns, stdout: stdout, run: r}
	if cfg.Bindings != "" {
		if s.bindingsPath, err = filepath.Abs(cfg.Bindings); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// rebuild starts from an empty graph, reloading the bindings first when they
// are among the changed files. Failures are logged and returned; the
// previous run stays in place when the bindings cannot be reloaded.
func (s *watchSession) rebuild(ctx context.Context, changed []string) error {
	if s.bindingsPath != "" && slices.Contains(changed, s.bindingsPath) {
		next, err := newRun(s.cfg, s.stdout)
		if err != nil {
			logger.Error("Reloading bindings failed", "path", s.bindingsPath, "error", err)
			return err
		}
		s.run = next
	} else {
		s.run.creator.Reset()
	}
	if _, err := s.run.create(ctx, s.patterns); err != nil {
		logger.Error("Rebuild failed", "error", err)
		return err
	}
	return nil
}
