package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/activity"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/butterflies"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/config"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/garden"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/journal"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/logging"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/profile"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/summary"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd launches the TUI; subcommands cover scripted use.
var rootCmd = &cobra.Command{
	Use:   "bloom",
	Short: "A habit garden with a built-in pedometer",
	Long: `bloom grows a plant for every habit you keep. Complete a habit each day
to grow it from seed to sprout, bud, bloom and finally a mature plant.

Run without arguments to open the garden in your terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		// The TUI owns the terminal, so it logs to a file. Subcommands
		// log to stderr and stay quiet unless asked.
		level, path := cfg.LogLevel, cfg.LogPath
		if cmd != cmd.Root() {
			level, path = "warn", ""
			if verbose {
				level = "debug"
			}
		}
		logger, err = logging.New(level, path)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(butterfliesCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(rolloverCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bridge is everything bloom asks of the shell.
type bridge interface {
	garden.Notifier
	steps.Host
}

// services holds the wired collaborators a command works with.
type services struct {
	store       *db.Store
	bridge      bridge
	closeBridge func() error

	profiles    *profile.Repository
	tracker     *steps.Tracker
	butterflies *butterflies.Collection
	garden      *garden.Service
	journal     *journal.Journal
	activity    *activity.Log
	background  *steps.Background
}

// openServices opens the store, connects to the shell bridge (falling back
// to offline) and wires every service.
func openServices() (*services, error) {
	store, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}

	s := &services{store: store, bridge: shell.Offline{}, closeBridge: func() error { return nil }}
	if client, err := shell.Connect(cfg.SocketPath); err != nil {
		logger.Debug("Shell bridge not reachable, running offline", zap.Error(err))
	} else {
		s.bridge = client
		s.closeBridge = client.Close
	}

	s.profiles = profile.NewRepository(store, logger)
	s.tracker = steps.NewTracker(store, logger)
	if p, err := s.profiles.Load(); err != nil {
		logger.Warn("Failed to load profile, using default body", zap.Error(err))
	} else {
		s.tracker.SetBody(p.Body())
	}

	s.butterflies = butterflies.NewCollection(store, logger)
	s.garden = garden.NewService(store, s.bridge, s.butterflies, logger)
	s.journal = journal.New(store, logger)
	s.activity = activity.NewLog(store, logger)
	s.background = steps.NewBackground(s.bridge, store, cfg.Classifier.Threshold, cfg.Classifier.Debounce, logger)
	return s, nil
}

func (s *services) summarySources() *summary.Sources {
	return &summary.Sources{
		Habits:   s.garden,
		Journal:  s.journal,
		Steps:    s.tracker,
		Activity: s.activity,
	}
}

// rollover brings the garden up to today before a command reads it.
func (s *services) rollover(ctx context.Context) {
	if _, err := s.garden.RolloverIfNeeded(ctx); err != nil {
		logger.Warn("Day rollover failed", zap.Error(err))
	}
}

func (s *services) Close() {
	if err := s.closeBridge(); err != nil {
		logger.Debug("Close shell bridge", zap.Error(err))
	}
	if err := s.store.Close(); err != nil {
		logger.Warn("Close store", zap.Error(err))
	}
}

// dialMotion opens a dedicated bridge connection for motion events.
func dialMotion() (steps.MotionStream, error) {
	client, err := shell.Connect(cfg.SocketPath)
	if err != nil {
		return nil, err
	}
	return client, nil
}
