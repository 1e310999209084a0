package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/filecast/internal/app"
	"github.com/kk-code-lab/filecast/internal/config"
	"github.com/kk-code-lab/filecast/internal/history"
	"github.com/kk-code-lab/filecast/internal/logging"
	"github.com/spf13/pflag"
)

var version = "dev"

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: filecast [options]\n\n")
		fmt.Fprintf(os.Stderr, "filecast is a terminal file browser and launcher: browse directories,\n")
		fmt.Fprintf(os.Stderr, "search files, contents, applications and recent items from one prompt.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nQuery prefixes:\n")
		fmt.Fprintf(os.Stderr, "  @pattern   search file contents (rg, grep)\n")
		fmt.Fprintf(os.Stderr, "  /pattern   search file names (fd, find)\n")
		fmt.Fprintf(os.Stderr, "  :command   run a command in the current directory\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  filecast                 # start in the current directory\n")
		fmt.Fprintf(os.Stderr, "  filecast -d ~/src        # start somewhere else\n")
		fmt.Fprintf(os.Stderr, "  filecast -q '@TODO'      # print content matches and exit\n")
	}

	dirFlag := pflag.StringP("dir", "d", "", "Directory to start in (default: current directory)")
	configFlag := pflag.String("config", config.DefaultSearchPath(), "Search configuration file (YAML)")
	settingsFlag := pflag.String("settings", config.DefaultSettingsPath(), "Settings file (YAML)")
	dbFlag := pflag.String("db", history.DefaultPath(), "Recent-access database")
	logFileFlag := pflag.String("log-file", logging.DefaultPath(), "Log file")
	logLevelFlag := pflag.String("log-level", "", "Log level: debug, info, warn, error, off (default from settings)")
	queryFlag := pflag.StringP("query", "q", "", "Run one search, print the results and exit")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}
	if *versionFlag {
		fmt.Printf("filecast version %s\n", version)
		return
	}

	if err := run(options{
		dir:       *dirFlag,
		config:    *configFlag,
		settings:  *settingsFlag,
		db:        *dbFlag,
		logFile:   *logFileFlag,
		logLevel:  *logLevelFlag,
		query:     *queryFlag,
		queryMode: pflag.Lookup("query").Changed,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "filecast: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dir       string
	config    string
	settings  string
	db        string
	logFile   string
	logLevel  string
	query     string
	queryMode bool
}

func run(opts options) error {
	settings, err := config.LoadSettings(opts.settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save settings: %v\n", err)
	}
	searchCfg, err := config.LoadSearch(opts.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save search config: %v\n", err)
	}

	levelName := opts.logLevel
	if levelName == "" {
		levelName = settings.LogLevel
	}
	level, ok := logging.ParseLevel(levelName)
	if !ok {
		return fmt.Errorf("unknown log level %q", levelName)
	}
	logger, logFile, err := logging.NewFile(opts.logFile, level)
	if err != nil {
		logger = logging.Discard()
	} else {
		defer func() {
			_ = logFile.Close()
		}()
	}

	dir, err := startDir(opts.dir)
	if err != nil {
		return err
	}

	var activity apppkg.ActivityLog
	store, err := history.Open(opts.db, logger)
	if err != nil {
		logger.Warn("recent-access store unavailable", "path", opts.db, "err", err)
	} else {
		defer func() {
			_ = store.Close()
		}()
		activity = store
	}

	if opts.queryMode {
		return runQuery(opts.query, dir, settings, searchCfg, activity, logger)
	}

	// Fall back to UTF-8 when the locale does not name an encoding.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(apppkg.Options{
		Dir:      dir,
		Settings: settings,
		Search:   searchCfg,
		History:  activity,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	logger.Info("session started", "dir", dir, "version", version)
	app.Run()
	logger.Info("session ended", "dir", app.CurrentPath())
	return nil
}

func runQuery(query, dir string, settings config.Settings, searchCfg config.SearchConfig, activity apppkg.ActivityLog, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return apppkg.RunQuery(ctx, os.Stdout, query, apppkg.QueryOptions{
		Dir:      dir,
		Settings: settings,
		Search:   searchCfg,
		History:  activity,
		Logger:   logger,
	})
}

// startDir resolves the --dir flag to an absolute directory.
func startDir(flagDir string) (string, error) {
	if flagDir == "" {
		return apppkg.GetCwd()
	}
	abs, err := filepath.Abs(flagDir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
