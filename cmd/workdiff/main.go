package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vuon9/workdiff/internal/cache"
	"github.com/vuon9/workdiff/internal/config"
	"github.com/vuon9/workdiff/internal/logger"
	"github.com/vuon9/workdiff/internal/reporter"
	"github.com/vuon9/workdiff/internal/runner"
	"github.com/vuon9/workdiff/internal/watcher"
)

func main() {
	// Flags
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")

	referenceFile := flag.String("file", "", "Reference file to compare against every workspace in its group.")
	referenceFileAlias := flag.String("f", "", "Alias for -file")

	groupName := flag.String("group", "", "Comparison group to use (overrides path-prefix matching).")
	groupNameAlias := flag.String("g", "", "Alias for -group")

	watchMode := flag.Bool("watch", false, "Keep running and refresh the summary when files change.")
	watchModeAlias := flag.Bool("w", false, "Alias for -watch")
	flag.Parse()

	// Consolidate alias flags
	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}
	if *referenceFile == "" && *referenceFileAlias != "" {
		*referenceFile = *referenceFileAlias
	}
	if *groupName == "" && *groupNameAlias != "" {
		*groupName = *groupNameAlias
	}
	if *watchModeAlias {
		*watchMode = true
	}

	if *referenceFile == "" {
		log.Fatalln("[FATAL] -file argument is required")
	}
	referencePath, err := filepath.Abs(*referenceFile)
	if err != nil {
		log.Fatalf("[FATAL] Cannot resolve reference file path: %v", err)
	}

	cfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config: %v", err)
	}
	if len(cfg.Groups) == 0 {
		log.Fatalln("[FATAL] No comparison groups configured")
	}

	zLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	resultCache, err := cache.NewResultCache(cfg.CacheConfig.MaxEntries, zLogger)
	if err != nil {
		log.Fatalf("[FATAL] Could not create result cache: %v", err)
	}

	coordinator := runner.NewCoordinator(cfg, resultCache, zLogger)
	defer coordinator.Close()
	consoleReporter := reporter.NewConsoleReporter(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() bool {
		outcome, err := coordinator.Run(ctx, runner.RunOptions{
			ReferencePath: referencePath,
			GroupName:     *groupName,
		})
		switch {
		case err == nil:
			consoleReporter.Report(outcome)
			return true
		case runner.IsSilent(err):
			return true
		case errors.Is(err, config.ErrNoMatchingGroup):
			zLogger.Warn().Str("reference", referencePath).Msg("No comparison group matches the reference file")
			return false
		default:
			zLogger.Error().Err(err).Msg("Diff run failed")
			return false
		}
	}

	if !*watchMode {
		if !runOnce() {
			os.Exit(1)
		}
		return
	}

	// Watch mode: resolve the group once to learn which files to watch,
	// then rerun on every debounced change burst.
	resolved, err := config.ResolveGroup(cfg.Groups, referencePath, *groupName)
	if err != nil {
		log.Fatalf("[FATAL] Cannot resolve comparison group: %v", err)
	}
	watchPaths := make([]string, 0, len(resolved.Group.Workspaces))
	for _, ws := range resolved.Group.Workspaces {
		watchPaths = append(watchPaths, filepath.Join(ws.Path, resolved.RelativePath))
	}

	runOnce()
	debounce := time.Duration(cfg.WatcherConfig.DebounceMs) * time.Millisecond
	fileWatcher := watcher.New(debounce, func() { runOnce() }, zLogger)
	if err := fileWatcher.Watch(ctx, watchPaths...); err != nil && !errors.Is(err, context.Canceled) {
		zLogger.Error().Err(err).Msg("Watcher stopped")
		os.Exit(1)
	}
}
