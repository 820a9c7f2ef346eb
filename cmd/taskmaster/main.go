package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"taskmaster/internal/config"
	"taskmaster/internal/i18n"
	"taskmaster/internal/report"
	"taskmaster/internal/storage"
	"taskmaster/internal/task"
	"taskmaster/internal/tui"
	"taskmaster/internal/web"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	dataPathFlag := flag.String("data", "", "task data file path")
	langFlag := flag.String("lang", "", "interface language (en, ru)")
	webFlag := flag.Bool("web", false, "enable web server")
	webOnlyFlag := flag.Bool("web-only", false, "run web server only")
	portFlag := flag.Int("port", 0, "web server port")
	backupFlag := flag.Bool("backup", false, "write a timestamped backup of the data file and exit")
	statsFlag := flag.Bool("stats", false, "print data file stats and exit")
	exportFlag := flag.String("export", "", "export the task list (json, csv, pdf) and exit")
	outFlag := flag.String("out", "", "export output path (defaults to stdout)")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	if *dataPathFlag != "" {
		cfg.DataPath = *dataPathFlag
	}
	if cfg.DataPath == "" {
		cfg.DataPath = filepath.Join(filepath.Dir(cfgPath), "tasks.json")
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	if cfg.Language == "" {
		cfg.Language = i18n.LanguageEn
	}
	if *webFlag {
		cfg.WebEnabled = true
	}
	if *portFlag != 0 {
		cfg.WebPort = *portFlag
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = 8080
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		log.Fatal(err)
	}

	if err := config.EnsureDir(cfg.DataPath); err != nil {
		log.Fatal(err)
	}

	// The TUI owns the terminal, so zap writes to a log file next to the
	// data file instead of stderr.
	logger, err := newLogger(filepath.Join(filepath.Dir(cfg.DataPath), "taskmaster.log"))
	if err != nil {
		log.Fatal(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	store := storage.NewStore(cfg.DataPath)
	store.EnsureExists()
	manager := task.NewManager(store)
	manager.Load()

	loc := i18n.New(cfg.Language)

	if *backupFlag {
		name, err := manager.Backup()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(name)
		return
	}

	if *statsFlag {
		stats, ok := manager.Stats()
		if !ok {
			fmt.Fprintln(os.Stderr, "no data file")
			os.Exit(1)
		}
		fmt.Printf("%s: %d bytes, modified %s\n", cfg.DataPath, stats.Size, stats.ModifiedAt.Format("2006-01-02 15:04:05"))
		return
	}

	if *exportFlag != "" {
		data, err := report.NewExporter().Export(manager.Tasks(), *exportFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if *outFlag == "" {
			_, _ = os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(*outFlag, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if cfg.WebEnabled {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		handler := web.NewServer(manager, loc).Handler()
		if *webOnlyFlag {
			zap.L().Info("web server running", zap.String("addr", addr))
			log.Fatal(http.ListenAndServe(addr, handler))
		}

		go func() {
			zap.L().Info("web server running", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, handler); err != nil {
				zap.L().Error("web server", zap.Error(err))
			}
		}()
	}

	if *webOnlyFlag {
		return
	}

	if err := tui.Run(manager, loc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
