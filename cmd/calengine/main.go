package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/calendar"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/command"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/config"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/controller"
	appLog "github.com/Mike1ife/Calendar-Management-System-sub001/internal/log"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	mode       string
	file       string
	logLevel   string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		appLog.Error("invalid log level", err, "log_level", conf.LogLevel)
		os.Exit(2)
	}
	appLog.SetLevel(level)

	mode, err := controller.ParseMode(flags.mode)
	if err != nil {
		appLog.Error("invalid mode", err, "mode", flags.mode)
		os.Exit(2)
	}
	if mode == controller.ModeHeadless && flags.file == "" {
		appLog.Error("headless mode needs a command file", nil)
		os.Exit(2)
	}

	appLog.Info("effective config",
		"config_path", flags.configPath,
		"timezone", conf.Timezone,
		"default_calendar", conf.DefaultCalendar,
		"log_level", conf.LogLevel,
		"export_dir", conf.ExportDir,
		"autosave", conf.Autosave.Schedule,
		"mode", mode,
		"file", flags.file,
	)

	reg := calendar.NewRegistry()
	if _, err := reg.AddCalendar(conf.DefaultCalendar, conf.Timezone); err != nil {
		appLog.Error("failed to create default calendar", err,
			"name", conf.DefaultCalendar, "timezone", conf.Timezone)
		os.Exit(1)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var in io.Reader = os.Stdin
	if flags.file != "" {
		f, err := os.Open(flags.file)
		if err != nil {
			appLog.Error("failed to open command file", err, "file", flags.file)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	ctl := controller.New(reg, command.NewTextView(os.Stdout), controller.Options{
		Mode:      mode,
		Prompt:    conf.Prompt,
		PromptOut: os.Stdout,
		Events:    command.EventOptions{ExportDir: conf.ExportDir},
	})

	stopAutosave, err := ctl.StartAutosave(controller.AutosaveOptions{
		Schedule: conf.Autosave.Schedule,
		Format:   conf.Autosave.Format,
		File:     conf.Autosave.File,
	})
	if err != nil {
		appLog.Error("invalid autosave config", err, "schedule", conf.Autosave.Schedule)
		os.Exit(2)
	}
	defer stopAutosave()

	if err := ctl.Run(ctx, in); err != nil {
		appLog.Error("command run finished with errors", err)
		stopAutosave()
		stop()
		os.Exit(1)
	}
	appLog.Info("calengine exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", config.DefaultPath(), "Path to config file")
	flag.StringVar(&cfg.mode, "mode", string(controller.ModeInteractive), "interactive or headless")
	flag.StringVar(&cfg.file, "file", "", "Command file (required in headless mode)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "debug, info, warn or error (overrides config if set)")

	flag.Parse()

	return cfg
}
