package main

import (
	"classtable/internal/config"
	"classtable/internal/schedule"
	"classtable/internal/storage"
	"classtable/internal/view"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// session holds what every command needs; it is built in the app's Before hook.
type session struct {
	logger  *slog.Logger
	backend storage.Backend
	view    *view.CLI
	sched   *schedule.Schedule
	loc     *time.Location
}

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	s := &session{}
	app := &cli.App{
		Name:  "classtable",
		Usage: "Keep a personal class timetable.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "timetable.yaml", EnvVars: []string{"TIMETABLE_CONFIG"}, Usage: "Path to the YAML config file."},
			&cli.StringFlag{Name: "data-dir", Usage: "Directory holding the stored timetable (overrides config)."},
			&cli.StringFlag{Name: "store", Usage: "Storage backend: file or sqlite (overrides config)."},
			&cli.IntFlag{Name: "year", Usage: "Calendar year of the session (overrides config)."},
		},
		Before: s.open,
		After:  s.close,
		Action: shellAction(s),
		Commands: []*cli.Command{
			shellCommand(s),
			addCommand(s),
			deleteCommand(s),
			clearCommand(s),
			dayCommand(s),
			monthCommand(s),
			cellsCommand(s),
			listCommand(s),
			exportCommand(s),
			importCommand(s),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func (s *session) open(c *cli.Context) error {
	conf, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := conf.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if c.IsSet("data-dir") {
		conf.DataDir = c.String("data-dir")
	}
	if c.IsSet("store") {
		conf.Store = c.String("store")
	}
	if c.IsSet("year") {
		conf.Year = c.Int("year")
	}
	if err := conf.Normalize(); err != nil {
		return err
	}

	s.logger = setupLogger(conf.LogLevel)
	s.logger.Debug("Effective config.", "data_dir", conf.DataDir, "store", conf.Store, "year", conf.Year, "timezone", conf.Timezone)

	s.loc, err = conf.Location()
	if err != nil {
		return err
	}

	s.backend, err = storage.Open(conf.Store, conf.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", conf.Store, err)
	}

	slots, err := s.backend.LoadSchedule(c.Context)
	if err != nil {
		return fmt.Errorf("failed to restore schedule: %w", err)
	}

	s.view = view.NewCLI(os.Stdout)
	s.sched = schedule.NewSchedule(s.logger, s.backend, s.view, conf.Year, s.loc)
	s.sched.Restore(slots)
	return nil
}

func (s *session) close(c *cli.Context) error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// present prints the outcome of an operation, turning input errors into messages.
func (s *session) present(msg string, err error) error {
	var fe *schedule.FormatError
	if errors.As(err, &fe) {
		s.view.ErrMessage(fe.Error())
		return cli.Exit("", 2)
	}
	if err != nil {
		return err
	}
	s.view.Message(msg)
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
