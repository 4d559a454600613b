package main

import (
	"classtable/internal/console"
	"classtable/internal/ics"
	"classtable/internal/schedule"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func shellAction(s *session) cli.ActionFunc {
	return func(c *cli.Context) error {
		return console.New(s.logger, s.sched, s.view, os.Stdin).Run(c.Context)
	}
}

func shellCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start the interactive timetable shell (default).",
		Action: shellAction(s),
	}
}

func addCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a class unless it clashes with an existing one.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "Start time, dd/MM/yyyy HHmm."},
			&cli.StringFlag{Name: "end", Required: true, Usage: "End time, dd/MM/yyyy HHmm."},
			&cli.StringFlag{Name: "class", Required: true, Usage: "Class name."},
			&cli.StringFlag{Name: "location", Usage: "Where the class is held."},
		},
		Action: func(c *cli.Context) error {
			return s.present(s.sched.AddClass(c.Context, c.String("start"), c.String("end"), c.String("location"), c.String("class")))
		},
	}
}

func deleteCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a class by name and start time.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "Start time, dd/MM/yyyy HHmm."},
			&cli.StringFlag{Name: "class", Required: true, Usage: "Class name."},
			&cli.BoolFlag{Name: "sync", Usage: "Also rewrite the stored schedule."},
		},
		Action: func(c *cli.Context) error {
			msg, err := s.sched.DelClass(c.Context, c.String("start"), c.String("class"))
			if err := s.present(msg, err); err != nil {
				return err
			}
			if !c.Bool("sync") {
				s.logger.Warn("Deletion kept in memory only; pass --sync to store it.")
				return nil
			}
			return s.sched.Sync(c.Context)
		},
	}
}

func clearCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "Remove every class starting at the given HHmm time.",
		ArgsUsage: "<HHmm>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: clear <HHmm>", 2)
			}
			return s.present(s.sched.DelAllClass(c.Context, c.Args().First()))
		},
	}
}

func dayCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "day",
		Usage: "Show the hourly agenda of a day.",
		Flags: dayMonthFlags(),
		Action: func(c *cli.Context) error {
			day, month, err := flagDayMonth(c)
			if err != nil {
				return err
			}
			s.view.Day(s.sched.GetDay(day, month))
			return nil
		},
	}
}

func monthCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "month",
		Usage: "Show the calendar grid of a month.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "month", Aliases: []string{"m"}, Required: true, Usage: "Month, 1-12."},
		},
		Action: func(c *cli.Context) error {
			_, err := s.sched.GetMonth(c.Int("month"))
			return err
		},
	}
}

func cellsCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "cells",
		Usage: "Show the entries stored for a date.",
		Flags: dayMonthFlags(),
		Action: func(c *cli.Context) error {
			day, month, err := flagDayMonth(c)
			if err != nil {
				return err
			}
			cells, err := s.sched.GetCells(c.Context, day, month)
			if errors.Is(err, schedule.ErrStorageRead) {
				return cli.Exit("", 1)
			}
			if err != nil {
				return err
			}
			s.view.TableDate(day, month)
			s.view.TableHeader()
			s.view.TableContents(cells)
			return nil
		},
	}
}

func listCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every date that has scheduled classes.",
		Action: func(c *cli.Context) error {
			return s.sched.ListAll(c.Context)
		},
	}
}

func exportCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the timetable as an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "timetable.ics", Usage: "Output file, - for stdout."},
		},
		Action: func(c *cli.Context) error {
			slots := s.sched.Slots()
			if len(slots) == 0 {
				s.view.Message(schedule.MsgNothingPlanned)
				return nil
			}

			out := os.Stdout
			if path := c.String("out"); path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("unable to create %s: %w", path, err)
				}
				defer f.Close()
				out = f
			}
			if err := ics.Encode(out, slots); err != nil {
				return err
			}
			s.logger.Info("Exported timetable.", "count", len(slots), "file", c.String("out"))
			return nil
		},
	}
}

func importCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Add every event of an iCalendar file, skipping clashes.",
		ArgsUsage: "<file.ics>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: import <file.ics>", 2)
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return fmt.Errorf("unable to open calendar: %w", err)
			}
			defer f.Close()

			outcomes, err := ics.Import(c.Context, f, s.loc, s.sched)
			for _, o := range outcomes {
				s.view.Message(fmt.Sprintf("%s: %s", o.Entry.ClassName, o.Message))
			}
			if err != nil {
				return err
			}
			s.logger.Info("Imported calendar.", "events", len(outcomes), "file", c.Args().First())
			return nil
		},
	}
}

func dayMonthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "day", Aliases: []string{"d"}, Required: true, Usage: "Day of month."},
		&cli.IntFlag{Name: "month", Aliases: []string{"m"}, Required: true, Usage: "Month, 1-12."},
	}
}

func flagDayMonth(c *cli.Context) (int, int, error) {
	day, month := c.Int("day"), c.Int("month")
	if err := schedule.CheckDayMonth(day, month); err != nil {
		return 0, 0, fmt.Errorf("invalid date: %w", err)
	}
	return day, month, nil
}
