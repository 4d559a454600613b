package console

import (
	"bufio"
	"classtable/internal/models"
	"classtable/internal/parser"
	"classtable/internal/schedule"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2/1/2006"

// View is what the console renders through.
type View interface {
	schedule.View
	Day(agenda string)
	TableDate(day, month int)
	TableHeader()
	TableContents(slots []models.TimeSlot)
	TableMenu()
	ShowDontKnow()
}

// Console reads commands line by line and dispatches them to a Schedule.
type Console struct {
	logger *slog.Logger
	sched  *schedule.Schedule
	view   View
	in     *bufio.Scanner
}

// New creates a Console reading from in.
func New(logger *slog.Logger, sched *schedule.Schedule, view View, in io.Reader) *Console {
	return &Console{
		logger: logger,
		sched:  sched,
		view:   view,
		in:     bufio.NewScanner(in),
	}
}

// Run processes commands until "bye", end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.view.Message("Type 'help' to see the available commands.")
	for c.in.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if line == "bye" || line == "exit" {
			c.view.Message("Bye.")
			return nil
		}
		if err := c.Execute(ctx, line); err != nil {
			c.report(err)
		}
	}
	return c.in.Err()
}

// Execute runs a single command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]

	switch fields[0] {
	case "add":
		return c.add(ctx, args)
	case "delete":
		return c.del(ctx, args)
	case "clear":
		if len(args) != 1 {
			return fmt.Errorf("%w: usage: clear <HHmm>", parser.ErrMalformedCommand)
		}
		msg, err := c.sched.DelAllClass(ctx, args[0])
		if err != nil {
			return err
		}
		c.view.Message(msg)
	case "day":
		day, month, err := dayMonth(args)
		if err != nil {
			return err
		}
		c.view.Day(c.sched.GetDay(day, month))
	case "month":
		if len(args) != 1 {
			return fmt.Errorf("%w: usage: month <m>", parser.ErrMalformedCommand)
		}
		month, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: bad month %q", parser.ErrMalformedCommand, args[0])
		}
		_, err = c.sched.GetMonth(month)
		return err
	case "table":
		day, month, err := dayMonth(args)
		if err != nil {
			return err
		}
		return c.table(ctx, day, month)
	case "list":
		return c.sched.ListAll(ctx)
	case "sync":
		if err := c.sched.Sync(ctx); err != nil {
			return err
		}
		c.view.Message("Schedule saved")
	case "help":
		c.help()
	default:
		c.view.ShowDontKnow()
	}
	return nil
}

// add handles "add <dd/MM/yyyy> <HHmm> <HHmm> <class> /at <location>".
func (c *Console) add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: usage: add <dd/MM/yyyy> <HHmm> <HHmm> <class> /at <location>", parser.ErrMalformedCommand)
	}
	date, err := time.Parse(dateLayout, args[0])
	if err != nil {
		return fmt.Errorf("%w: bad date %q", parser.ErrMalformedCommand, args[0])
	}
	req, err := parser.ParseAdd("add "+strings.Join(args[1:], " "), date.Format(models.DateLayout))
	if err != nil {
		return err
	}
	return c.submit(ctx, req)
}

// del handles "delete <dd/MM/yyyy> <HHmm> <class>".
func (c *Console) del(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: usage: delete <dd/MM/yyyy> <HHmm> <class>", parser.ErrMalformedCommand)
	}
	msg, err := c.sched.DelClass(ctx, args[0]+" "+args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	c.view.Message(msg)
	return nil
}

func (c *Console) submit(ctx context.Context, req parser.Request) error {
	msg, err := c.sched.AddClass(ctx, req.Start, req.End, req.Location, req.ClassName)
	if err != nil {
		return err
	}
	c.view.Message(msg)
	return nil
}

// table shows the stored entries of one date and accepts "add" lines until "back".
func (c *Console) table(ctx context.Context, day, month int) error {
	date := c.sched.DateLabel(day, month)
	for {
		c.tableUI(ctx, day, month)
		if !c.in.Scan() {
			return c.in.Err()
		}
		input := strings.TrimSpace(c.in.Text())
		switch {
		case input == "back":
			return nil
		case strings.HasPrefix(input, "add"):
			req, err := parser.ParseAdd(input, date)
			if err != nil {
				c.logger.Info("Cannot add table entry.", "input", input, "error", err)
				c.view.ErrMessage("Input was in wrong format")
				continue
			}
			if err := c.submit(ctx, req); err != nil {
				c.report(err)
			}
		default:
			c.logger.Debug("Wrong input format for table.", "input", input)
			c.view.ShowDontKnow()
		}
	}
}

func (c *Console) tableUI(ctx context.Context, day, month int) {
	c.view.TableDate(day, month)
	c.view.TableHeader()
	if cells, err := c.sched.GetCells(ctx, day, month); err == nil {
		c.view.TableContents(cells)
	}
	c.view.TableMenu()
}

// report shows an error to the user. Nothing here is fatal.
func (c *Console) report(err error) {
	var fe *schedule.FormatError
	switch {
	case errors.As(err, &fe):
		c.view.ErrMessage(fe.Error())
	case errors.Is(err, parser.ErrMalformedCommand):
		c.view.ErrMessage(err.Error())
	case errors.Is(err, schedule.ErrStorageRead):
		// already shown by the schedule
	default:
		c.logger.Error("Command failed", "error", err)
		c.view.ErrMessage(err.Error())
	}
}

func (c *Console) help() {
	for _, line := range []string{
		"add <dd/MM/yyyy> <HHmm> <HHmm> <class> /at <location>",
		"delete <dd/MM/yyyy> <HHmm> <class>",
		"clear <HHmm>",
		"day <d> <m>",
		"month <m>",
		"table <d> <m>",
		"list",
		"sync",
		"bye",
	} {
		c.view.Message(line)
	}
}

func dayMonth(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: expected <day> <month>", parser.ErrMalformedCommand)
	}
	day, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad day %q", parser.ErrMalformedCommand, args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad month %q", parser.ErrMalformedCommand, args[1])
	}
	if err := schedule.CheckDayMonth(day, month); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", parser.ErrMalformedCommand, err)
	}
	return day, month, nil
}
