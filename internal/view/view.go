package view

import (
	"classtable/internal/models"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

const bufferLine = "____________________________________________________________"

// CLI renders timetable data as plain text. It holds no state besides its writer.
type CLI struct {
	out io.Writer
}

// NewCLI creates a CLI view writing to out, or to stdout when out is nil.
func NewCLI(out io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	return &CLI{out: out}
}

// MonthHeader prints the month abbreviation and year, e.g. "Mar 2019".
func (v *CLI) MonthHeader(month string, year int) {
	fmt.Fprintf(v.out, "%s %d\n", month, year)
}

// Month prints a Sunday-first calendar grid.
func (v *CLI) Month(daysInMonth int, firstDay time.Weekday) {
	fmt.Fprintln(v.out, "Su Mo Tu We Th Fr Sa")

	var sb strings.Builder
	sb.WriteString(strings.Repeat("   ", int(firstDay)))
	col := int(firstDay)
	for day := 1; day <= daysInMonth; day++ {
		fmt.Fprintf(&sb, "%2d", day)
		col++
		if col == 7 || day == daysInMonth {
			fmt.Fprintln(v.out, strings.TrimRight(sb.String(), " "))
			sb.Reset()
			col = 0
			continue
		}
		sb.WriteString(" ")
	}
}

// Day prints the hourly agenda produced for a single day.
func (v *CLI) Day(agenda string) {
	fmt.Fprint(v.out, agenda)
}

func (v *CLI) TableDate(day, month int) {
	fmt.Fprintf(v.out, "Schedule for %02d/%02d\n", day, month)
}

func (v *CLI) TableHeader() {
	fmt.Fprintln(v.out, bufferLine)
}

// TableContents prints one row per slot.
func (v *CLI) TableContents(slots []models.TimeSlot) {
	if len(slots) == 0 {
		fmt.Fprintln(v.out, "Nothing scheduled")
		return
	}
	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tCLASS\tLOCATION")
	for _, s := range slots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			s.StartTime().Format("15:04"), s.EndTime().Format("15:04"), s.ClassName(), s.Location())
	}
	w.Flush()
}

func (v *CLI) TableMenu() {
	fmt.Fprintln(v.out, bufferLine)
	fmt.Fprintln(v.out, "add <HHmm> <HHmm> <class> /at <location>  |  back")
}

func (v *CLI) ShowDontKnow() {
	fmt.Fprintln(v.out, "Sorry, I don't know what that means")
}

func (v *CLI) BufferLine() {
	fmt.Fprintln(v.out, bufferLine)
}

func (v *CLI) Message(msg string) {
	fmt.Fprintln(v.out, msg)
}

func (v *CLI) ErrMessage(msg string) {
	fmt.Fprintln(v.out, "Error: "+msg)
}
