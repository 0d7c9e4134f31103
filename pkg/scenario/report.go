package scenario

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level is the console verbosity.
type Level int

const (
	// LevelQuiet shows failures and the final summary
	LevelQuiet Level = iota
	// LevelNormal shows each scenario's outcome (default)
	LevelNormal
	// LevelVerbose adds descriptions and targets
	LevelVerbose
	// LevelDebug adds timing detail
	LevelDebug
)

// ParseLevel converts a verbosity name to a Level.
func ParseLevel(level string) Level {
	switch level {
	case "quiet":
		return LevelQuiet
	case "verbose":
		return LevelVerbose
	case "debug":
		return LevelDebug
	default:
		return LevelNormal
	}
}

var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	mintGreen   = lipgloss.Color("#A8E6CF")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
)

// Reporter prints run progress to a terminal.
type Reporter struct {
	level  Level
	writer io.Writer

	header  lipgloss.Style
	section lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
}

// NewReporter creates a reporter writing to w (stdout when nil).
func NewReporter(w io.Writer, level Level) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		level:   level,
		writer:  w,
		header:  r.NewStyle().Foreground(brightWhite).Bold(true),
		section: r.NewStyle().Foreground(salmonPink),
		pass:    r.NewStyle().Foreground(mintGreen).Bold(true),
		fail:    r.NewStyle().Foreground(salmonPink).Bold(true),
		muted:   r.NewStyle().Foreground(mutedGray),
	}
}

// Header prints the run banner.
func (r *Reporter) Header(title string, count int) {
	if r.level < LevelNormal {
		return
	}
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(r.writer, r.header.Render(rule))
	fmt.Fprintln(r.writer, r.header.Render(fmt.Sprintf("  %s: %d scenario(s)", title, count)))
	fmt.Fprintln(r.writer, r.header.Render(rule))
}

// Start announces a scenario.
func (r *Reporter) Start(sc Scenario) {
	if r.level < LevelNormal {
		return
	}
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, r.section.Render("▶ "+sc.Name))
	if r.level >= LevelVerbose && sc.Description != "" {
		fmt.Fprintln(r.writer, r.muted.Render("→ "+sc.Description))
	}
}

// Result prints a scenario's outcome. Failures print at every level.
func (r *Reporter) Result(res Result) {
	if res.Passed {
		if r.level < LevelNormal {
			return
		}
		fmt.Fprintln(r.writer, r.pass.Render(fmt.Sprintf("✓ %s (%s)", res.Name, res.Duration.Round(time.Millisecond))))
	} else {
		fmt.Fprintln(r.writer, r.fail.Render(fmt.Sprintf("✗ %s", res.Name)))
		fmt.Fprintln(r.writer, r.muted.Render("    "+res.Error))
	}
	if r.level >= LevelVerbose {
		fmt.Fprintln(r.writer, r.muted.Render("    target: "+res.Target))
	}
	if r.level >= LevelDebug {
		fmt.Fprintln(r.writer, r.muted.Render("    started: "+res.StartTime.Format(time.RFC3339Nano)))
	}
}

// Summary prints the final tally.
func (r *Reporter) Summary(report *Report) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, r.header.Render(rule))
	fmt.Fprint(r.writer, "  Status: ")
	switch report.Status {
	case statusPassed:
		fmt.Fprintln(r.writer, r.pass.Render("✓ PASSED"))
	case statusFailed:
		fmt.Fprintln(r.writer, r.fail.Render("✗ FAILED"))
	default:
		fmt.Fprintln(r.writer, r.muted.Render("no scenarios ran"))
	}
	fmt.Fprintf(r.writer, "  Passed: %d  Failed: %d\n", report.Passed, report.Failed)
	fmt.Fprintf(r.writer, "  Duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintln(r.writer, r.header.Render(rule))
}
