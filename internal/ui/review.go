// Package ui renders the interactive field review: the extracted values
// one by one, a modified marker wherever the reviewer changed
// something, and a corrections summary before save.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"logidocs/constants"
	"logidocs/internal/reconcile"
	"logidocs/internal/review"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	emptyStyle    = lipgloss.NewStyle().Faint(true)
	modifiedBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("✏ modified")
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

var titleCaser = cases.Title(language.English)

// Reviewer drives one review session over a terminal-ish reader/writer
// pair.
type Reviewer struct {
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewReviewer reads reviewer input from in and renders to out.
func NewReviewer(in io.Reader, out io.Writer, logger *slog.Logger) *Reviewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{in: bufio.NewReader(in), out: out, logger: logger}
}

// Run walks the reviewer through every schema field of an extracted
// session and returns true when they chose to save. For each field:
// enter keeps the extracted value, "-" clears it, anything else
// replaces it. A session whose document already exists in the database
// can be inspected but not saved.
func (r *Reviewer) Run(sess *review.Session) (bool, error) {
	result := sess.Result()
	fmt.Fprintln(r.out, titleStyle.Render("Review Extracted Fields"))
	fmt.Fprintf(r.out, "File: %s\n", sess.Filename())
	if result.AlreadyExists {
		fmt.Fprintln(r.out, warnStyle.Render("⚠ document already in db — save disabled"))
	}
	fmt.Fprintln(r.out)

	for _, field := range constants.ShipmentFields {
		if err := r.reviewField(sess, field); err != nil {
			return false, err
		}
	}

	set, err := sess.Corrections()
	if err != nil {
		return false, err
	}
	if !set.IsEmpty() {
		fmt.Fprintln(r.out, summaryStyle.Render(fmt.Sprintf(
			"%d field(s) modified: %s", set.Len(), strings.Join(set.Fields(), ", "))))
	} else {
		fmt.Fprintln(r.out, emptyStyle.Render("no corrections"))
	}

	if result.AlreadyExists {
		fmt.Fprintln(r.out, "Nothing to save.")
		return false, sess.Cancel()
	}

	fmt.Fprint(r.out, "Save? [y/N]: ")
	answer, err := r.readLine()
	if err != nil {
		return false, err
	}
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		return true, nil
	}
	return false, sess.Cancel()
}

func (r *Reviewer) reviewField(sess *review.Session, field string) error {
	label := titleCaser.String(strings.ReplaceAll(field, "_", " "))
	fmt.Fprintf(r.out, "%s: %s\n", labelStyle.Render(label), renderValue(sess.Field(field)))
	fmt.Fprint(r.out, "  new value (enter keeps, '-' clears): ")

	line, err := r.readLine()
	if err != nil {
		return err
	}
	line = strings.TrimRight(line, "\r\n")

	switch strings.TrimSpace(line) {
	case "":
		// keep
	case "-":
		if err := sess.Edit(field, nil); err != nil {
			return err
		}
	default:
		if err := sess.Edit(field, line); err != nil {
			return err
		}
	}

	if sess.IsModified(field) {
		fmt.Fprintf(r.out, "  %s\n", modifiedBadge)
	}
	return nil
}

func (r *Reviewer) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}

func renderValue(v reconcile.Value) string {
	n := reconcile.Normalize(v)
	if n == nil {
		return emptyStyle.Render("(empty)")
	}
	return *n
}
