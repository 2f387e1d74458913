package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"fubbertool/internal/store"
)

// styled reports whether stdout is a terminal - the output collaborator's
// only decision point, never consulted by the core (spec.md §9). Grounded
// on the teacher's go.mod direct dependency on mattn/go-isatty, which the
// TUI's own terminal-size detection pulls in transitively; the CLI layer
// here is its one direct caller.
var styled = isatty.IsTerminal(os.Stdout.Fd())

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

func render(style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

// mdRenderer lazily builds the one glamour renderer the process needs;
// construction touches the terminal so it's deferred until a markdown
// hit is actually printed.
var mdRenderer *glamour.TermRenderer

func renderSnippet(hitType, snippet string) string {
	if !strings.HasPrefix(hitType, "md-") {
		return snippet
	}
	if mdRenderer == nil {
		opt := glamour.WithAutoStyle()
		if !styled {
			opt = glamour.WithStylePath("light")
		}
		r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
		if err != nil {
			return snippet
		}
		mdRenderer = r
	}
	out, err := mdRenderer.Render(snippet)
	if err != nil {
		return snippet
	}
	return strings.TrimRight(out, "\n")
}

// printSearchResults renders hits as a simple aligned table, grounded on
// the teacher's SimpleTable (cmd/nerd/ui/simple_table.go), pared down to
// what a thin CLI dispatcher needs: no interactive state, one pass render.
// Markdown hits (type md-heading-1) render their snippet through glamour
// instead of the plain indented block every other entity type gets.
func printSearchResults(w io.Writer, hits []store.SearchResult) {
	if len(hits) == 0 {
		fmt.Fprintln(w, render(mutedStyle, "no matches"))
		return
	}
	for _, h := range hits {
		loc := fmt.Sprintf("%s:%d-%d", h.ProjectRelativePath, h.LineStart, h.LineEnd)
		header := fmt.Sprintf("%s  %s", render(pathStyle, loc), render(mutedStyle, h.Type))
		if h.Enclosing != "" {
			header += render(mutedStyle, " in "+h.Enclosing)
		}
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, indent(renderSnippet(h.Type, h.SnippetDetokenized), "    "))
		fmt.Fprintln(w)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// printProjects renders the registered-project table, supplementing
// spec.md §6's table with last_accessed and last_update_check (SPEC_FULL.md
// §6 EXPANDED) since the data model already carries both columns.
func printProjects(w io.Writer, projects []store.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, render(mutedStyle, "no registered projects"))
		return
	}
	fmt.Fprintln(w, render(headerStyle, "ROOT\tLAST INDEXED\tLAST ACCESSED\tLAST UPDATE CHECK"))
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ProjectRoot, nullOr(p.LastIndexed), nullOr(p.LastAccessed), nullOr(p.LastUpdateCheck))
	}
}

func nullOr(s sql.NullString) string {
	if !s.Valid {
		return "-"
	}
	return s.String
}
