package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"fubbertool/internal/indexer"
)

// progressMsg carries one indexer.Progress tick into the bubbletea
// program; doneMsg tells it the sweep is over and it can quit even if
// no ticks ever arrived (an all-cached run reports nothing).
type progressMsg indexer.Progress
type doneMsg struct{}

// progressModel is the short-lived program behind index/update's
// progress bar, grounded on the teacher's chat Model's
// spinner+Update/View split (cmd/nerd/chat/model.go) but scoped to one
// read-only render loop: it never reads input and quits the moment the
// sweep finishes.
type progressModel struct {
	bar   progress.Model
	sp    spinner.Model
	done  int
	total int
}

func newProgressModel() progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return progressModel{bar: progress.New(progress.WithDefaultGradient()), sp: sp}
}

func (m progressModel) Init() tea.Cmd {
	return m.sp.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.done, m.total = msg.Done, msg.Total
		if m.total > 0 && m.done >= m.total {
			return m, tea.Quit
		}
		return m, nil
	case doneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.total == 0 {
		return m.sp.View() + " scanning\n"
	}
	pct := float64(m.done) / float64(m.total)
	return fmt.Sprintf("%s %s %d/%d\n", m.sp.View(), m.bar.ViewAs(pct), m.done, m.total)
}

// progressReporter starts a bubbletea program rendering a spinner and
// bar against w, and returns the onProgress callback to pass to
// Indexer/Updater plus a stop func the caller must invoke once the
// sweep returns (whether it produced any ticks or not). In non-terminal
// output (piped/redirected), styled is false and both are no-ops,
// matching the output layer's one decision point (spec.md §9).
func progressReporter(w io.Writer) (onProgress func(indexer.Progress), stop func()) {
	if !styled {
		return func(indexer.Progress) {}, func() {}
	}
	p := tea.NewProgram(newProgressModel(), tea.WithInput(nil), tea.WithOutput(w))
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
	onProgress = func(pr indexer.Progress) { p.Send(progressMsg(pr)) }
	stop = func() {
		p.Send(doneMsg{})
		<-done
	}
	return onProgress, stop
}
