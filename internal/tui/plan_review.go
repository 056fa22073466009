// Package tui contains the interactive terminal flows: the plan review
// screen shown before an apply and the guided record form.
package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/dns/diff"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"
	"nathanbeddoewebdev/zoneup/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RenderDiff formats a diff as colored change lines, one record per line.
// Unchanged records are summarized as a single count.
func RenderDiff(d diff.Diff) string {
	var b strings.Builder

	for _, r := range d.ToDelete {
		b.WriteString(styles.DeleteLine.Render("  - "+changeLine(r.Record())) + "\n")
	}
	for _, pair := range d.ToUpdate {
		b.WriteString(styles.UpdateLine.Render("  ~ "+changeLine(pair.Observed.Record())) + "\n")
		b.WriteString(styles.UpdateLine.Render("    → "+changeLine(pair.Desired)) + "\n")
	}
	for _, r := range d.ToCreate {
		b.WriteString(styles.CreateLine.Render("  + "+changeLine(r)) + "\n")
	}
	if d.Unchanged > 0 {
		b.WriteString(styles.UnchangedLine.Render(fmt.Sprintf("  = %d record(s) unchanged", d.Unchanged)) + "\n")
	}

	return b.String()
}

func changeLine(r domain.Record) string {
	line := fmt.Sprintf("%s %s %s", r.Label, r.Type, r.Value)
	switch {
	case r.MX != nil:
		line += fmt.Sprintf(" (preference %d)", r.MX.Preference)
	case r.SRV != nil:
		line += fmt.Sprintf(" (priority %d weight %d port %d)", r.SRV.Priority, r.SRV.Weight, r.SRV.Port)
	}
	if r.TTL > 0 {
		line += fmt.Sprintf(" [ttl %d]", r.TTL)
	}
	return line
}

// ErrReviewAborted is returned when the user declines the plan.
var ErrReviewAborted = fmt.Errorf("plan review aborted")

type planReviewModel struct {
	zone    string
	summary string
	view    viewport.Model
	ready   bool
	content string

	approved bool
	done     bool
}

// RunPlanReview shows the pending changes and the update script in a
// scrollable view and waits for the user to approve or abort. It returns
// ErrReviewAborted when the user declines.
func RunPlanReview(d diff.Diff, p plan.Plan) error {
	creates, updates, deletes, _ := d.Summary()
	summary := fmt.Sprintf("%d to add, %d to change, %d to remove", creates, updates, deletes)

	var content strings.Builder
	content.WriteString(styles.Subtitle.Render("Changes") + "\n")
	content.WriteString(RenderDiff(d))
	content.WriteString("\n" + styles.Subtitle.Render("Update script") + "\n")
	content.WriteString(styles.MutedText.Render(p.Render()))

	model := planReviewModel{
		zone:    d.Zone,
		summary: summary,
		content: content.String(),
	}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("tui: plan review failed: %w", err)
	}
	if m, ok := final.(planReviewModel); ok && m.approved {
		return nil
	}
	return ErrReviewAborted
}

func (m planReviewModel) Init() tea.Cmd {
	return nil
}

func (m planReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			m.approved = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 4
		footerHeight := 2
		height := msg.Height - headerHeight - footerHeight
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.view = viewport.New(msg.Width, height)
			m.view.SetContent(m.content)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = height
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m planReviewModel) View() string {
	if m.done || !m.ready {
		return ""
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Apply changes to "+m.zone),
		styles.Subtitle.Render(m.summary),
		"",
	)
	footer := "\n" + styles.MutedText.Render("y apply · n abort · ↑/↓ scroll")

	return header + "\n" + m.view.View() + footer
}
