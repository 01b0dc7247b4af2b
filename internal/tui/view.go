package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/framemark/framemark/internal/models"
	"github.com/framemark/framemark/internal/session"
)

// View renders the annotation screen.
func (m Model) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m Model) renderContent() string {
	if m.ctrl.State() == session.StateLoading {
		return fmt.Sprintf("Loading %s #%d...\n", m.repoID, m.episode)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderEpisode())
	b.WriteString("\n")
	b.WriteString(m.renderFrame())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	target := m.ctrl.Target()
	title := fmt.Sprintf("%s #%d", m.repoID, m.episode)
	if target.Org != "" && (target.String() != fmt.Sprintf("%s#%d", m.repoID, m.episode)) {
		title += "  →  " + target.String()
	}

	state := ""
	switch m.ctrl.State() {
	case session.StateDirty:
		state = m.theme.dirtyStyle().Render("[unsaved edits]")
	case session.StateSaving:
		state = m.theme.activeStyle().Render("[saving]")
	case session.StateClean:
		state = m.theme.hintStyle().Render("[saved]")
	}

	return m.theme.titleStyle().Render(title) + "  " + state
}

func (m Model) renderEpisode() string {
	ep := m.episodeDraft()

	var b strings.Builder
	b.WriteString(m.renderTagList(secQuality, tagNames(models.QualityTags), []string{string(ep.Quality)}))
	b.WriteString(m.renderTagList(secKeyNotes, tagNames(models.KeyNoteTags), tagNames(ep.KeyNotes)))
	b.WriteString(m.renderTagList(secArms, tagNames(models.ArmKinds), []string{string(ep.Arms)}))

	items := formatItems(ep.Items)
	if items == "" {
		items = m.theme.hintStyle().Render("none")
	}
	b.WriteString(fmt.Sprintf("%s %s\n", m.theme.sectionStyle().Render("Items:"), items))

	remarks := ep.Remarks
	if remarks == "" {
		remarks = m.theme.hintStyle().Render("(none)")
	}
	b.WriteString(fmt.Sprintf("%s %s\n", m.theme.sectionStyle().Render("Remarks:"), remarks))
	return b.String()
}

func (m Model) renderFrame() string {
	frame, annotated := m.ctrl.Frame(m.frame)
	if !annotated {
		frame = models.FrameRecord{Frame: m.frame}
	}

	marker := ""
	if !annotated {
		marker = m.theme.hintStyle().Render(" (no annotation)")
	}

	var b strings.Builder
	b.WriteString(m.theme.titleStyle().Render(fmt.Sprintf("Frame %d", m.frame)))
	b.WriteString(marker + "  " + m.renderScrubber() + "\n")
	b.WriteString(m.renderTagList(secPhases, tagNames(models.PhaseTags), tagNames(frame.Phases)))
	b.WriteString(m.renderTagList(secIssues, tagNames(models.IssueTags), tagNames(frame.Issues)))

	notes := frame.Notes
	if notes == "" {
		notes = m.theme.hintStyle().Render("(none)")
	}
	b.WriteString(fmt.Sprintf("%s %s\n", m.theme.sectionStyle().Render("Notes:"), notes))
	return b.String()
}

// renderScrubber summarizes which frames of the episode carry annotations.
func (m Model) renderScrubber() string {
	frames := m.ctrl.Frames()
	if len(frames) == 0 {
		return m.theme.hintStyle().Render("no annotated frames")
	}
	marks := make([]string, len(frames))
	for i, f := range frames {
		mark := fmt.Sprintf("%d", f.Frame)
		if f.Frame == m.frame {
			mark = m.theme.activeStyle().Render("[" + mark + "]")
		}
		marks[i] = mark
	}
	return m.theme.hintStyle().Render("annotated: ") + strings.Join(marks, " ")
}

// renderTagList renders one selectable tag row. Tags present on the draft
// are highlighted; the cursor shows in the focused section only.
func (m Model) renderTagList(s section, vocab, active []string) string {
	activeSet := make(map[string]bool, len(active))
	for _, tag := range active {
		activeSet[tag] = true
	}

	focused := m.mode == modeBrowse && m.section == s
	parts := make([]string, len(vocab))
	for i, tag := range vocab {
		label := tag
		if activeSet[tag] {
			label = m.theme.taggedStyle().Render("● " + tag)
		}
		if focused && m.sel[s] == i {
			label = m.theme.activeStyle().Render("›") + label
		} else {
			label = " " + label
		}
		parts[i] = label
	}

	header := m.theme.sectionStyle().Render(s.name() + ":")
	if focused {
		header = m.theme.activeStyle().Render(s.name() + ":")
	}
	return fmt.Sprintf("%s %s\n", header, strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	switch m.mode {
	case modeInput:
		label := map[editTarget]string{
			editRemarks: "Remarks",
			editNotes:   "Frame notes",
			editItems:   "Items (name:qty ...)",
		}[m.target]
		return fmt.Sprintf("%s %s\n%s\n",
			m.theme.sectionStyle().Render(label+":"),
			m.input.View(),
			m.theme.hintStyle().Render("enter apply · esc cancel"))

	case modeConfirmDiscard:
		return m.theme.errorStyle().Render("Discard unsaved edits?") +
			m.theme.hintStyle().Render("  y discard · n keep editing") + "\n"

	case modeConfirmSave:
		var b strings.Builder
		b.WriteString(m.theme.dirtyStyle().Render("Unbalanced issue pairings:") + "\n")
		for _, w := range m.saveWarning {
			b.WriteString("  " + w + "\n")
		}
		b.WriteString(m.theme.hintStyle().Render("y save anyway · n go back") + "\n")
		return b.String()
	}

	var b strings.Builder
	for _, w := range m.ctrl.Warnings() {
		b.WriteString(m.theme.dirtyStyle().Render("warning: ") + w + "\n")
	}
	if m.status != "" {
		style := m.theme.hintStyle()
		if strings.HasPrefix(m.status, "save failed") {
			style = m.theme.errorStyle()
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	b.WriteString(m.theme.hintStyle().Render(
		"←/→ frame · [ ] annotated · tab section · ↑/↓ select · space toggle · " +
			"d delete frame · e remarks · t notes · i items · s save · p/n episode · q quit"))
	b.WriteString("\n")
	return b.String()
}

func tagNames[T ~string](tags []T) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return names
}
