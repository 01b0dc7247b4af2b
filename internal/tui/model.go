// Package tui implements the interactive annotation screen: frame
// scrubbing, tag toggles and the save/discard flow around one annotation
// session.
package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/framemark/framemark/internal/models"
	"github.com/framemark/framemark/internal/pairing"
	"github.com/framemark/framemark/internal/session"
)

const ioTimeout = 30 * time.Second

// section identifies the tag list the cursor operates on.
type section int

const (
	secQuality section = iota
	secKeyNotes
	secArms
	secPhases
	secIssues
	sectionCount
)

func (s section) name() string {
	switch s {
	case secQuality:
		return "Quality"
	case secKeyNotes:
		return "Key notes"
	case secArms:
		return "Arms"
	case secPhases:
		return "Phases"
	case secIssues:
		return "Issues"
	default:
		return ""
	}
}

// editTarget identifies which text field the input overlay edits.
type editTarget int

const (
	editNone editTarget = iota
	editRemarks
	editNotes
	editItems
)

// pendingAction is what to do once a discard confirmation resolves.
type pendingAction int

const (
	actNone pendingAction = iota
	actPrevEpisode
	actNextEpisode
	actQuit
)

// mode selects how key presses are interpreted.
type mode int

const (
	modeBrowse mode = iota
	modeInput
	modeConfirmDiscard
	modeConfirmSave
)

// openedMsg reports the outcome of loading an episode.
type openedMsg struct {
	repoID  string
	episode int
	err     error
}

// savedMsg reports the outcome of a commit.
type savedMsg struct{ err error }

// Model is the bubbletea model for an annotation session.
type Model struct {
	ctrl  *session.Controller
	table pairing.Table
	theme Theme

	repoID  string
	episode int

	mode    mode
	section section
	sel     [sectionCount]int
	frame   int // scrubber position

	input  textinput.Model
	target editTarget

	pending     pendingAction
	saveWarning []string

	width  int
	height int

	status string
	err    error
}

// New builds the annotation screen for one episode.
func New(ctrl *session.Controller, table pairing.Table, repoID string, episode int) Model {
	ti := textinput.New()
	ti.Placeholder = ""

	return Model{
		ctrl:    ctrl,
		table:   table,
		theme:   defaultTheme,
		repoID:  repoID,
		episode: episode,
		input:   ti,
	}
}

// Init loads the requested episode.
func (m Model) Init() tea.Cmd {
	return m.openCmd(m.repoID, m.episode, false)
}

// openCmd loads an episode in the background. discard reflects an already
// answered confirmation; a fresh session is never dirty.
func (m Model) openCmd(repoID string, episode int, discard bool) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()

		var hook func() bool
		if discard {
			hook = func() bool { return true }
		}
		err := ctrl.Open(ctx, repoID, episode, hook)
		return openedMsg{repoID: repoID, episode: episode, err: err}
	}
}

// saveCmd commits the cache. The pairing gate was already shown on screen,
// so the confirm hook always proceeds.
func (m Model) saveCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()

		err := ctrl.Save(ctx, func([]string) bool { return true })
		return savedMsg{err: err}
	}
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case openedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrUnsavedChanges) {
				// The discard modal answers this before Open runs.
				return m, nil
			}
			m.err = msg.err
			return m, tea.Quit
		}
		m.repoID = msg.repoID
		m.episode = msg.episode
		m.frame = m.firstFrame()
		m.status = ""
		m.err = nil
		return m, nil

	case savedMsg:
		if msg.err != nil {
			var commitErr *session.CommitError
			if errors.As(msg.err, &commitErr) {
				m.status = "save failed at " + commitErr.Step.String() + ": " + commitErr.Err.Error()
			} else {
				m.status = "save failed: " + msg.err.Error()
			}
		} else {
			m.status = "saved"
		}
		return m, nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeConfirmDiscard:
			return m.updateConfirmDiscard(msg)
		case modeConfirmSave:
			return m.updateConfirmSave(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.ctrl.IsDirty() {
			m.mode = modeConfirmDiscard
			m.pending = actQuit
			return m, nil
		}
		return m, tea.Quit

	case "left", "h":
		if m.frame > 0 {
			m.frame--
		}
	case "right", "l":
		m.frame++
	case "shift+left", "H":
		m.frame = max(0, m.frame-10)
	case "shift+right", "L":
		m.frame += 10
	case "[":
		m.frame = m.adjacentAnnotated(-1)
	case "]":
		m.frame = m.adjacentAnnotated(+1)

	case "tab":
		m.section = (m.section + 1) % sectionCount
	case "shift+tab":
		m.section = (m.section + sectionCount - 1) % sectionCount
	case "up", "k":
		if m.sel[m.section] > 0 {
			m.sel[m.section]--
		}
	case "down", "j":
		if m.sel[m.section] < m.sectionLen(m.section)-1 {
			m.sel[m.section]++
		}
	case " ", "space", "enter":
		m.toggleSelected()

	case "d":
		m.ctrl.DeleteFrame(m.frame)
		m.status = ""

	case "e":
		return m.startInput(editRemarks)
	case "t":
		return m.startInput(editNotes)
	case "i":
		return m.startInput(editItems)

	case "s", "ctrl+s":
		return m.startSave()

	case "p":
		return m.startNavigate(actPrevEpisode)
	case "n":
		return m.startNavigate(actNextEpisode)
	}
	return m, nil
}

// startSave shows the pairing gate when the draft has unbalanced issue
// tags, otherwise commits right away.
func (m Model) startSave() (tea.Model, tea.Cmd) {
	if !m.ctrl.IsDirty() {
		m.status = "nothing to save"
		return m, nil
	}
	warnings := pairing.Check(m.table, m.ctrl.Frames())
	if len(warnings) > 0 {
		m.mode = modeConfirmSave
		m.saveWarning = warnings
		return m, nil
	}
	m.status = "saving..."
	return m, m.saveCmd()
}

func (m Model) startNavigate(act pendingAction) (tea.Model, tea.Cmd) {
	if act == actPrevEpisode && m.episode == 0 {
		return m, nil
	}
	if m.ctrl.IsDirty() {
		m.mode = modeConfirmDiscard
		m.pending = act
		return m, nil
	}
	return m, m.navigateCmd(act, false)
}

func (m Model) navigateCmd(act pendingAction, discard bool) tea.Cmd {
	episode := m.episode
	switch act {
	case actPrevEpisode:
		episode--
	case actNextEpisode:
		episode++
	}
	return m.openCmd(m.repoID, episode, discard)
}

func (m Model) updateConfirmDiscard(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		act := m.pending
		m.mode = modeBrowse
		m.pending = actNone
		if act == actQuit {
			return m, tea.Quit
		}
		return m, m.navigateCmd(act, true)
	case "n", "N", "esc", "ctrl+c":
		m.mode = modeBrowse
		m.pending = actNone
	}
	return m, nil
}

func (m Model) updateConfirmSave(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		m.saveWarning = nil
		m.status = "saving..."
		return m, m.saveCmd()
	case "n", "N", "esc", "ctrl+c":
		m.mode = modeBrowse
		m.saveWarning = nil
		m.status = "save cancelled"
	}
	return m, nil
}

func (m Model) startInput(target editTarget) (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.target = target
	switch target {
	case editRemarks:
		m.input.SetValue(m.episodeDraft().Remarks)
	case editNotes:
		if frame, ok := m.ctrl.Frame(m.frame); ok {
			m.input.SetValue(frame.Notes)
		} else {
			m.input.SetValue("")
		}
	case editItems:
		m.input.SetValue(formatItems(m.episodeDraft().Items))
	}
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.applyInput()
		m.mode = modeBrowse
		m.target = editNone
		m.input.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.target = editNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyInput() {
	value := m.input.Value()
	switch m.target {
	case editRemarks:
		m.ctrl.SetEpisodeFields(session.EpisodePatch{Remarks: &value})
	case editNotes:
		m.ctrl.SetFrameFields(m.frame, session.FramePatch{Notes: &value})
	case editItems:
		items, err := parseItems(value)
		if err != nil {
			m.status = err.Error()
			return
		}
		// Carried-over quantities are zeroed so the new set replaces the
		// old one instead of merging into it.
		patch := make(map[string]int, len(items))
		for name := range m.episodeDraft().Items {
			patch[name] = 0
		}
		for name, qty := range items {
			patch[name] = qty
		}
		m.ctrl.SetEpisodeFields(session.EpisodePatch{Items: patch})
	}
}

// toggleSelected applies the highlighted tag to the draft.
func (m *Model) toggleSelected() {
	m.status = ""
	switch m.section {
	case secQuality:
		quality := models.QualityTags[m.sel[secQuality]]
		m.ctrl.SetEpisodeFields(session.EpisodePatch{Quality: &quality})
	case secKeyNotes:
		tag := models.KeyNoteTags[m.sel[secKeyNotes]]
		notes := toggleTag(m.episodeDraft().KeyNotes, tag)
		m.ctrl.SetEpisodeFields(session.EpisodePatch{KeyNotes: &notes})
	case secArms:
		arms := models.ArmKinds[m.sel[secArms]]
		m.ctrl.SetEpisodeFields(session.EpisodePatch{Arms: &arms})
	case secPhases:
		tag := models.PhaseTags[m.sel[secPhases]]
		phases := toggleTag(m.frameDraft().Phases, tag)
		m.ctrl.SetFrameFields(m.frame, session.FramePatch{Phases: &phases})
	case secIssues:
		tag := models.IssueTags[m.sel[secIssues]]
		issues := toggleTag(m.frameDraft().Issues, tag)
		m.ctrl.SetFrameFields(m.frame, session.FramePatch{Issues: &issues})
	}
}

func (m Model) sectionLen(s section) int {
	switch s {
	case secQuality:
		return len(models.QualityTags)
	case secKeyNotes:
		return len(models.KeyNoteTags)
	case secArms:
		return len(models.ArmKinds)
	case secPhases:
		return len(models.PhaseTags)
	case secIssues:
		return len(models.IssueTags)
	default:
		return 0
	}
}

// episodeDraft returns the episode draft, or a zero record when nothing
// was annotated yet.
func (m Model) episodeDraft() models.EpisodeRecord {
	if ep := m.ctrl.Episode(); ep != nil {
		return *ep
	}
	return models.EpisodeRecord{}
}

// frameDraft returns the draft of the scrubber frame, or a zero record.
func (m Model) frameDraft() models.FrameRecord {
	if frame, ok := m.ctrl.Frame(m.frame); ok {
		return frame
	}
	return models.FrameRecord{Frame: m.frame}
}

// firstFrame positions the scrubber on the first annotated frame.
func (m Model) firstFrame() int {
	frames := m.ctrl.Frames()
	if len(frames) > 0 {
		return frames[0].Frame
	}
	return 0
}

// adjacentAnnotated returns the nearest annotated frame in the given
// direction, or the current position when there is none.
func (m Model) adjacentAnnotated(dir int) int {
	frames := m.ctrl.Frames()
	if dir < 0 {
		for i := len(frames) - 1; i >= 0; i-- {
			if frames[i].Frame < m.frame {
				return frames[i].Frame
			}
		}
	} else {
		for _, f := range frames {
			if f.Frame > m.frame {
				return f.Frame
			}
		}
	}
	return m.frame
}

// toggleTag adds the tag when absent and removes it when present,
// preserving the order of the rest.
func toggleTag[T comparable](tags []T, tag T) []T {
	out := make([]T, 0, len(tags)+1)
	found := false
	for _, t := range tags {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}
