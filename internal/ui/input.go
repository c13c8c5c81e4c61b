package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/listkeeper/internal/liststate"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay closes on any key
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.activity != nil {
		return m.handleActivityKey(msg)
	}
	if len(m.tabs) == 0 {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		cmd := m.openActivity()
		return m, cmd

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % len(m.tabs)
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
		m.savePrefs()
		return m, nil
	}

	return m.handleListKey(msg)
}

// handleListKey handles navigation and actions on the active list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()
	n := t.screen.Len()

	switch {
	case key.Matches(msg, m.keys.Up):
		if t.selected > 0 {
			t.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if t.selected < n-1 {
			t.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		t.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if n > 0 {
			t.selected = n - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.Cart):
		cs, ok := t.screen.(cartScreen)
		if !ok {
			return m, nil
		}
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		text, err := cs.AddToCart(row.ID)
		if err != nil {
			return m, m.notifyErr(err)
		}
		return m, m.notify(text, false)
	}

	// Everything below writes to the list.
	isWrite := key.Matches(msg, m.keys.Add) || key.Matches(msg, m.keys.Edit) ||
		key.Matches(msg, m.keys.Delete) || key.Matches(msg, m.keys.Refresh)
	if !isWrite {
		return m, nil
	}
	if m.busy(m.active) {
		return m, m.notifyErr(liststate.ErrBusy)
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		cmd := m.openForm(nil)
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		values, err := t.screen.BeginEdit(row.ID)
		if err != nil {
			return m, m.notifyErr(err)
		}
		cmd := m.openForm(values)
		m.form.edit = true
		m.form.id = row.ID
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.confirm = &confirmState{tab: m.active, row: row}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if !t.screen.Remote() {
			return m, m.notify(fmt.Sprintf("%s are kept in memory", t.screen.Title()), false)
		}
		m.pending[m.active] = true
		return m, tea.Batch(m.refreshCmd(m.active), m.spinner.Tick)
	}
	return m, nil
}

// handleFormKey handles input while the add/edit modal is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	switch {
	case key.Matches(msg, m.keys.Escape):
		if f.edit {
			m.tabs[f.tab].screen.CancelEdit()
		}
		m.form = nil
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if f.submitting {
			return m, nil
		}
		f.submitting = true
		return m, m.submitForm()

	case key.Matches(msg, m.keys.NextField):
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + 1) % len(f.inputs)
		return m, f.inputs[f.focus].Focus()

	case key.Matches(msg, m.keys.PrevField):
		f.inputs[f.focus].Blur()
		f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
		return m, f.inputs[f.focus].Focus()

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	// Let the focused input handle the key
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// submitForm sends the form values to the screen as an add or a commit.
func (m *Model) submitForm() tea.Cmd {
	f := m.form
	s := m.tabs[f.tab].screen
	values := f.values()
	if f.edit {
		id := f.id
		return m.startOp(f.tab, opCommit, func(ctx context.Context) (string, error) {
			return s.CommitEdit(ctx, id, values)
		})
	}
	return m.startOp(f.tab, opAdd, func(ctx context.Context) (string, error) {
		return s.Add(ctx, values)
	})
}

// handleConfirmKey handles the delete confirmation dialog.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.confirm = nil
		s := m.tabs[c.tab].screen
		row := c.row
		return m, m.startOp(c.tab, opRemove, func(ctx context.Context) (string, error) {
			if err := s.Remove(ctx, row.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted %s", row.Label()), nil
		})

	case key.Matches(msg, m.keys.No):
		m.confirm = nil
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}
