package ui

import (
	"fmt"
	"strings"

	"policyexplorer/internal/params"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuModel lists the parameter groups of the hierarchy.
type MenuModel struct {
	width  int
	height int
	list   list.Model
	styles Styles
}

type groupItem struct {
	group params.Group
}

func (i groupItem) Title() string {
	return strings.Repeat("  ", i.group.Depth) + i.group.Name
}

func (i groupItem) Description() string {
	indent := strings.Repeat("  ", i.group.Depth)
	if i.group.Leaf {
		return fmt.Sprintf("%s%d parameters", indent, i.group.Count)
	}
	return fmt.Sprintf("%s%d groups", indent, i.group.Count)
}

func (i groupItem) FilterValue() string { return i.group.Path }

// NewMenuModel creates the group menu.
func NewMenuModel(styles Styles) MenuModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Policy"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = styles.Title

	return MenuModel{list: l, styles: styles}
}

// SetGroups replaces the menu entries, keeping the cursor on selected when
// it is still present.
func (m *MenuModel) SetGroups(groups []params.Group, selected string) {
	items := make([]list.Item, len(groups))
	idx := 0
	for i, g := range groups {
		items[i] = groupItem{group: g}
		if g.Path == selected {
			idx = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(idx)
	}
}

// SetSize sets the menu dimensions.
func (m *MenuModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.list.SetSize(width, height)
}

// Filtering reports whether the user is typing a filter.
func (m MenuModel) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Selected returns the group under the cursor.
func (m MenuModel) Selected() (params.Group, bool) {
	item, ok := m.list.SelectedItem().(groupItem)
	if !ok {
		return params.Group{}, false
	}
	return item.group, true
}

// Update handles messages. Enter selects the highlighted group.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && !m.Filtering() {
		g, ok := m.Selected()
		if !ok {
			return m, nil
		}
		path := g.Path
		return m, func() tea.Msg { return GroupSelectedMsg{Path: path} }
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the menu.
func (m MenuModel) View() string {
	return m.list.View()
}
