package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/ecs-bridge/compiler"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type entry struct {
	category string
	name     string
	tag      int
	detail   string
}

type viewState int

const (
	stateList viewState = iota
	stateFilter
	stateDetail
)

type inspectModel struct {
	fingerprint string
	entries     []entry
	visible     []int
	filter      textinput.Model
	detail      viewport.Model
	selected    int
	state       viewState
}

func newInspectModel(c *compiler.Compiled) *inspectModel {
	man := c.Manifest()
	p := newPalette(true)

	var entries []entry
	for _, cat := range man.Categories {
		for _, mem := range cat.Members {
			entries = append(entries, entry{
				category: cat.Name,
				name:     mem.Name,
				tag:      int(mem.Tag),
				detail:   memberDetail(p, cat, mem),
			})
		}
	}
	for _, pf := range man.Prefabs {
		entries = append(entries, entry{
			category: "prefab",
			name:     pf.Name,
			tag:      int(pf.RefID),
			detail:   prefabDetail(p, pf),
		})
	}

	ti := textinput.New()
	ti.Placeholder = "name"
	ti.Prompt = "filter: "
	ti.Width = 30

	m := &inspectModel{
		fingerprint: man.Fingerprint,
		entries:     entries,
		filter:      ti,
		detail:      viewport.New(80, 20),
	}
	m.applyFilter()
	return m
}

func (m *inspectModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *inspectModel) Init() tea.Cmd { return nil }

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-4, 1)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilter:
			switch msg.String() {
			case "enter", "esc":
				m.filter.Blur()
				m.state = stateList
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd

		case stateDetail:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter":
				m.state = stateList
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
		case "/":
			m.state = stateFilter
			return m, m.filter.Focus()
		case "enter":
			if len(m.visible) > 0 {
				m.detail.SetContent(m.entries[m.visible[m.selected]].detail)
				m.detail.GotoTop()
				m.state = stateDetail
			}
		}
	}
	return m, nil
}

func (m *inspectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ECS Bridge Schema"))
	b.WriteString(" " + helpStyle.Render(shortFingerprint(m.fingerprint)) + "\n\n")

	if m.state == stateDetail {
		b.WriteString(m.detail.View())
		b.WriteString("\n" + helpStyle.Render("↑/↓ scroll • esc back • q quit"))
		return b.String()
	}

	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("no matching members") + "\n")
	}
	for i, idx := range m.visible {
		e := m.entries[idx]
		line := fmt.Sprintf("%-8s %3d  %s", e.category, e.tag, e.name)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n")
	if m.state == stateFilter {
		b.WriteString(m.filter.View() + "\n")
		b.WriteString(helpStyle.Render("enter apply • esc done"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
	}
	return b.String()
}

func memberDetail(p palette, cat compiler.CategoryManifest, mem compiler.MemberManifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", p.title.Render(cat.Name), p.name.Render(mem.Name))
	fmt.Fprintf(&b, "tag      %d\n", mem.Tag)
	if mem.Op != "" {
		fmt.Fprintf(&b, "op       %s\n", mem.Op)
	}
	fmt.Fprintf(&b, "size     %d B\n", mem.Size)
	fmt.Fprintf(&b, "align    %d\n", mem.Align)
	fmt.Fprintf(&b, "union    %s, payload @%d in a %d B record\n\n", cat.Union, cat.PayloadOffset, cat.RecordSize)
	if len(mem.Fields) == 0 {
		b.WriteString(p.dim.Render("no fields") + "\n")
	}
	for _, f := range mem.Fields {
		fmt.Fprintf(&b, "  %4d  %-16s %s\n", f.Offset, f.Name, p.typ.Render(f.Type))
	}
	return b.String()
}

func prefabDetail(p palette, pf compiler.PrefabManifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", p.title.Render("prefab"), p.name.Render(pf.Name))
	fmt.Fprintf(&b, "resource id  %d\n\n", pf.RefID)
	for i, v := range pf.Variants {
		fmt.Fprintf(&b, "  %3d  %s\n", i, v)
	}
	return b.String()
}
