package tui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/threads/internal/model"
	"github.com/hmans/threads/internal/store"
	"github.com/hmans/threads/internal/ui"
)

// catalogItem wraps an Item to implement list.Item
type catalogItem struct {
	item *model.Item
}

func (i catalogItem) Title() string       { return i.item.Title }
func (i catalogItem) Description() string { return i.item.ID + " · " + ui.FormatMoney(i.item.Price) }
func (i catalogItem) FilterValue() string { return i.item.Title + " " + i.item.ID }

// itemDelegate handles rendering of list items
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(catalogItem)
	if !ok {
		return
	}

	// Column widths
	idWidth := 24
	priceWidth := 12

	id := ui.ID.Render(item.item.ID)
	idCol := lipgloss.NewStyle().Width(idWidth).Render(id)

	price := ui.RenderPrice(item.item.Price)
	priceCol := lipgloss.NewStyle().Width(priceWidth).Render(price)

	// Title (truncate if needed)
	title := item.item.Title
	maxTitleWidth := m.Width() - idWidth - priceWidth - 4
	if maxTitleWidth > 0 && len(title) > maxTitleWidth {
		title = title[:maxTitleWidth-3] + "..."
	}

	isSelected := index == m.Index()

	var str string
	if isSelected {
		cursor := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render("▌")
		titleStyled := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render(title)
		str = cursor + " " + idCol + priceCol + titleStyled
	} else {
		titleStyled := lipgloss.NewStyle().Render(title)
		str = "  " + idCol + priceCol + titleStyled
	}

	fmt.Fprint(w, str)
}

// listModel is the model for the item list view
type listModel struct {
	list   list.Model
	store  *store.Store
	width  int
	height int
	err    error
}

func newListModel(db *store.Store) listModel {
	l := list.New([]list.Item{}, itemDelegate{}, 0, 0)
	l.Title = "Items"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = listTitleStyle
	l.Styles.TitleBar = lipgloss.NewStyle().Padding(0, 0, 1, 2)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary)

	return listModel{
		list:  l,
		store: db,
	}
}

// itemsLoadedMsg is sent when items are loaded
type itemsLoadedMsg struct {
	items []*model.Item
}

// errMsg is sent when an error occurs
type errMsg struct {
	err error
}

// selectItemMsg is sent when an item is selected
type selectItemMsg struct {
	item *model.Item
}

func (m listModel) Init() tea.Cmd {
	return m.loadItems
}

func (m listModel) loadItems() tea.Msg {
	items, err := m.store.AllItems(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return itemsLoadedMsg{items}
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for border and footer
		m.list.SetSize(msg.Width-2, msg.Height-4)

	case itemsLoadedMsg:
		items := msg.items
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
		rows := make([]list.Item, len(items))
		for i, it := range items {
			rows[i] = catalogItem{item: it}
		}
		m.list.SetItems(rows)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter":
				if item, ok := m.list.SelectedItem().(catalogItem); ok {
					return m, func() tea.Msg {
						return selectItemMsg{item: item.item}
					}
				}
			}
		}
	}

	// Always forward to the list component
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.width == 0 {
		return "Loading..."
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(m.width - 2).
		Height(m.height - 4)

	content := border.Render(m.list.View())

	help := helpKeyStyle.Render("enter") + " " + helpStyle.Render("view") + "  " +
		helpKeyStyle.Render("/") + " " + helpStyle.Render("filter") + "  " +
		helpKeyStyle.Render("q") + " " + helpStyle.Render("quit")

	return content + "\n" + help
}
