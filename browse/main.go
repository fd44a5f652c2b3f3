// Command browse is a terminal storefront client for the marketplace API:
// debounced search, category filters, paginated listing and a session cart,
// all driven by the listing controller and the cart store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apiclient "example.com/marketplace/app/internal/client"
	domcategory "example.com/marketplace/app/internal/domain/category"
	"example.com/marketplace/app/internal/listing"
	cartuc "example.com/marketplace/app/internal/usecase/cart"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pageStyle     = lipgloss.NewStyle().Padding(0, 1)
	curPageStyle  = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
)

type viewMsg listing.View

type categoriesMsg []domcategory.Category

type categoriesErrMsg struct{ err error }

type model struct {
	ctrl       *listing.Controller
	cart       *cartuc.Store
	categories []domcategory.Category

	search textinput.Model
	view   listing.View
	cursor int
	status string
}

func newModel(ctrl *listing.Controller) model {
	search := textinput.New()
	search.Placeholder = "search products"
	search.CharLimit = 64
	search.Width = 32
	search.SetValue(ctrl.SearchInput())

	return model{
		ctrl:   ctrl,
		cart:   cartuc.NewStore(),
		search: search,
		view:   ctrl.View(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = listing.View(msg)
		if m.cursor >= len(m.view.Result.Data) {
			m.cursor = 0
		}
		return m, nil

	case categoriesMsg:
		m.categories = msg
		return m, nil

	case categoriesErrMsg:
		m.status = "categories unavailable: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearchTerm(m.search.Value())
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.search.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.view.Result.Data)-1 {
			m.cursor++
		}

	case "left", "h":
		if page := m.ctrl.Page(); page > 1 {
			m.cursor = 0
			m.ctrl.SetPage(page - 1)
		}

	case "right", "l":
		if m.ctrl.Page() < m.view.Result.TotalPages() {
			m.cursor = 0
			m.ctrl.SetPage(m.ctrl.Page() + 1)
		}

	case "enter", "a":
		if m.cursor < len(m.view.Result.Data) {
			p := m.view.Result.Data[m.cursor]
			if !p.InStock {
				m.status = p.Name + " is out of stock"
				break
			}
			m.cart.AddItem(p)
			m.status = "added " + p.Name
		}

	case "x":
		m.search.SetValue("")
		m.ctrl.ClearFilters()

	case "r":
		if m.view.Phase == listing.PhaseError {
			m.ctrl.Retry()
		}

	case "C":
		m.cart.Clear()
		m.status = "cart cleared"

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i < len(m.categories) {
			m.ctrl.ToggleCategory(m.categories[i].Name)
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Marketplace"))
	b.WriteString("\n\n")
	b.WriteString("search: " + m.search.View() + "\n")
	b.WriteString(m.renderFilters() + "\n\n")
	b.WriteString(m.renderListing())
	b.WriteString("\n" + m.renderPagination() + "\n\n")
	b.WriteString(m.renderCart() + "\n")

	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status) + "\n")
	}
	b.WriteString(dimStyle.Render("/: search  1-9: category  ←/→: page  a: add  x: clear filters  C: clear cart  q: quit"))
	return b.String()
}

func (m model) renderFilters() string {
	filters := m.ctrl.Filters()
	var chips []string
	for i, c := range m.categories {
		label := fmt.Sprintf("%d:%s", i+1, c.Name)
		if filters.HasCategory(c.Name) {
			chips = append(chips, chipStyle.Render(label))
		} else {
			chips = append(chips, dimStyle.Render(label))
		}
	}
	return strings.Join(chips, " ")
}

func (m model) renderListing() string {
	switch m.view.Phase {
	case listing.PhaseLoading:
		return dimStyle.Render("loading...")
	case listing.PhaseError:
		return errStyle.Render("could not load products: "+m.view.Err.Error()) + "\n" +
			dimStyle.Render("press r to retry")
	case listing.PhaseEmpty:
		return dimStyle.Render("no products available")
	case listing.PhaseEmptyFiltered:
		return dimStyle.Render("no products match your filters") + "\n" +
			dimStyle.Render("press x to clear filters, r to retry")
	}

	var b strings.Builder
	for i, p := range m.view.Result.Data {
		line := fmt.Sprintf("%-40s %8.2f  %s", p.Name, p.Price, p.Category)
		if !p.InStock {
			line += dimStyle.Render("  (out of stock)")
		}
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) renderPagination() string {
	total := m.view.Result.TotalPages()
	if total <= 1 {
		return ""
	}
	current := m.ctrl.Page()
	var parts []string
	for _, page := range listing.PageWindow(current, total) {
		s := fmt.Sprintf("%d", page)
		if page == current {
			parts = append(parts, curPageStyle.Render(s))
		} else {
			parts = append(parts, pageStyle.Render(s))
		}
	}
	return strings.Join(parts, "") + dimStyle.Render(fmt.Sprintf("  (%d results)", m.view.Result.TotalCount))
}

func (m model) renderCart() string {
	state := m.cart.Snapshot()
	if state.ItemCount == 0 {
		return dimStyle.Render("cart: empty")
	}
	return fmt.Sprintf("cart: %d items, total %.2f", state.ItemCount, state.Total)
}

func main() {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	cl := apiclient.New(baseURL, &http.Client{Timeout: 10 * time.Second})

	var program *tea.Program
	ctrl := listing.NewController(cl, url.Values{}, listing.WithOnChange(func(v listing.View) {
		if program != nil {
			program.Send(viewMsg(v))
		}
	}))
	defer ctrl.Stop()

	program = tea.NewProgram(newModel(ctrl), tea.WithAltScreen())

	go func() {
		ctrl.Start()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		categories, err := cl.ListCategories(ctx)
		if err != nil {
			program.Send(categoriesErrMsg{err: err})
			return
		}
		program.Send(categoriesMsg(categories))
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
