package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/datalabels/pkg/label"
	"github.com/matzehuels/datalabels/pkg/label/sink"
	"github.com/matzehuels/datalabels/pkg/scene"
)

const defaultListHeight = 15

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand browses a labels document.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [labels.json]",
		Short: "Browse the records of a labels document",
		Long: `Browse the records written by 'layout' or 'render -f json'.

Keys: up/down or j/k move, v toggles hidden records, q quits.
With --plain the table is printed once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := scene.ReadLabelsFile(args[0])
			if err != nil {
				return err
			}
			m := newRecordsModel(args[0], out)
			if plain {
				m.height = len(out.Records)
				fmt.Println(m.View())
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table without the interactive browser")

	return cmd
}

// =============================================================================
// recordsModel - Interactive record browser
// =============================================================================

// recordsModel is the bubbletea model for browsing label records.
type recordsModel struct {
	name        string
	out         *sink.Output
	rows        []int // indices into out.Records after filtering
	visibleOnly bool
	cursor      int
	offset      int
	height      int
}

func newRecordsModel(name string, out *sink.Output) recordsModel {
	m := recordsModel{name: name, out: out, height: defaultListHeight}
	m.filter()
	return m
}

// filter rebuilds rows and keeps the cursor in range.
func (m *recordsModel) filter() {
	m.rows = m.rows[:0]
	for i, r := range m.out.Records {
		if m.visibleOnly && !r.IsVisible {
			continue
		}
		m.rows = append(m.rows, i)
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.offset = min(m.offset, m.cursor)
}

func (m recordsModel) Init() tea.Cmd {
	return nil
}

func (m recordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "v":
			m.visibleOnly = !m.visibleOnly
			m.rows = nil
			m.filter()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m recordsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%gx%g viewport", m.out.Viewport.Width, m.out.Viewport.Height)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  v toggle hidden  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  no records"))
		return b.String()
	}

	end := min(m.offset+m.height, len(m.rows))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.out.Records[m.rows[i]]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(r.SeriesIndex),
			strconv.Itoa(r.PointIndex),
			recordText(r),
			r.Position.String(),
			formatBox(r),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Series", "Point", "Text", "Position", "Box").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if !m.out.Records[m.rows[idx]].IsVisible {
				base = base.Foreground(colorDim)
			} else if col == 3 {
				base = base.Foreground(colorGreen)
			}
			if idx == m.cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] · %d visible of %d",
		m.cursor+1, len(m.rows), m.out.Visible, len(m.out.Records))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func recordText(r label.Record) string {
	s := r.Text
	if r.SecondaryText != "" {
		s += " / " + r.SecondaryText
	}
	return s
}

func formatBox(r label.Record) string {
	if !r.IsVisible {
		return "hidden"
	}
	b := r.BoundingBox
	return fmt.Sprintf("%.1f,%.1f %.1fx%.1f", b.Left, b.Top, b.Width, b.Height)
}
