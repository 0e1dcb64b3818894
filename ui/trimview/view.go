package trimview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"clip-trimmer/domain/video"
)

var (
	appStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#5865F2")).
			Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
)

const helpText = "←/→ scrub  shift+←/→ ±10s  [ ] start  { } end  s/e set  space play  t trim  c cancel  q quit"

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	total := m.controller.Total()
	r := m.controller.Range()
	pos := m.controller.Position()

	var b strings.Builder

	title := filepath.Base(m.opts.SourcePath)
	if m.opts.PreviewPath != m.opts.SourcePath {
		title += " (merged audio preview)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.row("Position", m.positionBar.ViewAs(fraction(pos, total)), video.FormatMillis(pos)))
	b.WriteString(m.row("Start", m.startBar.ViewAs(fraction(int64(r.Start)*1000, total)), video.TimestampFromSeconds(r.Start).String()))
	b.WriteString(m.row("End", m.endBar.ViewAs(fraction(int64(r.End)*1000, total)), video.TimestampFromSeconds(r.End).String()))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Clip %s  %s  of %s  target %g MB  audio tracks %d\n",
		valueStyle.Render(r.String()),
		valueStyle.Render(fmt.Sprintf("%ds", r.Duration())),
		video.TimestampFromSeconds(total),
		m.opts.TargetSizeMB,
		m.opts.Tracks.Len(),
	))

	if m.job != nil {
		b.WriteString("\n")
		b.WriteString(m.encodeBar.ViewAs(m.encode.Fraction))
		if m.encode.Speed != "" {
			b.WriteString(dimStyle.Render("  " + m.encode.Speed))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(helpText))

	return appStyle.Render(b.String())
}

func (m Model) row(label, bar, value string) string {
	return labelStyle.Render(label) + bar + "  " + valueStyle.Render(value) + "\n"
}

func fraction(ms int64, totalSeconds int) float64 {
	if totalSeconds <= 0 {
		return 0
	}
	f := float64(ms) / float64(int64(totalSeconds)*1000)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
