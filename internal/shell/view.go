package shell

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

const (
	maxTabLabel  = 24
	defaultWidth = 80
	helpLine     = "enter go · ctrl+t new · ctrl+w close · tab next · ctrl+r reload · esc stop · ctrl+c quit"
)

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(m.tabStrip(width))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.page(width))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(helpLine))
	return b.String()
}

func (m model) tabStrip(width int) string {
	if len(m.order) == 0 {
		return dimStyle.Render("no tabs")
	}

	labels := make([]string, 0, len(m.order))
	for i, id := range m.order {
		label := truncate(tabLabel(m.tabs[id]), maxTabLabel)
		if i == m.active {
			labels = append(labels, activeTabStyle.Render(label))
		} else {
			labels = append(labels, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
}

func tabLabel(snap types.TabSnapshot) string {
	label := snap.TitleOr(snap.URL)
	if label == "" {
		label = "New Tab"
	}
	if snap.Loading {
		label = "⟳ " + label
	}
	return label
}

func (m model) statusLine() string {
	if m.notice != "" {
		return statusError.Render(m.notice)
	}
	snap, ok := m.activeSnapshot()
	if !ok {
		return dimStyle.Render("ready")
	}
	return renderStatus(snap)
}

func renderStatus(snap types.TabSnapshot) string {
	if snap.Loading {
		return statusLoading.Render("Loading " + snap.URL + "…")
	}
	resp := snap.LastResponse
	if resp == nil {
		return dimStyle.Render("ready")
	}

	switch resp.Status {
	case types.StatusOK:
		return statusOK.Render(fmt.Sprintf("%d OK · %s · %d bytes · %s",
			resp.Code, mimeOr(resp.MimeType), resp.BodyBytes, resp.Duration.Round(time.Millisecond)))
	case types.StatusHTTPError:
		return statusWarn.Render(fmt.Sprintf("HTTP %d %s", resp.Code, httpStatusText(resp.Code)))
	case types.StatusNetworkError:
		return statusError.Render(fmt.Sprintf("Network error: %s", resp.Kind))
	case types.StatusCancelled:
		return dimStyle.Render("Stopped")
	default:
		return dimStyle.Render(string(resp.Status))
	}
}

func (m model) page(width int) string {
	snap, ok := m.activeSnapshot()
	if !ok || snap.LastResponse == nil {
		return dimStyle.Render("Type a url and press enter.")
	}

	var b strings.Builder
	if title := snap.TitleOr(""); title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
	}

	body := utils.Preview(snap.LastResponse.BodyText(), m.opts.PreviewChars)
	if body == "" {
		body = dimStyle.Render("(empty page)")
	}
	b.WriteString(bodyStyle.Width(width).Render(body))
	return b.String()
}

func mimeOr(mime string) string {
	if mime == "" {
		return "unknown type"
	}
	return mime
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func httpStatusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown Status"
}
