package ui

import (
	"fmt"
	"strings"
)

const headerTitle = "TRAVEL PLANNER"

// View рендерит заголовок, лог и поле ввода.
func (m MainModel) View() string {
	if !m.ready {
		return "Initializing UI..."
	}

	status := " " + headerTitle + " "
	if m.busy {
		status = fmt.Sprintf(" %s %s planning... ", headerTitle, m.spinner.View())
	}
	header := headerStyle.Width(m.viewport.Width).Render(status)
	border := borderStyle.Render(strings.Repeat("─", m.viewport.Width))

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.viewport.View(),
		border,
		m.input.View(),
	)
}
