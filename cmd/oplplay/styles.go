// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))
	goodStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1))
)

// field is one labelled line of a report.
type field struct {
	label string
	value any
}

// report renders a title and aligned fields.
func report(title string, fields ...field) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')
	for _, f := range fields {
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(valueStyle.Render(fmt.Sprint(f.value)))
		b.WriteByte('\n')
	}
	return b.String()
}
