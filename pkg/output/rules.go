package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/composetune/pkg/compose"
	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/ui"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

var ruleColumns = []string{"#", "Rule", "Match", "Action", "Scoped"}

// RuleRows describes each rule in evaluation order
func RuleRows(rules []compose.Rule) [][]string {
	rows := make([][]string, 0, len(rules))
	for i, rule := range rules {
		match := rule.Token
		if match == "" && rule.Pattern != nil {
			match = rule.Pattern.String()
		}
		scoped := "no"
		if rule.Guard != nil {
			scoped = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), rule.Name, match, rule.Action, scoped})
	}
	return rows
}

// RenderRules lists the rule table in a resolved format
func (r *Renderer) RenderRules(rules []compose.Rule, format ui.Format) error {
	rows := RuleRows(rules)

	var text string
	var err error
	switch format {
	case ui.FormatTerminal:
		text, err = rulesTable(rows, r.noColor)
	case ui.FormatMarkdown:
		text, err = r.rulesMarkdown(rows)
	default:
		text = rulesText(rows)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(r.writer, text)
	return err
}

func rulesTable(rows [][]string, noColor bool) (string, error) {
	if noColor {
		pterm.DisableStyling()
		defer pterm.EnableStyling()
	}
	data := append(pterm.TableData{ruleColumns}, rows...)
	text, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render rule table")
	}
	return text + "\n", nil
}

func rulesText(rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(ruleColumns, "\t"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

// RulesMarkdown renders the rule table as a markdown document
func RulesMarkdown(rows [][]string) string {
	var b strings.Builder
	b.WriteString("# Rewrite rules\n\nRules are tried in order; the first match owns the line.\n\n")
	b.WriteString("| " + strings.Join(ruleColumns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(ruleColumns)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		cells[2] = "`" + cells[2] + "`"
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func (r *Renderer) rulesMarkdown(rows [][]string) (string, error) {
	doc := RulesMarkdown(rows)
	if r.noColor {
		return doc, nil
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to create markdown renderer")
	}
	rendered, err := renderer.Render(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render markdown")
	}
	return rendered, nil
}
