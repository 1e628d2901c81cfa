// Package printer renders plans, run reports and component status as a table, JSON or YAML.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	yamlmarshaller "github.com/kagenti/kagenti-installer/pkg/io/marshaller/yaml"
	"github.com/kagenti/kagenti-installer/pkg/svc/orchestrator"
	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const none = "-"

// ComponentStatus is one row of the status command.
type ComponentStatus struct {
	Component        string `json:"component"`
	Namespace        string `json:"namespace"`
	Release          string `json:"release"`
	DesiredVersion   string `json:"desiredVersion,omitempty"`
	InstalledVersion string `json:"installedVersion,omitempty"`
	Installed        bool   `json:"installed"`
	Converged        bool   `json:"converged"`
	Error            string `json:"error,omitempty"`
}

// Printer writes documents to out in one format.
type Printer struct {
	out    io.Writer
	format OutputFormat
}

// New creates a printer. An empty format renders tables.
func New(out io.Writer, format OutputFormat) *Printer {
	if format == "" {
		format = OutputTable
	}

	return &Printer{out: out, format: format}
}

// Plan renders the actions of a plan.
func (p *Printer) Plan(plan *planner.Plan) error {
	if p.format != OutputTable {
		return p.document(plan)
	}

	rows := make([][]string, 0, plan.Len())
	for idx, action := range plan.Actions {
		rows = append(rows, []string{
			strconv.Itoa(idx + 1),
			action.Name(),
			action.Spec.Namespace,
			string(action.Operation),
			orNone(action.InstalledVersion),
			orNone(action.Spec.Version),
		})
	}

	return p.table([]string{"#", "Component", "Namespace", "Operation", "Installed", "Desired"}, rows)
}

// Report renders the results of a run.
func (p *Printer) Report(report *orchestrator.Report) error {
	if p.format != OutputTable {
		return p.document(report)
	}

	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, []string{
			result.Component,
			string(result.Operation),
			string(result.Status),
			strconv.Itoa(result.Attempts),
			result.Duration.Duration.Round(time.Millisecond).String(),
			orNone(firstLine(result.Error)),
		})
	}

	return p.table([]string{"Component", "Operation", "Status", "Attempts", "Duration", "Error"}, rows)
}

// Status renders installed and desired versions per component.
func (p *Printer) Status(statuses []ComponentStatus) error {
	if p.format != OutputTable {
		return p.document(statuses)
	}

	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		state := "absent"

		switch {
		case status.Error != "":
			state = "unknown"
		case status.Converged:
			state = "converged"
		case status.Installed:
			state = "drifted"
		}

		rows = append(rows, []string{
			status.Component,
			status.Namespace,
			status.Release,
			orNone(status.InstalledVersion),
			orNone(status.DesiredVersion),
			state,
		})
	}

	return p.table([]string{"Component", "Namespace", "Release", "Installed", "Desired", "State"}, rows)
}

func (p *Printer) document(value any) error {
	switch p.format {
	case OutputJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		_, err = fmt.Fprintln(p.out, string(data))
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		return nil
	case OutputYAML:
		text, err := yamlmarshaller.NewMarshaller[any]().Marshal(value)
		if err != nil {
			return err
		}

		_, err = io.WriteString(p.out, text)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		return nil
	case OutputTable:
		return fmt.Errorf("%w: %s has no document form", ErrInvalidOutputFormat, p.format)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, p.format)
	}
}

func (p *Printer) table(header []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)

	headerAny := make([]any, len(header))
	for idx, column := range header {
		headerAny[idx] = column
	}

	table.Header(headerAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for idx, value := range row {
			rowAny[idx] = value
		}

		err := table.Append(rowAny...)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func orNone(value string) string {
	if value == "" {
		return none
	}

	return value
}

func firstLine(value string) string {
	line, _, _ := strings.Cut(value, "\n")

	return line
}
