package pipeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var summaryHeaders = []string{"SEQ", "FILE", "SIZE", "DURATION", "STATUS"}

// SummaryRows returns one table row per job.
func SummaryRows(report Report) [][]string {
	rows := make([][]string, 0, len(report.Jobs))
	for _, job := range report.Jobs {
		rows = append(rows, []string{
			strconv.Itoa(job.Seq),
			job.Source,
			job.Size,
			job.Elapsed,
			jobStatusLabel(job),
		})
	}
	return rows
}

func jobStatusLabel(job *Job) string {
	failure, ok := job.FirstFailure()
	if !ok {
		return string(StatusOK)
	}
	return fmt.Sprintf("%s (%s)", StatusFailed, failure.Stage)
}

// RenderSummary writes the run table followed by the failed translation line
// count. color enables ANSI status colours.
func RenderSummary(w io.Writer, report Report, color bool) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(summaryHeaders))
	for i, h := range summaryHeaders {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range SummaryRows(report) {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		if color {
			r[len(r)-1] = colorStatus(row[len(row)-1])
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Failed translation lines: %d\n", report.FailedLines())
	return err
}

func colorStatus(label string) string {
	if strings.HasPrefix(label, string(StatusFailed)) {
		return text.FgRed.Sprint(label)
	}
	return text.FgGreen.Sprint(label)
}
