package ui

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trackmatch/internal/common"
	"trackmatch/internal/match"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func formatWindow(w match.TimeWindow) string {
	if w == match.NoWindow {
		return "-"
	}
	return fmt.Sprintf("%.5fs .. %.5fs", w.Start, w.End)
}

func renderReport(r match.Report) string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		name := res.Track.Name
		if name == "" {
			name = "(metadata missing)"
		}
		rows = append(rows, []string{
			strconv.Itoa(res.TrackId),
			name,
			fmt.Sprintf("[%d, %d)", res.BinLower, res.BinUpper),
			strconv.Itoa(res.Aligned),
			formatWindow(res.Reference),
			formatWindow(res.Query),
		})
	}
	return renderTable(
		[]string{"Track", "Name", "Offset window", "Aligned hashes", "Reference segment", "Query segment"},
		rows,
	)
}

func renderTracks(tracks []common.Track) string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			strconv.Itoa(t.Id),
			t.Name,
			t.FileSHA1,
			strconv.Itoa(t.TotalHashes),
		})
	}
	return renderTable([]string{"Id", "Name", "File SHA1", "Hashes"}, rows)
}
