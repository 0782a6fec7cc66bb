// Package export renders filtered dashboard series as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/forecastpulse/internal/domain/models"
	"github.com/guttosm/forecastpulse/internal/series"
)

// ErrNoData is returned when there are no rows to export. Nothing is
// written in that case.
var ErrNoData = errors.New("no data to export")

// Kind selects which series of a view is exported.
type Kind string

const (
	KindHistory     Kind = "history"
	KindPredictions Kind = "predictions"
	KindAggregated  Kind = "aggregated"
)

// Format is the output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Delimiter separates CSV fields.
const Delimiter = ';'

// Table is a header row plus data rows, all as rendered text. Absent values
// are empty strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// HistoryTable renders date;close rows.
func HistoryTable(s models.Series) Table {
	return pointTable("close", s)
}

// PredictionsTable renders date;value rows.
func PredictionsTable(s models.Series) Table {
	return pointTable("value", s)
}

// AggregatedTable renders date;avg;min;max;count rows.
func AggregatedTable(a []models.AggregatedPrediction) Table {
	t := Table{Header: []string{"date", "avg", "min", "max", "count"}}
	for _, p := range a {
		t.Rows = append(t.Rows, []string{p.Date, p.Avg.String(), p.Min.String(), p.Max.String(), strconv.Itoa(p.Count)})
	}
	return t
}

func pointTable(valueColumn string, s models.Series) Table {
	t := Table{Header: []string{"date", valueColumn}}
	for _, p := range s {
		t.Rows = append(t.Rows, []string{p.Date, p.Value.String()})
	}
	return t
}

// TableFor picks the series of v named by kind.
func TableFor(kind Kind, v series.View) (Table, error) {
	switch kind {
	case KindHistory:
		return HistoryTable(v.History), nil
	case KindPredictions:
		return PredictionsTable(v.Predictions), nil
	case KindAggregated:
		return AggregatedTable(v.Aggregated), nil
	default:
		return Table{}, fmt.Errorf("unknown export kind %q", kind)
	}
}

// WriteCSV writes t as semicolon-delimited text with a header row.
func WriteCSV(w io.Writer, t Table) error {
	if t.Empty() {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX writes t as a single-sheet workbook. Cells that parse as numbers
// are stored as numbers; absent values are left blank.
func WriteXLSX(w io.Writer, sheet string, t Table) error {
	if t.Empty() {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(t.Header, false)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row, true)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func toCells(row []string, numeric bool) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		switch {
		case v == "":
			out[i] = nil
		case numeric && i > 0:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				out[i] = n
				continue
			}
			out[i] = v
		default:
			out[i] = v
		}
	}
	return out
}

// Presenter writes a view's series to W in the chosen format.
type Presenter struct {
	W      io.Writer
	Kind   Kind
	Format Format
}

// Present implements series.Presenter.
func (p Presenter) Present(v series.View) error {
	t, err := TableFor(p.Kind, v)
	if err != nil {
		return err
	}
	switch p.Format {
	case FormatXLSX:
		return WriteXLSX(p.W, string(p.Kind), t)
	case FormatCSV, "":
		return WriteCSV(p.W, t)
	default:
		return fmt.Errorf("unknown export format %q", p.Format)
	}
}

// FileName is the download name for a ticker's export, e.g. "SPY-history.csv".
func FileName(ticker string, kind Kind, format Format) string {
	if format == "" {
		format = FormatCSV
	}
	return fmt.Sprintf("%s-%s.%s", ticker, kind, format)
}

// ContentType is the MIME type for format.
func ContentType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
