package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmmsmind/backend/internal/report"
)

var table = report.Table{
	Title:   "Maintenance Costs",
	Headers: []string{"Period", "Category", "Total Cost"},
	Rows: [][]string{
		{"2024-02", "Pumps", "850.00"},
		{"2024-01", "HVAC, Rooftop", "120.50"},
	},
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "XLSX", want: FormatXLSX},
		{in: "excel", want: FormatXLSX},
		{in: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "fleet-2024-02-20.xlsx", FormatXLSX.Filename("fleet", "2024-02-20"))
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, table.Headers, records[0])
	assert.Equal(t, "HVAC, Rooftop", records[2][1])
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	data, err := Bytes(FormatXLSX, table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Maintenance Costs"}, f.GetSheetList())
	rows, err := f.GetRows("Maintenance Costs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Headers, rows[0])
	assert.Equal(t, table.Rows[0], rows[1])
}
