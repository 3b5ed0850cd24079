package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type exportRow struct {
	Date   string `excel:"Date"`
	Start  string `excel:"Start"`
	Hidden string `excel:"-"`
	Blank  *int   `excel:"Blank"`
}

func TestExportToExcel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	blank := 30
	rows := []exportRow{
		{Date: "2026-10-01", Start: "09:00", Hidden: "x", Blank: &blank},
		{Date: "2026-10-02"},
	}
	require.NoError(t, ExportToExcel(f, "Attendance", rows))

	got, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Equal(t, []string{"Date", "Start", "Blank"}, got[0])
	require.Equal(t, []string{"2026-10-01", "09:00", "30"}, got[1])
	require.Equal(t, "2026-10-02", got[2][0])
}

func TestExportToExcelRejectsNonSlice(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.Error(t, ExportToExcel(f, "", exportRow{}))
	require.Error(t, ExportToExcel(f, "", []int{1}))
}
