package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"einvois/internal/sheet"
)

func TestSerialToDate(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   string
	}{
		{"first_day", 1, "1900-01-01"},
		{"before_leap_bug", 59, "1900-02-28"},
		{"after_leap_bug", 60, "1900-03-01"},
		{"first_real_march_day", 61, "1900-03-01"},
		{"modern_date", 45292, "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sheet.SerialToDate(tt.serial))
		})
	}
}

func TestCellToDate(t *testing.T) {
	assert.Equal(t, "2024-01-01", sheet.CellToDate(45292.0))
	assert.Equal(t, "2024-01-01", sheet.CellToDate(45292))
	assert.Equal(t, "2024-06-15", sheet.CellToDate("2024-06-15"))
	assert.Equal(t, "", sheet.CellToDate(0.0))
	assert.Equal(t, "", sheet.CellToDate(-1.0))
	assert.Equal(t, "", sheet.CellToDate(nil))
	assert.Equal(t, "", sheet.CellToDate(true))
}
