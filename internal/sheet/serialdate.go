package sheet

import (
	"time"
)

// excelEpoch is the day before 1900-01-01; serial 1 is 1900-01-01.
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// SerialToDate converts an Excel 1900-epoch serial number to a YYYY-MM-DD
// string. Excel treats 1900 as a leap year (it was not), so serial 60 is a
// fictitious Feb 29 that must be skipped forward and every later serial
// carries one extra day to subtract: serial 59 is 1900-02-28, serials 60 and
// 61 both map to 1900-03-01.
func SerialToDate(serial float64) string {
	days := int(serial)
	if days > 60 {
		days--
	}
	return excelEpoch.AddDate(0, 0, days).Format("2006-01-02")
}

// CellToDate renders a date cell. Numeric cells are treated as Excel serials;
// string cells already carrying a date pass through trimmed; anything else
// yields "".
func CellToDate(v interface{}) string {
	switch t := v.(type) {
	case float64:
		if t <= 0 {
			return ""
		}
		return SerialToDate(t)
	case int:
		if t <= 0 {
			return ""
		}
		return SerialToDate(float64(t))
	case string:
		return AsString(t)
	default:
		return ""
	}
}
