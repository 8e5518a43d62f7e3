package colmatch

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Layouts used to render spreadsheet date serials.
const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutTime     = "15:04:05"
)

// xlsxDateCells renders the date serials of one sheet as ISO text. A cell
// counts as a date when it holds a number and its style carries a date or
// time number format.
type xlsxDateCells struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	// layouts caches the layout per style index; "" marks a non-date style.
	layouts map[int]string
}

func newXLSXDateCells(f *excelize.File, sheet string) (*xlsxDateCells, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, err
	}

	d := &xlsxDateCells{
		file:    f,
		sheet:   sheet,
		layouts: make(map[int]string),
	}
	if props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d, nil
}

// render returns value unchanged unless the cell at the 0-based col and row
// is a styled date serial, in which case the formatted time is returned.
func (d *xlsxDateCells) render(col, row int, value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return value
	}
	cellType, err := d.file.GetCellType(d.sheet, cell)
	if err != nil || (cellType != excelize.CellTypeUnset && cellType != excelize.CellTypeNumber) {
		return value
	}
	styleID, err := d.file.GetCellStyle(d.sheet, cell)
	if err != nil {
		return value
	}

	layout := d.layout(styleID)
	if layout == "" {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

func (d *xlsxDateCells) layout(styleID int) string {
	if layout, ok := d.layouts[styleID]; ok {
		return layout
	}

	var layout string
	if style, err := d.file.GetStyle(styleID); err == nil && style != nil {
		layout = numFmtLayout(style)
	}
	d.layouts[styleID] = layout
	return layout
}

// numFmtLayout maps a cell number format to a time layout, or "" when the
// format does not display a date or time.
func numFmtLayout(style *excelize.Style) string {
	if style.CustomNumFmt != nil {
		return formatCodeLayout(*style.CustomNumFmt)
	}

	switch id := style.NumFmt; {
	case id >= 14 && id <= 17:
		return layoutDate
	case id >= 18 && id <= 21, id >= 45 && id <= 47:
		return layoutTime
	case id == 22:
		return layoutDateTime
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		// locale specific date formats
		return layoutDate
	default:
		return ""
	}
}

// formatCodeLayout inspects the first section of a custom format code for
// date and time tokens. Quoted text, escaped characters and bracketed
// modifiers other than elapsed time are ignored.
func formatCodeLayout(code string) string {
	code = strings.ToLower(code)
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var hasDate, hasTime bool
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			if end := strings.IndexByte(code[i+1:], '"'); end >= 0 {
				i += end + 1
			} else {
				i = len(code)
			}
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				i = len(code)
				continue
			}
			if inner := code[i+1 : i+end]; strings.Trim(inner, "hms") == "" && inner != "" {
				hasTime = true
			}
			i += end
		case 'a':
			switch {
			case strings.HasPrefix(code[i:], "am/pm"):
				i += len("am/pm") - 1
			case strings.HasPrefix(code[i:], "a/p"):
				i += len("a/p") - 1
			}
		case 'y', 'd':
			hasDate = true
		case 'h', 's':
			hasTime = true
		case 'm':
			// month unless it sits next to an hour or second token
			if !strings.ContainsAny(code, "hs") {
				hasDate = true
			}
		}
	}

	switch {
	case hasDate && hasTime:
		return layoutDateTime
	case hasDate:
		return layoutDate
	case hasTime:
		return layoutTime
	default:
		return ""
	}
}
