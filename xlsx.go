package gridsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultXLSXSheet is the worksheet name used when none is given.
const DefaultXLSXSheet = "Sheet1"

const (
	pixelsPerWidthUnit = 7.0   // one Excel column-width character at the default font
	pointsPerPixel     = 0.75  // row heights are stored in points
	maxXLSXColumnWidth = 255.0 // Excel limit, in characters
	maxXLSXRowHeight   = 409.0 // Excel limit, in points
)

// WriteXLSX exports the sheet as a single-worksheet workbook: raw values
// (formulas as Excel formulas), formatting, merges, column widths and row heights.
func (s *Sheet) WriteXLSX(w io.Writer, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = DefaultXLSXSheet
	}
	if sheetName != DefaultXLSXSheet {
		if err := f.SetSheetName(DefaultXLSXSheet, sheetName); err != nil {
			return fmt.Errorf("rename sheet %q: %w", sheetName, err)
		}
	}

	styles := make(map[Format]int)
	for r, row := range s.grid.cells {
		for c, cell := range row {
			name := CellRef{Row: r, Col: c}.String()
			if err := writeXLSXValue(f, sheetName, name, cell.RawValue); err != nil {
				return fmt.Errorf("write cell %s: %w", name, err)
			}
			if cell.Formatting == DefaultFormat() {
				continue
			}
			id, ok := styles[cell.Formatting]
			if !ok {
				var err error
				id, err = f.NewStyle(toXLSXStyle(cell.Formatting))
				if err != nil {
					return fmt.Errorf("style for cell %s: %w", name, err)
				}
				styles[cell.Formatting] = id
			}
			if err := f.SetCellStyle(sheetName, name, name, id); err != nil {
				return fmt.Errorf("style cell %s: %w", name, err)
			}
		}
	}

	for c, width := range s.colWidths {
		col := IndexToLabel(c)
		if err := f.SetColWidth(sheetName, col, col, min(width/pixelsPerWidthUnit, maxXLSXColumnWidth)); err != nil {
			return fmt.Errorf("width of column %s: %w", col, err)
		}
	}
	for r, height := range s.rowHeights {
		if err := f.SetRowHeight(sheetName, r+1, min(height*pointsPerPixel, maxXLSXRowHeight)); err != nil {
			return fmt.Errorf("height of row %d: %w", r+1, err)
		}
	}
	for _, m := range s.merges.Regions() {
		bottomRight := CellRef{Row: m.EndRow, Col: m.EndCol}.String()
		if err := f.MergeCell(sheetName, m.TopLeft().String(), bottomRight); err != nil {
			return fmt.Errorf("merge %s: %w", m, err)
		}
	}

	fullCalc := true
	if err := f.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: &fullCalc}); err != nil {
		return fmt.Errorf("set calc props: %w", err)
	}
	return f.Write(w)
}

func writeXLSXValue(f *excelize.File, sheet, name, raw string) error {
	switch {
	case raw == "":
		return nil
	case IsFormula(raw):
		return f.SetCellFormula(sheet, name, strings.TrimPrefix(raw, FormulaMarker))
	}
	// Only canonical numbers become numeric cells so the raw text survives a round trip.
	if n, err := strconv.ParseFloat(raw, 64); err == nil && strconv.FormatFloat(n, 'f', -1, 64) == raw {
		return f.SetCellFloat(sheet, name, n, -1, 64)
	}
	return f.SetCellStr(sheet, name, raw)
}

func toXLSXStyle(fm Format) *excelize.Style {
	st := &excelize.Style{
		Font: &excelize.Font{
			Bold:   fm.Bold,
			Italic: fm.Italic,
			Color:  toXLSXColor(fm.TextColor),
		},
		Alignment: &excelize.Alignment{
			Horizontal: string(fm.Align),
			WrapText:   fm.Wrap,
		},
	}
	if bg := toXLSXColor(fm.BackgroundColor); bg != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bg}}
	}
	return st
}

// toXLSXColor turns "#RRGGBB" into "RRGGBB"; anything that is not six hex
// digits is dropped.
func toXLSXColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) != 6 {
		return ""
	}
	if _, err := strconv.ParseUint(c, 16, 32); err != nil {
		return ""
	}
	return c
}

// fromXLSXColor turns "RRGGBB" or "AARRGGBB" into "#RRGGBB".
func fromXLSXColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	if toXLSXColor(c) == "" {
		return ""
	}
	return "#" + c
}

// ReadXLSX imports one worksheet (the first when sheetName is empty) into a
// Sheet. The grid is at least the default size and grows to fit the data and
// merges. Computed values are re-derived with the engine's own evaluator.
func ReadXLSX(r io.Reader, sheetName string, opts ...Option) (*Sheet, error) {
	o := buildOptions(opts)
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("open workbook: no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheetName, err)
	}
	mergeCells, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read merges from sheet %q: %w", sheetName, err)
	}

	var merges []Rect
	nRows, nCols := max(len(rows), o.defaultRows), o.defaultCols
	for _, row := range rows {
		nCols = max(nCols, len(row))
	}
	for _, mc := range mergeCells {
		m, err := ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merge %s:%s: %w", mc.GetStartAxis(), mc.GetEndAxis(), err)
		}
		merges = append(merges, m)
		nRows, nCols = max(nRows, m.EndRow+1), max(nCols, m.EndCol+1)
	}

	cells := NewGrid(nRows, nCols).cells
	for r := range cells {
		for c := range cells[r] {
			name := CellRef{Row: r, Col: c}.String()
			cell := &cells[r][c]
			if r < len(rows) && c < len(rows[r]) {
				cell.RawValue = rows[r][c]
			}
			if formula, err := f.GetCellFormula(sheetName, name); err == nil && formula != "" {
				cell.RawValue = FormulaMarker + formula
			}
			if id, err := f.GetCellStyle(sheetName, name); err == nil && id != 0 {
				st, err := f.GetStyle(id)
				if err != nil {
					return nil, fmt.Errorf("style of cell %s: %w", name, err)
				}
				cell.Formatting = fromXLSXStyle(st)
			}
		}
	}

	colWidths := make(Sizes, nCols)
	for c := range colWidths {
		w, err := f.GetColWidth(sheetName, IndexToLabel(c))
		if err != nil {
			return nil, fmt.Errorf("width of column %s: %w", IndexToLabel(c), err)
		}
		colWidths[c] = w * pixelsPerWidthUnit
	}
	rowHeights := make(Sizes, nRows)
	for r := range rowHeights {
		h, err := f.GetRowHeight(sheetName, r+1)
		if err != nil {
			return nil, fmt.Errorf("height of row %d: %w", r+1, err)
		}
		rowHeights[r] = h / pointsPerPixel
	}

	g, err := GridFromCells(cells)
	if err != nil {
		return nil, err
	}
	sheet, err := newSheetFrom(g, colWidths, rowHeights, nil, o)
	if err != nil {
		return nil, err
	}
	for _, m := range merges {
		if sheet, err = sheet.Merge(m); err != nil {
			o.logger.Warn("dropping merge region from workbook", "component", "xlsx", "range", m.String(), "error", err)
		}
	}
	return sheet, nil
}

func fromXLSXStyle(st *excelize.Style) Format {
	fm := DefaultFormat()
	if st.Font != nil {
		fm.Bold = st.Font.Bold
		fm.Italic = st.Font.Italic
		fm.TextColor = fromXLSXColor(st.Font.Color)
	}
	if st.Alignment != nil {
		if a := Align(st.Alignment.Horizontal); a.Valid() {
			fm.Align = a
		}
		fm.Wrap = st.Alignment.WrapText
	}
	if st.Fill.Type == "pattern" && len(st.Fill.Color) > 0 {
		fm.BackgroundColor = fromXLSXColor(st.Fill.Color[0])
	}
	return fm
}
