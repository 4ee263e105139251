package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/deptsched/timetable-api/internal/engine"
)

// WorkbookHeader is the header band metadata shared by every rendered file
// (spec.md §6: university, department, academic, descriptor line).
type WorkbookHeader struct {
	University string
	Department string
	Academic   string
	Descriptor string
}

// FacultySummaryRow is one row of a faculty workbook's bottom summary table.
type FacultySummaryRow struct {
	Short       string
	FullName    string
	Semester    string
	Division    string
	Subject     string
	TheoryCount int
	LabBlocks   int
}

// DivisionSummaryRow is one row of a division workbook's bottom summary
// table. DivisionWorkbook deduplicates rows by (Subject, IsLab, FacultyFull,
// CourseCode).
type DivisionSummaryRow struct {
	Subject        string
	IsLab          bool
	FacultyFull    string
	CourseCode     string
}

// palette is the deterministic, first-appearance-order fill palette applied
// to subject cells (spec.md §6). Colors are plain, readable fills — this is
// a scheduling tool, not a design system, so the palette stays small and
// cycles once exhausted.
var palette = []string{
	"FDE9D9", "DCE6F1", "E2EFDA", "FFF2CC", "EAD1DC",
	"D9EAD3", "CFE2F3", "F4CCCC", "D9D2E9", "FCE5CD",
}

// SubjectPalette is a shared, first-appearance-order subject->color
// assignment, built once over every faculty and division grid of a run
// before any workbook is written, so the same subject gets the same fill in
// every file (spec.md §6, SPEC_FULL.md §2.3 — grounded on the Python
// reference's build_subject_color_map(ftables, dtables), called once over
// every table before any file is written).
type SubjectPalette struct {
	colors map[string]string
	next   int
}

// NewSubjectPalette constructs an empty, shared palette assignment.
func NewSubjectPalette() *SubjectPalette {
	return &SubjectPalette{colors: map[string]string{}}
}

// Assign returns the subject's color, assigning the next palette entry on
// first appearance.
func (p *SubjectPalette) Assign(subject string) string {
	if c, ok := p.colors[subject]; ok {
		return c
	}
	c := palette[p.next%len(palette)]
	p.colors[subject] = c
	p.next++
	return c
}

// Collect walks every teaching cell of a grid in Day/slot order, assigning
// colors to any subject not already seen. Call this over every grid of a run
// before rendering the first workbook.
func (p *SubjectPalette) Collect(grid *engine.Grid, tpl *engine.ShiftTemplate) {
	for _, day := range engine.Days {
		for _, spec := range tpl.Slots {
			if spec.Inert {
				continue
			}
			text := string(grid.Cells[day][spec.Label])
			if text == "" || text == mergeSentinel {
				continue
			}
			p.Assign(subjectFromCell(text))
		}
	}
}

// WorkbookExporter renders engine grids into the bit-compatible workbook
// layout of spec.md §6 using excelize (grounded per SPEC_FULL.md §2.3 on the
// xlsx-producing pattern of seeded, deterministic weekly-shift renderers).
type WorkbookExporter struct{}

// NewWorkbookExporter constructs a workbook exporter.
func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// FacultyWorkbook renders `Faculty_{short}.xlsx`: header band, 6x(1+slots)
// body grid with lab cells merged, bottom faculty summary table. palette is
// the run-shared SubjectPalette so the same subject keeps its color across
// every rendered file.
func (e *WorkbookExporter) FacultyWorkbook(short string, grid *engine.Grid, tpl *engine.ShiftTemplate, header WorkbookHeader, summary []FacultySummaryRow, palette *SubjectPalette) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	row := e.writeHeaderBand(f, sheet, header, fmt.Sprintf("Faculty: %s", short))
	e.writeGrid(f, sheet, row, grid, tpl, palette)
	row = e.gridEndRow(row, tpl)

	row += 2
	f.SetCellValue(sheet, cellRef(0, row), "Short")
	f.SetCellValue(sheet, cellRef(1, row), "Full Name")
	f.SetCellValue(sheet, cellRef(2, row), "Semester")
	f.SetCellValue(sheet, cellRef(3, row), "Subject")
	f.SetCellValue(sheet, cellRef(4, row), "Theory/wk")
	f.SetCellValue(sheet, cellRef(5, row), "Lab blocks/wk")
	f.SetCellValue(sheet, cellRef(6, row), "Total/wk")
	row++
	for _, s := range summary {
		f.SetCellValue(sheet, cellRef(0, row), s.Short)
		f.SetCellValue(sheet, cellRef(1, row), s.FullName)
		f.SetCellValue(sheet, cellRef(2, row), fmt.Sprintf("Sem%s Div%s", s.Semester, s.Division))
		f.SetCellValue(sheet, cellRef(3, row), s.Subject)
		f.SetCellValue(sheet, cellRef(4, row), s.TheoryCount)
		f.SetCellValue(sheet, cellRef(5, row), s.LabBlocks)
		f.SetCellValue(sheet, cellRef(6, row), s.TheoryCount+s.LabBlocks*2)
		row++
	}

	return bufferOf(f)
}

// DivisionWorkbook renders `Sem{s}_Div{d}.xlsx`. palette is the run-shared
// SubjectPalette so the same subject keeps its color across every rendered
// file.
func (e *WorkbookExporter) DivisionWorkbook(key engine.DivisionKey, grid *engine.Grid, tpl *engine.ShiftTemplate, header WorkbookHeader, summary []DivisionSummaryRow, palette *SubjectPalette) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	row := e.writeHeaderBand(f, sheet, header, fmt.Sprintf("Sem%s Div%s", key.Semester, key.Division))
	e.writeGrid(f, sheet, row, grid, tpl, palette)
	row = e.gridEndRow(row, tpl)

	row += 2
	f.SetCellValue(sheet, cellRef(0, row), "Subject")
	f.SetCellValue(sheet, cellRef(1, row), "Faculty")
	f.SetCellValue(sheet, cellRef(2, row), "Course Code")
	row++
	seen := make(map[string]struct{}, len(summary))
	for _, s := range summary {
		label := s.Subject
		if s.IsLab {
			label += " [Lab]"
		}
		dedupKey := label + "|" + s.FacultyFull + "|" + s.CourseCode
		if _, ok := seen[dedupKey]; ok {
			continue
		}
		seen[dedupKey] = struct{}{}
		f.SetCellValue(sheet, cellRef(0, row), label)
		f.SetCellValue(sheet, cellRef(1, row), s.FacultyFull)
		f.SetCellValue(sheet, cellRef(2, row), s.CourseCode)
		row++
	}

	return bufferOf(f)
}

// writeHeaderBand writes the university/department/academic/descriptor band
// and returns the row the slot-label header starts on.
func (e *WorkbookExporter) writeHeaderBand(f *excelize.File, sheet string, header WorkbookHeader, descriptor string) int {
	row := 1
	f.SetCellValue(sheet, cellRef(0, row), header.University)
	row++
	f.SetCellValue(sheet, cellRef(0, row), header.Department)
	row++
	if header.Academic != "" {
		f.SetCellValue(sheet, cellRef(0, row), header.Academic)
		row++
	}
	f.SetCellValue(sheet, cellRef(0, row), descriptor)
	row++
	return row
}

// writeGrid writes the 6x(1+|slots|) body: day labels in column 0, the
// shift's slot labels across the header row, then one row per day. Lab
// placements (cell text containing " Lab ") are merged with their MERGE
// right-neighbor. palette supplies the subject->color assignment, shared
// across every file of the run rather than rebuilt per file.
func (e *WorkbookExporter) writeGrid(f *excelize.File, sheet string, headerRow int, grid *engine.Grid, tpl *engine.ShiftTemplate, palette *SubjectPalette) {
	for col, spec := range tpl.Slots {
		f.SetCellValue(sheet, cellRef(col+1, headerRow), string(spec.Label))
	}

	row := headerRow + 1
	for _, day := range engine.Days {
		f.SetCellValue(sheet, cellRef(0, row), string(day))
		for col, spec := range tpl.Slots {
			text := string(grid.Cells[day][spec.Label])
			if text == mergeSentinel {
				continue // filled by the merge below, skip double-write
			}
			cellAddr := cellRef(col+1, row)
			f.SetCellValue(sheet, cellAddr, text)
			if spec.Inert || text == "" {
				continue
			}
			subject := subjectFromCell(text)
			color := palette.Assign(subject)
			style, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}})
			if err == nil {
				f.SetCellStyle(sheet, cellAddr, cellAddr, style)
			}
			if strings.Contains(text, " Lab ") && col+1 < len(tpl.Slots) {
				nextSpec := tpl.Slots[col+1]
				if string(grid.Cells[day][nextSpec.Label]) == mergeSentinel {
					right := cellRef(col+2, row)
					_ = f.MergeCell(sheet, cellAddr, right)
					if err == nil {
						f.SetCellStyle(sheet, cellAddr, right, style)
					}
				}
			}
		}
		row++
	}
}

func (e *WorkbookExporter) gridEndRow(headerRow int, tpl *engine.ShiftTemplate) int {
	return headerRow + len(engine.Days)
}

const mergeSentinel = "MERGE"

// subjectFromCell strips the trailing "(...)"/"[...]" qualifiers off a
// placement string to recover the bare subject name used for palette
// grouping, e.g. "Physics Lab (PQR) [B1]" -> "Physics Lab".
func subjectFromCell(text string) string {
	if idx := strings.IndexAny(text, "([" ); idx > 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

func cellRef(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func bufferOf(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
