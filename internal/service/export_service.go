package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/engine"
	"github.com/deptsched/timetable-api/pkg/export"
)

// FileRef is one rendered, downloadable artifact of a run.
type FileRef struct {
	Name string
	URL  string
}

// fileStorage abstracts persistence of rendered bytes, satisfied by
// *storage.LocalStorage.
type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

// urlSigner abstracts signed-download-token issuance, satisfied by
// *storage.SignedURLSigner.
type urlSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
}

// ExportService renders a completed run's grids into the workbook layout of
// spec.md §6, plus a secondary unplaced-task report, and persists them
// through storage. Grounded on the teacher's export_service.go wiring of
// exporter + storage + signer, adapted from student-record exports to
// timetable workbooks.
type ExportService struct {
	workbooks *export.WorkbookExporter
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	storage   fileStorage
	signer    urlSigner
	logger    *zap.Logger
}

// NewExportService constructs an export service.
func NewExportService(storage fileStorage, signer urlSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		workbooks: export.NewWorkbookExporter(),
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		storage:   storage,
		signer:    signer,
		logger:    logger,
	}
}

// RenderRun writes one workbook per faculty, one per division, and a CSV +
// PDF unplaced-task report, returning signed download references for each.
func (s *ExportService) RenderRun(ctx context.Context, runID string, result *engine.Result, templates *engine.ShiftTemplates, req dto.FacultyPlanRequest) ([]FileRef, error) {
	header := export.WorkbookHeader{
		University: req.University,
		Department: req.Department,
		Academic:   req.Academic,
	}

	designationByShort := make(map[string]dto.FacultyInput, len(req.Faculties))
	for _, f := range req.Faculties {
		designationByShort[f.Name] = f
	}

	refs := make([]FileRef, 0, len(result.FacultyGrids)+len(result.DivisionGrids)+2)

	facultyShorts := make([]string, 0, len(result.FacultyGrids))
	for short := range result.FacultyGrids {
		facultyShorts = append(facultyShorts, short)
	}
	sort.Strings(facultyShorts)

	divisionKeys := make([]engine.DivisionKey, 0, len(result.DivisionGrids))
	for key := range result.DivisionGrids {
		divisionKeys = append(divisionKeys, key)
	}
	sort.Slice(divisionKeys, func(i, j int) bool {
		if divisionKeys[i].Semester != divisionKeys[j].Semester {
			return divisionKeys[i].Semester < divisionKeys[j].Semester
		}
		return divisionKeys[i].Division < divisionKeys[j].Division
	})

	// Build the subject->color palette once over every faculty grid then
	// every division grid, before any workbook is written, so a subject
	// gets the same fill in every file of the run (spec.md §6; grounded on
	// the Python reference's build_subject_color_map(ftables, dtables)).
	palette := export.NewSubjectPalette()
	for _, short := range facultyShorts {
		fg := result.FacultyGrids[short]
		tpl, err := templates.Template(fg.Grid.Shift)
		if err != nil {
			return nil, fmt.Errorf("collect palette for faculty workbook %s: %w", short, err)
		}
		palette.Collect(fg.Grid, tpl)
	}
	for _, key := range divisionKeys {
		dg := result.DivisionGrids[key]
		tpl, err := templates.Template(dg.Grid.Shift)
		if err != nil {
			return nil, fmt.Errorf("collect palette for division workbook %s/%s: %w", key.Semester, key.Division, err)
		}
		palette.Collect(dg.Grid, tpl)
	}

	for _, short := range facultyShorts {
		fg := result.FacultyGrids[short]
		tpl, err := templates.Template(fg.Grid.Shift)
		if err != nil {
			return nil, fmt.Errorf("render faculty workbook %s: %w", short, err)
		}
		summary := facultySummary(designationByShort[short])
		data, err := s.workbooks.FacultyWorkbook(short, fg.Grid, tpl, header, summary, palette)
		if err != nil {
			return nil, fmt.Errorf("render faculty workbook %s: %w", short, err)
		}
		name := fmt.Sprintf("Faculty_%s.xlsx", short)
		ref, err := s.saveAndSign(runID, name, data)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	for _, key := range divisionKeys {
		dg := result.DivisionGrids[key]
		tpl, err := templates.Template(dg.Grid.Shift)
		if err != nil {
			return nil, fmt.Errorf("render division workbook %s/%s: %w", key.Semester, key.Division, err)
		}
		summary := divisionSummary(req, key)
		data, err := s.workbooks.DivisionWorkbook(key, dg.Grid, tpl, header, summary, palette)
		if err != nil {
			return nil, fmt.Errorf("render division workbook %s/%s: %w", key.Semester, key.Division, err)
		}
		name := fmt.Sprintf("Sem%s_Div%s.xlsx", key.Semester, key.Division)
		ref, err := s.saveAndSign(runID, name, data)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if len(result.UnplacedTasks) > 0 {
		csvRef, err := s.renderUnplacedCSV(runID, result)
		if err != nil {
			return nil, err
		}
		refs = append(refs, csvRef)

		pdfRef, err := s.renderUnplacedPDF(runID, result)
		if err != nil {
			return nil, err
		}
		refs = append(refs, pdfRef)
	}

	return refs, nil
}

func (s *ExportService) renderUnplacedCSV(runID string, result *engine.Result) (FileRef, error) {
	data, err := s.csv.Render(unplacedDataset(result))
	if err != nil {
		return FileRef{}, fmt.Errorf("render unplaced csv: %w", err)
	}
	return s.saveAndSign(runID, "UnplacedTasks.csv", data)
}

func (s *ExportService) renderUnplacedPDF(runID string, result *engine.Result) (FileRef, error) {
	data, err := s.pdf.Render(unplacedDataset(result), "Unplaced Tasks")
	if err != nil {
		return FileRef{}, fmt.Errorf("render unplaced pdf: %w", err)
	}
	return s.saveAndSign(runID, "UnplacedTasks.pdf", data)
}

func (s *ExportService) saveAndSign(runID, name string, data []byte) (FileRef, error) {
	relPath := fmt.Sprintf("%s/%s", runID, name)
	if _, err := s.storage.Save(relPath, data); err != nil {
		return FileRef{}, fmt.Errorf("save %s: %w", name, err)
	}
	token, _, err := s.signer.Generate(runID, relPath)
	if err != nil {
		return FileRef{}, fmt.Errorf("sign %s: %w", name, err)
	}
	return FileRef{Name: name, URL: "/download/" + token}, nil
}

func unplacedDataset(result *engine.Result) export.Dataset {
	rows := make([]map[string]string, 0, len(result.UnplacedTasks))
	for _, t := range result.UnplacedTasks {
		rows = append(rows, map[string]string{
			"Type":     string(t.Type),
			"Faculty":  t.FacultyShort,
			"Semester": t.Semester,
			"Division": t.Division,
			"Subject":  t.Subject,
			"Batch":    t.Batch,
			"Reason":   t.Reason,
		})
	}
	return export.Dataset{
		Headers: []string{"Type", "Faculty", "Semester", "Division", "Subject", "Batch", "Reason"},
		Rows:    rows,
	}
}

// facultySummary builds the bottom summary table of a faculty workbook,
// aggregating by (Semester, Subject) the way the Python reference's
// subj_index dict does rather than emitting one row per Subjects entry, and
// counting one lab block per batch for non-grouped labs (blocks = Num_Labs *
// max(1, len(Batches)); grouped labs still schedule a single block per week).
func facultySummary(f dto.FacultyInput) []export.FacultySummaryRow {
	type key struct{ Semester, Subject string }
	order := make([]key, 0, len(f.Subjects))
	rows := make(map[key]*export.FacultySummaryRow, len(f.Subjects))

	for _, s := range f.Subjects {
		k := key{Semester: s.Semester, Subject: s.Subject}
		row, ok := rows[k]
		if !ok {
			row = &export.FacultySummaryRow{
				Short:    f.Name,
				FullName: f.FullName,
				Semester: s.Semester,
				Division: s.Division,
				Subject:  s.Subject,
			}
			rows[k] = row
			order = append(order, k)
		}
		if s.Type == "Lab" {
			blocks := 1
			if !s.BatchesGrouped && len(s.Batches) > 1 {
				blocks = len(s.Batches)
			}
			row.LabBlocks += s.NumLabs * blocks
		} else {
			row.TheoryCount += s.TheoryClasses
		}
	}

	out := make([]export.FacultySummaryRow, 0, len(order))
	for _, k := range order {
		out = append(out, *rows[k])
	}
	return out
}

func divisionSummary(req dto.FacultyPlanRequest, key engine.DivisionKey) []export.DivisionSummaryRow {
	rows := make([]export.DivisionSummaryRow, 0)
	for _, f := range req.Faculties {
		for _, s := range f.Subjects {
			if s.Semester != key.Semester {
				continue
			}
			if normalizeDivisionLabel(s.Division) != key.Division {
				continue
			}
			rows = append(rows, export.DivisionSummaryRow{
				Subject:     s.Subject,
				IsLab:       s.Type == "Lab",
				FacultyFull: f.FullName,
				CourseCode:  s.CourseCode,
			})
		}
	}
	return rows
}

func normalizeDivisionLabel(div string) string {
	return strings.ToUpper(strings.TrimSpace(div))
}
