package dto

import (
	"strings"

	"github.com/deptsched/timetable-api/internal/engine"
)

// ToEngineInput converts a validated FacultyPlanRequest into the engine's
// read-only inputs. Semester/Division normalization (trim, uppercase)
// happens here, at the boundary; the engine treats Semester as opaque and
// re-normalizes Division only when keying grids and free-day settings.
func ToEngineInput(req FacultyPlanRequest) ([]engine.Faculty, engine.FreeDaySettings) {
	freeDays := engine.FreeDaySettings{}
	faculties := make([]engine.Faculty, 0, len(req.Faculties))

	for _, f := range req.Faculties {
		obligations := make([]engine.Obligation, 0, len(f.Subjects))
		for _, s := range f.Subjects {
			sem := strings.TrimSpace(s.Semester)
			ob := engine.Obligation{
				Semester:   sem,
				Division:   normalizeDivision(s.Division),
				DivShift:   s.DivShift,
				Subject:    s.Subject,
				CourseCode: s.CourseCode,
			}
			if strings.EqualFold(s.Type, "Lab") {
				ob.Type = engine.Lab
				ob.WeeklyLabs = s.NumLabs
				ob.Batches = s.Batches
				ob.BatchesGrouped = s.BatchesGrouped
			} else {
				ob.Type = engine.Theory
				ob.WeeklyClasses = s.TheoryClasses
			}
			obligations = append(obligations, ob)

			if len(s.Holidays) > 0 {
				key := engine.DivisionKey{Semester: sem, Division: normalizeDivision(s.Division)}
				freeDays[key] = mergeDays(freeDays[key], s.Holidays)
			}
		}

		faculties = append(faculties, engine.Faculty{
			Short:       f.Name,
			FullName:    f.FullName,
			Designation: f.Designation,
			Shift:       f.Shift,
			WeeklyHours: f.WeeklyHours,
			Obligations: obligations,
		})
	}

	return faculties, freeDays
}

func normalizeDivision(div string) string {
	return strings.ToUpper(strings.TrimSpace(div))
}

// mergeDays appends new day references, deduplicating against what this
// cohort already has across its Subjects entries. Unrecognized day names
// are passed through unchanged; the engine's free-day marker skips them
// with a debug event (spec.md §4.3 step 3) rather than rejecting the plan.
func mergeDays(existing []engine.Day, raw []string) []engine.Day {
	seen := make(map[engine.Day]struct{}, len(existing))
	for _, d := range existing {
		seen[d] = struct{}{}
	}
	for _, r := range raw {
		d := engine.Day(strings.TrimSpace(r))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		existing = append(existing, d)
	}
	return existing
}

// FromUnplacedTasks projects engine.UnplacedTask values into the wire shape.
func FromUnplacedTasks(tasks []engine.UnplacedTask) []UnplacedTaskView {
	views := make([]UnplacedTaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, UnplacedTaskView{
			Type:     string(t.Type),
			Faculty:  t.FacultyShort,
			Semester: t.Semester,
			Division: t.Division,
			Subject:  t.Subject,
			Batch:    t.Batch,
			Reason:   t.Reason,
		})
	}
	return views
}
