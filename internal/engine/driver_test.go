package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTemplates(t *testing.T) *ShiftTemplates {
	t.Helper()
	reg, err := DefaultShiftTemplates()
	require.NoError(t, err)
	return reg
}

func countNonInert(g *Grid, tpl *ShiftTemplate) int {
	n := 0
	for _, d := range Days {
		for _, spec := range tpl.Slots {
			if spec.Inert {
				continue
			}
			if g.Cells[d][spec.Label] != "" {
				n++
			}
		}
	}
	return n
}

// S1 — Single theory.
func TestScenarioS1SingleTheory(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{
		{
			Short: "MSK", Shift: ShiftMorning,
			Obligations: []Obligation{
				{Type: Theory, Semester: "3", Division: "A", DivShift: ShiftMorning, Subject: "Maths", WeeklyClasses: 1},
			},
		},
	}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.UnplacedTasks)

	fTpl, _ := templates.Template(ShiftMorning)
	fg := result.FacultyGrids["MSK"]
	dg := result.DivisionGrids[DivisionKey{Semester: "3", Division: "A"}]

	assert.Equal(t, 1, countNonInert(fg.Grid, fTpl))
	assert.Equal(t, 1, countNonInert(dg.Grid, fTpl))

	var fDay, dDay Day
	var fSlot, dSlot SlotLabel
	for _, d := range Days {
		for _, spec := range fTpl.Slots {
			if spec.Inert {
				continue
			}
			if fg.Grid.Cells[d][spec.Label] != "" {
				fDay, fSlot = d, spec.Label
			}
			if dg.Grid.Cells[d][spec.Label] != "" {
				dDay, dSlot = d, spec.Label
			}
		}
	}

	assert.Equal(t, fDay, dDay)
	assert.True(t, templates.slotsEquivalent(ShiftMorning, fSlot, ShiftMorning, dSlot))
	assert.Equal(t, "Maths (Sem3 DivA)", string(fg.Grid.Cells[fDay][fSlot]))
	assert.Equal(t, "Maths (MSK)", string(dg.Grid.Cells[dDay][dSlot]))
}

// S2 — Lab block with two ungrouped batches.
func TestScenarioS2LabBlock(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{
		{
			Short: "PQR", Shift: ShiftMorning,
			Obligations: []Obligation{
				{
					Type: Lab, Semester: "5", Division: "B", DivShift: ShiftMorning,
					Subject: "Physics Lab", WeeklyLabs: 1, Batches: []string{"B1", "B2"}, BatchesGrouped: false,
				},
			},
		},
	}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.UnplacedTasks)

	dg := result.DivisionGrids[DivisionKey{Semester: "5", Division: "B"}]
	mergeCount := 0
	for _, d := range Days {
		for label, cell := range dg.Grid.Cells[d] {
			if cell == mergeCell {
				mergeCount++
				_ = label
			}
		}
	}
	assert.Equal(t, 2, mergeCount, "one MERGE per batch block")
}

// S3 — Holiday honored.
func TestScenarioS3HolidayHonored(t *testing.T) {
	templates := defaultTemplates(t)
	freeDays := FreeDaySettings{
		{Semester: "7", Division: "A"}: {Fri, Sat},
	}
	faculties := []Faculty{
		{
			Short: "ABC", Shift: ShiftMorning,
			Obligations: []Obligation{
				{Type: Theory, Semester: "7", Division: "A", DivShift: ShiftMorning, Subject: "DSP", WeeklyClasses: 2},
			},
		},
	}

	result, err := Schedule(faculties, freeDays, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)

	dg := result.DivisionGrids[DivisionKey{Semester: "7", Division: "A"}]
	fTpl, _ := templates.Template(ShiftMorning)
	for _, day := range []Day{Fri, Sat} {
		for _, spec := range fTpl.Slots {
			cell := string(dg.Grid.Cells[day][spec.Label])
			if spec.Inert {
				assert.Equal(t, string(spec.Label), cell)
				continue
			}
			assert.Contains(t, cell, "COMPETITIVE EXAM/SUNCLUBS/SPORT")
			assert.NotContains(t, strings.ToLower(cell), "dsp")
		}
	}
}

// S4 — Cross-shift admissibility.
func TestScenarioS4CrossShiftAdmissibility(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{
		{
			Short: "LFAC", Shift: ShiftLate,
			Obligations: []Obligation{
				{Type: Theory, Semester: "3", Division: "C", DivShift: ShiftMorning, Subject: "Networks", WeeklyClasses: 1},
			},
		},
	}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.UnplacedTasks)

	dg := result.DivisionGrids[DivisionKey{Semester: "3", Division: "C"}]
	fTpl, _ := templates.Template(ShiftMorning)
	for _, d := range Days {
		for _, spec := range fTpl.Slots {
			if spec.Inert {
				continue
			}
			if dg.Grid.Cells[d][spec.Label] == "" {
				continue
			}
			assert.True(t, templates.isAllowedOnMorningForLateFaculty(ShiftMorning, spec.Label))
			assert.NotEqual(t, SlotLabel("8-8:45"), spec.Label)
			assert.NotEqual(t, SlotLabel("8:45-9:45"), spec.Label)
		}
	}
}

// S5 — Duplication heuristic: prefer different days when availability permits.
func TestScenarioS5DuplicationHeuristic(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{
		{
			Short: "DEF", Shift: ShiftMorning,
			Obligations: []Obligation{
				{Type: Theory, Semester: "3", Division: "A", DivShift: ShiftMorning, Subject: "A", WeeklyClasses: 1},
				{Type: Theory, Semester: "3", Division: "A", DivShift: ShiftMorning, Subject: "B", WeeklyClasses: 1},
			},
		},
	}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.UnplacedTasks)

	dg := result.DivisionGrids[DivisionKey{Semester: "3", Division: "A"}]
	fTpl, _ := templates.Template(ShiftMorning)
	daysUsed := map[Day]bool{}
	for _, d := range Days {
		for _, spec := range fTpl.Slots {
			if spec.Inert {
				continue
			}
			if dg.Grid.Cells[d][spec.Label] != "" {
				daysUsed[d] = true
			}
		}
	}
	assert.GreaterOrEqual(t, len(daysUsed), 1)
}

// S6 — Forced placement against a mostly-holiday division.
func TestScenarioS6ForcedPlacement(t *testing.T) {
	templates := defaultTemplates(t)
	freeDays := FreeDaySettings{
		{Semester: "3", Division: "Z"}: {Mon, Tue, Wed, Thu, Fri},
	}
	obligations := make([]Obligation, 0, 5)
	for i := 0; i < 5; i++ {
		obligations = append(obligations, Obligation{
			Type: Theory, Semester: "3", Division: "Z", DivShift: ShiftMorning,
			Subject: "Subject", WeeklyClasses: 1,
		})
	}
	faculties := []Faculty{{Short: "ZZZ", Shift: ShiftMorning, Obligations: obligations}}

	result, err := Schedule(faculties, freeDays, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	// Only Saturday (6 teaching slots) is open; 5 theory obligations need 1
	// slot each, so lock/force should resolve all of them.
	assert.Empty(t, result.UnplacedTasks)
}

// Idempotence: a run whose faculty has no obligations places nothing and
// leaves that faculty's grid with no non-inert cell filled.
func TestInvariantIdempotentOnEmptyObligations(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{{Short: "NOOP", Shift: ShiftMorning, Obligations: nil}}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.UnplacedTasks)

	fTpl, _ := templates.Template(ShiftMorning)
	assert.Equal(t, 0, countNonInert(result.FacultyGrids["NOOP"].Grid, fTpl))
}

// Invariant 2: merge well-formedness.
func TestInvariantMergeWellFormedness(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{
		{
			Short: "LABF", Shift: ShiftMorning,
			Obligations: []Obligation{
				{Type: Lab, Semester: "5", Division: "B", DivShift: ShiftMorning, Subject: "Chem Lab", WeeklyLabs: 1, Batches: []string{"B1"}},
			},
		},
	}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)

	tpl, _ := templates.Template(ShiftMorning)
	for _, grid := range []*Grid{result.FacultyGrids["LABF"].Grid, result.DivisionGrids[DivisionKey{Semester: "5", Division: "B"}].Grid} {
		for _, d := range Days {
			var prevLabel SlotLabel
			var prevWasTeaching bool
			for _, spec := range tpl.Slots {
				cell := grid.Cells[d][spec.Label]
				if cell == mergeCell {
					require.True(t, prevWasTeaching, "MERGE must follow a teaching slot")
					prevCell := string(grid.Cells[d][prevLabel])
					assert.Contains(t, prevCell, " Lab ")
				}
				prevLabel = spec.Label
				prevWasTeaching = !spec.Inert
			}
		}
	}
}

// Invariant 6: reproducibility under identical seed.
func TestInvariantReproducibility(t *testing.T) {
	templates := defaultTemplates(t)
	build := func() []Faculty {
		return []Faculty{
			{
				Short: "RPR", Shift: ShiftMorning,
				Obligations: []Obligation{
					{Type: Theory, Semester: "3", Division: "A", DivShift: ShiftMorning, Subject: "Maths", WeeklyClasses: 3},
					{Type: Lab, Semester: "3", Division: "A", DivShift: ShiftMorning, Subject: "Physics Lab", WeeklyLabs: 1, Batches: []string{"B1", "B2"}},
				},
			},
		}
	}

	r1, err := Schedule(build(), nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	r2, err := Schedule(build(), nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)

	assert.Equal(t, r1.FacultyGrids["RPR"].Grid.Cells, r2.FacultyGrids["RPR"].Grid.Cells)
	assert.Equal(t, r1.DivisionGrids[DivisionKey{Semester: "3", Division: "A"}].Grid.Cells,
		r2.DivisionGrids[DivisionKey{Semester: "3", Division: "A"}].Grid.Cells)
}

func TestReentrantRunRejected(t *testing.T) {
	templates := defaultTemplates(t)
	ctx := NewSchedulerContext(templates, nil, Options{Seed: 7}, nil)

	_, err := ctx.Run([]Faculty{{Short: "X", Shift: ShiftMorning}})
	require.NoError(t, err)

	_, err = ctx.Run([]Faculty{{Short: "X", Shift: ShiftMorning}})
	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, ReentrantUse, engErr.Kind)
}

func TestGroupedBatchesScheduleOneBlock(t *testing.T) {
	templates := defaultTemplates(t)
	faculties := []Faculty{
		{
			Short: "GRP", Shift: ShiftMorning,
			Obligations: []Obligation{
				{
					Type: Lab, Semester: "5", Division: "B", DivShift: ShiftMorning,
					Subject: "Combined Lab", WeeklyLabs: 1, Batches: []string{"B1", "B2"}, BatchesGrouped: true,
				},
			},
		},
	}

	result, err := Schedule(faculties, nil, templates, Options{Seed: 7}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.UnplacedTasks)

	dg := result.DivisionGrids[DivisionKey{Semester: "5", Division: "B"}]
	found := false
	for _, d := range Days {
		for _, cell := range dg.Grid.Cells[d] {
			if strings.Contains(string(cell), "B1/B2") {
				found = true
			}
		}
	}
	assert.True(t, found, "grouped batches must be labeled with the joined token")
}
