package engine

// emptyGridForShift returns a Grid where every day holds the shift's slot
// sequence: inert slots initialized to their own label (so lookups preserve
// the break/lunch text) and teaching slots initialized to "" (spec.md §4.2).
func emptyGridForShift(tpl *ShiftTemplate) *Grid {
	cells := make(map[Day]map[SlotLabel]Cell, len(Days))
	for _, d := range Days {
		row := make(map[SlotLabel]Cell, len(tpl.Slots))
		for _, spec := range tpl.Slots {
			if spec.Inert {
				row[spec.Label] = Cell(spec.Label)
			} else {
				row[spec.Label] = ""
			}
		}
		cells[d] = row
	}
	return &Grid{Shift: tpl.Name, Cells: cells}
}

// ensureFacultyGrid returns the Faculty's grid, creating it on first
// reference.
func (ctx *SchedulerContext) ensureFacultyGrid(short, shift string) (*FacultyGrid, error) {
	if g, ok := ctx.facultyGrids[short]; ok {
		return g, nil
	}
	tpl, err := ctx.templates.Template(shift)
	if err != nil {
		return nil, err
	}
	fg := &FacultyGrid{Short: short, Grid: emptyGridForShift(tpl)}
	ctx.facultyGrids[short] = fg
	return fg, nil
}

// ensureDivisionGrid creates the DivisionGrid on first reference, then
// applies all FreeDaySettings entries for that cohort before returning
// (spec.md §4.2 — this ordering is the free-day pre-marking guarantee).
func (ctx *SchedulerContext) ensureDivisionGrid(sem, div, shift string) (*DivisionGrid, error) {
	key := DivisionKey{Semester: sem, Division: normalizeDivision(div)}
	if g, ok := ctx.divisionGrids[key]; ok {
		return g, nil
	}
	tpl, err := ctx.templates.Template(shift)
	if err != nil {
		return nil, err
	}
	dg := &DivisionGrid{Key: key, Grid: emptyGridForShift(tpl)}
	ctx.divisionGrids[key] = dg
	ctx.applyFreeDayMarkings(dg, key)
	return dg, nil
}

func normalizeDivision(div string) string {
	return trimAndUpper(div)
}
