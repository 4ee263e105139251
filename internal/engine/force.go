package engine

import "fmt"

// forcePlaceTheory is the deterministic second-pass placement used only on
// tasks the lock pass failed to place: same predicates minus duplication
// avoidance (spec.md §4.6).
func (ctx *SchedulerContext) forcePlaceTheory(fg *FacultyGrid, dg *DivisionGrid, fShift, dShift string, facultyShort, sem, div, subject string) bool {
	fTpl, _ := ctx.templates.Template(fShift)
	dTpl, _ := ctx.templates.Template(dShift)

	place := func(fDay Day, fSlot SlotLabel, dDay Day, dSlot SlotLabel) {
		fg.Grid.Cells[fDay][fSlot] = Cell(fmt.Sprintf("%s (Sem%s Div%s)", subject, sem, div))
		dg.Grid.Cells[dDay][dSlot] = Cell(fmt.Sprintf("%s (%s)", subject, facultyShort))
	}

	// Tight force: same-day, fixed Day order, fixed slot order, holidays
	// always respected.
	for _, day := range Days {
		if ctx.isDivisionHoliday(sem, div, day) {
			continue
		}
		for _, fSpec := range fTpl.Slots {
			if fSpec.Inert || !freeSlot(fg.Grid, day, fSpec.Label) {
				continue
			}
			for _, dSpec := range dTpl.Slots {
				if dSpec.Inert || !freeSlot(dg.Grid, day, dSpec.Label) {
					continue
				}
				if !ctx.templates.slotsEquivalent(fShift, fSpec.Label, dShift, dSpec.Label) {
					continue
				}
				if !ctx.divisionSlotAllowedForFaculty(fShift, dShift, dSpec.Label) {
					continue
				}
				place(day, fSpec.Label, day, dSpec.Label)
				ctx.emitEvent(Event{Level: "warn", Message: fmt.Sprintf("[FORCE] THEORY forced: %s -> Sem%s Div%s at %s F=%s D=%s", facultyShort, sem, div, day, fSpec.Label, dSpec.Label)})
				return true
			}
		}
	}

	// Relaxed force: decoupled days. No holiday guard unless CompatibilityMode
	// is false (default corrects the reference's asymmetry).
	for _, dDay := range Days {
		for _, dSpec := range dTpl.Slots {
			if dSpec.Inert || !freeSlot(dg.Grid, dDay, dSpec.Label) {
				continue
			}
			if !ctx.opts.CompatibilityMode && ctx.isDivisionHoliday(sem, div, dDay) {
				continue
			}
			for _, fDay := range Days {
				for _, fSpec := range fTpl.Slots {
					if fSpec.Inert || !freeSlot(fg.Grid, fDay, fSpec.Label) {
						continue
					}
					if !ctx.templates.slotsEquivalent(fShift, fSpec.Label, dShift, dSpec.Label) {
						continue
					}
					if !ctx.divisionSlotAllowedForFaculty(fShift, dShift, dSpec.Label) {
						continue
					}
					place(fDay, fSpec.Label, dDay, dSpec.Label)
					ctx.emitEvent(Event{Level: "warn", Message: fmt.Sprintf("[FORCE-RELAX] THEORY forced (relaxed): %s -> Sem%s Div%s Fday=%s Dday=%s", facultyShort, sem, div, fDay, dDay)})
					return true
				}
			}
		}
	}

	ctx.emitEvent(Event{Level: "error", Message: fmt.Sprintf("[FAILED FORCE] THEORY unable to force-place %s Sem%s Div%s", subject, sem, div)})
	return false
}

// forcePlaceLab is the deterministic second-pass placement for a lab
// instance, over consecutive pairs (spec.md §4.6).
func (ctx *SchedulerContext) forcePlaceLab(fg *FacultyGrid, dg *DivisionGrid, fShift, dShift string, facultyShort, sem, div, subject, batch string) bool {
	fPairs := ctx.templates.ConsecutivePairs(fShift)
	dPairs := ctx.templates.ConsecutivePairs(dShift)

	place := func(fDay Day, fPair ConsecutivePair, dDay Day, dPair ConsecutivePair) {
		fg.Grid.Cells[fDay][fPair.First] = Cell(fmt.Sprintf("%s Lab (Sem%s Div%s) [%s]", subject, sem, div, batch))
		fg.Grid.Cells[fDay][fPair.Second] = mergeCell
		dg.Grid.Cells[dDay][dPair.First] = Cell(fmt.Sprintf("%s Lab (%s) [%s]", subject, facultyShort, batch))
		dg.Grid.Cells[dDay][dPair.Second] = mergeCell
	}

	for _, day := range Days {
		if ctx.isDivisionHoliday(sem, div, day) {
			continue
		}
		for _, fPair := range fPairs {
			if !freePair(fg.Grid, day, fPair) {
				continue
			}
			for _, dPair := range dPairs {
				if !freePair(dg.Grid, day, dPair) {
					continue
				}
				if !ctx.templates.pairSlotsEquivalent(fShift, fPair, dShift, dPair) {
					continue
				}
				if !ctx.divisionPairAllowedForFaculty(fShift, dShift, dPair) {
					continue
				}
				place(day, fPair, day, dPair)
				ctx.emitEvent(Event{Level: "warn", Message: fmt.Sprintf("[FORCE] LAB forced: %s -> Sem%s Div%s at %s", facultyShort, sem, div, day)})
				return true
			}
		}
	}

	for _, dDay := range Days {
		for _, dPair := range dPairs {
			if !freePair(dg.Grid, dDay, dPair) {
				continue
			}
			if !ctx.opts.CompatibilityMode && ctx.isDivisionHoliday(sem, div, dDay) {
				continue
			}
			for _, fDay := range Days {
				for _, fPair := range fPairs {
					if !freePair(fg.Grid, fDay, fPair) {
						continue
					}
					if !ctx.templates.pairSlotsEquivalent(fShift, fPair, dShift, dPair) {
						continue
					}
					if !ctx.divisionPairAllowedForFaculty(fShift, dShift, dPair) {
						continue
					}
					place(fDay, fPair, dDay, dPair)
					ctx.emitEvent(Event{Level: "warn", Message: fmt.Sprintf("[FORCE-RELAX] LAB forced (relaxed): %s -> Sem%s Div%s Fday=%s Dday=%s", facultyShort, sem, div, fDay, dDay)})
					return true
				}
			}
		}
	}

	ctx.emitEvent(Event{Level: "error", Message: fmt.Sprintf("[FAILED FORCE] LAB unable to place %s Sem%s Div%s", subject, sem, div)})
	return false
}
