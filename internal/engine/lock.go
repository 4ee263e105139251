package engine

import "fmt"

// lockTheory is the heuristic first-pass placement for a single theory
// instance (spec.md §4.5). Attempt A scans a random day order honoring
// avoidDup and the holiday guard; Attempt B repeats the scan with avoidDup
// disabled, still honoring holidays by default (CompatibilityMode=true
// reproduces the reference's bug of skipping the guard here).
func (ctx *SchedulerContext) lockTheory(fg *FacultyGrid, dg *DivisionGrid, fShift, dShift string, facultyShort, sem, div, subject string) bool {
	fTpl, _ := ctx.templates.Template(fShift)
	dTpl, _ := ctx.templates.Template(dShift)

	tryPlace := func(day Day, avoidDup bool) bool {
		if avoidDup {
			if dayHasDivision(dg.Grid, day, sem, div) || dayHasSubject(dg.Grid, day, subject) {
				return false
			}
			if !ctx.opts.DisableFacultyGridAntiDup &&
				(facultyDayHasDivision(fg.Grid, day, sem, div) || facultyDayHasSubject(fg.Grid, day, subject)) {
				return false
			}
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
				fg.Grid.Cells[day][fSpec.Label] = Cell(fmt.Sprintf("%s (Sem%s Div%s)", subject, sem, div))
				dg.Grid.Cells[day][dSpec.Label] = Cell(fmt.Sprintf("%s (%s)", subject, facultyShort))
				ctx.emitEvent(Event{Level: "info", Message: fmt.Sprintf("[SUCCESS] Theory: %s assigned by %s -> Sem%s Div%s at %s F=%s D=%s", subject, facultyShort, sem, div, day, fSpec.Label, dSpec.Label)})
				return true
			}
		}
		return false
	}

	// Attempt A: avoidDup honored, holiday guard always honored.
	for _, day := range ctx.randomDayOrder() {
		if ctx.isDivisionHoliday(sem, div, day) {
			ctx.emitEvent(Event{Level: "info", Message: fmt.Sprintf("[HOLIDAY-SKIP] Skipping Sem%s Div%s on %s", sem, div, day)})
			continue
		}
		if tryPlace(day, true) {
			return true
		}
	}

	// Attempt B: avoidDup disabled. CompatibilityMode reproduces the
	// reference's bug of skipping the holiday guard here.
	for _, day := range ctx.randomDayOrder() {
		if !ctx.opts.CompatibilityMode && ctx.isDivisionHoliday(sem, div, day) {
			continue
		}
		if tryPlace(day, false) {
			return true
		}
	}

	ctx.emitEvent(Event{Level: "debug", Message: fmt.Sprintf("[TRY-FAIL] Theory: %s not placed (yet) for %s Sem%s Div%s", subject, facultyShort, sem, div)})
	return false
}

// lockLab is the heuristic first-pass placement for a single lab block
// instance, operating over consecutive pairs instead of single slots
// (spec.md §4.5). The relaxed fallback additionally decouples faculty day
// from division day (documented semantics, not corrected — see DESIGN.md).
func (ctx *SchedulerContext) lockLab(fg *FacultyGrid, dg *DivisionGrid, fShift, dShift string, facultyShort, sem, div, subject, batch string) bool {
	fPairs := ctx.templates.ConsecutivePairs(fShift)
	dPairs := ctx.templates.ConsecutivePairs(dShift)

	place := func(fDay Day, fPair ConsecutivePair, dDay Day, dPair ConsecutivePair) {
		fg.Grid.Cells[fDay][fPair.First] = Cell(fmt.Sprintf("%s Lab (Sem%s Div%s) [%s]", subject, sem, div, batch))
		fg.Grid.Cells[fDay][fPair.Second] = mergeCell
		dg.Grid.Cells[dDay][dPair.First] = Cell(fmt.Sprintf("%s Lab (%s) [%s]", subject, facultyShort, batch))
		dg.Grid.Cells[dDay][dPair.Second] = mergeCell
	}

	// Attempt A: same day for both grids, avoidDup honored, holidays honored.
	for _, day := range ctx.randomDayOrder() {
		if ctx.isDivisionHoliday(sem, div, day) {
			ctx.emitEvent(Event{Level: "info", Message: fmt.Sprintf("[HOLIDAY-SKIP] Skipping Sem%s Div%s on %s", sem, div, day)})
			continue
		}
		if dayHasDivision(dg.Grid, day, sem, div) || dayHasSubject(dg.Grid, day, subject) {
			continue
		}
		if !ctx.opts.DisableFacultyGridAntiDup &&
			(facultyDayHasDivision(fg.Grid, day, sem, div) || facultyDayHasSubject(fg.Grid, day, subject)) {
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
				ctx.emitEvent(Event{Level: "info", Message: fmt.Sprintf("[SUCCESS] Lab: %s (%s) assigned by %s -> Sem%s Div%s at %s", subject, batch, facultyShort, sem, div, day)})
				return true
			}
		}
	}

	// Attempt B: decoupled days, avoidDup limited to division-day check
	// (matches the reference's flex pass exactly). No holiday guard unless
	// CompatibilityMode is false.
	for _, fDay := range ctx.randomDayOrder() {
		for _, fPair := range fPairs {
			if !freePair(fg.Grid, fDay, fPair) {
				continue
			}
			for _, dDay := range ctx.randomDayOrder() {
				if !ctx.opts.CompatibilityMode && ctx.isDivisionHoliday(sem, div, dDay) {
					continue
				}
				if dayHasDivision(dg.Grid, dDay, sem, div) {
					continue
				}
				for _, dPair := range dPairs {
					if !freePair(dg.Grid, dDay, dPair) {
						continue
					}
					if !ctx.templates.pairSlotsEquivalent(fShift, fPair, dShift, dPair) {
						continue
					}
					if !ctx.divisionPairAllowedForFaculty(fShift, dShift, dPair) {
						continue
					}
					place(fDay, fPair, dDay, dPair)
					ctx.emitEvent(Event{Level: "info", Message: fmt.Sprintf("[SUCCESS-FLEX] Lab: %s (%s) assigned by %s -> Sem%s Div%s Fday=%s Dday=%s", subject, batch, facultyShort, sem, div, fDay, dDay)})
					return true
				}
			}
		}
	}

	ctx.emitEvent(Event{Level: "debug", Message: fmt.Sprintf("[TRY-FAIL] Lab: %s not placed (yet) for %s Sem%s Div%s [%s]", subject, facultyShort, sem, div, batch)})
	return false
}
