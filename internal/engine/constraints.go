package engine

import "strings"

// freeSlot reports whether a cell is available: true iff the cell equals the
// empty string. Any non-empty cell — inert label, holiday sentinel, MERGE,
// or prior placement — is not free (spec.md §4.4).
func freeSlot(g *Grid, day Day, label SlotLabel) bool {
	return g.Cells[day][label] == ""
}

func freePair(g *Grid, day Day, pair ConsecutivePair) bool {
	return freeSlot(g, day, pair.First) && freeSlot(g, day, pair.Second)
}

// dayHasDivision reports whether any cell on that day names both this
// semester and division, after case-folding and whitespace removal.
func dayHasDivision(g *Grid, day Day, sem, div string) bool {
	needleSem := foldForSubstringMatch("sem" + sem)
	needleDiv := foldForSubstringMatch("div" + div)
	for _, cell := range g.Cells[day] {
		folded := foldForSubstringMatch(string(cell))
		if strings.Contains(folded, needleSem) && strings.Contains(folded, needleDiv) {
			return true
		}
	}
	return false
}

// dayHasSubject reports whether any cell on that day contains the subject as
// a case-insensitive substring.
func dayHasSubject(g *Grid, day Day, subject string) bool {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return false
	}
	for _, cell := range g.Cells[day] {
		if strings.Contains(strings.ToLower(string(cell)), subject) {
			return true
		}
	}
	return false
}

func (ctx *SchedulerContext) isDivisionHoliday(sem, div string, day Day) bool {
	key := DivisionKey{Semester: sem, Division: normalizeDivision(div)}
	for _, d := range ctx.freeDaySettings[key] {
		if d == day {
			return true
		}
	}
	return false
}

// divisionSlotAllowedForFaculty is identity-true except when a LATE faculty
// meets a MORNING division, in which case it defers to
// isAllowedOnMorningForLateFaculty.
func (ctx *SchedulerContext) divisionSlotAllowedForFaculty(fShift, dShift string, dSlot SlotLabel) bool {
	if fShift == ShiftLate && dShift == ShiftMorning {
		return ctx.templates.isAllowedOnMorningForLateFaculty(dShift, dSlot)
	}
	return true
}

func (ctx *SchedulerContext) divisionPairAllowedForFaculty(fShift, dShift string, pair ConsecutivePair) bool {
	if fShift == ShiftLate && dShift == ShiftMorning {
		return ctx.templates.isAllowedOnMorningForLateFaculty(dShift, pair.First) &&
			ctx.templates.isAllowedOnMorningForLateFaculty(dShift, pair.Second)
	}
	return true
}

// facultyDayHasDivision extends dayHasDivision to the faculty grid, gating
// the reimplementation's faculty-grid anti-duplication policy decision
// (spec.md §9 open question; SPEC_FULL.md §1).
func facultyDayHasDivision(g *Grid, day Day, sem, div string) bool {
	return dayHasDivision(g, day, sem, div)
}

func facultyDayHasSubject(g *Grid, day Day, subject string) bool {
	return dayHasSubject(g, day, subject)
}
