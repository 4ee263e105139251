package engine

import (
	"strconv"
	"strings"
)

// ShiftTemplates is a registry of named shift templates plus the derived
// canonical-slot and consecutive-pair tables C1 builds once per template
// (spec.md §4.1).
type ShiftTemplates struct {
	templates map[string]*ShiftTemplate
	canonical map[string]map[SlotLabel]*CanonicalSlot
	pairs     map[string][]ConsecutivePair
}

// NewShiftTemplates builds the registry for the given templates, computing
// canonical slots and consecutive pairs for each. Returns InvalidSlotFormat
// if any teaching slot label cannot be parsed.
func NewShiftTemplates(templates ...*ShiftTemplate) (*ShiftTemplates, error) {
	reg := &ShiftTemplates{
		templates: make(map[string]*ShiftTemplate, len(templates)),
		canonical: make(map[string]map[SlotLabel]*CanonicalSlot, len(templates)),
		pairs:     make(map[string][]ConsecutivePair, len(templates)),
	}

	for _, tpl := range templates {
		canon := make(map[SlotLabel]*CanonicalSlot, len(tpl.Slots))
		for _, spec := range tpl.Slots {
			if spec.Inert {
				canon[spec.Label] = nil
				continue
			}
			cs, err := parseSlotLabel(spec.Label)
			if err != nil {
				return nil, newError(InvalidSlotFormat, "shift %s slot %q: %v", tpl.Name, spec.Label, err)
			}
			canon[spec.Label] = cs
		}
		reg.templates[tpl.Name] = tpl
		reg.canonical[tpl.Name] = canon
		reg.pairs[tpl.Name] = buildConsecutivePairs(tpl)
	}

	return reg, nil
}

// DefaultShiftTemplates returns the two built-in templates from spec.md §3:
// MORNING (8-3) and LATE (10-5).
func DefaultShiftTemplates() (*ShiftTemplates, error) {
	morning := &ShiftTemplate{
		Name: ShiftMorning,
		Slots: []SlotSpec{
			{Label: "8-8:45"},
			{Label: "8:45-9:45"},
			{Label: "9:45-10:00 Short Break", Inert: true},
			{Label: "10:00-11:00"},
			{Label: "11:00-12:00"},
			{Label: "12:00-12:45 Lunch Break", Inert: true},
			{Label: "12:45-1:45"},
			{Label: "1:45-2:45"},
		},
	}
	late := &ShiftTemplate{
		Name: ShiftLate,
		Slots: []SlotSpec{
			{Label: "10:00-11:00"},
			{Label: "11:00-12:00"},
			{Label: "12:00-12:45 Lunch Break", Inert: true},
			{Label: "12:45-1:45"},
			{Label: "1:45-2:45"},
			{Label: "2:45-3:00 Short Break", Inert: true},
			{Label: "3-4"},
			{Label: "4-5"},
		},
	}
	return NewShiftTemplates(morning, late)
}

// Template returns the named shift template, or InvalidShift if unknown.
func (r *ShiftTemplates) Template(name string) (*ShiftTemplate, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return nil, newError(InvalidShift, "unknown shift %q", name)
	}
	return tpl, nil
}

// ConsecutivePairs returns the lab-eligible adjacent slot pairs for a shift.
func (r *ShiftTemplates) ConsecutivePairs(shift string) []ConsecutivePair {
	return r.pairs[shift]
}

// slotsEquivalent reports whether two (possibly cross-shift) labels denote
// the same canonical interval.
func (r *ShiftTemplates) slotsEquivalent(shiftA string, labelA SlotLabel, shiftB string, labelB SlotLabel) bool {
	ca := r.canonical[shiftA][labelA]
	cb := r.canonical[shiftB][labelB]
	return ca != nil && cb != nil && *ca == *cb
}

// pairSlotsEquivalent is the pointwise extension of slotsEquivalent over a
// ConsecutivePair.
func (r *ShiftTemplates) pairSlotsEquivalent(shiftA string, a ConsecutivePair, shiftB string, b ConsecutivePair) bool {
	return r.slotsEquivalent(shiftA, a.First, shiftB, b.First) &&
		r.slotsEquivalent(shiftA, a.Second, shiftB, b.Second)
}

// isAllowedOnMorningForLateFaculty is the sole cross-shift admissibility
// rule: a LATE-shift faculty may only occupy a MORNING division slot whose
// canonical start is at or after 10:00.
func (r *ShiftTemplates) isAllowedOnMorningForLateFaculty(shift string, label SlotLabel) bool {
	cs := r.canonical[shift][label]
	if cs == nil {
		return false
	}
	return cs.Start >= 10*60
}

// buildConsecutivePairs returns all adjacent teaching-slot pairs in a
// template's sequence, skipping any pair touching an inert slot.
func buildConsecutivePairs(tpl *ShiftTemplate) []ConsecutivePair {
	var pairs []ConsecutivePair
	for i := 0; i < len(tpl.Slots)-1; i++ {
		a, b := tpl.Slots[i], tpl.Slots[i+1]
		if a.Inert || b.Inert {
			continue
		}
		pairs = append(pairs, ConsecutivePair{First: a.Label, Second: b.Label})
	}
	return pairs
}

// parseSlotLabel splits a label like "12:45-1:45" (an optional trailing
// descriptor is ignored by callers before reaching here) on "-" and parses
// each endpoint as H(:M)?, coercing hours below 8 to post-noon (spec.md §3,
// §4.1; grounded on the reference's slot_label_to_canonical/parse_time_token).
func parseSlotLabel(label SlotLabel) (*CanonicalSlot, error) {
	main := string(label)
	if idx := strings.IndexByte(main, ' '); idx >= 0 {
		main = main[:idx]
	}
	parts := strings.SplitN(main, "-", 2)
	if len(parts) != 2 {
		return nil, newError(InvalidSlotFormat, "slot %q has no start-end separator", label)
	}
	start, err := parseTimeToken(parts[0])
	if err != nil {
		return nil, err
	}
	end, err := parseTimeToken(parts[1])
	if err != nil {
		return nil, err
	}
	return &CanonicalSlot{Start: start, End: end}, nil
}

func parseTimeToken(tok string) (int, error) {
	tok = strings.TrimSpace(tok)
	hourPart, minPart, hasMin := strings.Cut(tok, ":")
	hh, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, newError(InvalidSlotFormat, "cannot parse time token %q", tok)
	}
	mm := 0
	if hasMin {
		mm, err = strconv.Atoi(minPart)
		if err != nil {
			return 0, newError(InvalidSlotFormat, "cannot parse time token %q", tok)
		}
	}
	if hh < 8 {
		hh += 12
	}
	return hh*60 + mm, nil
}
