package mealplan

import (
	"strings"
)

// Day is a day of the planning week.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Week lists the days in the order used for display and aggregation.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay accepts a full or three-letter day name in any case.
func ParseDay(s string) (Day, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Week {
		if key == string(d) || (len(key) == 3 && strings.HasPrefix(string(d), key)) {
			return d, nil
		}
	}
	return "", invalid("day", "unknown day "+strings.TrimSpace(s))
}

// Index returns the position of d in Week, or -1.
func (d Day) Index() int {
	for i, w := range Week {
		if w == d {
			return i
		}
	}
	return -1
}

// Label is the capitalized day name.
func (d Day) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// PlanEntry is one assigned slot.
type PlanEntry struct {
	Day    Day    `json:"day"`
	MealID string `json:"meal_id"`
}

// WeeklyPlan maps each day to at most one meal id. Days without an entry are
// empty.
type WeeklyPlan struct {
	slots map[Day]string
}

// NewWeeklyPlan returns a plan with every day empty.
func NewWeeklyPlan() *WeeklyPlan {
	return &WeeklyPlan{slots: make(map[Day]string)}
}

// RestorePlan rebuilds a plan from persisted day→reference pairs. A reference
// is resolved as a meal id first and then as a meal name, so plans saved
// before meals had ids still load. Unknown days and unresolvable references
// are dropped and counted.
func RestorePlan(c *Catalog, entries map[string]string) (*WeeklyPlan, int) {
	p := NewWeeklyPlan()
	dropped := 0
	for rawDay, ref := range entries {
		day, err := ParseDay(rawDay)
		if err != nil {
			dropped++
			continue
		}
		if m, ok := c.FindByID(ref); ok {
			p.slots[day] = m.ID
			continue
		}
		if m, ok := c.FindByName(ref); ok {
			p.slots[day] = m.ID
			continue
		}
		dropped++
	}
	return p, dropped
}

// MealID returns the id assigned to day, if any.
func (p *WeeklyPlan) MealID(day Day) (string, bool) {
	id, ok := p.slots[day]
	return id, ok
}

// Entries returns the assigned slots in week order.
func (p *WeeklyPlan) Entries() []PlanEntry {
	entries := make([]PlanEntry, 0, len(p.slots))
	for _, d := range Week {
		if id, ok := p.slots[d]; ok {
			entries = append(entries, PlanEntry{Day: d, MealID: id})
		}
	}
	return entries
}

// Map returns the plan as day→meal id, the shape storage persists.
func (p *WeeklyPlan) Map() map[string]string {
	out := make(map[string]string, len(p.slots))
	for d, id := range p.slots {
		out[string(d)] = id
	}
	return out
}

// IsEmpty reports whether no day has a meal.
func (p *WeeklyPlan) IsEmpty() bool {
	return len(p.slots) == 0
}

func (p *WeeklyPlan) set(day Day, mealID string) {
	p.slots[day] = mealID
}

func (p *WeeklyPlan) unset(day Day) {
	delete(p.slots, day)
}

func (p *WeeklyPlan) clear() {
	p.slots = make(map[Day]string)
}

// removeMeal empties every slot pointing at mealID and returns those days.
func (p *WeeklyPlan) removeMeal(mealID string) []Day {
	var cleared []Day
	for _, d := range Week {
		if id, ok := p.slots[d]; ok && id == mealID {
			delete(p.slots, d)
			cleared = append(cleared, d)
		}
	}
	return cleared
}

func (p *WeeklyPlan) clone() *WeeklyPlan {
	out := NewWeeklyPlan()
	for d, id := range p.slots {
		out.slots[d] = id
	}
	return out
}
