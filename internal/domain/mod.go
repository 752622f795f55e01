package domain

import "fmt"

type ModSet int

const (
	ModSetHealth ModSet = iota + 1
	ModSetOffense
	ModSetDefense
	ModSetSpeed
	ModSetCriticalChance
	ModSetCriticalDamage
	ModSetPotency
	ModSetTenacity
)

var modSetNames = map[ModSet]string{
	ModSetHealth:         "Health",
	ModSetOffense:        "Offense",
	ModSetDefense:        "Defense",
	ModSetSpeed:          "Speed",
	ModSetCriticalChance: "Critical Chance",
	ModSetCriticalDamage: "Critical Damage",
	ModSetPotency:        "Potency",
	ModSetTenacity:       "Tenacity",
}

func (s ModSet) Valid() bool {
	_, ok := modSetNames[s]
	return ok
}

func (s ModSet) String() string {
	if name, ok := modSetNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ModSet(%d)", int(s))
}

// ArrowSlot is the zero-based slot that can never roll a speed secondary.
const ArrowSlot = 1

type Mod struct {
	ID           int64
	APIID        string
	PlayerUnitID *int64
	Set          ModSet
	Slot         int // 0-5
	Level        int
	Pips         int
	Tier         int

	Speed             int64
	Health            int64
	HealthPercent     float64
	Protection        int64
	ProtectionPercent float64
	Offense           int64
	OffensePercent    float64
	Defense           int64
	DefensePercent    float64
	CriticalChance    float64
	CriticalDamage    float64
	Potency           float64
	Tenacity          float64
	CriticalAvoidance float64
	Accuracy          float64
}

type modStat struct {
	mult  float64
	apply func(m *Mod, v float64)
}

// modStatTable maps upstream unit stat codes to mod fields. Percentage stats
// arrive as integers and are stored as fractions.
var modStatTable = map[int]modStat{
	1:  {1, func(m *Mod, v float64) { m.Health = int64(v) }},
	5:  {1, func(m *Mod, v float64) { m.Speed = int64(v) }},
	16: {.01, func(m *Mod, v float64) { m.CriticalDamage = v }},
	17: {.01, func(m *Mod, v float64) { m.Potency = v }},
	18: {.01, func(m *Mod, v float64) { m.Tenacity = v }},
	28: {1, func(m *Mod, v float64) { m.Protection = int64(v) }},
	41: {1, func(m *Mod, v float64) { m.Offense = int64(v) }},
	42: {1, func(m *Mod, v float64) { m.Defense = int64(v) }},
	48: {.01, func(m *Mod, v float64) { m.OffensePercent = v }},
	49: {.01, func(m *Mod, v float64) { m.DefensePercent = v }},
	52: {.01, func(m *Mod, v float64) { m.Accuracy = v }},
	53: {.01, func(m *Mod, v float64) { m.CriticalChance = v }},
	54: {.01, func(m *Mod, v float64) { m.CriticalAvoidance = v }},
	55: {.01, func(m *Mod, v float64) { m.HealthPercent = v }},
	56: {.01, func(m *Mod, v float64) { m.ProtectionPercent = v }},
}

// ModStatMultiplier returns the multiplier applied to raw values of code.
func ModStatMultiplier(code int) (float64, bool) {
	s, ok := modStatTable[code]
	return s.mult, ok
}

// ApplyStat stores raw*multiplier in the field mapped to code.
func (m *Mod) ApplyStat(code int, raw float64) error {
	s, ok := modStatTable[code]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownStatCode, code)
	}
	s.apply(m, raw*s.mult)
	return nil
}
