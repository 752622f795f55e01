package domain

import "sort"

type StatMedalRule struct {
	ID     int64
	UnitID int64
	Stat   string
	Value  float64
}

type ZetaMedalRule struct {
	ID      int64
	UnitID  int64
	SkillID int64
}

// MedaledUnit is a unit whose configured rule count makes it eligible for medals.
type MedaledUnit struct {
	Unit      Unit
	StatRules []StatMedalRule
	ZetaRules []ZetaMedalRule
}

type PlayerUnitMedals struct {
	UnitAPIID string
	UnitName  string
	Earned    int
	Total     int
}

var medalStats = map[string]func(pu *PlayerUnit) float64{
	"level":                func(pu *PlayerUnit) float64 { return float64(pu.Level) },
	"gear":                 func(pu *PlayerUnit) float64 { return float64(pu.Gear) },
	"rarity":               func(pu *PlayerUnit) float64 { return float64(pu.Rarity) },
	"speed":                func(pu *PlayerUnit) float64 { return float64(pu.Speed) },
	"health":               func(pu *PlayerUnit) float64 { return float64(pu.Health) },
	"protection":           func(pu *PlayerUnit) float64 { return float64(pu.Protection) },
	"physical_damage":      func(pu *PlayerUnit) float64 { return float64(pu.PhysicalDamage) },
	"physical_crit_chance": func(pu *PlayerUnit) float64 { return pu.PhysicalCritChance },
	"special_damage":       func(pu *PlayerUnit) float64 { return float64(pu.SpecialDamage) },
	"special_crit_chance":  func(pu *PlayerUnit) float64 { return pu.SpecialCritChance },
	"crit_damage":          func(pu *PlayerUnit) float64 { return pu.CritDamage },
	"potency":              func(pu *PlayerUnit) float64 { return pu.Potency },
	"tenacity":             func(pu *PlayerUnit) float64 { return pu.Tenacity },
	"mod_speed":            func(pu *PlayerUnit) float64 { return float64(pu.ModSpeed) },
	"mod_potency":          func(pu *PlayerUnit) float64 { return pu.ModPotency },
	"mod_tenacity":         func(pu *PlayerUnit) float64 { return pu.ModTenacity },
}

// MedalStats lists the player unit stats a stat rule may reference.
func MedalStats() []string {
	out := make([]string, 0, len(medalStats))
	for k := range medalStats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func IsMedalStat(stat string) bool {
	_, ok := medalStats[stat]
	return ok
}

// Satisfied reports whether pu meets the rule. Unknown stats never match.
func (r StatMedalRule) Satisfied(pu *PlayerUnit) bool {
	get, ok := medalStats[r.Stat]
	if !ok {
		return false
	}
	return get(pu) >= r.Value
}

// UnitMedalRules is the configured rule set for one unit, referenced by api
// ids.
type UnitMedalRules struct {
	UnitAPIID string           `yaml:"unit"`
	Stats     []StatRuleConfig `yaml:"stats"`
	Zetas     []string         `yaml:"zetas"`
}

type StatRuleConfig struct {
	Stat  string  `yaml:"stat"`
	Value float64 `yaml:"value"`
}

// RuleCount is the number of rules configured for the unit.
func (u UnitMedalRules) RuleCount() int {
	return len(u.Stats) + len(u.Zetas)
}
