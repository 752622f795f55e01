package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownStatCode  = errors.New("unknown mod stat code")
	ErrUnknownModSet    = errors.New("unknown mod set")
	ErrMissingReference = errors.New("missing reference entity")
)

type Category struct {
	ID    int64
	APIID string
	Name  string
}

type Unit struct {
	ID         int64
	APIID      string
	Name       string
	Categories []string // category api ids
}

type Skill struct {
	ID        int64
	APIID     string
	Name      string
	UnitID    int64
	UnitAPIID string
	IsZeta    bool
}

type Gear struct {
	ID             int64
	APIID          string
	Name           string
	Tier           int
	RequiredRarity int
	RequiredLevel  int
	IsLeftHandG12  bool
	IsRightHandG12 bool
}

type Guild struct {
	ID          int64
	APIID       string
	Name        string
	GP          int64
	LastUpdated time.Time
}

type Player struct {
	ID          int64
	APIID       string
	GuildID     *int64
	AllyCode    int
	Name        string
	Level       int
	GP          int64
	GPChar      int64
	GPShip      int64
	LastUpdated time.Time
}

// PlayerUnit is one player's instance of a unit. Mod* fields hold the part of
// each stat contributed by equipped mods only.
type PlayerUnit struct {
	ID            int64
	PlayerID      int64
	UnitID        int64
	GP            int64
	Rarity        int
	Level         int
	Gear          int
	EquippedCount int

	Speed                 int64
	Health                int64
	Protection            int64
	PhysicalDamage        int64
	PhysicalCritChance    float64
	SpecialDamage         int64
	SpecialCritChance     float64
	CritDamage            float64
	Potency               float64
	Tenacity              float64
	Armor                 float64
	Resistance            float64
	ArmorPenetration      int64
	ResistancePenetration int64
	HealthSteal           float64
	Accuracy              float64

	ModSpeed              int64
	ModHealth             int64
	ModProtection         int64
	ModPhysicalDamage     int64
	ModSpecialDamage      int64
	ModPhysicalCritChance float64
	ModSpecialCritChance  float64
	ModCritDamage         float64
	ModPotency            float64
	ModTenacity           float64
	ModArmor              float64
	ModResistance         float64
	ModCriticalAvoidance  float64
	ModAccuracy           float64

	LastUpdated time.Time
}

type Zeta struct {
	ID           int64
	PlayerUnitID int64
	SkillID      int64
}

type PlayerUnitGear struct {
	ID           int64
	PlayerUnitID int64
	GearID       int64
}

type GPSnapshot struct {
	ID          string // nanoid
	UnitID      int64
	PlayerAPIID string
	GP          int64
	CreatedAt   time.Time
}

// PlayerSnapshot is one player's complete upstream state, already normalized.
// Storing it replaces everything previously held for that player.
type PlayerSnapshot struct {
	Player Player
	Units  []UnitSnapshot
}

// UnitSnapshot references catalog rows by api id; they are resolved when the
// snapshot is stored.
type UnitSnapshot struct {
	UnitAPIID       string
	PlayerUnit      PlayerUnit
	ZetaSkillAPIIDs []string
	GearAPIIDs      []string
	Mods            []Mod
}

// PlayerRowCounts counts the rows owned by one player.
type PlayerRowCounts struct {
	PlayerUnits     int64
	Zetas           int64
	PlayerUnitGears int64
	Mods            int64
}
