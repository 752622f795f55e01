package db

import (
	"database/sql"
	"time"
)

type Category struct {
	ID    int64
	ApiID string
	Name  string
}

type Unit struct {
	ID    int64
	ApiID string
	Name  string
}

type Skill struct {
	ID     int64
	ApiID  string
	Name   string
	UnitID int64
	IsZeta bool
}

type Gear struct {
	ID             int64
	ApiID          string
	Name           string
	Tier           int64
	RequiredRarity int64
	RequiredLevel  int64
	IsLeftHandG12  bool
	IsRightHandG12 bool
}

type Guild struct {
	ID          int64
	ApiID       string
	Name        string
	Gp          int64
	LastUpdated time.Time
}

type Player struct {
	ID          int64
	ApiID       string
	GuildID     sql.NullInt64
	AllyCode    int64
	Name        string
	Level       int64
	Gp          int64
	GpChar      int64
	GpShip      int64
	LastUpdated time.Time
}

type PlayerUnit struct {
	ID                    int64
	PlayerID              int64
	UnitID                int64
	Gp                    int64
	Rarity                int64
	Level                 int64
	Gear                  int64
	EquippedCount         int64
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
	LastUpdated           time.Time
}

type Mod struct {
	ID                int64
	ApiID             string
	PlayerUnitID      sql.NullInt64
	ModSet            int64
	Slot              int64
	Level             int64
	Pips              int64
	Tier              int64
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

type GpSnapshot struct {
	ID          string
	UnitID      int64
	PlayerApiID string
	Gp          int64
	CreatedAt   time.Time
}

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
