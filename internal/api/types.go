package api

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CategoryData struct {
	ID      string `json:"id"`
	DescKey string `json:"descKey"`
}

type UnitData struct {
	BaseID             string         `json:"baseId"`
	NameKey            string         `json:"nameKey"`
	CombatType         int            `json:"combatType"`
	CategoryIDList     []string       `json:"categoryIdList"`
	SkillReferenceList []SkillRefData `json:"skillReferenceList"`
}

type SkillRefData struct {
	SkillID string `json:"skillId"`
}

type SkillData struct {
	ID               string `json:"id"`
	AbilityReference string `json:"abilityReference"`
	SkillType        any    `json:"skillType"`
	IsZeta           bool   `json:"isZeta"`
}

type AbilityData struct {
	ID          string `json:"id"`
	NameKey     string `json:"nameKey"`
	AbilityType any    `json:"abilityType"`
}

type GearData struct {
	ID             string `json:"id"`
	NameKey        string `json:"nameKey"`
	Tier           int    `json:"tier"`
	RequiredRarity int    `json:"requiredRarity"`
	RequiredLevel  int    `json:"requiredLevel"`
}

type GuildData struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	GP     int64         `json:"gp"`
	Roster []GuildMember `json:"roster"`
}

type GuildMember struct {
	ID       string `json:"id"`
	AllyCode int    `json:"allyCode"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	GP       int64  `json:"gp"`
	GPChar   int64  `json:"gpChar"`
	GPShip   int64  `json:"gpShip"`
}

type PlayerData struct {
	ID         string       `json:"id"`
	AllyCode   int          `json:"allyCode"`
	Name       string       `json:"name"`
	Level      int          `json:"level"`
	GuildRefID string       `json:"guildRefId"`
	Updated    int64        `json:"updated"`
	Stats      []PlayerStat `json:"stats"`
	Roster     []RosterUnit `json:"roster"`
}

// PlayerStat entries are positional: galactic power, character power, ship power.
type PlayerStat struct {
	NameKey string `json:"nameKey"`
	Index   int    `json:"index"`
	Value   int64  `json:"value"`
}

type RosterUnit struct {
	ID         string          `json:"id"`
	DefID      string          `json:"defId"`
	CombatType int             `json:"combatType"`
	GP         *int64          `json:"gp"`
	Rarity     int             `json:"rarity"`
	Level      int             `json:"level"`
	Gear       int             `json:"gear"`
	Equipped   []EquippedGear  `json:"equipped"`
	Skills     []RosterSkill   `json:"skills"`
	Mods       []RosterMod     `json:"mods"`
	Stats      RosterUnitStats `json:"stats"`
}

type EquippedGear struct {
	EquipmentID string `json:"equipmentId"`
	Slot        int    `json:"slot"`
}

type RosterSkill struct {
	ID     string `json:"id"`
	Tier   int    `json:"tier"`
	IsZeta bool   `json:"isZeta"`
}

// RosterUnitStats holds the calculated stats keyed by display name, for
// example "Speed" or "Physical Critical Chance". Stats that are structurally
// zero for a unit are omitted upstream.
type RosterUnitStats struct {
	Final map[string]float64 `json:"final"`
	Mods  map[string]float64 `json:"mods"`
}

type RosterMod struct {
	ID            string    `json:"id"`
	Set           int       `json:"set"`
	Slot          int       `json:"slot"` // 1-based upstream
	Level         int       `json:"level"`
	Pips          int       `json:"pips"`
	Tier          int       `json:"tier"`
	PrimaryStat   ModStat   `json:"primaryStat"`
	SecondaryStat []ModStat `json:"secondaryStat"`
}

type ModStat struct {
	UnitStat int     `json:"unitStat"`
	Value    float64 `json:"value"`
}
