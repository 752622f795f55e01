package server

import (
	"swgoh-tracker/internal/domain"
	"time"
)

type AllyCodeRequest struct {
	AllyCode string `json:"ally_code"`
}

type GuildStatsRequest struct {
	GuildID string `json:"guild_id"`
}

type PlayerUnitsRequest struct {
	AllyCode string   `json:"ally_code"`
	Units    []string `json:"units,omitempty"`
}

type ListMedaledUnitsRequest struct{}

type Guild struct {
	APIID       string    `json:"api_id"`
	Name        string    `json:"name"`
	GP          int64     `json:"gp"`
	LastUpdated time.Time `json:"last_updated"`
}

type Player struct {
	APIID       string    `json:"api_id"`
	AllyCode    int       `json:"ally_code"`
	Name        string    `json:"name"`
	Level       int       `json:"level"`
	GP          int64     `json:"gp"`
	GPChar      int64     `json:"gp_char"`
	GPShip      int64     `json:"gp_ship"`
	LastUpdated time.Time `json:"last_updated"`
}

type Rollup struct {
	GP                        int64 `json:"gp"`
	GPChar                    int64 `json:"gp_char"`
	GPShip                    int64 `json:"gp_ship"`
	UnitCount                 int64 `json:"unit_count"`
	SevenStarUnitCount        int64 `json:"seven_star_unit_count"`
	G13UnitCount              int64 `json:"g13_unit_count"`
	G12UnitCount              int64 `json:"g12_unit_count"`
	G11UnitCount              int64 `json:"g11_unit_count"`
	G10UnitCount              int64 `json:"g10_unit_count"`
	ZetaCount                 int64 `json:"zeta_count"`
	G12GearCount              int64 `json:"g12_gear_count"`
	LeftHandG12GearCountOnly  int64 `json:"left_hand_g12_gear_count_only"`
	RightHandG12GearCountOnly int64 `json:"right_hand_g12_gear_count_only"`
	LeftHandG12GearCount      int64 `json:"left_hand_g12_gear_count"`
	RightHandG12GearCount     int64 `json:"right_hand_g12_gear_count"`
	ModCount                  int64 `json:"mod_count"`
	ModCount6Dot              int64 `json:"mod_count_6dot"`
	ModCountSpeed25           int64 `json:"mod_count_speed_25"`
	ModCountSpeed20           int64 `json:"mod_count_speed_20"`
	ModCountSpeed15           int64 `json:"mod_count_speed_15"`
	ModCountSpeed10           int64 `json:"mod_count_speed_10"`
	ModTotalSpeed15Plus       int64 `json:"mod_total_speed_15plus"`
	FactionAGP                int64 `json:"faction_a_gp"`
	FactionBGP                int64 `json:"faction_b_gp"`
}

type PlayerStatsResponse struct {
	Player Player `json:"player"`
	Stats  Rollup `json:"stats"`
}

type GuildStatsResponse struct {
	Guild       Guild                 `json:"guild"`
	PlayerCount int64                 `json:"player_count"`
	Stats       Rollup                `json:"stats"`
	Players     []PlayerStatsResponse `json:"players"`
}

type PlayerUnit struct {
	UnitAPIID     string  `json:"unit_api_id"`
	UnitName      string  `json:"unit_name"`
	GP            int64   `json:"gp"`
	Rarity        int     `json:"rarity"`
	Level         int     `json:"level"`
	Gear          int     `json:"gear"`
	EquippedCount int     `json:"equipped_count"`
	Speed         int64   `json:"speed"`
	Health        int64   `json:"health"`
	Protection    int64   `json:"protection"`
	Potency       float64 `json:"potency"`
	Tenacity      float64 `json:"tenacity"`
	CritDamage    float64 `json:"crit_damage"`
	ModSpeed      int64   `json:"mod_speed"`
	ModSpeedNoSet int64   `json:"mod_speed_no_set"`
	ZetaCount     int64   `json:"zeta_count"`
}

type PlayerUnitsResponse struct {
	Units map[string]PlayerUnit `json:"units"`
}

type RefreshGuildResponse struct {
	Guild   Guild `json:"guild"`
	Stored  int   `json:"stored"`
	Failed  int   `json:"failed"`
	Removed int   `json:"removed"`
}

type PlayerResponse struct {
	Player Player `json:"player"`
}

type StatRule struct {
	Stat  string  `json:"stat"`
	Value float64 `json:"value"`
}

type MedaledUnit struct {
	UnitAPIID string     `json:"unit_api_id"`
	UnitName  string     `json:"unit_name"`
	StatRules []StatRule `json:"stat_rules"`
	ZetaRules int        `json:"zeta_rules"`
}

type ListMedaledUnitsResponse struct {
	Units []MedaledUnit `json:"units"`
}

type UnitMedals struct {
	UnitAPIID string `json:"unit_api_id"`
	UnitName  string `json:"unit_name"`
	Earned    int    `json:"earned"`
	Total     int    `json:"total"`
}

type PlayerMedalsResponse struct {
	Units []UnitMedals `json:"units"`
}

func toGuild(g domain.Guild) Guild {
	return Guild{
		APIID:       g.APIID,
		Name:        g.Name,
		GP:          g.GP,
		LastUpdated: g.LastUpdated,
	}
}

func toPlayer(p domain.Player) Player {
	return Player{
		APIID:       p.APIID,
		AllyCode:    p.AllyCode,
		Name:        p.Name,
		Level:       p.Level,
		GP:          p.GP,
		GPChar:      p.GPChar,
		GPShip:      p.GPShip,
		LastUpdated: p.LastUpdated,
	}
}

func toRollup(r domain.Rollup) Rollup {
	return Rollup{
		GP:                        r.GP,
		GPChar:                    r.GPChar,
		GPShip:                    r.GPShip,
		UnitCount:                 r.UnitCount,
		SevenStarUnitCount:        r.SevenStarUnitCount,
		G13UnitCount:              r.G13UnitCount,
		G12UnitCount:              r.G12UnitCount,
		G11UnitCount:              r.G11UnitCount,
		G10UnitCount:              r.G10UnitCount,
		ZetaCount:                 r.ZetaCount,
		G12GearCount:              r.G12GearCount,
		LeftHandG12GearCountOnly:  r.LeftHandG12GearCountOnly,
		RightHandG12GearCountOnly: r.RightHandG12GearCountOnly,
		LeftHandG12GearCount:      r.LeftHandG12GearCount,
		RightHandG12GearCount:     r.RightHandG12GearCount,
		ModCount:                  r.ModCount,
		ModCount6Dot:              r.ModCount6Dot,
		ModCountSpeed25:           r.ModCountSpeed25,
		ModCountSpeed20:           r.ModCountSpeed20,
		ModCountSpeed15:           r.ModCountSpeed15,
		ModCountSpeed10:           r.ModCountSpeed10,
		ModTotalSpeed15Plus:       r.ModTotalSpeed15Plus,
		FactionAGP:                r.FactionAGP,
		FactionBGP:                r.FactionBGP,
	}
}

func toPlayerStats(ps domain.PlayerStats) PlayerStatsResponse {
	return PlayerStatsResponse{Player: toPlayer(ps.Player), Stats: toRollup(ps.Rollup)}
}

func toPlayerUnit(u domain.PlayerUnitStats) PlayerUnit {
	return PlayerUnit{
		UnitAPIID:     u.UnitAPIID,
		UnitName:      u.UnitName,
		GP:            u.GP,
		Rarity:        u.Rarity,
		Level:         u.Level,
		Gear:          u.Gear,
		EquippedCount: u.EquippedCount,
		Speed:         u.Speed,
		Health:        u.Health,
		Protection:    u.Protection,
		Potency:       u.Potency,
		Tenacity:      u.Tenacity,
		CritDamage:    u.CritDamage,
		ModSpeed:      u.ModSpeed,
		ModSpeedNoSet: u.ModSpeedNoSet,
		ZetaCount:     u.ZetaCount,
	}
}
