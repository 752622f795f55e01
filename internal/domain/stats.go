package domain

import "reflect"

// Rollup holds the derived statistics shared by players and guilds. Values are
// computed on read and never stored.
type Rollup struct {
	GP     int64
	GPChar int64
	GPShip int64

	UnitCount          int64
	SevenStarUnitCount int64
	G13UnitCount       int64
	G12UnitCount       int64
	G11UnitCount       int64
	G10UnitCount       int64
	ZetaCount          int64

	G12GearCount              int64
	LeftHandG12GearCountOnly  int64
	RightHandG12GearCountOnly int64
	LeftHandG12GearCount      int64
	RightHandG12GearCount     int64

	ModCount            int64
	ModCount6Dot        int64
	ModCountSpeed25     int64
	ModCountSpeed20     int64
	ModCountSpeed15     int64
	ModCountSpeed10     int64
	ModTotalSpeed15Plus int64

	FactionAGP int64
	FactionBGP int64
}

// Add accumulates o into r field by field.
func (r *Rollup) Add(o Rollup) {
	r.GP += o.GP
	r.GPChar += o.GPChar
	r.GPShip += o.GPShip
	r.UnitCount += o.UnitCount
	r.SevenStarUnitCount += o.SevenStarUnitCount
	r.G13UnitCount += o.G13UnitCount
	r.G12UnitCount += o.G12UnitCount
	r.G11UnitCount += o.G11UnitCount
	r.G10UnitCount += o.G10UnitCount
	r.ZetaCount += o.ZetaCount
	r.G12GearCount += o.G12GearCount
	r.LeftHandG12GearCountOnly += o.LeftHandG12GearCountOnly
	r.RightHandG12GearCountOnly += o.RightHandG12GearCountOnly
	r.LeftHandG12GearCount += o.LeftHandG12GearCount
	r.RightHandG12GearCount += o.RightHandG12GearCount
	r.ModCount += o.ModCount
	r.ModCount6Dot += o.ModCount6Dot
	r.ModCountSpeed25 += o.ModCountSpeed25
	r.ModCountSpeed20 += o.ModCountSpeed20
	r.ModCountSpeed15 += o.ModCountSpeed15
	r.ModCountSpeed10 += o.ModCountSpeed10
	r.ModTotalSpeed15Plus += o.ModTotalSpeed15Plus
	r.FactionAGP += o.FactionAGP
	r.FactionBGP += o.FactionBGP
}

// Diff returns the names of the fields whose values differ between r and o.
func (r Rollup) Diff(o Rollup) []string {
	a, b := reflect.ValueOf(r), reflect.ValueOf(o)
	var fields []string
	for i := 0; i < a.NumField(); i++ {
		if a.Field(i).Int() != b.Field(i).Int() {
			fields = append(fields, a.Type().Field(i).Name)
		}
	}
	return fields
}

type PlayerStats struct {
	Player Player
	Rollup
}

type GuildStats struct {
	Guild       Guild
	PlayerCount int64
	Rollup
}

// PlayerUnitStats is a player unit annotated with its unit identity and a few
// per-unit aggregates.
type PlayerUnitStats struct {
	PlayerUnit
	UnitAPIID      string
	UnitName       string
	PlayerName     string
	PlayerAllyCode int
	ModSpeedNoSet  int64
	ZetaCount      int64
}
