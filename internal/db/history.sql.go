package db

import (
	"context"
	"time"
)

const listGuildUnitGp = `
SELECT pu.unit_id, p.api_id, pu.gp
FROM player_units pu
JOIN players p ON p.id = pu.player_id
JOIN guilds g ON g.id = p.guild_id
WHERE g.api_id = ?
`

type ListGuildUnitGpRow struct {
	UnitID      int64
	PlayerApiID string
	Gp          int64
}

func (q *Queries) ListGuildUnitGp(ctx context.Context, guildApiID string) ([]ListGuildUnitGpRow, error) {
	rows, err := q.db.QueryContext(ctx, listGuildUnitGp, guildApiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListGuildUnitGpRow
	for rows.Next() {
		var i ListGuildUnitGpRow
		if err := rows.Scan(&i.UnitID, &i.PlayerApiID, &i.Gp); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertGpSnapshot = `
INSERT INTO gp_snapshots (id, unit_id, player_api_id, gp, created_at) VALUES (?, ?, ?, ?, ?)
`

type InsertGpSnapshotParams struct {
	ID          string
	UnitID      int64
	PlayerApiID string
	Gp          int64
	CreatedAt   time.Time
}

func (q *Queries) InsertGpSnapshot(ctx context.Context, arg InsertGpSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, insertGpSnapshot, arg.ID, arg.UnitID, arg.PlayerApiID, arg.Gp, arg.CreatedAt)
	return err
}

const listGpSnapshotsByPlayer = `
SELECT id, unit_id, player_api_id, gp, created_at
FROM gp_snapshots
WHERE player_api_id = ?
ORDER BY created_at, unit_id
`

func (q *Queries) ListGpSnapshotsByPlayer(ctx context.Context, playerApiID string) ([]GpSnapshot, error) {
	rows, err := q.db.QueryContext(ctx, listGpSnapshotsByPlayer, playerApiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GpSnapshot
	for rows.Next() {
		var i GpSnapshot
		if err := rows.Scan(&i.ID, &i.UnitID, &i.PlayerApiID, &i.Gp, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
