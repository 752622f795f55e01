package db

import (
	"context"
)

const deleteStatMedalRulesByUnit = `
DELETE FROM stat_medal_rules WHERE unit_id = ?
`

func (q *Queries) DeleteStatMedalRulesByUnit(ctx context.Context, unitID int64) error {
	_, err := q.db.ExecContext(ctx, deleteStatMedalRulesByUnit, unitID)
	return err
}

const deleteZetaMedalRulesByUnit = `
DELETE FROM zeta_medal_rules WHERE unit_id = ?
`

func (q *Queries) DeleteZetaMedalRulesByUnit(ctx context.Context, unitID int64) error {
	_, err := q.db.ExecContext(ctx, deleteZetaMedalRulesByUnit, unitID)
	return err
}

const insertStatMedalRule = `
INSERT INTO stat_medal_rules (unit_id, stat, value) VALUES (?, ?, ?)
`

type InsertStatMedalRuleParams struct {
	UnitID int64
	Stat   string
	Value  float64
}

func (q *Queries) InsertStatMedalRule(ctx context.Context, arg InsertStatMedalRuleParams) error {
	_, err := q.db.ExecContext(ctx, insertStatMedalRule, arg.UnitID, arg.Stat, arg.Value)
	return err
}

const insertZetaMedalRule = `
INSERT INTO zeta_medal_rules (unit_id, skill_id) VALUES (?, ?)
`

type InsertZetaMedalRuleParams struct {
	UnitID  int64
	SkillID int64
}

func (q *Queries) InsertZetaMedalRule(ctx context.Context, arg InsertZetaMedalRuleParams) error {
	_, err := q.db.ExecContext(ctx, insertZetaMedalRule, arg.UnitID, arg.SkillID)
	return err
}

const listMedaledUnits = `
SELECT u.id, u.api_id, u.name
FROM units u
WHERE (SELECT COUNT(*) FROM stat_medal_rules s WHERE s.unit_id = u.id)
    + (SELECT COUNT(*) FROM zeta_medal_rules z WHERE z.unit_id = u.id) = ?
ORDER BY u.name
`

func (q *Queries) ListMedaledUnits(ctx context.Context, ruleCount int64) ([]Unit, error) {
	rows, err := q.db.QueryContext(ctx, listMedaledUnits, ruleCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Unit
	for rows.Next() {
		var i Unit
		if err := rows.Scan(&i.ID, &i.ApiID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listStatMedalRules = `
SELECT id, unit_id, stat, value FROM stat_medal_rules ORDER BY unit_id, id
`

func (q *Queries) ListStatMedalRules(ctx context.Context) ([]StatMedalRule, error) {
	rows, err := q.db.QueryContext(ctx, listStatMedalRules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StatMedalRule
	for rows.Next() {
		var i StatMedalRule
		if err := rows.Scan(&i.ID, &i.UnitID, &i.Stat, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listZetaMedalRules = `
SELECT id, unit_id, skill_id FROM zeta_medal_rules ORDER BY unit_id, id
`

func (q *Queries) ListZetaMedalRules(ctx context.Context) ([]ZetaMedalRule, error) {
	rows, err := q.db.QueryContext(ctx, listZetaMedalRules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ZetaMedalRule
	for rows.Next() {
		var i ZetaMedalRule
		if err := rows.Scan(&i.ID, &i.UnitID, &i.SkillID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
