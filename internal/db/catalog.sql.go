package db

import (
	"context"
)

const upsertCategory = `
INSERT INTO categories (api_id, name) VALUES (?, ?)
ON CONFLICT(api_id) DO UPDATE SET name = excluded.name
RETURNING id
`

type UpsertCategoryParams struct {
	ApiID string
	Name  string
}

func (q *Queries) UpsertCategory(ctx context.Context, arg UpsertCategoryParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertCategory, arg.ApiID, arg.Name)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertUnit = `
INSERT INTO units (api_id, name) VALUES (?, ?)
ON CONFLICT(api_id) DO UPDATE SET name = excluded.name
RETURNING id
`

type UpsertUnitParams struct {
	ApiID string
	Name  string
}

func (q *Queries) UpsertUnit(ctx context.Context, arg UpsertUnitParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertUnit, arg.ApiID, arg.Name)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const addUnitCategory = `
INSERT OR IGNORE INTO unit_categories (unit_id, category_id) VALUES (?, ?)
`

type AddUnitCategoryParams struct {
	UnitID     int64
	CategoryID int64
}

func (q *Queries) AddUnitCategory(ctx context.Context, arg AddUnitCategoryParams) error {
	_, err := q.db.ExecContext(ctx, addUnitCategory, arg.UnitID, arg.CategoryID)
	return err
}

const deleteUnitCategoriesByUnit = `
DELETE FROM unit_categories WHERE unit_id = ?
`

func (q *Queries) DeleteUnitCategoriesByUnit(ctx context.Context, unitID int64) error {
	_, err := q.db.ExecContext(ctx, deleteUnitCategoriesByUnit, unitID)
	return err
}

const listCategories = `
SELECT id, api_id, name FROM categories ORDER BY id
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
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

const listUnits = `
SELECT id, api_id, name FROM units ORDER BY id
`

func (q *Queries) ListUnits(ctx context.Context) ([]Unit, error) {
	rows, err := q.db.QueryContext(ctx, listUnits)
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

const getUnitByApiID = `
SELECT id, api_id, name FROM units WHERE api_id = ?
`

func (q *Queries) GetUnitByApiID(ctx context.Context, apiID string) (Unit, error) {
	row := q.db.QueryRowContext(ctx, getUnitByApiID, apiID)
	var i Unit
	err := row.Scan(&i.ID, &i.ApiID, &i.Name)
	return i, err
}

const listUnitCategoryApiIDs = `
SELECT uc.unit_id, c.api_id
FROM unit_categories uc
JOIN categories c ON c.id = uc.category_id
ORDER BY uc.unit_id, c.api_id
`

type ListUnitCategoryApiIDsRow struct {
	UnitID        int64
	CategoryApiID string
}

func (q *Queries) ListUnitCategoryApiIDs(ctx context.Context) ([]ListUnitCategoryApiIDsRow, error) {
	rows, err := q.db.QueryContext(ctx, listUnitCategoryApiIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListUnitCategoryApiIDsRow
	for rows.Next() {
		var i ListUnitCategoryApiIDsRow
		if err := rows.Scan(&i.UnitID, &i.CategoryApiID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteUnit = `
DELETE FROM units WHERE id = ?
`

func (q *Queries) DeleteUnit(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteUnit, id)
	return err
}

const deleteSkillsByUnit = `
DELETE FROM skills WHERE unit_id = ?
`

func (q *Queries) DeleteSkillsByUnit(ctx context.Context, unitID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSkillsByUnit, unitID)
	return err
}

const upsertSkill = `
INSERT INTO skills (api_id, name, unit_id, is_zeta) VALUES (?, ?, ?, ?)
ON CONFLICT(api_id) DO UPDATE SET
    name = excluded.name,
    unit_id = excluded.unit_id,
    is_zeta = excluded.is_zeta
RETURNING id
`

type UpsertSkillParams struct {
	ApiID  string
	Name   string
	UnitID int64
	IsZeta bool
}

func (q *Queries) UpsertSkill(ctx context.Context, arg UpsertSkillParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertSkill, arg.ApiID, arg.Name, arg.UnitID, arg.IsZeta)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listSkills = `
SELECT s.id, s.api_id, s.name, s.unit_id, u.api_id, s.is_zeta
FROM skills s
JOIN units u ON u.id = s.unit_id
ORDER BY s.id
`

type ListSkillsRow struct {
	ID        int64
	ApiID     string
	Name      string
	UnitID    int64
	UnitApiID string
	IsZeta    bool
}

func (q *Queries) ListSkills(ctx context.Context) ([]ListSkillsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSkills)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSkillsRow
	for rows.Next() {
		var i ListSkillsRow
		if err := rows.Scan(&i.ID, &i.ApiID, &i.Name, &i.UnitID, &i.UnitApiID, &i.IsZeta); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertGear = `
INSERT INTO gears (api_id, name, tier, required_rarity, required_level, is_left_hand_g12, is_right_hand_g12)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(api_id) DO UPDATE SET
    name = excluded.name,
    tier = excluded.tier,
    required_rarity = excluded.required_rarity,
    required_level = excluded.required_level,
    is_left_hand_g12 = excluded.is_left_hand_g12,
    is_right_hand_g12 = excluded.is_right_hand_g12
RETURNING id
`

type UpsertGearParams struct {
	ApiID          string
	Name           string
	Tier           int64
	RequiredRarity int64
	RequiredLevel  int64
	IsLeftHandG12  bool
	IsRightHandG12 bool
}

func (q *Queries) UpsertGear(ctx context.Context, arg UpsertGearParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertGear,
		arg.ApiID,
		arg.Name,
		arg.Tier,
		arg.RequiredRarity,
		arg.RequiredLevel,
		arg.IsLeftHandG12,
		arg.IsRightHandG12,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listGears = `
SELECT id, api_id, name, tier, required_rarity, required_level, is_left_hand_g12, is_right_hand_g12
FROM gears ORDER BY id
`

func (q *Queries) ListGears(ctx context.Context) ([]Gear, error) {
	rows, err := q.db.QueryContext(ctx, listGears)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Gear
	for rows.Next() {
		var i Gear
		if err := rows.Scan(
			&i.ID,
			&i.ApiID,
			&i.Name,
			&i.Tier,
			&i.RequiredRarity,
			&i.RequiredLevel,
			&i.IsLeftHandG12,
			&i.IsRightHandG12,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteGear = `
DELETE FROM gears WHERE id = ?
`

func (q *Queries) DeleteGear(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteGear, id)
	return err
}
