package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"soldi/internal/core"
)

const objectiveColumns = "id, type, description, amount_cents, start_date, end_date"

func (s *Store) InsertObjective(ctx context.Context, o core.Objective) (int64, error) {
	var id int64
	if o.ID != 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO objectives (id, type, description, amount_cents, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, string(o.Type), o.Description, o.Amount.Cents, o.StartDate.String(), o.EndDate.String())
		if err != nil {
			return 0, fmt.Errorf("insert objective: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert objective: %w", err)
		}
		if n == 0 {
			return 0, core.ErrConflict
		}
		id = o.ID
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO objectives (type, description, amount_cents, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?)`,
			string(o.Type), o.Description, o.Amount.Cents, o.StartDate.String(), o.EndDate.String())
		if err != nil {
			return 0, fmt.Errorf("insert objective: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert objective: %w", err)
		}
	}

	s.changed(ctx, KindObjective, "insert", id)
	return id, nil
}

func (s *Store) UpdateObjective(ctx context.Context, o core.Objective) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE objectives SET type = ?, description = ?, amount_cents = ?, start_date = ?, end_date = ?
		 WHERE id = ?`,
		string(o.Type), o.Description, o.Amount.Cents, o.StartDate.String(), o.EndDate.String(), o.ID)
	if err != nil {
		return fmt.Errorf("update objective: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update objective: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	s.changed(ctx, KindObjective, "update", o.ID)
	return nil
}

func (s *Store) DeleteObjective(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM objectives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete objective: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete objective: %w", err)
	}
	if n == 0 {
		return nil
	}

	s.changed(ctx, KindObjective, "delete", id)
	return nil
}

func (s *Store) GetObjective(ctx context.Context, id int64) (core.Objective, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE id = ?`, id)
	o, err := scanObjective(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Objective{}, core.ErrNotFound
	}
	if err != nil {
		return core.Objective{}, fmt.Errorf("get objective: %w", err)
	}
	return o, nil
}

// ListObjectives returns all objectives ordered by start date.
func (s *Store) ListObjectives(ctx context.Context) ([]core.Objective, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+objectiveColumns+` FROM objectives ORDER BY start_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	defer rows.Close()

	var out []core.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, fmt.Errorf("scan objective: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objectives: %w", err)
	}
	return out, nil
}

func scanObjective(row rowScanner) (core.Objective, error) {
	var (
		o          core.Objective
		typ        string
		start, end string
	)
	if err := row.Scan(&o.ID, &typ, &o.Description, &o.Amount.Cents, &start, &end); err != nil {
		return core.Objective{}, err
	}
	o.Type = core.EntryType(typ)
	var err error
	if o.StartDate, err = core.ParseDate(start); err != nil {
		return core.Objective{}, fmt.Errorf("stored start date %q: %w", start, err)
	}
	if o.EndDate, err = core.ParseDate(end); err != nil {
		return core.Objective{}, fmt.Errorf("stored end date %q: %w", end, err)
	}
	return o, nil
}
