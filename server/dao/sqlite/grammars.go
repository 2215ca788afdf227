package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/synparse/server/dao"
	"github.com/google/uuid"
)

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		source TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, name, description, source, created, modified) VALUES (?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID), g.Name, g.Description, g.Source, convertToDB_Time(now), convertToDB_Time(now),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, description, source, created, modified FROM grammars ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		var g dao.Grammar
		var id string
		var created, modified int64

		if err := rows.Scan(&id, &g.Name, &g.Description, &g.Source, &created, &modified); err != nil {
			return nil, wrapDBError(err)
		}
		if err := convertFromDB_UUID(id, &g.ID); err != nil {
			return all, err
		}
		convertFromDB_Time(created, &g.Created)
		convertFromDB_Time(modified, &g.Modified)

		all = append(all, g)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g := dao.Grammar{ID: id}
	var created, modified int64

	row := repo.db.QueryRowContext(ctx, `SELECT name, description, source, created, modified FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	if err := row.Scan(&g.Name, &g.Description, &g.Source, &created, &modified); err != nil {
		return g, wrapDBError(err)
	}
	convertFromDB_Time(created, &g.Created)
	convertFromDB_Time(modified, &g.Modified)

	return g, nil
}

func (repo *GrammarsDB) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	g := dao.Grammar{Name: name}
	var id string
	var created, modified int64

	row := repo.db.QueryRowContext(ctx, `SELECT id, description, source, created, modified FROM grammars WHERE name = ?;`, name)
	if err := row.Scan(&id, &g.Description, &g.Source, &created, &modified); err != nil {
		return g, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return g, err
	}
	convertFromDB_Time(created, &g.Created)
	convertFromDB_Time(modified, &g.Modified)

	return g, nil
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE grammars SET id=?, name=?, description=?, source=?, modified=? WHERE id=?;`,
		convertToDB_UUID(g.ID), g.Name, g.Description, g.Source, convertToDB_Time(time.Now()), convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, g.ID)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *GrammarsDB) Close() error {
	return nil
}
