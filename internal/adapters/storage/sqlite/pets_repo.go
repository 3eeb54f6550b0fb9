// Package sqlite guarda las mascotas en un archivo SQLite (driver pure-Go de modernc).
// Pensado para correr la API en local sin levantar Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pawgrammers/internal/domain/pets"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var (
	ErrNotFound = pets.ErrNotFound
)

const schema = `CREATE TABLE IF NOT EXISTS pets (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	breed       TEXT NOT NULL,
	age         INTEGER NULL,
	picture_url TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
)`

// Open abre (o crea) el archivo y aplica el schema.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "pets.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializa escrituras; una sola conexión evita "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pets table: %w", err)
	}
	return db, nil
}

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (id, name, breed, age, picture_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Breed, toNullInt(p.Age), p.PictureURL,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert pet: %w", err)
	}
	return nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets SET name = ?, breed = ?, age = ?, picture_url = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Breed, toNullInt(p.Age), p.PictureURL, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return 0, fmt.Errorf("delete pet: %w", err)
	}
	return res.RowsAffected()
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, breed, age, picture_url, created_at, updated_at
		FROM pets WHERE id = ?`, strings.TrimSpace(id))

	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, breed, age, picture_url, created_at, updated_at
		FROM pets ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("select pets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p                    pets.Pet
		age                  sql.NullInt64
		createdAt, updatedAt string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Breed, &age, &p.PictureURL, &createdAt, &updatedAt); err != nil {
		return pets.Pet{}, err
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return pets.Pet{}, fmt.Errorf("scan created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return pets.Pet{}, fmt.Errorf("scan updated_at: %w", err)
	}
	return p, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
