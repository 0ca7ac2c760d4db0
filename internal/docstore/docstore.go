// Package docstore persists collection-scoped JSON documents in PostgreSQL.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Collection names a group of documents of one shape.
type Collection string

const (
	Contacts   Collection = "contacts"
	Deals      Collection = "deals"
	Properties Collection = "properties"
	Tasks      Collection = "tasks"
	Documents  Collection = "documents"
)

var ErrNotFound = errors.New("document not found")

// Record is a stored document with its envelope fields.
type Record struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Decode unmarshals the document body into dst.
func (r Record) Decode(dst any) error {
	if err := json.Unmarshal(r.Data, dst); err != nil {
		return fmt.Errorf("decoding document %s: %w", r.ID, err)
	}

	return nil
}

// Query selects documents of a collection.
// A nil Owner means every owner's records are visible.
// Filters are equality predicates on top-level document fields.
type Query struct {
	Owner   *uuid.UUID
	Filters map[string]any
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const table = "documents"

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		r    Record
		data []byte
	)

	if err := s.Scan(&r.ID, &r.OwnerID, &data, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Record{}, err
	}

	r.Data = data

	return r, nil
}

func scoped(b sq.SelectBuilder, c Collection, owner *uuid.UUID) sq.SelectBuilder {
	b = b.Where("collection = ?", string(c))
	if owner != nil {
		b = b.Where("owner_id = ?", *owner)
	}

	return b
}

func buildSelect(c Collection, q Query) (string, []any, error) {
	b := scoped(psql.Select("id", "owner_id", "data", "created_at", "updated_at").From(table), c, q.Owner)

	if len(q.Filters) > 0 {
		filter, err := json.Marshal(q.Filters)
		if err != nil {
			return "", nil, fmt.Errorf("encoding filters: %w", err)
		}

		b = b.Where("data @> ?::jsonb", string(filter))
	}

	return b.OrderBy("created_at DESC").ToSql()
}

func buildGet(c Collection, id uuid.UUID, owner *uuid.UUID) (string, []any, error) {
	b := scoped(psql.Select("id", "owner_id", "data", "created_at", "updated_at").From(table), c, owner)

	return b.Where("id = ?", id).ToSql()
}

func buildInsert(c Collection, owner uuid.UUID, data []byte) (string, []any, error) {
	return psql.Insert(table).
		Columns("collection", "owner_id", "data", "created_at").
		Values(string(c), owner, sq.Expr("?::jsonb", string(data)), sq.Expr("NOW()")).
		Suffix("RETURNING id, created_at").
		ToSql()
}

func buildUpdate(c Collection, id uuid.UUID, owner *uuid.UUID, patch []byte) (string, []any, error) {
	b := psql.Update(table).
		Set("data", sq.Expr("data || ?::jsonb", string(patch))).
		Set("updated_at", sq.Expr("NOW()")).
		Where("collection = ?", string(c)).
		Where("id = ?", id)

	if owner != nil {
		b = b.Where("owner_id = ?", *owner)
	}

	return b.Suffix("RETURNING updated_at").ToSql()
}

func buildDelete(c Collection, id uuid.UUID, owner *uuid.UUID) (string, []any, error) {
	b := psql.Delete(table).
		Where("collection = ?", string(c)).
		Where("id = ?", id)

	if owner != nil {
		b = b.Where("owner_id = ?", *owner)
	}

	return b.ToSql()
}

// Query returns matching documents, newest first.
func (s *Store) Query(ctx context.Context, c Collection, q Query) ([]Record, error) {
	query, args, err := buildSelect(c, q)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c, err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", c, err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", c, err)
	}

	return records, nil
}

func (s *Store) Get(ctx context.Context, c Collection, id uuid.UUID, owner *uuid.UUID) (Record, error) {
	query, args, err := buildGet(c, id, owner)
	if err != nil {
		return Record{}, fmt.Errorf("building query: %w", err)
	}

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}

		return Record{}, fmt.Errorf("getting %s: %w", c, err)
	}

	return r, nil
}

// Create stores doc under a newly assigned id.
func (s *Store) Create(ctx context.Context, c Collection, owner uuid.UUID, doc any) (Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encoding document: %w", err)
	}

	query, args, err := buildInsert(c, owner, data)
	if err != nil {
		return Record{}, fmt.Errorf("building insert: %w", err)
	}

	r := Record{OwnerID: owner, Data: data}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("creating %s: %w", c, err)
	}

	return r, nil
}

// Update merges patch into the stored document. Fields not present in
// patch keep their stored values; concurrent writers are last-write-wins.
func (s *Store) Update(ctx context.Context, c Collection, id uuid.UUID, owner *uuid.UUID, patch any) (time.Time, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding patch: %w", err)
	}

	query, args, err := buildUpdate(c, id, owner, data)
	if err != nil {
		return time.Time{}, fmt.Errorf("building update: %w", err)
	}

	var updatedAt time.Time
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}

		return time.Time{}, fmt.Errorf("updating %s: %w", c, err)
	}

	return updatedAt, nil
}

func (s *Store) Delete(ctx context.Context, c Collection, id uuid.UUID, owner *uuid.UUID) error {
	query, args, err := buildDelete(c, id, owner)
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", c, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", c, err)
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
