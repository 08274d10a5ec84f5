// Package catalog reads schema metadata from the PostgreSQL system catalog.
//
// Every method issues read-only queries and returns rows in a deterministic order.
// Any query failure is returned to the caller unchanged in meaning; the reader
// never retries or skips.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgschema/schemadump/internal/ignore"
	"github.com/pgschema/schemadump/internal/logger"
)

// Querier is the subset of *sql.DB the reader needs
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Reader enumerates catalog objects for export
type Reader struct {
	db           Querier
	ignoreConfig *ignore.Config
}

// NewReader creates a catalog reader with optional ignore configuration
func NewReader(db Querier, ignoreConfig *ignore.Config) *Reader {
	return &Reader{
		db:           db,
		ignoreConfig: ignoreConfig,
	}
}

// ServerVersion returns the server_version setting of the connected server
func (r *Reader) ServerVersion(ctx context.Context) (string, error) {
	versions, err := query(ctx, r.db, serverVersionQuery, func(rows *sql.Rows) (string, error) {
		var v string
		err := rows.Scan(&v)
		return v, err
	})
	if err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("failed to read server version: no rows")
	}
	return versions[0], nil
}

// Schemas lists every user schema, skipping public, information_schema and pg_*
func (r *Reader) Schemas(ctx context.Context) ([]Schema, error) {
	schemas, err := query(ctx, r.db, schemasQuery, func(rows *sql.Rows) (Schema, error) {
		var s Schema
		err := rows.Scan(&s.Name, &s.Owner)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	filtered := schemas[:0]
	for _, s := range schemas {
		if r.ignoreConfig.ShouldIgnoreSchema(s.Name) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

// Tables lists ordinary persistent tables of a schema with name and owner filled in
func (r *Reader) Tables(ctx context.Context, schema string) ([]*Table, error) {
	tables, err := query(ctx, r.db, tablesQuery, func(rows *sql.Rows) (*Table, error) {
		t := &Table{Schema: schema}
		err := rows.Scan(&t.Name, &t.Owner)
		return t, err
	}, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in schema %s: %w", schema, err)
	}

	filtered := tables[:0]
	for _, t := range tables {
		if r.ignoreConfig.ShouldIgnoreTable(t.Name) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// Columns lists live columns of a table ordered by attribute number
func (r *Reader) Columns(ctx context.Context, schema, table string) ([]Column, error) {
	cols, err := query(ctx, r.db, columnsQuery, scanColumn, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s.%s: %w", schema, table, err)
	}
	return cols, nil
}

// Constraints lists table constraints ordered by kind descending, then name
func (r *Reader) Constraints(ctx context.Context, schema, table string) ([]Constraint, error) {
	cons, err := query(ctx, r.db, constraintsQuery, func(rows *sql.Rows) (Constraint, error) {
		var c Constraint
		err := rows.Scan(&c.Name, &c.Definition)
		return c, err
	}, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list constraints of %s.%s: %w", schema, table, err)
	}
	return cons, nil
}

// Parents lists the direct inheritance parents of a table
func (r *Reader) Parents(ctx context.Context, schema, table string) ([]Parent, error) {
	parents, err := query(ctx, r.db, parentsQuery, func(rows *sql.Rows) (Parent, error) {
		var p Parent
		err := rows.Scan(&p.Schema, &p.Name)
		return p, err
	}, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents of %s.%s: %w", schema, table, err)
	}
	return parents, nil
}

// Indexes lists the definitions of indexes not backing a constraint
func (r *Reader) Indexes(ctx context.Context, schema, table string) ([]string, error) {
	defs, err := query(ctx, r.db, indexesQuery, func(rows *sql.Rows) (string, error) {
		var def string
		err := rows.Scan(&def)
		return def, err
	}, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s.%s: %w", schema, table, err)
	}
	return defs, nil
}

// Triggers lists non-internal triggers of a table
func (r *Reader) Triggers(ctx context.Context, schema, table string) ([]Trigger, error) {
	triggers, err := query(ctx, r.db, triggersQuery, func(rows *sql.Rows) (Trigger, error) {
		var t Trigger
		err := rows.Scan(&t.Name, &t.Definition)
		return t, err
	}, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers of %s.%s: %w", schema, table, err)
	}
	return triggers, nil
}

// Types lists composite types of a schema with name and owner filled in
func (r *Reader) Types(ctx context.Context, schema string) ([]*CompositeType, error) {
	types, err := query(ctx, r.db, typesQuery, func(rows *sql.Rows) (*CompositeType, error) {
		t := &CompositeType{Schema: schema}
		err := rows.Scan(&t.Name, &t.Owner)
		return t, err
	}, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list types in schema %s: %w", schema, err)
	}

	filtered := types[:0]
	for _, t := range types {
		if r.ignoreConfig.ShouldIgnoreType(t.Name) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// TypeAttributes lists the attributes of a composite type ordered by attribute number
func (r *Reader) TypeAttributes(ctx context.Context, schema, typeName string) ([]Column, error) {
	attrs, err := query(ctx, r.db, typeAttributesQuery, scanColumn, schema, typeName)
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes of type %s.%s: %w", schema, typeName, err)
	}
	return attrs, nil
}

// Functions lists functions and procedures of a schema
func (r *Reader) Functions(ctx context.Context, schema string) ([]*Function, error) {
	funcs, err := query(ctx, r.db, functionsQuery, func(rows *sql.Rows) (*Function, error) {
		f := &Function{Schema: schema}
		var argTypes sql.NullString
		var kind string
		if err := rows.Scan(&f.Definition, &f.Name, &argTypes, &f.Owner, &f.IdentityArguments, &kind); err != nil {
			return nil, err
		}
		if argTypes.Valid {
			f.ArgTypes = argTypes.String
		}
		f.Kind = FunctionKind(kind)
		return f, nil
	}, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list functions in schema %s: %w", schema, err)
	}

	filtered := funcs[:0]
	for _, f := range funcs {
		if r.ignoreConfig.ShouldIgnoreFunction(f.Name) {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, nil
}

// LoadTable fills in columns, constraints, parents, indexes and triggers of t
func (r *Reader) LoadTable(ctx context.Context, t *Table) error {
	var err error
	if t.Columns, err = r.Columns(ctx, t.Schema, t.Name); err != nil {
		return err
	}
	if t.Constraints, err = r.Constraints(ctx, t.Schema, t.Name); err != nil {
		return err
	}
	if t.Parents, err = r.Parents(ctx, t.Schema, t.Name); err != nil {
		return err
	}
	if t.Indexes, err = r.Indexes(ctx, t.Schema, t.Name); err != nil {
		return err
	}
	if t.Triggers, err = r.Triggers(ctx, t.Schema, t.Name); err != nil {
		return err
	}
	return nil
}

// LoadSchema reads all tables, composite types and functions of a schema
func (r *Reader) LoadSchema(ctx context.Context, schema Schema) (*SchemaContents, error) {
	contents := &SchemaContents{Schema: schema}

	tables, err := r.Tables(ctx, schema.Name)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if err := r.LoadTable(ctx, t); err != nil {
			return nil, err
		}
	}
	contents.Tables = tables

	types, err := r.Types(ctx, schema.Name)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.Attributes, err = r.TypeAttributes(ctx, t.Schema, t.Name); err != nil {
			return nil, err
		}
	}
	contents.Types = types

	if contents.Functions, err = r.Functions(ctx, schema.Name); err != nil {
		return nil, err
	}

	return contents, nil
}

func scanColumn(rows *sql.Rows) (Column, error) {
	var c Column
	err := rows.Scan(&c.Position, &c.Name, &c.Type)
	return c, err
}

// query runs a catalog query and scans every row with scan, closing rows before returning
func query[T any](ctx context.Context, db Querier, q string, scan func(*sql.Rows) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if logger.IsDebug() {
		logger.Get().Debug("Catalog query returned", "rows", len(result), "args", args)
	}
	return result, nil
}
