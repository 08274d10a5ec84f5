package catalog

// Catalog queries. Identifier columns that end up inside rendered SQL are passed through
// quote_ident, type names through format_type, and definitions through the pg_get_*def
// functions, so the renderer can emit them verbatim.
const (
	serverVersionQuery = `SELECT current_setting('server_version')`

	schemasQuery = `
SELECT n.nspname, pg_get_userbyid(n.nspowner)
FROM pg_namespace n
WHERE n.nspname <> 'public'
  AND n.nspname <> 'information_schema'
  AND n.nspname !~ '^pg_'
ORDER BY n.nspname`

	tablesQuery = `
SELECT c.relname, pg_get_userbyid(c.relowner)
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1
  AND c.relkind = 'r'
  AND c.relpersistence = 'p'
ORDER BY c.relname`

	columnsQuery = `
SELECT a.attnum, quote_ident(a.attname), format_type(a.atttypid, a.atttypmod)
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
JOIN pg_attribute a ON a.attrelid = c.oid
WHERE n.nspname = $1
  AND c.relname = $2
  AND a.attnum > 0
  AND NOT a.attisdropped
ORDER BY a.attnum`

	constraintsQuery = `
SELECT quote_ident(con.conname), pg_get_constraintdef(con.oid)
FROM pg_constraint con
JOIN pg_class r ON r.oid = con.conrelid
JOIN pg_namespace n ON n.oid = r.relnamespace
WHERE n.nspname = $1
  AND r.relname = $2
ORDER BY con.contype DESC, con.conname`

	parentsQuery = `
SELECT quote_ident(pn.nspname), quote_ident(p.relname)
FROM pg_inherits i
JOIN pg_class c ON c.oid = i.inhrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
JOIN pg_class p ON p.oid = i.inhparent
JOIN pg_namespace pn ON pn.oid = p.relnamespace
WHERE n.nspname = $1
  AND c.relname = $2
ORDER BY i.inhseqno`

	// Indexes that back a primary key, unique or exclusion constraint are rendered by
	// the constraint clause already.
	indexesQuery = `
SELECT pg_get_indexdef(ic.oid)
FROM pg_index i
JOIN pg_class ic ON ic.oid = i.indexrelid AND ic.relkind = 'i'
JOIN pg_class c ON c.oid = i.indrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1
  AND c.relname = $2
  AND NOT EXISTS (
    SELECT 1 FROM pg_constraint con
    WHERE con.conrelid = i.indrelid
      AND con.conindid = i.indexrelid
      AND con.contype IN ('p', 'u', 'x')
  )
ORDER BY ic.relname`

	triggersQuery = `
SELECT t.tgname, pg_get_triggerdef(t.oid)
FROM pg_trigger t
JOIN pg_class r ON r.oid = t.tgrelid
JOIN pg_namespace n ON n.oid = r.relnamespace
WHERE NOT t.tgisinternal
  AND n.nspname = $1
  AND r.relname = $2
ORDER BY t.tgname`

	typesQuery = `
SELECT t.typname, pg_get_userbyid(t.typowner)
FROM pg_type t
JOIN pg_namespace n ON n.oid = t.typnamespace
JOIN pg_class r ON r.oid = t.typrelid
WHERE t.typtype = 'c'
  AND r.relkind = 'c'
  AND n.nspname = $1
ORDER BY t.typname`

	typeAttributesQuery = `
SELECT a.attnum, quote_ident(a.attname), format_type(a.atttypid, a.atttypmod)
FROM pg_type t
JOIN pg_namespace n ON n.oid = t.typnamespace
JOIN pg_class c ON c.oid = t.typrelid
JOIN pg_attribute a ON a.attrelid = c.oid
WHERE n.nspname = $1
  AND c.relname = $2
  AND a.attnum > 0
  AND NOT a.attisdropped
ORDER BY a.attnum`

	// Aggregates are skipped because pg_get_functiondef rejects them; extension members
	// are recreated by CREATE EXTENSION, not by the dump.
	functionsQuery = `
SELECT pg_get_functiondef(p.oid),
       p.proname,
       (SELECT string_agg(t.typname, '_' ORDER BY u.ord)
          FROM unnest(p.proargtypes) WITH ORDINALITY AS u(v, ord)
          JOIN pg_type t ON t.oid = u.v) AS argtypes,
       pg_get_userbyid(p.proowner),
       pg_get_function_identity_arguments(p.oid),
       p.prokind::text
FROM pg_proc p
JOIN pg_namespace n ON n.oid = p.pronamespace
WHERE n.nspname = $1
  AND p.prokind <> 'a'
  AND NOT EXISTS (
    SELECT 1 FROM pg_depend d
    WHERE d.classid = 'pg_proc'::regclass
      AND d.objid = p.oid
      AND d.deptype = 'e'
  )
ORDER BY p.proname, argtypes, pg_get_function_identity_arguments(p.oid) COLLATE "C", p.oid`
)
