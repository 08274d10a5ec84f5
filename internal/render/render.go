// Package render turns catalog metadata into the SQL text written to each output file.
//
// Rendering is pure: no catalog access and no I/O. Catalog-provided fragments
// (constraint, index, trigger and function definitions) are emitted verbatim since
// the server's own formatting functions already quoted them. Only the wrapper lines
// built here quote schema and object names, with simple double quoting.
package render

import (
	"fmt"
	"strings"

	"github.com/pgschema/schemadump/internal/catalog"
)

// Schema renders the create.sql statement for a schema
func Schema(s catalog.Schema) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s AUTHORIZATION %s;\n\n", s.Name, s.Owner)
}

// Table renders a table together with its ownership, indexes and triggers
func Table(t *catalog.Table) string {
	var b strings.Builder
	name := QualifiedName(t.Schema, t.Name)

	lines := make([]string, 0, len(t.Columns)+len(t.Constraints))
	lines = append(lines, columnLines(t.Columns)...)
	for _, c := range t.Constraints {
		lines = append(lines, "  CONSTRAINT "+c.Name+" "+c.Definition)
	}

	b.WriteString("CREATE TABLE IF NOT EXISTS " + name + " (\n")
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	for _, p := range t.Parents {
		b.WriteString("\nINHERITS (" + p.Schema + "." + p.Name + ")")
	}
	b.WriteString(";\n\n")

	b.WriteString("ALTER TABLE " + name + " OWNER TO " + t.Owner + ";\n\n")

	for _, idx := range t.Indexes {
		b.WriteString(idx + ";\n\n")
	}
	for _, trg := range t.Triggers {
		b.WriteString(trg.Definition + ";\n\n")
	}

	return b.String()
}

// CompositeType renders a composite type and its ownership
func CompositeType(t *catalog.CompositeType) string {
	var b strings.Builder
	name := QualifiedName(t.Schema, t.Name)

	b.WriteString("CREATE TYPE " + name + " AS (\n")
	b.WriteString(strings.Join(columnLines(t.Attributes), ",\n"))
	b.WriteString("\n);\n\n")
	b.WriteString("ALTER TYPE " + name + " OWNER TO " + t.Owner + ";\n\n")

	return b.String()
}

// Function renders a function or procedure definition and its ownership
func Function(f *catalog.Function) string {
	keyword := "FUNCTION"
	if f.Kind == catalog.KindProcedure {
		keyword = "PROCEDURE"
	}

	var b strings.Builder
	b.WriteString(f.Definition + ";\n\n")
	b.WriteString(fmt.Sprintf("ALTER %s %s.%s(%s) OWNER TO %s;\n\n", keyword, f.Schema, f.Name, f.IdentityArguments, f.Owner))
	return b.String()
}

// QualifiedName renders "schema"."name", doubling any embedded double quote
func QualifiedName(schema, name string) string {
	return quote(schema) + "." + quote(name)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// columnLines formats columns in the order given, upper-casing the type text
func columnLines(cols []catalog.Column) []string {
	lines := make([]string, 0, len(cols))
	for _, c := range cols {
		lines = append(lines, "  "+c.Name+" "+strings.ToUpper(c.Type))
	}
	return lines
}
