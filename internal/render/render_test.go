package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/schemadump/internal/catalog"
)

func TestSchema(t *testing.T) {
	got := Schema(catalog.Schema{Name: "billing", Owner: "alice"})
	want := "CREATE SCHEMA IF NOT EXISTS billing AUTHORIZATION alice;\n\n"
	if got != want {
		t.Errorf("Schema() = %q, want %q", got, want)
	}
}

func TestTable(t *testing.T) {
	tests := []struct {
		name  string
		table *catalog.Table
		want  string
	}{
		{
			name: "columns constraint and index",
			table: &catalog.Table{
				Schema: "billing",
				Name:   "invoices",
				Owner:  "alice",
				Columns: []catalog.Column{
					{Position: 1, Name: "id", Type: "integer"},
					{Position: 2, Name: "total", Type: "numeric(10,2)"},
				},
				Constraints: []catalog.Constraint{
					{Name: "invoices_pkey", Definition: "PRIMARY KEY (id)"},
				},
				Indexes: []string{
					"CREATE INDEX invoices_total_idx ON billing.invoices USING btree (total)",
				},
			},
			want: "CREATE TABLE IF NOT EXISTS \"billing\".\"invoices\" (\n" +
				"  id INTEGER,\n" +
				"  total NUMERIC(10,2),\n" +
				"  CONSTRAINT invoices_pkey PRIMARY KEY (id)\n" +
				");\n\n" +
				"ALTER TABLE \"billing\".\"invoices\" OWNER TO alice;\n\n" +
				"CREATE INDEX invoices_total_idx ON billing.invoices USING btree (total);\n\n",
		},
		{
			name: "catalog order is kept over alphabetical order",
			table: &catalog.Table{
				Schema: "hr",
				Name:   "people",
				Owner:  "bob",
				Columns: []catalog.Column{
					{Position: 1, Name: "id", Type: "bigint"},
					{Position: 2, Name: "name", Type: "text"},
					{Position: 3, Name: "age", Type: "smallint"},
				},
			},
			want: "CREATE TABLE IF NOT EXISTS \"hr\".\"people\" (\n" +
				"  id BIGINT,\n" +
				"  name TEXT,\n" +
				"  age SMALLINT\n" +
				");\n\n" +
				"ALTER TABLE \"hr\".\"people\" OWNER TO bob;\n\n",
		},
		{
			name: "constraints keep the given order",
			table: &catalog.Table{
				Schema: "s",
				Name:   "t",
				Owner:  "o",
				Columns: []catalog.Column{
					{Position: 1, Name: "a", Type: "integer"},
				},
				Constraints: []catalog.Constraint{
					{Name: "a_uniq", Definition: "UNIQUE (a)"},
					{Name: "b_fk", Definition: "FOREIGN KEY (a) REFERENCES s.other(id)"},
				},
			},
			want: "CREATE TABLE IF NOT EXISTS \"s\".\"t\" (\n" +
				"  a INTEGER,\n" +
				"  CONSTRAINT a_uniq UNIQUE (a),\n" +
				"  CONSTRAINT b_fk FOREIGN KEY (a) REFERENCES s.other(id)\n" +
				");\n\n" +
				"ALTER TABLE \"s\".\"t\" OWNER TO o;\n\n",
		},
		{
			name: "constraints without columns",
			table: &catalog.Table{
				Schema: "s",
				Name:   "t",
				Owner:  "o",
				Constraints: []catalog.Constraint{
					{Name: "c1", Definition: "CHECK (true)"},
					{Name: "c2", Definition: "CHECK (false)"},
				},
			},
			want: "CREATE TABLE IF NOT EXISTS \"s\".\"t\" (\n" +
				"  CONSTRAINT c1 CHECK (true),\n" +
				"  CONSTRAINT c2 CHECK (false)\n" +
				");\n\n" +
				"ALTER TABLE \"s\".\"t\" OWNER TO o;\n\n",
		},
		{
			name: "inheritance and trigger",
			table: &catalog.Table{
				Schema: "s",
				Name:   "child",
				Owner:  "o",
				Columns: []catalog.Column{
					{Position: 1, Name: "id", Type: "integer"},
				},
				Parents: []catalog.Parent{
					{Schema: "s", Name: "base"},
					{Schema: "other", Name: "\"Mixed\""},
				},
				Triggers: []catalog.Trigger{
					{Name: "audit", Definition: "CREATE TRIGGER audit AFTER INSERT ON s.child FOR EACH ROW EXECUTE FUNCTION s.audit()"},
				},
			},
			want: "CREATE TABLE IF NOT EXISTS \"s\".\"child\" (\n" +
				"  id INTEGER\n" +
				")\n" +
				"INHERITS (s.base)\n" +
				"INHERITS (other.\"Mixed\");\n\n" +
				"ALTER TABLE \"s\".\"child\" OWNER TO o;\n\n" +
				"CREATE TRIGGER audit AFTER INSERT ON s.child FOR EACH ROW EXECUTE FUNCTION s.audit();\n\n",
		},
		{
			name: "no columns at all",
			table: &catalog.Table{
				Schema: "s",
				Name:   "empty",
				Owner:  "o",
			},
			want: "CREATE TABLE IF NOT EXISTS \"s\".\"empty\" (\n" +
				"\n" +
				");\n\n" +
				"ALTER TABLE \"s\".\"empty\" OWNER TO o;\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Table(tt.table)); diff != "" {
				t.Errorf("Table() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompositeType(t *testing.T) {
	ct := &catalog.CompositeType{
		Schema: "geo",
		Name:   "point3",
		Owner:  "carol",
		Attributes: []catalog.Column{
			{Position: 1, Name: "x", Type: "double precision"},
			{Position: 2, Name: "y", Type: "double precision"},
			{Position: 3, Name: "label", Type: "character varying(20)"},
		},
	}
	want := "CREATE TYPE \"geo\".\"point3\" AS (\n" +
		"  x DOUBLE PRECISION,\n" +
		"  y DOUBLE PRECISION,\n" +
		"  label CHARACTER VARYING(20)\n" +
		");\n\n" +
		"ALTER TYPE \"geo\".\"point3\" OWNER TO carol;\n\n"

	if diff := cmp.Diff(want, CompositeType(ct)); diff != "" {
		t.Errorf("CompositeType() mismatch (-want +got):\n%s", diff)
	}
}

func TestFunction(t *testing.T) {
	def := "CREATE OR REPLACE FUNCTION geo.area(c geo.circle)\n RETURNS double precision\n LANGUAGE sql\nAS $function$ SELECT 3.14 $function$\n"

	tests := []struct {
		name string
		fn   *catalog.Function
		want string
	}{
		{
			name: "function",
			fn: &catalog.Function{
				Schema:            "geo",
				Name:              "area",
				Owner:             "carol",
				Kind:              catalog.KindFunction,
				IdentityArguments: "c geo.circle",
				Definition:        def,
				ArgTypes:          "circle",
			},
			want: def + ";\n\n" + "ALTER FUNCTION geo.area(c geo.circle) OWNER TO carol;\n\n",
		},
		{
			name: "procedure",
			fn: &catalog.Function{
				Schema:     "ops",
				Name:       "vacuum_all",
				Owner:      "dba",
				Kind:       catalog.KindProcedure,
				Definition: "CREATE OR REPLACE PROCEDURE ops.vacuum_all()\n LANGUAGE sql\nAS $procedure$ SELECT 1 $procedure$\n",
			},
			want: "CREATE OR REPLACE PROCEDURE ops.vacuum_all()\n LANGUAGE sql\nAS $procedure$ SELECT 1 $procedure$\n;\n\n" +
				"ALTER PROCEDURE ops.vacuum_all() OWNER TO dba;\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Function(tt.fn)); diff != "" {
				t.Errorf("Function() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		schema, name, want string
	}{
		{"billing", "invoices", `"billing"."invoices"`},
		{"Billing", "Invoice Lines", `"Billing"."Invoice Lines"`},
		{"s", `we"ird`, `"s"."we""ird"`},
	}
	for _, tt := range tests {
		if got := QualifiedName(tt.schema, tt.name); got != tt.want {
			t.Errorf("QualifiedName(%q, %q) = %s, want %s", tt.schema, tt.name, got, tt.want)
		}
	}
}
