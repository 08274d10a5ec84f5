package catalog

// Schema is a namespace selected for export
type Schema struct {
	Name  string
	Owner string
}

// Column is one attribute of a table or composite type, in catalog position order
type Column struct {
	Position int
	Name     string // already quoted by quote_ident
	Type     string // format_type output, including modifiers
}

// Constraint is a table constraint with its engine-rendered definition
type Constraint struct {
	Name       string // already quoted by quote_ident
	Definition string
}

// Parent references a direct inheritance parent
type Parent struct {
	Schema string
	Name   string
}

// Trigger is a non-internal trigger with its engine-rendered definition
type Trigger struct {
	Name       string
	Definition string
}

// Table is an ordinary persistent table and everything rendered alongside it
type Table struct {
	Schema      string
	Name        string
	Owner       string
	Columns     []Column
	Constraints []Constraint
	Parents     []Parent
	Indexes     []string // stand-alone CREATE INDEX statements
	Triggers    []Trigger
}

// CompositeType is a type backed by a composite relation
type CompositeType struct {
	Schema     string
	Name       string
	Owner      string
	Attributes []Column
}

// FunctionKind distinguishes plain functions from procedures
type FunctionKind string

const (
	KindFunction  FunctionKind = "f"
	KindProcedure FunctionKind = "p"
	KindWindow    FunctionKind = "w"
)

// Function is a function or procedure with its full CREATE OR REPLACE text
type Function struct {
	Schema            string
	Name              string
	Owner             string
	Kind              FunctionKind
	IdentityArguments string
	Definition        string
	// ArgTypes joins the argument type names with "_"; empty when niladic.
	ArgTypes string
}

// SchemaContents is everything read for one schema, in enumeration order
type SchemaContents struct {
	Schema    Schema
	Tables    []*Table
	Types     []*CompositeType
	Functions []*Function
}
