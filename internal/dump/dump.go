// Package dump drives a full export: read each schema from the catalog, render every
// object, write it under the output root, then compose the replay scripts.
package dump

import (
	"context"
	"fmt"

	"github.com/pgschema/schemadump/internal/catalog"
	"github.com/pgschema/schemadump/internal/layout"
	"github.com/pgschema/schemadump/internal/logger"
	"github.com/pgschema/schemadump/internal/render"
	"github.com/pgschema/schemadump/internal/script"
	"golang.org/x/sync/errgroup"
)

// Source is the catalog access a dump needs; *catalog.Reader implements it
type Source interface {
	Schemas(ctx context.Context) ([]catalog.Schema, error)
	LoadSchema(ctx context.Context, schema catalog.Schema) (*catalog.SchemaContents, error)
}

// SchemaSummary counts the objects written for one schema
type SchemaSummary struct {
	Name      string
	Files     layout.Files
	Tables    int
	Types     int
	Functions int
}

// Summary describes a completed dump
type Summary struct {
	Root    string
	Schemas []SchemaSummary
}

// Dumper exports every schema of a Source into an output directory
type Dumper struct {
	source Source
	writer *layout.Writer
	jobs   int
}

// New creates a Dumper. jobs bounds how many schemas are read from the catalog at
// once; values below 1 mean one at a time.
func New(source Source, writer *layout.Writer, jobs int) *Dumper {
	if jobs < 1 {
		jobs = 1
	}
	return &Dumper{
		source: source,
		writer: writer,
		jobs:   jobs,
	}
}

// Run performs the dump. Output is written in schema enumeration order regardless
// of jobs, so repeated runs against an unchanged catalog produce identical files.
func (d *Dumper) Run(ctx context.Context) (*Summary, error) {
	log := logger.Get()

	schemas, err := d.source.Schemas(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("Schemas selected for dump", "count", len(schemas))

	contents, err := d.load(ctx, schemas)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Root: d.writer.Root()}
	for _, c := range contents {
		s, err := d.writeSchema(c)
		if err != nil {
			return nil, err
		}
		log.Info("Dumped schema",
			"schema", s.Name,
			"tables", s.Tables,
			"types", s.Types,
			"functions", s.Functions,
		)
		summary.Schemas = append(summary.Schemas, *s)
	}

	if err := d.writer.WriteRootScripts(script.CreateAll(), script.Util()); err != nil {
		return nil, err
	}

	return summary, nil
}

// load reads all schemas with at most d.jobs in flight, keeping enumeration order
func (d *Dumper) load(ctx context.Context, schemas []catalog.Schema) ([]*catalog.SchemaContents, error) {
	contents := make([]*catalog.SchemaContents, len(schemas))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.jobs)
	for i, s := range schemas {
		eg.Go(func() error {
			logger.Get().Debug("Reading schema", "schema", s.Name)
			c, err := d.source.LoadSchema(ctx, s)
			if err != nil {
				return fmt.Errorf("failed to read schema %s: %w", s.Name, err)
			}
			contents[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return contents, nil
}

// writeSchema renders and writes one schema's objects, then its replay script
func (d *Dumper) writeSchema(c *catalog.SchemaContents) (*SchemaSummary, error) {
	sw, err := d.writer.Schema(c.Schema.Name)
	if err != nil {
		return nil, err
	}

	if err := sw.WriteCreate(render.Schema(c.Schema)); err != nil {
		return nil, err
	}

	for _, t := range c.Tables {
		if _, err := sw.WriteTable(t.Name, render.Table(t)); err != nil {
			return nil, fmt.Errorf("failed to write table %s.%s: %w", t.Schema, t.Name, err)
		}
	}
	for _, t := range c.Types {
		if _, err := sw.WriteType(t.Name, render.CompositeType(t)); err != nil {
			return nil, fmt.Errorf("failed to write type %s.%s: %w", t.Schema, t.Name, err)
		}
	}
	for _, f := range c.Functions {
		if _, err := sw.WriteFunction(f.Name, f.ArgTypes, render.Function(f)); err != nil {
			return nil, fmt.Errorf("failed to write function %s.%s: %w", f.Schema, f.Name, err)
		}
	}

	files := sw.Files()
	if err := sw.WriteScript(script.Schema(files)); err != nil {
		return nil, err
	}

	return &SchemaSummary{
		Name:      c.Schema.Name,
		Files:     files,
		Tables:    len(files.Tables),
		Types:     len(files.Types),
		Functions: len(files.Functions),
	}, nil
}
