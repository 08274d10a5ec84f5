// Package layout persists rendered objects under the output root:
//
//	<root>/create_all.sh
//	<root>/util.sh
//	<root>/<schema>/create.sql
//	<root>/<schema>/create.sh
//	<root>/<schema>/tables/<table>.sql
//	<root>/<schema>/types/<type>.sql
//	<root>/<schema>/functions/<name>[_<argtypes>].sql
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	TablesDir       = "tables"
	TypesDir        = "types"
	FunctionsDir    = "functions"
	SchemaFile      = "create.sql"
	SchemaScript    = "create.sh"
	CreateAllScript = "create_all.sh"
	UtilScript      = "util.sh"
)

const (
	dirMode    = 0755
	fileMode   = 0644
	scriptMode = 0755
)

// Files lists the file names written per category, in write order.
// The order is the concatenation order of the schema replay script.
type Files struct {
	Tables    []string
	Types     []string
	Functions []string
}

// Writer owns the output root directory
type Writer struct {
	root string
}

// NewWriter creates the output root if needed
func NewWriter(root string) (*Writer, error) {
	if err := os.MkdirAll(root, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", root, err)
	}
	return &Writer{root: root}, nil
}

// Root returns the output root directory
func (w *Writer) Root() string {
	return w.root
}

// Schema creates <root>/<schema>/ and its category directories
func (w *Writer) Schema(name string) (*SchemaWriter, error) {
	dir := filepath.Join(w.root, sanitizeFileName(name))
	for _, sub := range []string{TablesDir, TypesDir, FunctionsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), dirMode); err != nil {
			return nil, fmt.Errorf("failed to create directory for schema %s: %w", name, err)
		}
	}
	return &SchemaWriter{dir: dir, used: map[string]bool{}}, nil
}

// WriteRootScripts writes create_all.sh and util.sh
func (w *Writer) WriteRootScripts(createAll, util string) error {
	if err := writeFile(filepath.Join(w.root, CreateAllScript), createAll, scriptMode); err != nil {
		return err
	}
	return writeFile(filepath.Join(w.root, UtilScript), util, scriptMode)
}

// SchemaWriter writes the files of one schema and remembers their names
type SchemaWriter struct {
	dir   string
	files Files
	used  map[string]bool
}

// Dir returns <root>/<schema>
func (s *SchemaWriter) Dir() string {
	return s.dir
}

// Files returns the names written so far, per category
func (s *SchemaWriter) Files() Files {
	return s.files
}

// WriteCreate writes create.sql
func (s *SchemaWriter) WriteCreate(sql string) error {
	return writeFile(filepath.Join(s.dir, SchemaFile), sql, fileMode)
}

// WriteScript writes the schema replay script create.sh
func (s *SchemaWriter) WriteScript(script string) error {
	return writeFile(filepath.Join(s.dir, SchemaScript), script, scriptMode)
}

// WriteTable writes tables/<table>.sql and returns its path
func (s *SchemaWriter) WriteTable(name, sql string) (string, error) {
	fileName := s.claim(TablesDir, TableFileName(name))
	path := filepath.Join(s.dir, TablesDir, fileName)
	if err := writeFile(path, sql, fileMode); err != nil {
		return "", err
	}
	s.files.Tables = append(s.files.Tables, fileName)
	return path, nil
}

// WriteType writes types/<type>.sql and returns its path
func (s *SchemaWriter) WriteType(name, sql string) (string, error) {
	fileName := s.claim(TypesDir, TypeFileName(name))
	path := filepath.Join(s.dir, TypesDir, fileName)
	if err := writeFile(path, sql, fileMode); err != nil {
		return "", err
	}
	s.files.Types = append(s.files.Types, fileName)
	return path, nil
}

// WriteFunction writes functions/<name>[_<argtypes>].sql and returns its path
func (s *SchemaWriter) WriteFunction(name, argTypes, sql string) (string, error) {
	fileName := s.claim(FunctionsDir, FunctionFileName(name, argTypes))
	path := filepath.Join(s.dir, FunctionsDir, fileName)
	if err := writeFile(path, sql, fileMode); err != nil {
		return "", err
	}
	s.files.Functions = append(s.files.Functions, fileName)
	return path, nil
}

// claim reserves fileName inside category. A second object mapping to the same name
// (overloads whose argument types share a name across schemas) gets a numeric suffix.
func (s *SchemaWriter) claim(category, fileName string) string {
	key := category + "/" + fileName
	if !s.used[key] {
		s.used[key] = true
		return fileName
	}
	base := strings.TrimSuffix(fileName, ".sql")
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + ".sql"
		key = category + "/" + candidate
		if !s.used[key] {
			s.used[key] = true
			return candidate
		}
	}
}

// TableFileName returns the file name for a table
func TableFileName(name string) string {
	return sanitizeFileName(name) + ".sql"
}

// TypeFileName returns the file name for a composite type
func TypeFileName(name string) string {
	return sanitizeFileName(name) + ".sql"
}

// FunctionFileName returns the file name for a function. The argument type suffix
// disambiguates overloads and is omitted for niladic functions.
func FunctionFileName(name, argTypes string) string {
	if argTypes == "" {
		return sanitizeFileName(name) + ".sql"
	}
	return sanitizeFileName(name+"_"+argTypes) + ".sql"
}

// sanitizeFileName keeps the object name as-is except for characters that cannot
// appear in a single path element
func sanitizeFileName(name string) string {
	return strings.NewReplacer("/", "_", "\x00", "_").Replace(name)
}

// writeFile creates or truncates path and writes content, closing it before returning
func writeFile(path, content string, mode os.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", path, err)
	}
	// OpenFile only applies mode to new files; keep scripts executable on rerun
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	return nil
}
