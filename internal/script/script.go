// Package script composes the shell scripts that replay a dump.
//
// Each schema's create.sh prints its SQL to stdout wrapped in BEGIN/COMMIT. The root
// create_all.sh prints a single BEGIN/COMMIT pair and runs every schema script with
// IN_TRANS=yes, which turns the per-schema begin/commit helpers from util.sh into no-ops.
package script

import (
	"strings"

	"github.com/pgschema/schemadump/internal/layout"
)

// InTransactionVar is the environment flag set by create_all.sh for nested schema scripts
const InTransactionVar = "IN_TRANS"

// Schema returns the create.sh replay script for one schema. Files are concatenated
// in the order given: create.sql, tables, types, then functions.
func Schema(files layout.Files) string {
	var b strings.Builder

	b.WriteString("#!/bin/sh\n")
	b.WriteString(". ../" + layout.UtilScript + "\n")
	b.WriteString("# Create schema, executing this script will output the SQL schema to stdout\n\n")
	b.WriteString("begin\n")
	b.WriteString("cat ./" + layout.SchemaFile + "\n\n")

	writeSection(&b, "Tables", layout.TablesDir, files.Tables)
	writeSection(&b, "Types", layout.TypesDir, files.Types)
	writeSection(&b, "Functions", layout.FunctionsDir, files.Functions)

	b.WriteString("commit\n")
	return b.String()
}

// CreateAll returns create_all.sh, which replays every schema inside one transaction.
// It is run from the output root.
func CreateAll() string {
	var b strings.Builder

	b.WriteString("#!/bin/sh\n")
	b.WriteString("echo \"BEGIN;\"\n")
	b.WriteString("for x in */" + layout.SchemaScript + " ; do\n")
	b.WriteString("  [ -f \"$x\" ] || continue\n")
	b.WriteString("  (cd \"$(dirname \"$x\")\" && " + InTransactionVar + "=yes sh ./" + layout.SchemaScript + ") || exit 1\n")
	b.WriteString("done\n")
	b.WriteString("echo \"COMMIT;\"\n")
	return b.String()
}

// Util returns util.sh defining the begin and commit helpers
func Util() string {
	var b strings.Builder

	b.WriteString("#!/bin/sh\n\n")
	for _, fn := range []struct{ name, stmt string }{
		{"begin", "BEGIN;"},
		{"commit", "COMMIT;"},
	} {
		b.WriteString(fn.name + "() {\n")
		b.WriteString("  if [ \"$" + InTransactionVar + "\" != \"yes\" ]; then\n")
		b.WriteString("    echo \"" + fn.stmt + "\"\n")
		b.WriteString("  fi\n")
		b.WriteString("}\n\n")
	}
	return b.String()
}

func writeSection(b *strings.Builder, title, dir string, names []string) {
	b.WriteString("# " + title + "\n")
	for _, name := range names {
		b.WriteString("cat " + doubleQuote("./"+dir+"/"+name) + "\n")
	}
	b.WriteString("\n")
}

// doubleQuote wraps s for a double-quoted shell word
func doubleQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}
