// Package commands provides a central registry of pastesearch CLI commands.
// This registry is the single source of truth for command metadata: usage,
// help text, flags and shell completion all come from here.
package commands

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Command name (e.g., "search", "paste")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples
	// Rootless commands run without resolving a search root.
	Rootless bool
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string   // Argument name
	Description string   // Description
	Required    bool     // Is this argument required?
	Completions []string // Static completions (if any)
	DynamicComp string   // Dynamic completion type: "names", "files", "dirs"
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "threshold", "stdin")
	Short       string   // Short flag (e.g., "t" for -t)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
	Examples    []string // Example values
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString      FlagType = "string"
	FlagTypeBool        FlagType = "bool"
	FlagTypeInt         FlagType = "int"
	FlagTypeFloat       FlagType = "float"
	FlagTypeStringSlice FlagType = "stringSlice" // For repeatable string flags
)

var inputFlags = []FlagMeta{
	{Name: "from-file", Short: "f", Description: "Read the text from a file instead of the clipboard", Type: FlagTypeString, Examples: []string{"snippet.txt"}},
	{Name: "stdin", Description: "Read the text from standard input", Type: FlagTypeBool},
}

// Registry holds all registered commands.
var Registry = map[string]Meta{
	"search": {
		Name:        "search",
		Description: "Locate the clipboard text in the files under the root",
		LongDesc: `Searches every text file under the root for the clipboard text.

Strategies run in order: literal, whole-file, normalized line endings,
trimmed whitespace, anchored similarity and stripped carriage returns.
Every match is validated against the file, ranked, and saved so that
'pastesearch paste' can write replacement text to the same place later.

When nothing matches, the previous results are kept.`,
		Flags: append([]FlagMeta{
			{Name: "threshold", Short: "t", Description: "Minimum anchored similarity score, 0-100 (default from .pastesearch.yaml)", Type: FlagTypeFloat, Default: "0"},
			{Name: "strategy", Short: "s", Description: "Run only this strategy (repeatable)", Type: FlagTypeStringSlice, Examples: []string{"literal", "anchored"}},
			{Name: "limit", Short: "n", Description: "Maximum number of matches to print", Type: FlagTypeInt, Default: "20"},
		}, inputFlags...),
		Examples: []string{
			"pastesearch search",
			"pastesearch search --threshold 60",
			"pbpaste | pastesearch search --stdin",
			"pastesearch search -f snippet.txt --strategy literal --strategy normalized",
		},
	},
	"paste": {
		Name:        "paste",
		Description: "Replace the best stored match with the clipboard text",
		LongDesc: `Writes the clipboard text over the best match from the last search.

With a name, the best match in that document is used instead. The file is
read again first: if it changed since the search, the text is relocated
before writing. The original is copied into a Backup directory next to the
file, and the written range is read back to verify it.`,
		Args: []ArgMeta{
			{Name: "name", Description: "Document name from the last search", DynamicComp: "names"},
		},
		Flags: append([]FlagMeta{
			{Name: "no-backup", Description: "Write without copying the file to the backup directory first", Type: FlagTypeBool},
			{Name: "dry-run", Description: "Resolve the target range without writing", Type: FlagTypeBool},
		}, inputFlags...),
		Examples: []string{
			"pastesearch paste",
			"pastesearch paste config.json",
			"pastesearch paste notes.txt --dry-run --json",
		},
	},
	"matches": {
		Name:        "matches",
		Description: "List the stored matches from the last search",
		LongDesc: `Lists the ranked matches saved by the last search.

With a name, shows the best match for that document. If the document has
no match, the documents that do are listed instead.`,
		Args: []ArgMeta{
			{Name: "name", Description: "Document name to look up", DynamicComp: "names"},
		},
		Flags: []FlagMeta{
			{Name: "limit", Short: "n", Description: "Maximum number of matches to print (0 = all)", Type: FlagTypeInt, Default: "0"},
		},
		Examples: []string{
			"pastesearch matches",
			"pastesearch matches notes.txt --json",
		},
	},
	"show": {
		Name:        "show",
		Description: "Show the text around the best stored match",
		Args: []ArgMeta{
			{Name: "name", Description: "Document name to show", DynamicComp: "names"},
		},
		Flags: []FlagMeta{
			{Name: "raw", Description: "Print the context as plain text", Type: FlagTypeBool},
		},
		Examples: []string{
			"pastesearch show",
			"pastesearch show config.json --raw",
		},
	},
	"diagnose": {
		Name:        "diagnose",
		Description: "Explain how the clipboard text compares with one file",
		LongDesc: `Reports what the search sees in one file: encoding and byte-order mark,
line-ending census, literal and normalized probes with their mapped
offsets, the anchored score, and how the stored best match lines up.`,
		Args: []ArgMeta{
			{Name: "file", Description: "File to inspect", Required: true, DynamicComp: "files"},
		},
		Flags: inputFlags,
		Examples: []string{
			"pastesearch diagnose notes.txt",
			"pastesearch diagnose config.json --stdin --json < snippet.txt",
		},
	},
	"init": {
		Name:        "init",
		Description: "Set up a directory as a search root",
		Rootless:    true,
		LongDesc: `Writes a commented .pastesearch.yaml into the directory and registers it
as a named root in the global config. The first registered root becomes
the default.`,
		Args: []ArgMeta{
			{Name: "path", Description: "Directory to set up (default: current directory)", DynamicComp: "dirs"},
		},
		Flags: []FlagMeta{
			{Name: "name", Description: "Root name in config.toml (default: directory name)", Type: FlagTypeString},
		},
		Examples: []string{
			"pastesearch init",
			"pastesearch init ~/src/site --name site",
		},
	},
	"roots": {
		Name:        "roots",
		Description: "List the roots configured in config.toml",
		Rootless:    true,
	},
	"version": {
		Name:        "version",
		Description: "Show version, build, strategy and match store information",
		Rootless:    true,
	},
}
