package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Flags holds parsed flag values keyed by flag name.
type Flags map[string]interface{}

// String returns a string flag, or "" when unset.
func (f Flags) String(name string) string {
	v, _ := f[name].(string)
	return v
}

// Bool returns a bool flag.
func (f Flags) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}

// Int returns an int flag.
func (f Flags) Int(name string) int {
	v, _ := f[name].(int)
	return v
}

// Float returns a float flag.
func (f Flags) Float(name string) float64 {
	v, _ := f[name].(float64)
	return v
}

// Strings returns a repeatable string flag.
func (f Flags) Strings(name string) []string {
	v, _ := f[name].([]string)
	return v
}

// Handler executes a command with its parsed args and flag values.
type Handler func(cmd *cobra.Command, args []string, flags Flags) error

// NameCompleter supplies completions for "names" arguments. The CLI sets it
// to read document names from the match store.
var NameCompleter func(cmd *cobra.Command, toComplete string) []string

// GenerateCobraCommand creates a Cobra command from registry metadata.
// Use, Short, Long, Args, flags and completion come from the registry;
// the handler holds the command logic.
func GenerateCobraCommand(name string, handler Handler) *cobra.Command {
	meta, ok := Registry[name]
	if !ok {
		return nil
	}

	use := name
	for _, arg := range meta.Args {
		if arg.Required {
			use += fmt.Sprintf(" <%s>", arg.Name)
		} else {
			use += fmt.Sprintf(" [%s]", arg.Name)
		}
	}

	minArgs := 0
	maxArgs := len(meta.Args)
	for _, arg := range meta.Args {
		if arg.Required {
			minArgs++
		}
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: meta.Description,
		Long:  LongDescription(meta),
	}

	if minArgs == maxArgs {
		if minArgs == 0 {
			cmd.Args = cobra.NoArgs
		} else {
			cmd.Args = cobra.ExactArgs(minArgs)
		}
	} else {
		cmd.Args = cobra.RangeArgs(minArgs, maxArgs)
	}

	for _, flag := range meta.Flags {
		switch flag.Type {
		case FlagTypeBool:
			cmd.Flags().Bool(flag.Name, flag.Default == "true", flag.Description)
		case FlagTypeInt:
			defaultInt, _ := strconv.Atoi(flag.Default)
			cmd.Flags().Int(flag.Name, defaultInt, flag.Description)
		case FlagTypeFloat:
			defaultFloat, _ := strconv.ParseFloat(flag.Default, 64)
			cmd.Flags().Float64(flag.Name, defaultFloat, flag.Description)
		case FlagTypeStringSlice:
			// StringArray for repeatable string flags
			cmd.Flags().StringArray(flag.Name, nil, flag.Description)
		default:
			cmd.Flags().String(flag.Name, flag.Default, flag.Description)
		}

		if flag.Short != "" {
			cmd.Flags().Lookup(flag.Name).Shorthand = flag.Short
		}
	}

	if len(meta.Args) > 0 {
		cmd.ValidArgsFunction = generateCompletionFunc(meta.Args)
	}

	if handler != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return handler(cmd, args, collectFlags(cmd, meta.Flags))
		}
	}

	return cmd
}

func collectFlags(cmd *cobra.Command, defs []FlagMeta) Flags {
	flags := make(Flags, len(defs))
	for _, flag := range defs {
		switch flag.Type {
		case FlagTypeBool:
			val, _ := cmd.Flags().GetBool(flag.Name)
			flags[flag.Name] = val
		case FlagTypeInt:
			val, _ := cmd.Flags().GetInt(flag.Name)
			flags[flag.Name] = val
		case FlagTypeFloat:
			val, _ := cmd.Flags().GetFloat64(flag.Name)
			flags[flag.Name] = val
		case FlagTypeStringSlice:
			val, _ := cmd.Flags().GetStringArray(flag.Name)
			flags[flag.Name] = val
		default:
			val, _ := cmd.Flags().GetString(flag.Name)
			flags[flag.Name] = val
		}
	}
	return flags
}

// LongDescription builds --help text from the long description and examples.
func LongDescription(meta Meta) string {
	longDesc := meta.Description
	if meta.LongDesc != "" {
		longDesc = meta.LongDesc
	}
	if len(meta.Examples) == 0 {
		return longDesc
	}

	var b strings.Builder
	b.WriteString(longDesc)
	b.WriteString("\n\nExamples:\n")
	for _, ex := range meta.Examples {
		b.WriteString("  ")
		b.WriteString(ex)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// generateCompletionFunc creates a shell completion function based on arg metadata.
func generateCompletionFunc(args []ArgMeta) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, completedArgs []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		argIndex := len(completedArgs)
		if argIndex >= len(args) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		arg := args[argIndex]

		if len(arg.Completions) > 0 {
			var matches []string
			for _, c := range arg.Completions {
				if strings.HasPrefix(c, toComplete) {
					matches = append(matches, c)
				}
			}
			return matches, cobra.ShellCompDirectiveNoFileComp
		}

		switch arg.DynamicComp {
		case "names":
			if NameCompleter == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return NameCompleter(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		case "files":
			return nil, cobra.ShellCompDirectiveDefault
		case "dirs":
			return nil, cobra.ShellCompDirectiveFilterDirs
		}

		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

// ResolveCommandID resolves a CLI command path to a registry command ID.
func ResolveCommandID(path string) (string, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", false
	}
	if _, ok := Registry[trimmed]; ok {
		return trimmed, true
	}
	underscored := strings.ReplaceAll(trimmed, " ", "_")
	if _, ok := Registry[underscored]; ok {
		return underscored, true
	}
	return "", false
}

// LookupMetaByPath resolves a CLI command path and returns the registry metadata.
func LookupMetaByPath(path string) (string, Meta, bool) {
	id, ok := ResolveCommandID(path)
	if !ok {
		return "", Meta{}, false
	}
	return id, Registry[id], true
}

// AllCommandNames returns all registered command names.
func AllCommandNames() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	return names
}
