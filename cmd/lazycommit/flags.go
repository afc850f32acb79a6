// Package main provides CLI flag definitions for lazycommit.
package main

import (
	"fmt"
	"os"
	"strings"

	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "debug-log",
			Aliases: []string{"d"},
			Usage:   "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "config-file",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lzc.key=value",
		},
		&urfavecli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Model ID for message generation",
		},
		&urfavecli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Commit the first generated message without review",
		},
		&urfavecli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Print the generated message instead of committing",
		},
		&urfavecli.BoolFlag{
			Name:  "no-icons",
			Usage: "Disable file icons in the staged listing",
		},
	}
}

// completeGlobalFlags provides basic completion for global flags.
// Note: urfave/cli/v2 strips the word under the cursor before invoking this,
// so only the preceding argument is available to specialise suggestions.
func completeGlobalFlags(c *urfavecli.Context) {
	// The last real argument sits before the --generate-bash-completion marker.
	if args := os.Args; len(args) >= 3 {
		switch args[len(args)-2] {
		case "-C", "--config":
			for _, key := range suggestConfigKeys("") {
				fmt.Println(key)
			}
			return
		}
	}

	for _, f := range c.App.Flags {
		if names := f.Names(); len(names) > 0 {
			fmt.Println("--" + names[0])
		}
	}
}

// suggestConfigKeys returns config key suggestions matching the prefix.
// Returns suggestions in the format "lzc.key=" for completion.
func suggestConfigKeys(prefix string) []string {
	allKeys := []string{
		"model", "base_url", "api_key", "message_style", "show_icons",
		"max_summary_chars", "debug_log", "auto_stage",
	}

	var matches []string
	for _, key := range allKeys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			matches = append(matches, "lzc."+key+"=")
		}
	}
	return matches
}
