package util

import (
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

var RequiredFlags = map[*string]string{}

// RequiredFlag(dirsPtr, "dirs"), also accepts "-dirs" and "--dirs"
func RequiredFlag(flagPointer *string, cliName string) {
	name := normalizeFlagName(cliName)
	RequiredFlags[flagPointer] = name
}

func normalizeFlagName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "--") {
		return s
	}
	if strings.HasPrefix(s, "-") {
		// single dash → double dash
		return "-" + s
	}
	return "--" + s
}

// MissingFlags returns the names of required flags that are empty.
func MissingFlags() (missing []string) {
	for flagPointer, cliName := range RequiredFlags {
		if flagPointer == nil || strings.TrimSpace(*flagPointer) == "" {
			missing = append(missing, cliName)
		}
	}
	return missing
}

// EnsureFlags logs every missing required flag and exits(1) if any were missing.
func EnsureFlags() {
	missing := MissingFlags()
	for _, cliName := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
	}
	if len(missing) > 0 {
		os.Exit(1)
	}
}

/*
SplitList splits a comma separated flag value.

Items are trimmed and empty items dropped, so "a, b,,c" gives [a b c].
Order is preserved.
*/
func SplitList(value string) (items []string) {
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
