package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
Sections holds the raw JSON of every top-level key in the config file.

Each package decodes its own section (see Section) and then merges in its
defaults, so the config file can omit whole sections or single fields.
*/
var Sections = map[string]json.RawMessage{}

/*
CheckIfEnvVarsPresent loads a .env file from the working directory (if there
is one) and then makes sure every listed variable is set.

Missing variables are all logged before exiting with status 1.
*/
func CheckIfEnvVarsPresent(names ...string) {
	loadErr := godotenv.Load()
	if loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
		tl.Log(tl.Warning, palette.YellowBold, "Unable to load %s file: '%s'", ".env", loadErr)
	}

	missing := false
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s env variable is %s", name, "required")
			missing = true
		}
	}
	if missing {
		os.Exit(1)
	}
}

/*
InitializeConfig reads the JSON config file at configPath into Sections.

A missing file is not an error: every package falls back to its defaults.
A file that exists but cannot be read or parsed is fatal.
*/
func InitializeConfig(configPath string) {
	Sections = map[string]json.RawMessage{}

	configBytes, readErr := os.ReadFile(configPath)
	if errors.Is(readErr, os.ErrNotExist) {
		tl.Log(tl.Info, palette.Purple, "Config file '%s' is %s, using %s", configPath, "not present", "default values")
		return
	}
	xerr.QuitIfError(readErr, fmt.Sprintf("Unable to read config file '%s'", configPath))

	unmarshalErr := json.Unmarshal(configBytes, &Sections)
	xerr.QuitIfError(unmarshalErr, fmt.Sprintf("Unable to parse config file '%s'", configPath))

	tl.Log(tl.Info, palette.Green, "Loaded config file '%s' (%s sections)", configPath, fmt.Sprintf("%d", len(Sections)))
}

/*
Section decodes the named config section into target.

It returns false when the section is absent, leaving target untouched.
*/
func Section(name string, target any) (found bool, e *xerr.Error) {
	raw, ok := Sections[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	unmarshalErr := json.Unmarshal(raw, target)
	if unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "decode config section", name)
		return false, e
	}

	return true, nil
}

// GetPackageName returns the name of the package that called it.
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	funcName := runtime.FuncForPC(pc).Name()

	// card-ocr/src/pkg/ocr.InitializeConfig -> ocr
	lastSlash := strings.LastIndex(funcName, "/")
	name := funcName[lastSlash+1:]
	if dot := strings.Index(name, "."); dot >= 0 {
		name = name[:dot]
	}
	return filepath.Base(name)
}
