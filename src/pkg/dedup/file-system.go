package dedup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// ErrValidation marks a directory argument that is missing, not a directory, or empty.
var ErrValidation = errors.New("invalid directory")

// validateDirPath wraps checkDirPath for callers working with *xerr.Error.
func validateDirPath(dirPath string) (e *xerr.Error) {
	err := checkDirPath(dirPath)
	if err != nil {
		e = xerr.NewError(err, "validate directory", dirPath)
	}
	return e
}

/*
checkDirPath makes sure the path exists, is a directory and has at least one
entry. Errors wrap ErrValidation and name the offending path.
*/
func checkDirPath(dirPath string) error {
	if strings.TrimSpace(dirPath) == "" {
		return fmt.Errorf("%w: empty path", ErrValidation)
	}

	info, statErr := os.Stat(dirPath)
	if statErr != nil {
		return fmt.Errorf("%w: %w", ErrValidation, statErr)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: '%s' is not a directory", ErrValidation, dirPath)
	}

	entries, readErr := os.ReadDir(dirPath)
	if readErr != nil {
		return fmt.Errorf("%w: %w", ErrValidation, readErr)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: '%s' is empty", ErrValidation, dirPath)
	}

	return nil
}

// checkDistinctDirs fails with ErrValidation when two paths name the same directory.
func checkDistinctDirs(dirs []string) error {
	firstArg := make(map[string]string, len(dirs))
	for _, dir := range dirs {
		key, absErr := filepath.Abs(dir)
		if absErr != nil {
			key = filepath.Clean(dir)
		}
		if previous, ok := firstArg[key]; ok {
			return fmt.Errorf("%w: '%s' and '%s' are the same directory", ErrValidation, previous, dir)
		}
		firstArg[key] = dir
	}
	return nil
}

/*
listImagesInDir returns the card images directly inside dirPath, sorted by
path. The order decides which copy of a duplicate card survives.
*/
func listImagesInDir(dirPath string, cfg Config) (images []string, e *xerr.Error) {
	entries, readErr := os.ReadDir(dirPath)
	if readErr != nil {
		e = xerr.NewError(readErr, "read directory", dirPath)
		return
	}

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if !cfg.isImageExt(filepath.Ext(ent.Name())) {
			continue
		}
		images = append(images, filepath.Join(dirPath, ent.Name()))
	}

	sort.Strings(images)
	return
}

// listSubdirectories returns the directories directly inside parentPath, sorted by path.
func listSubdirectories(parentPath string) (dirs []string, e *xerr.Error) {
	entries, readErr := os.ReadDir(parentPath)
	if readErr != nil {
		e = xerr.NewError(readErr, "read directory", parentPath)
		return
	}

	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(parentPath, ent.Name()))
	}

	sort.Strings(dirs)
	return
}

/*
removeDuplicateImage deletes a card image judged to be a duplicate.

Deletion is immediate and permanent.
*/
func removeDuplicateImage(imagePath string) (e *xerr.Error) {
	removeErr := os.Remove(imagePath)
	if removeErr != nil {
		e = xerr.NewError(removeErr, "delete duplicate image", imagePath)
		return e
	}
	return e
}

/*
appendResults appends texts to the result file, one per line.

The file is created if missing and existing content is never overwritten.
Every entry, including the last, ends with a newline so later runs append
cleanly.
*/
func appendResults(resultPath string, texts []string) (e *xerr.Error) {
	resultFile, openErr := os.OpenFile(resultPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		e = xerr.NewError(openErr, "open result file", resultPath)
		return e
	}

	var builder strings.Builder
	for _, text := range texts {
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	_, writeErr := resultFile.WriteString(builder.String())
	closeErr := resultFile.Close()
	if writeErr != nil {
		e = xerr.NewError(writeErr, "write result file", resultPath)
		return e
	}
	if closeErr != nil {
		e = xerr.NewError(closeErr, "close result file", resultPath)
		return e
	}

	tl.Log(
		tl.Info1, palette.Green, "Appended %s texts to '%s'",
		fmt.Sprintf("%d", len(texts)), resultPath,
	)

	return e
}

/*
ensureOutputDirectory creates the target directory (and parents) if needed.

It uses os.MkdirAll and returns a *xerr.Error if creation fails.
*/
func ensureOutputDirectory(outputDirPath string) (e *xerr.Error) {
	err := os.MkdirAll(outputDirPath, 0o755)
	if err != nil {
		e = xerr.NewError(err, "create output directory", outputDirPath)
		return e
	}
	return e
}

/*
SaveJSONToFile marshals the given value to pretty-printed JSON and writes it
to destinationPath, creating the parent directory when needed.

It overwrites any existing file at that location.
*/
func SaveJSONToFile(destinationPath string, value any) (e *xerr.Error) {
	e = ensureOutputDirectory(filepath.Dir(destinationPath))
	if e != nil {
		return e
	}

	jsonBytes, marshalErr := json.MarshalIndent(value, "", "  ")
	if marshalErr != nil {
		e = xerr.NewError(marshalErr, "marshal value to JSON", destinationPath)
		return e
	}

	writeErr := os.WriteFile(destinationPath, jsonBytes, 0o644)
	if writeErr != nil {
		e = xerr.NewError(writeErr, "write JSON file", destinationPath)
		return e
	}

	tl.Log(
		tl.Info1, palette.Green, "Saved JSON data to '%s'",
		destinationPath,
	)

	return e
}
