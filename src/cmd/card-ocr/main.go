package main

import (
	"flag"
	"fmt"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"card-ocr/src/pkg/config"
	"card-ocr/src/pkg/dedup"
	"card-ocr/src/pkg/ocr"
	"card-ocr/src/pkg/tesseract"
	"card-ocr/src/pkg/util"
)

/*
main reads the text of every flash-card photo in the given directories,
deletes photos whose text was already seen and appends the new texts to
result.txt.

Flat mode (default): -dirs is processed in order, earlier directories act
as references and only the last one gets a result file.

Nested mode (-nested): -dirs is a single parent directory, every
sub-directory is processed in sorted order and gets its own result file.
*/
func main() {
	config.CheckIfEnvVarsPresent()

	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Program-specific flags.
	dirsFlag := flag.String("dirs", "", "Comma separated card directories. In -nested mode a single parent directory.")
	nested := flag.Bool("nested", false, "Process every sub-directory of -dirs, each with its own result file.")
	language := flag.String("language", "", "Tesseract language, overrides the config. \"tesseract --list-langs\", \"apt install tesseract-ocr-swe\"")
	tessdataPrefix := flag.String("tessdata", "", "Directory with <language>.traineddata, overrides the config and TESSDATA_PREFIX.")
	dryRun := flag.Bool("dry-run", false, "Report duplicates without deleting them.")
	summaryPath := flag.String("summary", "", "Optional path of a JSON file describing every processed directory.")

	// Parse and initialize config.
	flag.Parse()
	util.RequiredFlag(dirsFlag, "dirs")
	util.EnsureFlags()
	config.InitializeConfig(*configPath)
	initializePackageConfigs()

	if *language != "" {
		ocr.Cfg.Language = *language
	}
	if *tessdataPrefix != "" {
		ocr.Cfg.TessdataPrefix = *tessdataPrefix
	}
	if *dryRun {
		dedup.Cfg.DryRun = true
	}

	dirs := util.SplitList(*dirsFlag)
	if *nested && len(dirs) != 1 {
		e := xerr.NewError(fmt.Errorf("got %d directories", len(dirs)), "-nested expects exactly one parent directory", *dirsFlag)
		e.QuitIf("error")
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s card deduplication. Config path: '%s'",
		"Running", *configPath,
	)
	tl.Log(
		tl.Info1, palette.Cyan, "Language: '%s', directories: '%s', dry run: %s",
		ocr.Cfg.Language, strings.Join(dirs, ", "), fmt.Sprintf("%t", dedup.Cfg.DryRun),
	)

	extractor := ocr.NewExtractor(ocr.Cfg, tesseract.NewEngine(ocr.Cfg))
	pipeline := dedup.NewPipeline(dedup.Cfg, dedup.NewCollector(dedup.Cfg, extractor))

	var results []dedup.DirectoryResult
	var e *xerr.Error
	if *nested {
		results, e = pipeline.RunNested(dirs[0])
	} else {
		results, e = pipeline.RunFlat(dirs)
	}
	e.QuitIf("error")

	mode := "flat"
	if *nested {
		mode = "nested"
	}
	summary := dedup.NewRunSummary(mode, dedup.Cfg.DryRun, results)

	if *summaryPath != "" {
		e = dedup.SaveJSONToFile(*summaryPath, summary)
		e.QuitIf("error")
	}

	tl.Log(
		tl.Notice1, palette.GreenBold, "%s (run %s). Unique texts: '%s', duplicates: '%s'",
		"Deduplication completed", summary.RunID, fmt.Sprintf("%d", summary.Unique), fmt.Sprintf("%d", summary.Deleted),
	)
}

// initializePackageConfigs hands every package its section of the config file.
func initializePackageConfigs() {
	var ocrConfig ocr.Config
	found, e := config.Section("ocr", &ocrConfig)
	e.QuitIf("error")
	if found {
		ocr.InitializeConfig(&ocrConfig)
	} else {
		ocr.InitializeConfig(nil)
	}

	var dedupConfig dedup.Config
	found, e = config.Section("dedup", &dedupConfig)
	e.QuitIf("error")
	if found {
		dedup.InitializeConfig(&dedupConfig)
	} else {
		dedup.InitializeConfig(nil)
	}
}
