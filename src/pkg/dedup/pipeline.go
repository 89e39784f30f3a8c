package dedup

import (
	"fmt"
	"path/filepath"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// DirectoryResult is the outcome of one deduplication pass.
type DirectoryResult struct {
	Dir   string   `json:"dir"`
	Texts []string `json:"texts"`
	// Duplicates found; deleted from disk unless running dry.
	Deleted int `json:"deleted"`
	Total   int `json:"total"`
	// Empty when the directory was only used as a reference.
	ResultPath string `json:"result_path,omitempty"`
}

// Pipeline runs a Collector over several directories, carrying the seen texts forward.
type Pipeline struct {
	cfg       Config
	collector *Collector
}

func NewPipeline(cfg Config, collector *Collector) *Pipeline {
	return &Pipeline{cfg: cfg, collector: collector}
}

/*
RunFlat processes dirs in the given order.

Every directory is deduplicated against the texts of the ones before it, but
only the last directory's texts are appended to its result file. The others
act as references: their duplicates are still deleted.

All directories are validated before anything is processed. The same
directory given twice is rejected, since its second pass would find every
text already seen and delete every card.
*/
func (p *Pipeline) RunFlat(dirs []string) (results []DirectoryResult, e *xerr.Error) {
	if len(dirs) == 0 {
		e = xerr.NewError(fmt.Errorf("%w: no directories given", ErrValidation), "validate directories", "")
		return nil, e
	}

	for _, dir := range dirs {
		e = validateDirPath(dir)
		if e != nil {
			return nil, e
		}
	}

	err := checkDistinctDirs(dirs)
	if err != nil {
		e = xerr.NewError(err, "validate directories", strings.Join(dirs, ","))
		return nil, e
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s flat run over %s directories, persisting '%s'",
		"Starting", fmt.Sprintf("%d", len(dirs)), dirs[len(dirs)-1],
	)

	return p.run(dirs, func(index int) bool { return index == len(dirs)-1 })
}

/*
RunNested processes every sub-directory of parent in sorted order.

Each sub-directory is deduplicated against the texts of the sub-directories
processed before it and gets its own result file.

The parent and all sub-directories are validated before anything is
processed; a parent without sub-directories is rejected.
*/
func (p *Pipeline) RunNested(parent string) (results []DirectoryResult, e *xerr.Error) {
	e = validateDirPath(parent)
	if e != nil {
		return nil, e
	}

	dirs, e := listSubdirectories(parent)
	if e != nil {
		return nil, e
	}
	if len(dirs) == 0 {
		e = xerr.NewError(fmt.Errorf("%w: '%s' has no sub-directories", ErrValidation, parent), "validate directory", parent)
		return nil, e
	}

	for _, dir := range dirs {
		e = validateDirPath(dir)
		if e != nil {
			return nil, e
		}
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s nested run over %s sub-directories of '%s'",
		"Starting", fmt.Sprintf("%d", len(dirs)), parent,
	)

	return p.run(dirs, func(int) bool { return true })
}

// run threads the seen texts through dirs; persist decides which directories get a result file.
func (p *Pipeline) run(dirs []string, persist func(index int) bool) (results []DirectoryResult, e *xerr.Error) {
	var seen []string

	for i, dir := range dirs {
		tl.Log(
			tl.Notice, palette.Blue, "Processing directory '%s' (%s of %s)",
			dir, fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", len(dirs)),
		)

		unique, deleted, collectErr := p.collector.Collect(dir, seen)
		if collectErr != nil {
			return results, collectErr
		}

		result := DirectoryResult{
			Dir:     dir,
			Texts:   unique,
			Deleted: deleted,
			Total:   len(unique) + deleted,
		}

		if persist(i) {
			result.ResultPath = filepath.Join(dir, p.cfg.ResultFileName)
			e = appendResults(result.ResultPath, unique)
			if e != nil {
				return results, e
			}
		}

		seen = append(seen, unique...)
		results = append(results, result)
	}

	tl.Log(
		tl.Notice1, palette.GreenBold, "Finished %s directories, %s unique texts in total",
		fmt.Sprintf("%d", len(dirs)), fmt.Sprintf("%d", len(seen)),
	)

	return results, nil
}
