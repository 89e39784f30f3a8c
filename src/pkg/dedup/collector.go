package dedup

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// TextExtractor turns a card image into its normalized text. *ocr.Extractor implements it.
type TextExtractor interface {
	Extract(imagePath string) (text string, e *xerr.Error)
}

// Collector deduplicates the card images of one directory.
type Collector struct {
	cfg       Config
	extractor TextExtractor
}

func NewCollector(cfg Config, extractor TextExtractor) *Collector {
	return &Collector{cfg: cfg, extractor: extractor}
}

/*
Collect extracts the text of every card image in dirPath and removes the
duplicates.

Images are processed in sorted path order. A text is a duplicate if it was
already returned for this directory or is in seen; the first image in sorted
order keeps the card, every later copy is deleted on the spot.

The returned unique texts are in file order. seen is only read; callers
append unique to their own running set. In dry-run mode duplicates are
counted in deleted but left on disk.

The first extraction or deletion failure aborts the directory. Files
deleted before the failure stay deleted.
*/
func (c *Collector) Collect(dirPath string, seen []string) (unique []string, deleted int, e *xerr.Error) {
	images, e := listImagesInDir(dirPath, c.cfg)
	if e != nil {
		return nil, 0, e
	}

	tl.Log(
		tl.Info, palette.Cyan, "Found %s card images in '%s' (%s texts seen so far)",
		fmt.Sprintf("%d", len(images)), dirPath, fmt.Sprintf("%d", len(seen)),
	)

	known := make(map[string]bool, len(seen)+len(images))
	for _, text := range seen {
		known[text] = true
	}

	unique = make([]string, 0, len(images))
	for _, imagePath := range images {
		text, extractErr := c.extractor.Extract(imagePath)
		if extractErr != nil {
			return nil, deleted, extractErr
		}

		if !known[text] {
			known[text] = true
			unique = append(unique, text)
			continue
		}

		deleted++
		if c.cfg.DryRun {
			tl.Log(tl.Info, palette.Yellow, "Duplicate '%s' kept (%s): '%s'", imagePath, "dry run", text)
			continue
		}

		e = removeDuplicateImage(imagePath)
		if e != nil {
			return nil, deleted, e
		}
		tl.Log(tl.Info, palette.Purple, "Deleted duplicate '%s': '%s'", imagePath, text)
	}

	tl.Log(
		tl.Notice1, palette.GreenBold, "Collected '%s': %s unique, %s duplicates",
		dirPath, fmt.Sprintf("%d", len(unique)), fmt.Sprintf("%d", deleted),
	)

	return unique, deleted, nil
}
