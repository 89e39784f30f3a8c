package ocr

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// ErrDecode means the file is missing or is not an image imaging can read.
var ErrDecode = errors.New("unable to decode image")

// Engine recognizes text in an already cropped image.
type Engine interface {
	Recognize(img image.Image) (text string, err error)
}

// Extractor turns one card photo into normalized text.
type Extractor struct {
	cfg    Config
	engine Engine
}

// NewExtractor binds an OCR engine to an explicit configuration.
func NewExtractor(cfg Config, engine Engine) *Extractor {
	return &Extractor{cfg: cfg, engine: engine}
}

/*
Extract reads the card image at imagePath and returns its normalized text.

The steps are:
  1. Decode the image (EXIF orientation applied).
  2. Locate the card's text region.
  3. Crop to that region.
  4. Run the OCR engine on the crop.
  5. Normalize the result with NormalizeText.

Nothing is written to disk. Decode errors wrap ErrDecode, region errors wrap
ErrNoForeground or ErrEmptyRegion, engine errors are passed through.
*/
func (x *Extractor) Extract(imagePath string) (text string, e *xerr.Error) {
	tl.Log(tl.Info1, palette.Blue, "Extracting text from '%s'", imagePath)

	img, openErr := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if openErr != nil {
		e = xerr.NewError(fmt.Errorf("%w: %w", ErrDecode, openErr), "decode card image", imagePath)
		return
	}

	region, locateErr := Locate(img, x.cfg.LocateOptions())
	if locateErr != nil {
		e = xerr.NewError(locateErr, "locate text region", imagePath)
		return
	}
	tl.Log(tl.Verbose, palette.CyanDim, "Text region of '%s' is '%s'", imagePath, region)

	cropped := imaging.Crop(img, region.Rect().Add(img.Bounds().Min))

	rawText, recognizeErr := x.engine.Recognize(cropped)
	if recognizeErr != nil {
		e = xerr.NewError(recognizeErr, "recognize card text", imagePath)
		return
	}

	text = NormalizeText(rawText)

	tl.Log(
		tl.Info1, palette.Green, "Extracted '%s' from '%s' (raw length: %s)",
		text, imagePath, fmt.Sprintf("%d", len(rawText)),
	)

	return text, nil
}
