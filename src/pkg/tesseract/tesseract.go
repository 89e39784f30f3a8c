package tesseract

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"card-ocr/src/pkg/ocr"
)

var _ ocr.Engine = (*Engine)(nil)

/*
Engine runs Tesseract through gosseract on in-memory images.

A fresh client is created for every call, so an Engine holds no native
state and needs no Close.
*/
type Engine struct {
	language       string
	tessdataPrefix string
	pageSegMode    gosseract.PageSegMode
	newClient      func() *gosseract.Client
}

// NewEngine creates an engine for the language, tessdata directory and
// page segmentation mode found in cfg.
func NewEngine(cfg ocr.Config) *Engine {
	return &Engine{
		language:       cfg.Language,
		tessdataPrefix: cfg.TessdataPrefix,
		pageSegMode:    gosseract.PageSegMode(cfg.PageSegMode),
		newClient:      gosseract.NewClient,
	}
}

/*
Recognize encodes img as PNG, hands it to Tesseract and returns the raw text.

It returns an error if Tesseract is missing, the language data cannot be
found under the tessdata prefix, or recognition fails.
*/
func (eng *Engine) Recognize(img image.Image) (text string, err error) {
	var pngBuffer bytes.Buffer
	err = imaging.Encode(&pngBuffer, img, imaging.PNG)
	if err != nil {
		return "", fmt.Errorf("encode crop as PNG: %w", err)
	}

	client := eng.newClient()
	defer func() {
		_ = client.Close()
	}()

	if eng.tessdataPrefix != "" {
		err = client.SetTessdataPrefix(eng.tessdataPrefix)
		if err != nil {
			return "", fmt.Errorf("unable to client.SetTessdataPrefix(%q): %w", eng.tessdataPrefix, err)
		}
	}

	err = client.SetLanguage(eng.language)
	if err != nil {
		return "", fmt.Errorf("unable to client.SetLanguage(%q): %w", eng.language, err)
	}

	err = client.SetPageSegMode(eng.pageSegMode)
	if err != nil {
		return "", fmt.Errorf("unable to client.SetPageSegMode(%d): %w", eng.pageSegMode, err)
	}

	err = client.SetImageFromBytes(pngBuffer.Bytes())
	if err != nil {
		return "", fmt.Errorf("unable to client.SetImageFromBytes: %w", err)
	}

	text, err = client.Text()
	if err != nil {
		return "", fmt.Errorf("unable to run OCR on crop: %w", err)
	}

	tl.Log(
		tl.Debug, palette.GreenDim, "OCR completed for %s crop (text length: %s)",
		fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()), fmt.Sprintf("%d", len(text)),
	)

	return text, nil
}
