package ocr

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// fakeEngine returns a canned text and remembers what it was asked to read.
type fakeEngine struct {
	text  string
	err   error
	calls int
	last  image.Rectangle
}

func (f *fakeEngine) Recognize(img image.Image) (string, error) {
	f.calls++
	f.last = img.Bounds()
	return f.text, f.err
}

func saveTestImage(t *testing.T, img image.Image, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to save test image: %v", err)
	}
	return path
}

func TestExtract(t *testing.T) {
	path := saveTestImage(t, createCardImage(600, 500, 50, 40, 500, 400), "card.png")
	engine := &fakeEngine{text: "  en bil \n\nbilen\n\n\f"}

	text, e := NewExtractor(DefaultValueConfig(), engine).Extract(path)
	if e != nil {
		t.Fatalf("Extract failed: %v", e)
	}

	if text != "en bil\tbilen" {
		t.Errorf("Extract() = %q, want %q", text, "en bil\tbilen")
	}
	if engine.calls != 1 {
		t.Fatalf("engine called %d times, want 1", engine.calls)
	}
	// region (50,140)-(550,380)
	if engine.last.Dx() != 500 || engine.last.Dy() != 240 {
		t.Errorf("engine got %dx%d crop, want 500x240", engine.last.Dx(), engine.last.Dy())
	}
}

func TestExtract_CustomMargins(t *testing.T) {
	path := saveTestImage(t, createCardImage(600, 500, 50, 40, 500, 400), "card.png")
	engine := &fakeEngine{text: "hej"}

	cfg := DefaultValueConfig()
	cfg.TopMargin = 10
	cfg.BottomMargin = 20

	_, e := NewExtractor(cfg, engine).Extract(path)
	if e != nil {
		t.Fatalf("Extract failed: %v", e)
	}
	if engine.last.Dx() != 500 || engine.last.Dy() != 370 {
		t.Errorf("engine got %dx%d crop, want 500x370", engine.last.Dx(), engine.last.Dy())
	}
}

func TestExtract_MissingFile(t *testing.T) {
	engine := &fakeEngine{text: "hej"}

	_, e := NewExtractor(DefaultValueConfig(), engine).Extract(filepath.Join(t.TempDir(), "missing.png"))
	if e == nil {
		t.Fatal("Extract should fail for a missing file")
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, want 0", engine.calls)
	}
}

func TestExtract_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("this is not a png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	engine := &fakeEngine{text: "hej"}

	_, e := NewExtractor(DefaultValueConfig(), engine).Extract(path)
	if e == nil {
		t.Fatal("Extract should fail for a file that is not an image")
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, want 0", engine.calls)
	}
}

func TestExtract_AllBlack(t *testing.T) {
	path := saveTestImage(t, createTestImage(300, 300, inkBlack), "black.png")
	engine := &fakeEngine{text: "hej"}

	text, e := NewExtractor(DefaultValueConfig(), engine).Extract(path)
	if e == nil {
		t.Fatal("Extract should fail when there is no white card")
	}
	if text != "" {
		t.Errorf("Extract() text = %q, want empty", text)
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, want 0", engine.calls)
	}
}

func TestExtract_EngineError(t *testing.T) {
	path := saveTestImage(t, createCardImage(600, 500, 50, 40, 500, 400), "card.png")
	engine := &fakeEngine{err: errors.New("tesseract exploded")}

	_, e := NewExtractor(DefaultValueConfig(), engine).Extract(path)
	if e == nil {
		t.Fatal("Extract should pass engine errors through")
	}
}
