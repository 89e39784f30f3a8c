package ocr

import (
	"fmt"
	"os"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"card-ocr/src/pkg/config"
	"card-ocr/src/pkg/util"
)

/*
Config is the "ocr" section of the config file.

Zero values are replaced by defaults, so a margin of 0 cannot be expressed;
use 1 to keep (almost) the whole card.
*/
type Config struct {
	// Tesseract language code, only one language per run.
	Language string `json:"language,omitempty"`
	// Directory holding <language>.traineddata. Empty means the engine default.
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	// Tesseract page segmentation mode (3 is fully automatic).
	PageSegMode int `json:"page_seg_mode,omitempty"`
	// Intensity at or above which a pixel counts as card background.
	WhiteLevel int `json:"white_level,omitempty"`
	// Pixels removed from the top and bottom of the card box before OCR.
	// Tuned for the original photo resolution.
	TopMargin    int `json:"top_margin,omitempty"`
	BottomMargin int `json:"bottom_margin,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Language:     "swe",
		PageSegMode:  3,
		WhiteLevel:   250,
		TopMargin:    100,
		BottomMargin: 60,
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.

In both cases an empty TessdataPrefix is taken from the TESSDATA_PREFIX env
variable. The environment is only read, never written.
*/
func InitializeConfig(localConfig *Config) {
	defer applyTessdataEnv()

	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "ocr", "not provided", "default ocr config")
		return
	}

	defaultConfig := DefaultValueConfig()

	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "ocr", "provided", "local ocr config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

func applyTessdataEnv() {
	if Cfg.TessdataPrefix != "" {
		return
	}
	if prefix := os.Getenv("TESSDATA_PREFIX"); prefix != "" {
		Cfg.TessdataPrefix = prefix
		tl.Log(tl.Info1, palette.Cyan, "Using tessdata from %s: '%s'", "TESSDATA_PREFIX", prefix)
	}
}

// LocateOptions converts the config into options for Locate.
func (c Config) LocateOptions() LocateOptions {
	return LocateOptions{
		WhiteLevel:   uint8(util.Clamp(c.WhiteLevel, 0, 255)),
		TopMargin:    c.TopMargin,
		BottomMargin: c.BottomMargin,
	}
}
