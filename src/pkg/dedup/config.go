package dedup

import (
	"fmt"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"card-ocr/src/pkg/config"
)

// Config is the "dedup" section of the config file.
type Config struct {
	// Name of the file unique texts are appended to, inside each persisted directory.
	ResultFileName string `json:"result_file_name,omitempty"`
	// Lower-case extensions (with the dot) of the files treated as card images.
	ImageExtensions []string `json:"image_extensions,omitempty"`
	// Log duplicates instead of deleting them.
	DryRun bool `json:"dry_run,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		ResultFileName:  "result.txt",
		ImageExtensions: []string{".png"},
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "dedup", "not provided", "default dedup config")
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

	Cfg.ImageExtensions = append([]string(nil), Cfg.ImageExtensions...)
	for i, ext := range Cfg.ImageExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		Cfg.ImageExtensions[i] = ext
	}

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "dedup", "provided", "local dedup config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

func (c Config) isImageExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
