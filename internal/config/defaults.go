package config

const (
	defaultLogDir         = "~/.local/share/rollclean/logs"
	defaultJournalPath    = "~/.local/share/rollclean/journal.db"
	defaultGeneration     = "ms01"
	defaultScannerMake    = "FUJI PHOTO FILM CO., LTD."
	defaultScannerModel   = "SP-3000"
	defaultRollPadding    = 4
	defaultFramePadding   = 2
	defaultExiftoolBinary = "exiftool"
	defaultMagickBinary   = "magick"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Scanner: Scanner{
			Generation: defaultGeneration,
			Make:       defaultScannerMake,
			Model:      defaultScannerModel,
		},
		Naming: Naming{
			RollPadding:  defaultRollPadding,
			FramePadding: defaultFramePadding,
		},
		Timestamps: Timestamps{
			MtimeBase: true,
		},
		Exiftool: Exiftool{
			Binary: defaultExiftoolBinary,
		},
		Magick: Magick{
			Binary: defaultMagickBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
