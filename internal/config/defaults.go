package config

const (
	defaultRawDir             = "~/.local/share/promptdex/raw"
	defaultDatasetDir         = "~/.local/share/promptdex/dataset"
	defaultLogDir             = "~/.local/share/promptdex/logs"
	defaultAPIBind            = "127.0.0.1:7933"
	defaultMinTextLength      = 30
	defaultWorkers            = 4
	defaultLoadTimeoutSeconds = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RawDir:     defaultRawDir,
			DatasetDir: defaultDatasetDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Pipeline: Pipeline{
			MinTextLength:      defaultMinTextLength,
			Workers:            defaultWorkers,
			LoadTimeoutSeconds: defaultLoadTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
