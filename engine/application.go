package engine

type ApplicationConfig struct {
	// The application name used in logs.
	Name string
	// Path of the toml or yaml configuration. Defaults are used when the file does not exist.
	ConfigPath string
	// Reload the configuration when the file changes.
	WatchConfig bool
	// Stop after this many frames. 0 runs until EVENT_CODE_APPLICATION_QUIT.
	MaxFrames uint64
	// Frame rate cap. 0 renders as fast as possible.
	TargetFPS float64
}
