package config

import "flag"

var (
	flagLogLevel = flag.String("log-level", "", "log level (debug, info, warn, error)")
	flagLogFile  = flag.String("log-file", "", "log file path")
	flagDrift    = flag.Bool("drift", true, "include the drift bone in the generated rig")
)

// applyFlags overrides config values with command line flags.
// Only flags explicitly set on the command line take effect.
func applyFlags(cfg *Config) {
	if !flag.Parsed() {
		return
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Logging.Level = *flagLogLevel
		case "log-file":
			cfg.Logging.File = *flagLogFile
		case "drift":
			cfg.Rig.Drift = *flagDrift
		}
	})
}
