package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagStrict  = flag.Bool("strict", false, "Fail on dangling references")
	flagMaxSize = flag.Int("max-size", 0, "Reject files larger than this many MB")
	flagTimeout = flag.Duration("timeout", 0, "Abort decoding after this long")
	flagFormat  = flag.String("format", "", "Output format: text or yaml")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagStrict {
		cfg.Parse.Strict = true
	}
	if *flagMaxSize > 0 {
		cfg.Parse.MaxSizeMB = *flagMaxSize
	}
	if *flagTimeout > 0 {
		cfg.Parse.Timeout = *flagTimeout
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
