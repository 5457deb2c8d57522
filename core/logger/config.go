package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is json, console or auto. Auto picks console on a terminal.
	Format string `mapstructure:"format" default:"auto"`
}
