package ports

// LoggingGateway defines the interface for logging operations
type LoggingGateway interface {
	// Log logs a message with the specified level
	Log(level LogLevel, message string, fields map[string]interface{})

	// LogError logs an error
	LogError(err error, message string, fields map[string]interface{})

	// SetLogLevel sets the logging level
	SetLogLevel(level LogLevel)

	// GetLogLevel returns the current logging level
	GetLogLevel() LogLevel

	// ConfigureLogging configures logging settings
	ConfigureLogging(config *LoggingConfig) error
}

// LogLevel defines the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	Level  LogLevel `json:"level"`
	Format string   `json:"format"` // "json" or "console"
}

// CommandSender is the caller of a plugin command as seen by the host
type CommandSender interface {
	// Name identifies the sender in logs
	Name() string

	// HasPermission reports whether the sender holds permission
	HasPermission(permission string) bool

	// SendMessage delivers formatted text to the sender
	SendMessage(message string)
}

// ServerPing is the status query the host raises for every server-list
// ping. Handlers overwrite MOTD with the banner to reply with.
type ServerPing struct {
	Address    string
	MOTD       string
	Online     int
	MaxPlayers int
}
