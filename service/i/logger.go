package i

// Logger is a leveled logger with a fixed prefix.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}
