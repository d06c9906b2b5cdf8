package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	defaultLogger *slog.Logger
	level         = new(slog.LevelVar)
)

var levelMap = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

func init() {
	setupLogger(getLogOutput())
}

func setupLogger(output io.Writer) {
	level.Set(getLogLevel())

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	})

	defaultLogger = slog.New(handler)
}

func getLogLevel() slog.Level {
	env := strings.ToUpper(getEnvWithDefault("REPLIKV_LOG_LEVEL", ""))

	if parsed, exists := levelMap[env]; exists {
		return parsed
	}

	if isTestEnvironment() {
		return slog.LevelError
	}

	return slog.LevelInfo
}

func getLogOutput() io.Writer {
	if isTestEnvironment() {
		return io.Discard
	}

	return os.Stdout
}

func isTestEnvironment() bool {
	return os.Getenv("REPLIKV_TEST_MODE") == "true"
}

// SetLevel changes the level at runtime; unknown names are ignored.
func SetLevel(name string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(name))

	if !isValidLevel(normalized) {
		return false
	}

	level.Set(levelMap[normalized])
	return true
}

func Level() slog.Level {
	return level.Level()
}

// With returns a logger carrying attrs, for per-connection context.
func With(args ...any) *slog.Logger {
	return defaultLogger.With(args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}
