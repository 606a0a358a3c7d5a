// Package log provides structured logging with deployment context.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for the deployment pipeline (structured fields)
//   - SugaredLogger: Printf-style logging for CLI surfaces
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// Logger provides structured logging with deployment context.
// All entries carry the deploy_id field, and stack when one is targeted.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a logger with deployment context writing to os.Stderr.
func NewLogger(meta *types.DeployMeta) *Logger {
	return NewLoggerWithWriter(meta, os.Stderr, zapcore.InfoLevel)
}

// NewLoggerWithWriter creates a logger writing JSON lines to w at or above level.
func NewLoggerWithWriter(meta *types.DeployMeta, w io.Writer, level zapcore.Level) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	var fields []zap.Field
	if meta != nil {
		fields = append(fields, zap.String("deploy_id", meta.DeployID))
		if meta.StackName != "" {
			fields = append(fields, zap.String("stack", meta.StackName))
		}
	}

	return &Logger{zap: zap.New(core).With(fields...)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// ParseLevel maps a level name (debug, info, warn, error) to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	return zapcore.ParseLevel(s)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}
