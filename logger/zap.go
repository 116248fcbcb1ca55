package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is the go.uber.org/zap backed Logger returned by NewZap.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewZap creates a zap backed Logger.
//
// development selects zap's console encoder and stack traces on warnings; otherwise the
// production JSON configuration is used. Construction errors fall back to a no-op core.
func NewZap(level Level, development bool) Logger {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
	}
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	return &ZapLogger{sugar: l.Sugar(), level: cfg.Level}
}

// NewZapFrom wraps an existing zap logger. The returned Logger's level is independent of
// the core's own level enabler.
func NewZapFrom(l *zap.Logger, level Level) Logger {
	return &ZapLogger{
		sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		level: zap.NewAtomicLevelAt(toZapLevel(level)),
	}
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	if l.level.Enabled(zapcore.DebugLevel) {
		l.sugar.Debugw(msg, busFields(keysAndValues)...)
	}
}

func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	if l.level.Enabled(zapcore.InfoLevel) {
		l.sugar.Infow(msg, busFields(keysAndValues)...)
	}
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	if l.level.Enabled(zapcore.WarnLevel) {
		l.sugar.Warnw(msg, busFields(keysAndValues)...)
	}
}

func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	if l.level.Enabled(zapcore.ErrorLevel) {
		l.sugar.Errorw(msg, busFields(keysAndValues)...)
	}
}

func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) {
	l.sugar.Fatalw(msg, busFields(keysAndValues)...)
}

func (l *ZapLogger) With(keyValues ...any) Logger {
	return &ZapLogger{
		sugar: l.sugar.With(busFields(keyValues)...),
		level: l.level,
	}
}

func (l *ZapLogger) Level() Level {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.InfoLevel:
		return InfoLevel
	case zapcore.WarnLevel:
		return WarnLevel
	case zapcore.ErrorLevel:
		return ErrorLevel
	default:
		return FatalLevel
	}
}

func (l *ZapLogger) SetLevel(level Level) {
	l.level.SetLevel(toZapLevel(level))
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel
	}
}
