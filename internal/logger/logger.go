package logger

import (
	"go.uber.org/zap"
)

// Defaults to a nop logger so packages stay usable under test before
// Init runs in main.
var log = zap.NewNop().Sugar()

func Init() {
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	log = base.Sugar()
	log.Infow("logger initialized")
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = log.Desugar().Sync()
}

func Info(msg string, fields map[string]any) {
	log.Infow(msg, flatten(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warnw(msg, flatten(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Errorw(msg, flatten(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatalw(msg, flatten(fields)...)
}

func flatten(fields map[string]any) []any {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}
