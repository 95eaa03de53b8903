package production

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/comalice/fsmx"
)

// zap's SugaredLogger satisfies the core logging surface directly.
var _ fsmx.Logger = (*zap.SugaredLogger)(nil)

// NewLogger builds a console zap logger writing to out (stderr if nil).
func NewLogger(out io.Writer, level zapcore.Level) *zap.SugaredLogger {
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(
		newEncoder(),
		zapcore.AddSync(out),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Sugar()
}

// RotationConfig bounds the size and age of rotated log files.
type RotationConfig struct {
	MaxSizeMB  int // per-file size before rotation
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingLogger builds a zap logger writing to a size-rotated file.
func NewRotatingLogger(path string, level zapcore.Level, cfg RotationConfig) *zap.SugaredLogger {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	core := zapcore.NewCore(
		newEncoder(),
		zapcore.AddSync(out),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Sugar()
}

func newEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     encodeTime,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	})
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

const timeFormat = "2006-01-02 15:04:05"

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format(timeFormat) + "]")
}
