package runlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// JSONLSink appends one JSON object per event to a file, encoded by zap.
type JSONLSink struct {
	file   *os.File
	out    *writeRecorder
	logger *zap.Logger
}

// writeRecorder keeps the first write error zap would otherwise only report
// to its error output.
type writeRecorder struct {
	zapcore.WriteSyncer

	mu  sync.Mutex
	err error
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	n, err := w.WriteSyncer.Write(p)
	if err != nil {
		w.mu.Lock()
		if w.err == nil {
			w.err = err
		}
		w.mu.Unlock()
	}
	return n, err
}

func (w *writeRecorder) take() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.err
	w.err = nil
	return err
}

// OpenJSONL opens path in append mode, creating parent directories as needed.
func OpenJSONL(path string) (*JSONLSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create log directory %s", dir)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open run log %s", path)
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	out := &writeRecorder{WriteSyncer: zapcore.AddSync(f)}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), out, zapcore.DebugLevel)
	logger := zap.New(core, zap.ErrorOutput(zapcore.AddSync(io.Discard)))

	return &JSONLSink{file: f, out: out, logger: logger}, nil
}

func (s *JSONLSink) Append(event Event) error {
	fields := []zap.Field{
		zap.Time("timestamp", event.Timestamp),
		zap.String("node", event.Node),
		zap.String("status", string(event.Status)),
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}
	s.logger.Info(event.Message, fields...)
	if err := s.out.take(); err != nil {
		return errors.Wrap(err, "append run log")
	}
	return nil
}

func (s *JSONLSink) Close() error {
	_ = s.logger.Sync()
	return s.file.Close()
}
