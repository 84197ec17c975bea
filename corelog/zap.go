package corelog

import "go.uber.org/zap"

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface. The
// etcd client pulled in by registry.EtcdSessionStore already depends on zap
// transitively; this adapter promotes it to a direct, usable dependency for
// SDK hosts that already standardize on zap for their own logging.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger. Pass nil to build a
// production-configured zap logger on the caller's behalf.
func NewZapLogger(z *zap.Logger) (*ZapLogger, error) {
	if z == nil {
		built, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		z = built
	}
	return &ZapLogger{sugar: z.Sugar()}, nil
}

func (l *ZapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes any buffered log entries, mirroring the defer zap.Sync()
// idiom.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }
