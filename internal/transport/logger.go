package transport

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
)

// retryLogger routes go-retryablehttp logs into zap
type retryLogger struct {
	sugar *zap.SugaredLogger
}

func newRetryLogger(log *logging.Logger) retryLogger {
	return retryLogger{sugar: log.Logger.Sugar()}
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}
