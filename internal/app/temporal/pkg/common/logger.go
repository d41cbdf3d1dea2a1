package common

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// ZapAdapter routes Temporal SDK logs into zap.
type ZapAdapter struct {
	zl *zap.SugaredLogger
}

var _ log.Logger = (*ZapAdapter)(nil)

// NewZapAdapter wraps logger for the Temporal client.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{zl: logger.Named("temporal").Sugar()}
}

func (l *ZapAdapter) Debug(msg string, keyvals ...interface{}) { l.zl.Debugw(msg, keyvals...) }
func (l *ZapAdapter) Info(msg string, keyvals ...interface{})  { l.zl.Infow(msg, keyvals...) }
func (l *ZapAdapter) Warn(msg string, keyvals ...interface{})  { l.zl.Warnw(msg, keyvals...) }
func (l *ZapAdapter) Error(msg string, keyvals ...interface{}) { l.zl.Errorw(msg, keyvals...) }
