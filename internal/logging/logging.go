// Package logging configures logrus and provides the single recovery helper
// used wherever a failure must degrade to a neutral value instead of aborting.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/ziadkadry99/greencode/internal/config"
)

// Init configures the standard logrus logger from the logging section of the
// config. A nil writer means stderr so that report output on stdout stays clean.
func Init(cfg config.LoggingConfig, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		if cfg.Level != "" {
			logrus.Warnf("Invalid log level '%s', using 'warn' instead. Error: %v", cfg.Level, err)
		}
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)
}

var warned sync.Map

// Attempt runs fn and returns its value. If fn errors or panics, the failure
// is logged once per key and Attempt returns neutral with ok set to false.
func Attempt[T any](key string, neutral T, fn func() (T, error)) (result T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			warnOnce(key, fmt.Errorf("panic: %v", r))
			result, ok = neutral, false
		}
	}()

	v, err := fn()
	if err != nil {
		warnOnce(key, err)
		return neutral, false
	}
	return v, true
}

// warnOnce logs err at warning level the first time key is seen; repeats go
// to debug.
func warnOnce(key string, err error) {
	if _, seen := warned.LoadOrStore(key, struct{}{}); seen {
		logrus.WithError(err).WithField("key", key).Debug("recovered failure")
		return
	}
	logrus.WithError(err).WithField("key", key).Warn("recovered failure, using neutral value")
}

// Reset forgets which keys have already been warned about.
func Reset() {
	warned.Range(func(k, _ any) bool {
		warned.Delete(k)
		return true
	})
}
