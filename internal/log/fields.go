package log

import (
	"time"

	"go.uber.org/zap"
)

// Field is a structured logging field.
type Field = zap.Field

// Cause attaches an error under the "error" key.
func Cause(err error) Field { return zap.Error(err) }

func Any(key string, value any) Field { return zap.Any(key, value) }

func String(key, value string) Field { return zap.String(key, value) }

func Strings(key string, values []string) Field { return zap.Strings(key, values) }

func Int(key string, value int) Field { return zap.Int(key, value) }

func Bool(key string, value bool) Field { return zap.Bool(key, value) }

func Time(key string, value time.Time) Field { return zap.Time(key, value) }

func Duration(key string, value time.Duration) Field { return zap.Duration(key, value) }

// Stringer logs the value lazily via its String method.
func Stringer(key string, value interface{ String() string }) Field {
	return zap.Stringer(key, value)
}
