package ldap

import (
	"context"
	"log/slog"
)

// logger is the package-wide slog handle. It defaults to slog.Default() so
// the package is usable with zero setup, and can be redirected with
// SetLogger (e.g. to attach connection/request attributes) the same way
// callers of the teacher's package swapped its *log.Logger.
var logger = slog.Default()

// SetLogger replaces the logger used for the warnings this package emits
// (non-0xFF booleans, ModifyDN newSuperior edge cases). Unrecognized
// control/extended OIDs are kept as opaque bytes without a warning.
// Decode/Encode never return errors for these
// cases — they are warnings, not failures — so a caller that cares has to
// observe them through logging instead.
func SetLogger(l *slog.Logger) { logger = l }

func logWarn(msg string, args ...any) {
	logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}
