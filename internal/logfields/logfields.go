package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySource     = "source"
	KeyOutput     = "output"
	KeyFolder     = "folder"
	KeyTheme      = "theme"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCacheHit   = "cache_hit"
	KeyError      = "error"
)

func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Folder(p string) slog.Attr       { return slog.String(KeyFolder, p) }
func Theme(p string) slog.Attr        { return slog.String(KeyTheme, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func CacheHit(hit bool) slog.Attr     { return slog.Bool(KeyCacheHit, hit) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
