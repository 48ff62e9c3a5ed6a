package telemetry

import (
	"log/slog"
	"strings"
)

// Keys that must never reach a log sink in clear text.
var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"password":      true,
	"secret":        true,
	"token":         true,
}

// RedactAttr masks attribute values whose keys name credentials. Suitable
// as a slog ReplaceAttr function.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		a.Value = slog.StringValue(MaskSecret(a.Value.String()))
	}
	return a
}

// MaskSecret keeps the first four characters of a credential and masks
// the rest, enough to tell keys apart in logs without exposing them.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", 4)
}
