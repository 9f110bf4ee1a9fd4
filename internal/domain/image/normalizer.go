package image

import "strings"

const dataURLMarker = "data:image"

// NormalizeBase64 strips a data-URL prefix from a base64 image string, e.g.
// "data:image/jpeg;base64,/9j/4AAQ..." -> "/9j/4AAQ...". Strings without the
// marker pass through unchanged, which also makes the function idempotent.
// A marker without a separating comma is left untouched rather than rejected.
func NormalizeBase64(data string) string {
	if !strings.HasPrefix(data, dataURLMarker) {
		return data
	}
	if idx := strings.Index(data, ","); idx != -1 {
		return data[idx+1:]
	}
	return data
}
