/*
Package imageurl rewrites image sharing links into URLs that can be used
directly as an image source.
*/
package imageurl

import (
	"regexp"
	"strings"
)

const (
	directViewMarker = "drive.google.com/uc?export=view"
	directViewPrefix = "https://drive.google.com/uc?export=view&id="
)

/*
Share link shapes, tried in order. The first capture group is the file ID.
*/
var shareLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`drive\.google\.com/open\?id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`drive\.google\.com/uc\?(?:.*&)?id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`drive\.google\.com/thumbnail\?(?:.*&)?id=([a-zA-Z0-9_-]+)`),
}

/*
Normalize converts a pasted image URL into a directly embeddable one. Google
Drive share links become https://drive.google.com/uc?export=view&id={fileId}.
Anything it does not recognize comes back trimmed but otherwise unchanged,
so it is safe to call any number of times on the same value.
*/
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}

	trimmed := strings.TrimSpace(raw)

	if strings.Contains(trimmed, directViewMarker) {
		return trimmed
	}

	if fileID, ok := ExtractFileID(trimmed); ok {
		return directViewPrefix + fileID
	}

	return trimmed
}

/*
ExtractFileID returns the Drive file ID from any supported share link shape.
*/
func ExtractFileID(link string) (string, bool) {
	for _, pattern := range shareLinkPatterns {
		if match := pattern.FindStringSubmatch(link); match != nil {
			return match[1], true
		}
	}

	return "", false
}

/*
IsNormalized reports whether value is already what Normalize would return.
*/
func IsNormalized(value string) bool {
	return Normalize(value) == value
}
