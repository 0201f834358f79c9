package queue

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// binaryExtensions short-circuits content sniffing for well-known formats.
// PDF and DOCX are intentionally absent: they are binary but first-class
// queue citizens with their own merge lanes.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".mp3": true, ".mp4": true, ".avi": true,
	".mov": true, ".zip": true, ".tar": true, ".gz": true, ".7z": true,
	".rar": true, ".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".bin": true, ".o": true, ".a": true, ".class": true, ".pyc": true,
	".wasm": true, ".ttf": true, ".woff": true, ".woff2": true,
}

// IsCommonBinaryExtension reports whether path has a well-known binary
// extension.
func IsCommonBinaryExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsBinary applies the null-byte and printable-ratio heuristic to the first
// 512 bytes of content.
func IsBinary(content []byte) bool {
	sample := content
	if len(sample) > 512 {
		sample = sample[:512]
	}
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}

func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t'
}

// ErrNotText is returned when content cannot be decoded as text.
var ErrNotText = errors.New("content is not valid text")

// DecodeText decodes content as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8 but still look textual.
func DecodeText(content []byte) (string, error) {
	if bytes.IndexByte(content, 0) >= 0 {
		return "", fmt.Errorf("%w: binary content", ErrNotText)
	}
	if utf8.Valid(content) {
		return string(content), nil
	}
	if IsBinary(content) {
		return "", fmt.Errorf("%w: binary content", ErrNotText)
	}

	// Latin-1 maps every byte to the code point of the same value.
	runes := make([]rune, len(content))
	for i, b := range content {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
