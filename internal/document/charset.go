package document

import (
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// toUTF8 converts body to UTF-8. The Content-Type charset wins, then an
// HTML meta declaration, then statistical detection.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}

	label := declaredCharset(contentType)
	if label == "" {
		if utf8.Valid(body) {
			return body, nil
		}
		// windows-1252 is DetermineEncoding's answer when nothing is declared
		if _, name, _ := charset.DetermineEncoding(body, contentType); name != "windows-1252" {
			label = name
		} else {
			label = detectCharset(body)
		}
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	if name == "utf-8" {
		return body, nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return decoded, nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

// detectCharset guesses the encoding, defaulting to windows-1252 like
// browsers do for undeclared legacy pages
func detectCharset(body []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil || result == nil {
		return "windows-1252"
	}
	if enc, _ := charset.Lookup(result.Charset); enc == nil {
		return "windows-1252"
	}
	return strings.ToLower(result.Charset)
}
