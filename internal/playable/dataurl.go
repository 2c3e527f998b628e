package playable

import (
	"encoding/base64"
	"errors"
	"strings"
)

const htmlMIME = "text/html"

// ErrNotDataURL is returned by DecodeDataURL for anything that is not a base64 data URL.
var ErrNotDataURL = errors.New("not a base64 data URL")

// DataURL encodes an HTML document as a base64 data URL.
func DataURL(doc string) string {
	return EncodeDataURL(htmlMIME, []byte(doc))
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its media type and payload.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}
