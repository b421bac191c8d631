package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// decodeBody undoes the Content-Encoding of raw. Unknown encodings are passed
// through untouched.
func decodeBody(encoding string, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return raw, nil
	}
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(io.LimitReader(zr, maxBodySize))
	case "deflate":
		// RFC 9110 deflate is zlib-wrapped, but plenty of servers send raw
		// DEFLATE instead.
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			return io.ReadAll(io.LimitReader(zr, maxBodySize))
		}
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		return io.ReadAll(io.LimitReader(fr, maxBodySize))
	case "br":
		return io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(raw)), maxBodySize))
	default:
		return raw, nil
	}
}
