// Package request extracts the request target from a raw HTTP request buffer.
package request

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrMalformedRequest is returned when the buffer does not hold a usable request line.
var ErrMalformedRequest = errors.New("malformed request")

// Request is the parsed request line.
// Target, then Decoded, drives the response; Method and Version are kept for logging.
type Request struct {
	Method string
	// Target is the second token of the request line with one leading
	// slash removed and nothing else changed. An empty Target names the root.
	Target string
	// Decoded is Target with any query dropped and percent escapes decoded.
	// It equals Target when there is nothing to decode or an escape is invalid.
	Decoded string
	Version string
}

// Parse reads the request line out of buf.
//
// buf is typically a single fixed-size read from a connection and may be
// truncated; only the first CRLF-terminated line is consulted.
func Parse(buf []byte) (*Request, error) {
	end := bytes.Index(buf, []byte("\r\n"))
	if end < 0 {
		return nil, fmt.Errorf("%w: no line terminator", ErrMalformedRequest)
	}
	line := buf[:end]
	if !utf8.Valid(line) {
		return nil, fmt.Errorf("%w: request line is not valid UTF-8", ErrMalformedRequest)
	}

	fields := strings.Fields(string(line))
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: request line %q has no target", ErrMalformedRequest, line)
	}

	req := &Request{Method: fields[0]}
	if len(fields) > 2 {
		req.Version = fields[2]
	}

	req.Target = strings.TrimPrefix(fields[1], "/")
	req.Decoded = decode(req.Target)
	return req, nil
}

// decode returns the path part of target with escapes resolved, or target
// itself when it is not a valid escaped path.
func decode(target string) string {
	path := target
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return target
	}
	return unescaped
}
