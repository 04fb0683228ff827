// Package response turns resolved targets into complete HTTP responses.
package response

import (
	"bytes"
	"fmt"
	"io"
)

const version = "HTTP/1.1"

// Response is a status line, an optional Content-Type and a body.
// No other headers are ever written.
type Response struct {
	Status      int
	Phrase      string
	ContentType string
	Body        []byte
}

// NotFound returns the bare 404 response.
func NotFound() *Response {
	return &Response{Status: 404, Phrase: "Not Found"}
}

// BadRequest returns the bare 400 response sent for malformed requests.
func BadRequest() *Response {
	return &Response{Status: 400, Phrase: "Bad Request"}
}

// InternalError returns the bare 500 response sent when a response could
// not be built.
func InternalError() *Response {
	return &Response{Status: 500, Phrase: "Internal Server Error"}
}

// OK returns a 200 response carrying body as contentType.
func OK(contentType string, body []byte) *Response {
	return &Response{
		Status:      200,
		Phrase:      "OK",
		ContentType: contentType,
		Body:        body,
	}
}

// Bytes renders the response as it goes on the wire.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(64 + len(r.Body))
	fmt.Fprintf(&buf, "%s %d %s\r\n", version, r.Status, r.Phrase)
	if r.ContentType != "" {
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", r.ContentType)
	}
	buf.WriteString("\r\n")
	buf.Write(r.Body)
	return buf.Bytes()
}

// WriteTo writes the whole response with a single Write call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
