// Package format renders synthetic HTTP access records.
package format

// Formatter renders a single record for the given request path and HTTP
// status code. Rendered records carry no trailing newline; framing is the
// responsibility of the output.
type Formatter interface {
	Render(path string, status int) ([]byte, error)
}
