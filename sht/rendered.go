package sht

import (
	"bytes"
	"fmt"
)

// Rendered structure of a Compiled
type Rendered struct {
	Static      *[]string     `json:"s"` // a list of literal strings
	Dynamics    []interface{} `json:"d"` // nil, string, *Rendered, Deferred
	Fingerprint string        `json:"f"`
	Root        bool          `json:"r"`
	Assets      []string      `json:"-"` // names of the compiled assets required by this render
}

// Write the output to the given buffer
func (r *Rendered) Write(buffer *bytes.Buffer) {
	if r == nil || r.Static == nil {
		return
	}
	static := *r.Static
	for i := 0; i < len(static); i++ {
		if i > 0 && i-1 < len(r.Dynamics) {
			switch dynamic := r.Dynamics[i-1].(type) {
			case nil:
			case string:
				buffer.WriteString(dynamic)
			case *Rendered:
				dynamic.Write(buffer)
			case Deferred:
				buffer.WriteString(dynamic.Resolve())
			default:
				buffer.WriteString(fmt.Sprintf("%v", dynamic))
			}
		}
		buffer.WriteString(static[i])
	}
}

// String convert the result to string
func (r *Rendered) String() string {
	buf := &bytes.Buffer{}
	r.Write(buf)
	return buf.String()
}
