package cmn

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Error a coded framework error, formatted as "[code] Text. { Detail: value, ... }"
type Error struct {
	Code    string
	message string
	cause   error
}

func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the first error passed as a detail parameter, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// ErrFunc returns the formatted Err
type ErrFunc func(params ...interface{}) error

// Err framework error messages pattern
func Err(code string, textAndDetails ...string) ErrFunc {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	buf.WriteString(code)
	buf.WriteString("] ")
	buf.WriteString(textAndDetails[0])
	if !strings.HasSuffix(textAndDetails[0], ".") {
		buf.WriteByte('.')
	}

	size := len(textAndDetails)
	if size > 1 {
		buf.WriteString(" {")
		for i := 1; i < size; i++ {
			if i > 1 {
				buf.WriteString(", ")
			} else {
				buf.WriteByte(' ')
			}
			buf.WriteString(textAndDetails[i])
		}
		buf.WriteString(" }")
	}

	format := buf.String()

	return func(params ...interface{}) error {
		e := &Error{Code: code, message: fmt.Sprintf(format, params...)}
		for _, param := range params {
			if cause, ok := param.(error); ok {
				e.cause = cause
				break
			}
		}
		return e
	}
}

// IsCode checks if err (or any error it wraps) is a framework error with the given code
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
