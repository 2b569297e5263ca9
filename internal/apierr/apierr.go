// Package apierr turns arbitrary errors into the text of an error envelope.
//
// Message tries, in order, the error's own message, a best-effort string
// rendering of the value, and finally the fixed Unknown text. Each tier is
// exported so it can be exercised on its own. None of them panic.
package apierr

import (
	"fmt"
	"strings"
)

// Unknown is used when nothing better can be derived from an error.
const Unknown = "Unknown error"

// Message returns the client-facing text for err.
func Message(err error) string {
	if msg, ok := FromMessage(err); ok {
		return msg
	}
	if msg, ok := FromString(err); ok {
		return msg
	}
	return Unknown
}

// FromMessage returns err.Error() when it is non-empty.
func FromMessage(err error) (msg string, ok bool) {
	if err == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			msg, ok = "", false
		}
	}()
	msg = strings.TrimSpace(err.Error())
	return msg, msg != ""
}

// FromString renders err with fmt's Go-syntax verb, which does not go
// through Error() and so still works for errors with broken messages.
func FromString(err error) (msg string, ok bool) {
	if err == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			msg, ok = "", false
		}
	}()
	msg = strings.TrimSpace(fmt.Sprintf("%#v", err))
	if msg == "" || strings.Contains(msg, "%!") {
		return "", false
	}
	return msg, true
}
