// Package logging points the standard logger at stderr and, optionally, a
// size-rotated log file.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup redirects the standard logger. With an empty path it only writes to
// stderr. The returned closer releases the log file.
func Setup(path string) io.Closer {
	w, closer := Writer(path)
	log.SetOutput(w)
	return closer
}

// SetupFile sends the standard logger to the rotating file only, for
// interactive programs that own the terminal.
func SetupFile(path string) io.Closer {
	rotator := newRotator(path)
	log.SetOutput(rotator)
	return rotator
}

// Writer builds the log destination without installing it.
func Writer(path string) (io.Writer, io.Closer) {
	if path == "" {
		return os.Stderr, nopCloser{}
	}
	rotator := newRotator(path)
	return io.MultiWriter(os.Stderr, rotator), rotator
}

func newRotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
