package serialize

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// Sink receives a rendered document.
type Sink interface {
	// Write delivers doc, rendered in format f, and returns a description of
	// where it went.
	Write(f Format, doc []byte) (string, error)
}

// StreamSink writes documents to an io.Writer such as os.Stdout.
type StreamSink struct {
	W    io.Writer
	Name string // shown in errors and logs, defaults to "<stream>"
}

func (s StreamSink) name() string {
	if s.Name == "" {
		return "<stream>"
	}
	return s.Name
}

// Write copies doc to the underlying writer.
func (s StreamSink) Write(_ Format, doc []byte) (string, error) {
	if s.W == nil {
		return "", &rdf.IOError{Op: "write", Path: s.name(), Err: fmt.Errorf("no writer configured")}
	}
	if _, err := s.W.Write(doc); err != nil {
		return "", &rdf.IOError{Op: "write", Path: s.name(), Err: err}
	}
	return s.name(), nil
}

// FileSink writes documents to <Base>.<extension>, creating or truncating
// the file.
type FileSink struct {
	Base string
	Perm os.FileMode // defaults to 0644
}

// Path returns the file the sink writes for format f.
func (s FileSink) Path(f Format) (string, error) {
	ext, err := ExtensionFor(f)
	if err != nil {
		return "", err
	}
	if s.Base == "" {
		return "", rdf.NewConfigError("output", nil, "empty output base name")
	}
	if strings.HasSuffix(s.Base, "."+ext) {
		return "", rdf.NewConfigError("output", nil, "base name %q already ends in .%s", s.Base, ext)
	}
	return s.Base + "." + ext, nil
}

// Write stores doc in the file for f. The file is closed on every path and
// a failed close is reported as a write failure.
func (s FileSink) Write(f Format, doc []byte) (path string, err error) {
	path, err = s.Path(f)
	if err != nil {
		return "", err
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return "", &rdf.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			path, err = "", &rdf.IOError{Op: "close", Path: path, Err: closeErr}
		}
	}()

	if _, err := file.Write(doc); err != nil {
		return "", &rdf.IOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}
