// File: pkg/bundle/document.go
package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"codeloom/pkg/charset"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// document owns the output side of a run: the locked output file handle
// plus the buffered, charset-encoding write chain on top of it.
type document struct {
	path string
	lock *flock.Flock
	file *os.File
	buf  *bufio.Writer
	out  io.WriteCloser
}

// openDocument locks outputPath and opens it for writing, truncating any
// previous content. The lock is held for the whole run so two concurrent
// runs cannot interleave sections in one file.
func openDocument(outputPath string, enc *charset.Encoding) (*document, error) {
	// flock creates the file itself when it does not exist yet, so it
	// must carry the output mode rather than its 0600 default.
	lock := flock.New(outputPath, flock.SetPermissions(0o644))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output file %s: %w", outputPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("output file %s is in use by another process", outputPath)
	}

	file, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}

	buf := bufio.NewWriter(file)
	return &document{
		path: outputPath,
		lock: lock,
		file: file,
		buf:  buf,
		out:  enc.NewWriter(buf),
	}, nil
}

// writeSection appends one framed file to the document.
func (d *document) writeSection(section []byte) error {
	if _, err := d.out.Write(section); err != nil {
		return fmt.Errorf("failed to write to output file %s: %w", d.path, err)
	}
	return nil
}

// Close flushes every layer, closes the file, and releases the lock. The
// first failure wins; later layers are still closed.
func (d *document) Close() error {
	var firstErr error
	if err := d.out.Close(); err != nil {
		firstErr = fmt.Errorf("failed to flush encoder for %s: %w", d.path, err)
	}
	if err := d.buf.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to flush output file %s: %w", d.path, err)
	}
	if err := d.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close output file %s: %w", d.path, err)
	}
	if err := d.lock.Unlock(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to unlock output file %s: %w", d.path, err)
	}
	return firstErr
}

// abort tears the document down on a failing run, where close errors are
// secondary to the error already being returned.
func (d *document) abort(logger *zap.Logger) {
	if err := d.Close(); err != nil {
		logger.Debug("Failed to close output file after error", zap.String("filePath", d.path), zap.Error(err))
	}
}

// sectionBytes frames one file for the document: a comment line carrying
// the bare filename, set off by blank lines, then the content and a
// trailing newline.
func sectionBytes(name string, content []byte) []byte {
	section := make([]byte, 0, len("\n\n// \n\n")+len(name)+len(content)+1)
	section = append(section, "\n\n// "...)
	section = append(section, name...)
	section = append(section, "\n\n"...)
	section = append(section, content...)
	section = append(section, '\n')
	return section
}
