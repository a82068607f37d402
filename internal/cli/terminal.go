package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const keyCtrlC = 0x03

var errNotInteractive = errors.New("needs an interactive terminal")

func isInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// rawKeys switches f into raw mode and delivers single key presses until ctx is done.
// The returned function restores the terminal.
func rawKeys(ctx context.Context, f *os.File) (<-chan rune, func(), error) {
	if !isInteractive(f) {
		return nil, nil, errNotInteractive
	}

	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	restore := func() { _ = term.Restore(fd, state) }

	keys := make(chan rune)
	go func() {
		defer close(keys)
		r := bufio.NewReader(f)
		for {
			key, _, err := r.ReadRune()
			if err != nil {
				return
			}
			select {
			case keys <- key:
			case <-ctx.Done():
				return
			}
		}
	}()

	return keys, restore, nil
}

// crlfWriter turns \n into \r\n, which a terminal in raw mode needs to return the carriage.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
