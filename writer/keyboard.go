package writer

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

const ctrlC = 3

type Key int

const (
	KeyAdmin Key = iota
	KeyDisconnect
	KeyQuit
)

// ReadKeys puts the terminal in raw mode and reports the dashboard keys.
// The returned function restores the terminal.
func ReadKeys(in *os.File) (<-chan Key, func(), error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil, errors.New("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, errors.Wrap(err, "enter raw mode")
	}
	restore := func() { _ = term.Restore(fd, oldState) }

	keys := make(chan Key, 1)
	go scanKeys(in, keys)
	return keys, restore, nil
}

func scanKeys(in io.Reader, keys chan<- Key) {
	defer close(keys)
	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			switch b {
			case 'a', 'A':
				keys <- KeyAdmin
			case 'x', 'X':
				keys <- KeyDisconnect
			case 'q', 'Q', ctrlC:
				keys <- KeyQuit
				return
			}
		}
		if err != nil {
			return
		}
	}
}

type crlfWriter struct {
	out io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.out.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
