package input

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin cannot be put into raw mode.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// KeyReader delivers single key presses from a raw-mode terminal without
// waiting for Enter.
type KeyReader struct {
	fd       int
	oldState *term.State
	keys     chan RawInput
}

// NewKeyReader puts stdin into raw mode and starts reading keys. Close
// restores the terminal.
func NewKeyReader() (*KeyReader, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	k := &KeyReader{
		fd:       fd,
		oldState: oldState,
		keys:     make(chan RawInput, 16),
	}
	go k.read(os.Stdin)
	return k, nil
}

// Keys is closed when stdin reaches EOF or fails.
func (k *KeyReader) Keys() <-chan RawInput {
	return k.keys
}

// Close restores the terminal to its previous mode.
func (k *KeyReader) Close() error {
	return term.Restore(k.fd, k.oldState)
}

// read takes whatever one read returns as a unit. Terminals deliver an
// escape sequence in a single write, so a chunk holding only ESC is the Esc
// key and nothing waits for a byte that may never come.
func (k *KeyReader) read(r io.Reader) {
	defer close(k.keys)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, code := range DecodeChunk(buf[:n]) {
			select {
			case k.keys <- RawInput{Device: DeviceTerminal, Code: code, Timestamp: time.Now()}:
			default:
				// Channel full, drop input
			}
		}
		if err != nil {
			return
		}
	}
}

// DecodeChunk decodes every key press in one terminal read. A sequence cut
// off at the end of the chunk is dropped.
func DecodeChunk(chunk []byte) []string {
	var codes []string
	r := bytes.NewReader(chunk)
	for r.Len() > 0 {
		code, err := ReadKey(r)
		if err != nil {
			break
		}
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// ReadKey decodes one key press from a raw terminal stream. Unknown escape
// sequences decode to "".
func ReadKey(r io.ByteScanner) (string, error) {
	b, err := r.ReadByte()
	if err != nil {
		return "", err
	}

	switch {
	case b == 0x1b:
		return readEscape(r)
	case b == 3:
		return "ctrl_c", nil
	case b == '\r' || b == '\n':
		return "enter", nil
	case b == '\t':
		return "tab", nil
	case b == ' ':
		return "space", nil
	case b == 127 || b == 8:
		return "backspace", nil
	case b >= 'A' && b <= 'Z':
		return string(b + ('a' - 'A')), nil
	case b > 32 && b < 127:
		return string(b), nil
	}
	return "", nil
}

// readEscape handles the bytes after ESC. Both CSI (ESC [) and SS3 (ESC O)
// arrow sequences are understood; a doubled ESC is a plain escape, and ESC
// followed by any other byte is Esc with that byte left for the next key.
func readEscape(r io.ByteScanner) (string, error) {
	b2, err := r.ReadByte()
	if err != nil {
		return "escape", nil
	}
	if b2 == 0x1b {
		return "escape", nil
	}
	if b2 != '[' && b2 != 'O' {
		if err := r.UnreadByte(); err != nil {
			return "", err
		}
		return "escape", nil
	}

	b3, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	switch b3 {
	case 'A':
		return "arrow_up", nil
	case 'B':
		return "arrow_down", nil
	case 'C':
		return "arrow_right", nil
	case 'D':
		return "arrow_left", nil
	}

	// Numbered sequences such as ESC [ 2 0 ~ for F9.
	var num []byte
	for b3 >= '0' && b3 <= '9' || b3 == ';' {
		num = append(num, b3)
		if b3, err = r.ReadByte(); err != nil {
			return "", err
		}
	}
	if b3 != '~' {
		return "", nil
	}
	return functionKeys[string(num)], nil
}

var functionKeys = map[string]string{
	"15": "f5",
	"20": "f9",
	"24": "f12",
}
