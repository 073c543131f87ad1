package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// stdinReader is shared so consecutive prompts on piped input read consecutive lines
var stdinReader *bufio.Reader

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115 - file descriptors are small integers
}

// ReadPassphrase prompts on stderr and reads a passphrase without echo.
// When stdin is not a terminal it reads one line instead.
func ReadPassphrase(label string) (string, error) {
	if !stdinIsTerminal() {
		if stdinReader == nil {
			stdinReader = bufio.NewReader(os.Stdin)
		}
		return readLine(stdinReader)
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd())) // #nosec G115
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(bytePassword), nil
}

// ReadPassphraseTwice prompts twice and requires both entries to match.
// Piped input is read once.
func ReadPassphraseTwice(label string) (string, error) {
	first, err := ReadPassphrase(label)
	if err != nil || !stdinIsTerminal() {
		return first, err
	}
	second, err := ReadPassphrase("Confirm " + strings.ToLower(label))
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passphrases do not match")
	}
	return first, nil
}

// readLine returns the next line without its line ending. A last line
// without a newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadKeyFile reads an armored key from path, or from stdin when path is "-"
func ReadKeyFile(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", errors.New("key file is empty")
	}
	return key, nil
}
