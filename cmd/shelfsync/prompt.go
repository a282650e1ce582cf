package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptLine prints msg to w and reads one trimmed line from r.
func promptLine(r io.Reader, w io.Writer, msg string) (string, error) {
	fmt.Fprint(w, msg)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a value without echoing it when stdin is a
// terminal, falling back to a plain line read when it is not (pipes,
// tests).
func promptSecret(w io.Writer, msg string) (string, error) {
	fmt.Fprint(w, msg)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}
	return promptLine(os.Stdin, io.Discard, "")
}
