package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
//
// This helper is used for the before/after narrative fields.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetChoice prints a numbered menu of options to w and reads the user's
// pick. Entering an empty line returns defaultIdx. Out-of-range or
// non-numeric input re-prompts.
func GetChoice(reader *bufio.Reader, prompt string, options []string, defaultIdx int, w io.Writer) (int, error) {
	fmt.Fprintln(w, prompt)
	for i, opt := range options {
		marker := " "
		if i == defaultIdx {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %d) %s\n", marker, i+1, opt)
	}

	for {
		line, err := GetSimpleText(reader, "Pick a number", w)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return defaultIdx, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(w, "Enter a number between 1 and %d\n", len(options))
			continue
		}
		return n - 1, nil
	}
}

// GetMultiChoice is like GetChoice but accepts a comma-separated list of
// numbers and returns the picked indexes in input order. At least one pick
// is required.
func GetMultiChoice(reader *bufio.Reader, prompt string, options []string, w io.Writer) ([]int, error) {
	fmt.Fprintln(w, prompt)
	for i, opt := range options {
		fmt.Fprintf(w, "   %d) %s\n", i+1, opt)
	}

	for {
		line, err := GetSimpleText(reader, "Pick numbers (comma-separated)", w)
		if err != nil {
			return nil, err
		}

		var picks []int
		valid := true
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 || n > len(options) {
				valid = false
				break
			}
			picks = append(picks, n-1)
		}
		if !valid || len(picks) == 0 {
			fmt.Fprintf(w, "Enter at least one number between 1 and %d\n", len(options))
			continue
		}
		return picks, nil
	}
}
