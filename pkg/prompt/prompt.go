package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed reports that the input ran out before a valid answer was
// given.
var ErrClosed = errors.New("prompt input closed")

// Asker reads answers to interactive questions. Answers are trimmed and
// lowercased before matching, and the question is repeated until one of
// the accepted answers is given.
type Asker struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns an Asker that writes questions to out and reads answers
// from in, one per line.
func New(in io.Reader, out io.Writer) *Asker {
	return &Asker{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask writes the question and reads lines until one matches an entry of
// valid (case-insensitive). The matched entry is returned in its valid
// spelling.
func (a *Asker) Ask(question string, valid ...string) (string, error) {
	if len(valid) == 0 {
		return "", fmt.Errorf("no valid answers for question %q", question)
	}
	for {
		fmt.Fprint(a.out, question)
		line, err := a.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		for _, v := range valid {
			if answer == strings.ToLower(v) {
				return v, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("no answer to %q: %w", question, ErrClosed)
			}
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
	}
}

// AskYesNo asks a yes/no question and reports whether the answer was yes.
func (a *Asker) AskYesNo(question string) (bool, error) {
	answer, err := a.Ask(question, "yes", "no")
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}
