package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	PromptDownloadDirectory = "Enter the path where you wish to save the downloaded beatmaps"
	PromptCookie            = "Enter your osu! session cookie"
)

// ErrNoInput is returned by [Prompter.Ask] when input ends before an
// answer was given.
var ErrNoInput = errors.New("no input")

// Prompter asks questions on out and reads one line answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question on its own line and returns the trimmed answer.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprintln(p.out, question); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}
