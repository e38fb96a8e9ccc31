package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter reads answers from the command's input. Passwords are read
// without echo when the input is a terminal.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line(label string) (string, error) {
	p.cmd.Print(label)
	s, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) password(label string) (string, error) {
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.cmd.Print(label)
		b, err := term.ReadPassword(int(f.Fd()))
		p.cmd.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return p.line(label)
}

func (p *prompter) confirm(label string) (bool, error) {
	s, err := p.line(label + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
