package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errCancelled is returned when the user leaves a required selection empty.
var errCancelled = errors.New("selection cancelled")

// Prompter reads answers line by line from one reader, so paths containing
// spaces survive intact.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in *bufio.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Line displays prompt and returns the trimmed reply. A final line without
// a newline is still returned; io.EOF is only reported when nothing was read.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// LineDefault is Line with def returned for an empty reply.
func (p *Prompter) LineDefault(prompt, def string) (string, error) {
	s, err := p.Line(fmt.Sprintf("%s [%s]: ", prompt, def))
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// Confirm asks a yes/no question; an empty reply selects def.
func (p *Prompter) Confirm(prompt string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	for {
		s, err := p.Line(fmt.Sprintf("%s %s: ", prompt, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "please answer y or n")
	}
}

// Float asks until the reply parses as a finite number greater than zero.
func (p *Prompter) Float(prompt string) (float64, error) {
	for {
		s, err := p.Line(prompt)
		if err != nil {
			return 0, err
		}
		v, perr := strconv.ParseFloat(s, 64)
		if perr == nil && v > 0 && v <= 1e6 {
			return v, nil
		}
		fmt.Fprintf(p.out, "invalid scale %q, enter a positive number\n", s)
	}
}

// Choose prints items as a numbered list and returns the index of the
// chosen one. The reply may be a number, a full name or an unambiguous
// name prefix. An empty reply selects def, or cancels when def < 0.
func (p *Prompter) Choose(prompt string, items []string, def int) (int, error) {
	for i, it := range items {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, it)
	}
	label := prompt + ": "
	if def >= 0 && def < len(items) {
		label = fmt.Sprintf("%s [%s]: ", prompt, items[def])
	}
	for {
		s, err := p.Line(label)
		if err != nil {
			return -1, err
		}
		if s == "" {
			if def >= 0 && def < len(items) {
				return def, nil
			}
			return -1, errCancelled
		}
		idx, msg := match(s, items)
		if idx >= 0 {
			return idx, nil
		}
		fmt.Fprintln(p.out, msg)
	}
}

// match resolves a numbered-list reply against items.
func match(s string, items []string) (int, string) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(items) {
			return -1, "invalid selection"
		}
		return n - 1, ""
	}
	lower := strings.ToLower(s)
	for i, it := range items {
		if strings.ToLower(it) == lower {
			return i, ""
		}
	}
	var found []int
	for i, it := range items {
		if strings.HasPrefix(strings.ToLower(it), lower) {
			found = append(found, i)
		}
	}
	switch len(found) {
	case 0:
		return -1, fmt.Sprintf("unknown selection: %s", s)
	case 1:
		return found[0], ""
	}
	var b strings.Builder
	b.WriteString("ambiguous selection, candidates:")
	for _, i := range found {
		b.WriteString("\n  " + items[i])
	}
	return -1, b.String()
}
