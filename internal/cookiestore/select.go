package cookiestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errNoCandidates = errors.New("cookiestore: empty candidate list")

// Selector chooses one cookie database out of a non-empty candidate set.
// It is only consulted when more than one candidate exists; a single
// candidate is selected automatically.
type Selector interface {
	Choose(candidates []Candidate) (int, error)
}

// PromptSelector lists the candidates with index numbers on Out and reads
// the operator's choice from In. Out-of-range or non-numeric input is
// rejected and the prompt repeats; exhausted input is an error.
type PromptSelector struct {
	In  io.Reader
	Out io.Writer
}

func (s PromptSelector) Choose(candidates []Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, errNoCandidates
	}

	fmt.Fprintln(s.Out, "Multiple cookie databases found:")
	for i, c := range candidates {
		fmt.Fprintf(s.Out, "  [%d] %s (%s)\n", i, c.Path, c.Profile)
	}

	scanner := bufio.NewScanner(s.In)
	for {
		fmt.Fprintf(s.Out, "Choose one [0-%d]: ", len(candidates)-1)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("no selection made for %d candidates", len(candidates))
		}
		idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || idx < 0 || idx >= len(candidates) {
			fmt.Fprintf(s.Out, "invalid choice %q\n", strings.TrimSpace(scanner.Text()))
			continue
		}
		return idx, nil
	}
}

// FixedSelector always picks the same index. It backs the --db-index flag
// and keeps interactive branches out of tests.
type FixedSelector int

func (s FixedSelector) Choose(candidates []Candidate) (int, error) {
	idx := int(s)
	if idx < 0 || idx >= len(candidates) {
		return 0, fmt.Errorf("database index %d out of range [0-%d]", idx, len(candidates)-1)
	}
	return idx, nil
}
