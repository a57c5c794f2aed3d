package prompt

import (
	"fmt"
	"io"
)

// Script answers questions from a fixed list, in order. An empty answer
// selects the question's default. It records every question asked.
type Script struct {
	Answers []string
	Asked   []string
}

// NewScript creates a Script prompter.
func NewScript(answers ...string) *Script {
	return &Script{Answers: answers}
}

func (s *Script) next(question string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q: %w", question, io.EOF)
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

// Ask implements Prompter.
func (s *Script) Ask(question, def string) (string, error) {
	answer, err := s.next(question)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm implements Prompter.
func (s *Script) Confirm(question string, def bool) (bool, error) {
	answer, err := s.next(question)
	if err != nil {
		return false, err
	}
	v, ok := parseYesNo(answer, def)
	if !ok {
		return false, fmt.Errorf("scripted answer %q to %q is not yes/no", answer, question)
	}
	return v, nil
}

// Remaining reports how many answers have not been consumed.
func (s *Script) Remaining() int {
	return len(s.Answers)
}
