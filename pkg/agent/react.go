package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is one parsed model emission in the reason/act/observe loop: either a
// final answer or a single tool request.
type Step struct {
	IsFinal     bool
	FinalAnswer string
	Action      string
	ActionInput string
}

var (
	finalAnswerRe = regexp.MustCompile(`(?s)Final Answer:\s*(.+)\z`)
	actionRe      = regexp.MustCompile(`(?m)^\s*Action:\s*(.+)$`)
	actionInputRe = regexp.MustCompile(`(?m)^\s*Action Input:\s*(.+)$`)
)

// ParseStep extracts the next step from raw model output. A Final Answer wins
// over a trailing Action mention; output carrying neither is a parse error.
func ParseStep(output string) (Step, error) {
	if m := finalAnswerRe.FindStringSubmatch(output); m != nil {
		return Step{
			IsFinal:     true,
			FinalAnswer: strings.TrimSpace(m[1]),
		}, nil
	}

	actionMatch := actionRe.FindStringSubmatch(output)
	inputMatch := actionInputRe.FindStringSubmatch(output)
	if actionMatch == nil || inputMatch == nil {
		return Step{}, fmt.Errorf("output matches neither final answer nor action format")
	}

	return Step{
		Action:      strings.TrimSpace(actionMatch[1]),
		ActionInput: strings.Trim(strings.TrimSpace(inputMatch[1]), `"`),
	}, nil
}
