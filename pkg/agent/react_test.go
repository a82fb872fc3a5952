package agent

import (
	"testing"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		name            string
		output          string
		wantErr         bool
		wantFinal       bool
		wantFinalAnswer string
		wantAction      string
		wantActionInput string
	}{
		{
			name:            "final answer",
			output:          "Thought: I now know the final answer\nFinal Answer: Tech stocks rallied today.",
			wantFinal:       true,
			wantFinalAnswer: "Tech stocks rallied today.",
		},
		{
			name:            "multiline final answer",
			output:          "Final Answer: First line.\nSecond line.",
			wantFinal:       true,
			wantFinalAnswer: "First line.\nSecond line.",
		},
		{
			name:            "action with input",
			output:          "Thought: I should search for this.\nAction: NewsSearch\nAction Input: AI chip exports",
			wantAction:      "NewsSearch",
			wantActionInput: "AI chip exports",
		},
		{
			name:            "quoted action input is unwrapped",
			output:          "Action: NewsSearch\nAction Input: \"climate summit\"",
			wantAction:      "NewsSearch",
			wantActionInput: "climate summit",
		},
		{
			name:            "final answer wins over earlier action",
			output:          "Action: NewsSearch\nAction Input: x\nFinal Answer: done",
			wantFinal:       true,
			wantFinalAnswer: "done",
		},
		{
			name:    "neither format",
			output:  "I am not sure what to do here.",
			wantErr: true,
		},
		{
			name:    "action without input",
			output:  "Action: NewsSearch",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := ParseStep(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStep() expected error, got %+v", step)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStep() error = %v", err)
			}

			if step.IsFinal != tt.wantFinal {
				t.Errorf("IsFinal = %v, want %v", step.IsFinal, tt.wantFinal)
			}
			if step.FinalAnswer != tt.wantFinalAnswer {
				t.Errorf("FinalAnswer = %q, want %q", step.FinalAnswer, tt.wantFinalAnswer)
			}
			if step.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", step.Action, tt.wantAction)
			}
			if step.ActionInput != tt.wantActionInput {
				t.Errorf("ActionInput = %q, want %q", step.ActionInput, tt.wantActionInput)
			}
		})
	}
}
