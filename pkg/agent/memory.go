package agent

import (
	"strings"

	"news-agent-be/internal/constant"
	"news-agent-be/pkg/llm"
)

// Memory is the agent's volatile conversation buffer. It is rebuilt from
// persisted messages at the start of every turn and is never the system of
// record. One Memory belongs to exactly one Agent, one Agent to one turn.
type Memory struct {
	messages []llm.Message
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Clear() {
	m.messages = m.messages[:0]
}

// Replay appends history into the buffer in order. Roles outside
// user/assistant are ignored.
func (m *Memory) Replay(history []llm.Message) {
	for _, msg := range history {
		if msg.Role != constant.ChatMessageRoleUser && msg.Role != constant.ChatMessageRoleAssistant {
			continue
		}
		m.messages = append(m.messages, msg)
	}
}

func (m *Memory) Add(role, content string) {
	m.messages = append(m.messages, llm.Message{Role: role, Content: content})
}

func (m *Memory) Messages() []llm.Message {
	out := make([]llm.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *Memory) Len() int {
	return len(m.messages)
}

// Render produces the alternating User:/Assistant: transcript embedded in the
// agent prompt.
func (m *Memory) Render() string {
	if len(m.messages) == 0 {
		return ""
	}

	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case constant.ChatMessageRoleUser:
			b.WriteString("User: ")
		case constant.ChatMessageRoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}
