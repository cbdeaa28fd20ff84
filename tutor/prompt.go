package tutor

import "strings"

const SocraticInstructions = `You are a teaching assistant for Data Structures and Algorithms, using the Socratic method to guide students.

Rules:
1. Ask step-by-step questions to help the student figure out the answer.
2. Never give the final answer directly - lead the student with probing questions.
3. If the student's response is incorrect, gently correct them with a follow-up question.
4. Use small examples to illustrate concepts and ask the student to predict the next step.
5. When comparing algorithms, ask what aspect the student wants to compare (e.g., speed, space, stability).
6. For time complexity questions, explain with real-world analogies and prompt the student to guess the impact.
7. If the student suggests an impossible scenario (like O(1) sorting), explain why it's impossible and ask what trade-offs they'd consider.
8. Acknowledge topic shifts and transition smoothly with a relevant follow-up question.
9. For vague or overly broad queries, give a concise summary and ask what aspect the student wants to explore.`

const (
	contextHeader  = "Conversation so far:"
	inputHeader    = "Student's input:"
	closingRequest = "Respond with a thoughtful question to guide the student."
)

// PromptBuilder renders the instruction template around the conversation
// context and the latest message. MaxTurns limits the context block to the
// most recent turns; zero or less renders everything.
type PromptBuilder struct {
	Instructions string
	MaxTurns     int
}

func NewPromptBuilder(maxTurns int) PromptBuilder {
	return PromptBuilder{Instructions: SocraticInstructions, MaxTurns: maxTurns}
}

func (p PromptBuilder) Build(history []Turn, message string) string {
	instr := p.Instructions
	if instr == "" {
		instr = SocraticInstructions
	}
	b := strings.Builder{}
	b.WriteString(instr)
	b.WriteString("\n\n")
	if window := Window(history, p.MaxTurns); len(window) > 0 {
		b.WriteString(contextHeader)
		b.WriteString("\n")
		for _, t := range window {
			b.WriteString(roleLabel(t.Role))
			b.WriteString(": ")
			b.WriteString(oneLine(t.Text))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(inputHeader)
	b.WriteString("\n")
	b.WriteString("\"")
	b.WriteString(message)
	b.WriteString("\"")
	b.WriteString("\n\n")
	b.WriteString(closingRequest)
	return b.String()
}

// BuildPrompt renders with the default instructions and context window.
func BuildPrompt(history []Turn, message string) string {
	return NewPromptBuilder(DefaultContextTurns).Build(history, message)
}

const DefaultContextTurns = 20

// Window returns the last max turns of history, or all of it when max <= 0.
func Window(history []Turn, max int) []Turn {
	if max <= 0 || len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}

func roleLabel(r Role) string {
	if r == RoleAssistant {
		return "Assistant"
	}
	return "Student"
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
