package coachcheck

import (
	"strings"

	"github.com/coachcheck/format"
	"github.com/coachcheck/game"
	"github.com/coachcheck/inference"
	"github.com/coachcheck/sampling"
)

const (
	persona       = "You are a helpful chess coaching assistant."
	thinkingRules = "You may reason inside <think>...</think> tags. " +
		"After closing </think>, output ONLY the final answer in the exact format requested, " +
		"no extra text, no commentary, no markdown wrapping around the format."
	thinkingReminder = "IMPORTANT: After your </think> block, output ONLY the formatted response. " +
		"Do not repeat your reasoning or add any text outside the requested format."
	task = "Give a brief coaching insight for this position."
)

// Prompt is the system and user message pair sent for one trial.
type Prompt struct {
	System string
	User   string
}

// Messages returns the prompt as chat messages.
func (p Prompt) Messages() []inference.Message {
	return []inference.Message{
		{Role: inference.RoleSystem, Content: p.System},
		{Role: inference.RoleUser, Content: p.User},
	}
}

// String renders the prompt for trial logs.
func (p Prompt) String() string {
	return "[SYSTEM] " + p.System + "\n[USER] " + p.User
}

// BuildPrompt asks for a coaching insight on pos in the schema s. The
// reasoning-mode directive of conf is appended to the system message.
func BuildPrompt(pos game.Position, s *format.Spec, conf sampling.Config) Prompt {
	system := persona + " " + conf.Directive()
	if conf.Thinking {
		system += "\n" + thinkingRules
	}

	ctx := []string{
		"Position (FEN): " + pos.FEN(),
		"Side to move: " + pos.Side(),
	}
	if pos.LastMove != "" {
		ctx = append(ctx, "Last move: "+pos.LastMove)
	}
	if pos.Phase != "" {
		ctx = append(ctx, "Game phase: "+pos.Phase)
	}
	if b, err := game.Decode(pos.FEN()); err == nil {
		ctx = append(ctx, "Pieces:\n"+game.Describe(b))
	}

	instruction := s.Instruction
	if conf.Thinking {
		instruction += "\n\n" + thinkingReminder
	}
	user := []string{strings.Join(ctx, "\n"), "", task, "", instruction}
	if s.Example != "" {
		user = append(user, "", "Example:", s.Example)
	}
	return Prompt{System: system, User: strings.Join(user, "\n")}
}
