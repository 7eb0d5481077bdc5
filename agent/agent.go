// Package agent routes free-text requests between the conversational and
// analytical backends and runs the scheduled notification cycle.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rkaranam/concierge/backend"
	"github.com/rkaranam/concierge/notify"
)

// Agent owns the long-lived chat lane and dispatches by lane.
type Agent struct {
	conversational backend.Generator
	analytical     backend.Generator
	sink           notify.Sink
}

func New(conversational, analytical backend.Generator, sink notify.Sink) *Agent {
	return &Agent{
		conversational: conversational,
		analytical:     analytical,
		sink:           sink,
	}
}

// Process classifies text and delegates to the matching backend. Backend
// failures degrade to an error string; they never propagate.
func (a *Agent) Process(ctx context.Context, text string) string {
	if Classify(text) == LaneAnalytical {
		out, err := a.analytical.Generate(ctx, text, nil, backend.Opts{})
		if err != nil {
			return fmt.Sprintf("Error processing with Gemini: %v", err)
		}
		return out
	}

	out, err := a.conversational.Generate(ctx, text, nil, backend.Opts{MaxTokens: 500, Temperature: 0.7})
	if err != nil {
		return fmt.Sprintf("Error processing with OpenAI: %v", err)
	}
	return out
}

// RunCycle fires one scheduled cycle: two fixed timestamped prompts, one
// straight to each backend (the classifier is bypassed on this path), and a
// notification per result. Delivery failures are logged, never retried, and
// never abort the cycle.
func (a *Agent) RunCycle() {
	now := time.Now().Format("2006-01-02 15:04:05")
	ctx := context.Background()

	chatPrompt := fmt.Sprintf("Current time is %s. What's an interesting conversation starter or thought-provoking question?", now)
	researchPrompt := fmt.Sprintf("Current time is %s. Analyze the latest trends in AI development and provide a brief technical summary.", now)

	chatOut, err := a.conversational.Generate(ctx, chatPrompt, nil, backend.Opts{MaxTokens: 500, Temperature: 0.7})
	if err != nil {
		chatOut = fmt.Sprintf("Error processing with OpenAI: %v", err)
	}
	researchOut, err := a.analytical.Generate(ctx, researchPrompt, nil, backend.Opts{})
	if err != nil {
		researchOut = fmt.Sprintf("Error processing with Gemini: %v", err)
	}

	a.notifyUser(chatOut, "AI Chat Update")
	a.notifyUser(researchOut, "AI Research Update")

	log.Printf("[INFO] cycle completed at %s", now)
}

func (a *Agent) notifyUser(message, title string) {
	if err := a.sink.Send(message, title); err != nil {
		log.Printf("[ERROR] notification %q not delivered: %v", title, err)
		return
	}
	log.Printf("[INFO] notification sent: %s", title)
}
