// Package classify decides whether stored articles are about artificial
// intelligence by asking a chat-completion capability a yes/no question.
package classify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// DefaultPrompt is rendered with .Title and .Summary.
const DefaultPrompt = `Analyze the following article title and summary.
Is the article primarily about Artificial Intelligence (AI), machine learning, large language models, generative AI, neural networks, or closely related AI subfields?

Title: "{{.Title}}"
Summary: "{{.Summary}}"

Answer ONLY with "Yes" or "No".
`

const noSummary = "No summary available."

// Capability is the text-in/text-out service behind the classifier.
type Capability interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CapabilityFunc adapts a function to Capability.
type CapabilityFunc func(ctx context.Context, prompt string) (string, error)

func (f CapabilityFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type Options struct {
	// Prompt overrides DefaultPrompt.
	Prompt string
	// MinInterval overrides DefaultMinInterval. Negative disables the gate.
	MinInterval time.Duration
}

// Classifier wraps a Capability with the prompt, the answer contract and the
// rate gate. It never retries.
type Classifier struct {
	capability Capability
	prompt     *template.Template
	gate       *Gate
}

func New(capability Capability, opts Options) (*Classifier, error) {
	text := opts.Prompt
	if strings.TrimSpace(text) == "" {
		text = DefaultPrompt
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	interval := opts.MinInterval
	if interval == 0 {
		interval = DefaultMinInterval
	}
	return &Classifier{capability: capability, prompt: tmpl, gate: NewGate(interval)}, nil
}

// Prompt renders the question sent for an article.
func (c *Classifier) Prompt(title, summary string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		summary = noSummary
	}
	var buf bytes.Buffer
	data := struct{ Title, Summary string }{Title: title, Summary: summary}
	if err := c.prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Classify reports whether the article is AI related.
func (c *Classifier) Classify(ctx context.Context, title, summary string) (bool, error) {
	prompt, err := c.Prompt(title, summary)
	if err != nil {
		return false, err
	}
	if err := c.gate.Wait(ctx); err != nil {
		return false, err
	}
	answer, err := c.capability.Complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	return Interpret(answer)
}

// Interpret maps a capability answer onto a verdict. Case, surrounding
// whitespace, quotes and periods are ignored.
func Interpret(answer string) (bool, error) {
	cleaned := strings.ToLower(strings.TrimSpace(answer))
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Trim(cleaned, "\"'!* \n\t")
	switch cleaned {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrMalformed, truncate(answer, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
