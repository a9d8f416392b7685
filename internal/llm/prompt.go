package llm

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt constructs the system prompt sent alongside every
// measurement query. It is deliberately brand-agnostic: it carries only the
// target region and language, never the tracked brand, so the model's answer
// is not biased toward or away from the brand being measured.
func BuildSystemPrompt(region, language string) string {
	var b strings.Builder

	b.WriteString("You are answering a question from a potential customer. ")
	b.WriteString("Provide an objective, comprehensive and helpful answer. ")
	b.WriteString("When you recommend products, services or companies, name the specific options you would actually suggest. ")
	b.WriteString("Include source URLs as citations where relevant.")

	if region != "" {
		b.WriteString(fmt.Sprintf(" The user is located in %s; prefer options available there.", region))
	}
	if language != "" {
		b.WriteString(fmt.Sprintf(" Respond in %s.", language))
	}

	return b.String()
}
