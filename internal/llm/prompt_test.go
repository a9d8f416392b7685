package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPromptCarriesRegionAndLanguage(t *testing.T) {
	prompt := BuildSystemPrompt("France", "FR")

	assert.Contains(t, prompt, "France")
	assert.Contains(t, prompt, "Respond in FR")
}

func TestBuildSystemPromptWithoutLocale(t *testing.T) {
	prompt := BuildSystemPrompt("", "")

	assert.NotEmpty(t, prompt)
	assert.NotContains(t, prompt, "located in")
	assert.NotContains(t, prompt, "Respond in")
}
