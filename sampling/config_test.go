package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresets(t *testing.T) {
	th := ThinkingConf()
	assert.True(t, th.IsValid())
	assert.Equal(t, "/think", th.Directive())
	assert.Equal(t, "thinking", th.Mode())
	assert.Equal(t, 2000, th.MaxTokens)

	nt := NonThinkingConf()
	assert.True(t, nt.IsValid())
	assert.Equal(t, "/no_think", nt.Directive())
	assert.Equal(t, "non_thinking", nt.Mode())
	assert.Equal(t, 200, nt.MaxTokens)

	assert.Equal(t, th, For(true))
	assert.Equal(t, nt, For(false))
}

func TestIsValid(t *testing.T) {
	c := NonThinkingConf()
	c.MaxTokens = 0
	assert.False(t, c.IsValid())

	c = NonThinkingConf()
	c.TopP = 1.5
	assert.False(t, c.IsValid())

	c = NonThinkingConf()
	c.Temperature = -1
	assert.False(t, c.IsValid())
}

func TestParams(t *testing.T) {
	assert.JSONEq(t, `{"temperature":0.6,"top_p":0.95,"top_k":20,"min_p":0}`, ThinkingConf().Params())
}
