package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibrary_GenerateQuery(t *testing.T) {
	lib := NewLibrary(Options{IncludeGrammar: true})
	prompt := lib.GenerateQuery()

	assert.Contains(t, prompt, "threat-actor: Threat actors")
	assert.Contains(t, prompt, "communicates-with:")
	assert.Contains(t, prompt, "match $ta isa threat-actor, has name $name;")
	assert.Contains(t, prompt, "query_pipeline = { query_stage+ ~ query_stage_terminal? }")
	assert.Contains(t, prompt, "respond with exactly: CANNOT_QUERY")
	assert.True(t, strings.HasSuffix(prompt, "Respond with ONLY the TypeQL query, no markdown, no explanations."))
	assert.True(t, strings.HasPrefix(prompt, lib.SchemaContext()))
}

func TestNewLibrary_WithoutGrammar(t *testing.T) {
	lib := NewLibrary(Options{})

	assert.NotContains(t, lib.GenerateQuery(), "PEST Parser Format")
	assert.Contains(t, lib.GenerateQuery(), "Find course of action (mitigations)")
}

func TestNewLibrary_Deterministic(t *testing.T) {
	a := NewLibrary(Options{IncludeGrammar: true})
	b := NewLibrary(Options{IncludeGrammar: true})

	assert.Equal(t, a.GenerateQuery(), b.GenerateQuery())
	assert.Equal(t, a.GenerateQuery(), a.GenerateQuery())
	assert.Equal(t, a.FormatAnswer(), b.FormatAnswer())
}

func TestFormatAnswerPrompt(t *testing.T) {
	lib := NewLibrary(Options{})

	assert.Contains(t, lib.FormatAnswer(), `say "No data found for this query."`)
	assert.Contains(t, lib.FormatAnswer(), "Reference specific entities by name")
}

func TestGrammarFencesAreBalanced(t *testing.T) {
	assert.Equal(t, 2, strings.Count(typeqlGrammar, "```"))
	assert.Equal(t, 0, strings.Count(stixExamples, "```")%2)
}

func TestToPromptJSON(t *testing.T) {
	data := []map[string]interface{}{
		{"pattern": "[ipv4-addr:value = '10.0.0.1'] AND <x>", "name": "C2 beacon"},
	}

	compact, err := ToPromptJSON(data, 0)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"C2 beacon","pattern":"[ipv4-addr:value = '10.0.0.1'] AND <x>"}]`, compact)

	indented, err := ToPromptJSON(data, 2)
	require.NoError(t, err)
	assert.Contains(t, indented, "\n    \"name\": \"C2 beacon\"")
	assert.NotContains(t, indented, `\u003c`)
	assert.Contains(t, indented, "<x>")
}

func TestAnswerUserTurn(t *testing.T) {
	results := []map[string]interface{}{
		{"name": "APT29", "alias": []string{"Cozy Bear", "The Dukes"}},
		{"name": "APT28"},
	}

	turn, err := AnswerUserTurn("List all threat actors", results)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(turn, "Question: List all threat actors\n\nQuery Results:\n["))
	for _, field := range []string{"APT29", "Cozy Bear", "The Dukes", "APT28", `"alias"`} {
		assert.Contains(t, turn, field)
	}
}

func TestAnswerUserTurn_Unserializable(t *testing.T) {
	_, err := AnswerUserTurn("q", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}
