package prompts

import (
	"fmt"
	"strings"
)

// CannotQuery is the literal the generation prompt instructs the model to return
// when the schema cannot answer a question.
const CannotQuery = "CANNOT_QUERY"

const schemaPreamble = `
# You are a TypeQL query generator for a STIX 2.1 threat intelligence database in TypeDB.

## You are supposed to use TypeDB 3.x syntax, not 2.x.

## And here are the STIX schema:
`

const examplesPreamble = `

## And finally, here are some example queries you can perform onto the schema:
`

const generateInstructions = `
Given a user question about cyber threats, generate a valid TypeQL fetch query to answer it.
If the question cannot be answered with the available schema, respond with exactly: ` + CannotQuery + `

Respond with ONLY the TypeQL query, no markdown, no explanations.`

const formatAnswerPrompt = `You are a cybersecurity analyst assistant. Given:
1. A user's question about cyber threats
2. Raw query results from a STIX threat intelligence database

Format the results into a clear, concise answer. If the results are empty, say "No data found for this query."
Be direct and factual. Reference specific entities by name when available.`

// Library exposes the two system prompts used by the pipeline.
type Library interface {
	// GenerateQuery is the system prompt for natural language -> TypeQL.
	GenerateQuery() string
	// FormatAnswer is the system prompt for query results -> prose.
	FormatAnswer() string
	// SchemaContext is the schema, rules and examples block embedded in GenerateQuery.
	SchemaContext() string
}

// Options selects the context blocks assembled into the generation prompt.
type Options struct {
	IncludeGrammar bool
}

// LibraryImpl implements the Library interface. Its strings are fixed at construction.
type LibraryImpl struct {
	schemaContext string
	generateQuery string
	formatAnswer  string
}

func (l *LibraryImpl) GenerateQuery() string { return l.generateQuery }
func (l *LibraryImpl) FormatAnswer() string  { return l.formatAnswer }
func (l *LibraryImpl) SchemaContext() string { return l.schemaContext }

// NewLibrary assembles the prompt library.
func NewLibrary(opts Options) Library {
	var sc strings.Builder
	sc.WriteString(schemaPreamble)
	sc.WriteString(stixSchema)
	sc.WriteString(queryRules)
	sc.WriteString(examplesPreamble)
	sc.WriteString(stixExamples)
	schemaContext := sc.String()

	var gq strings.Builder
	gq.WriteString(schemaContext)
	if opts.IncludeGrammar {
		gq.WriteString("\n")
		gq.WriteString(typeqlGrammar)
	}
	gq.WriteString("\n")
	gq.WriteString(generateInstructions)

	return &LibraryImpl{
		schemaContext: schemaContext,
		generateQuery: gq.String(),
		formatAnswer:  formatAnswerPrompt,
	}
}

// AnswerUserTurn builds the user turn sent with FormatAnswer: the original question
// followed by an indented dump of the results.
func AnswerUserTurn(question string, results interface{}) (string, error) {
	dump, err := ToPromptJSON(results, 2)
	if err != nil {
		return "", fmt.Errorf("serializing query results: %w", err)
	}
	return fmt.Sprintf("Question: %s\n\nQuery Results:\n%s", question, dump), nil
}
