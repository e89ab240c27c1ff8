/*
Package prompts assembles the instructional text sent to the language model.

Two system prompts are built once per process by NewLibrary:

  - GenerateQuery: the STIX 2.1 schema summary, query rules, worked TypeQL 3.x examples,
    optionally the full TypeQL grammar, and the instruction to answer with a single query
    or the CANNOT_QUERY literal.
  - FormatAnswer: the analyst instructions used to turn raw query results into prose.

Usage:

	library := prompts.NewLibrary(prompts.Options{IncludeGrammar: true})

	system := library.GenerateQuery()
	userTurn, err := prompts.AnswerUserTurn(question, results)
	if err != nil {
		// handle error
	}

The library holds no mutable state; callers pass it by reference to the components that
talk to the model.
*/
package prompts
