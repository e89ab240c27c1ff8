// Package pipeline answers threat-intelligence questions in two model calls:
// the question is turned into TypeQL, the query is run through the JSON-RPC
// proxy, and the records are summarised back into prose.
package pipeline
