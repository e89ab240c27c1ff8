package prompts

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ToPromptJSON serializes data to JSON for use in prompts.
// HTML characters are left unescaped so TypeQL patterns and STIX pattern strings
// such as "[ipv4-addr:value = '1.2.3.4']" reach the model byte for byte.
// An indent of zero produces compact output.
func ToPromptJSON(data interface{}, indent int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(data); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
