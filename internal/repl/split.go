package repl

import "strings"

// splitStatements splits script text on statement-terminating
// semicolons. Semicolons inside single or double quotes and text in
// line comments do not terminate a statement.
func splitStatements(content string) []string {
	var (
		stmts   []string
		current strings.Builder
		inQuote rune
	)

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inQuote != 0 {
			current.WriteRune(ch)
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			inQuote = ch
			current.WriteRune(ch)
		case ch == '-' && i+1 < len(runes) && runes[i+1] == '-':
			// line comment, skip to end of line
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			current.WriteRune('\n')
		case ch == ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}
