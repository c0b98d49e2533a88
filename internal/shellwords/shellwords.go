// Package shellwords extracts path-shaped tokens out of a shell command
// string for the Bash operation's candidate-path extraction (spec.md §4.6),
// using an AST-aware parse instead of naive whitespace splitting so quoting
// and command substitution don't produce garbage candidates.
package shellwords

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ExtractPathCandidates parses command as a Bash command line and returns
// every argument token that looks like a filesystem path: this function
// prefers over-production (a few false positives checked and passed) over
// under-production (a real path slipping through unchecked), per spec.md's
// extractor guidance.
//
// If the command fails to parse as Bash (a syntax error, or a non-shell
// payload), it falls back to whitespace splitting over the raw string so a
// parse failure never means "no candidates checked."
func ExtractPathCandidates(command string) []string {
	words := parseWords(command)
	if words == nil {
		words = strings.Fields(command)
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, w := range words {
		if !looksLikePath(w) {
			continue
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		candidates = append(candidates, w)
	}
	return candidates
}

// parseWords returns every literal word (across pipelines, command lists,
// subshells, and command substitutions) in command, or nil if it fails to
// parse as Bash.
func parseWords(command string) []string {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil
	}

	var words []string
	syntax.Walk(file, func(node syntax.Node) bool {
		if word, ok := node.(*syntax.Word); ok {
			words = append(words, wordLiteral(word))
			return false
		}
		return true
	})
	return words
}

// wordLiteral renders a parsed word back to its literal value: quotes are
// stripped (the words "foo" and 'foo' and foo should all match the same
// path-shape heuristic), but parameter/command expansions are rendered via
// the printer since their pre-expansion text is the best static
// approximation of the path available without actually running the shell.
func wordLiteral(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				} else {
					sb.WriteString(renderNode(inner))
				}
			}
		default:
			sb.WriteString(renderNode(part))
		}
	}
	return sb.String()
}

func renderNode(node syntax.Node) string {
	var sb strings.Builder
	printer := syntax.NewPrinter()
	_ = printer.Print(&sb, node)
	return sb.String()
}

// looksLikePath is a deliberately permissive heuristic: anything containing
// a path separator, or starting with '.', '~', or '/', is treated as a
// candidate. Bare flags ("-rf") and bare subcommand names ("install") are
// excluded since they're never file paths.
func looksLikePath(token string) bool {
	if token == "" {
		return false
	}
	if strings.HasPrefix(token, "-") {
		return false
	}
	return strings.ContainsRune(token, '/') ||
		strings.HasPrefix(token, "~") ||
		strings.HasPrefix(token, ".")
}
