package cpp

import (
	"regexp"
	"sort"
)

// defaultIdentifierPattern matches a C identifier: [_A-Za-z][_A-Za-z0-9]*
var defaultIdentifierPattern = regexp.MustCompile(`^[_A-Za-z][_A-Za-z0-9]*`)

// defaultNumberPattern matches an optionally-signed integer with an
// optional fractional part, e.g. 42, -7, 0x1337, 3.14.
var defaultNumberPattern = regexp.MustCompile(`^[+-]?(?:0[xX][0-9a-fA-F]+|[0-9]+(?:\.[0-9]+)?)`)

// defaultWhitespacePattern matches a run of horizontal whitespace.
var defaultWhitespacePattern = regexp.MustCompile(`^[ \t]+`)

// Tokenizer is a reusable, lazy lexeme source for a single logical line.
// It is parameterized so the same machinery serves both the macro
// expander (no keywords) and the #if/#elif expression evaluator (keyword
// set for !, defined, (, ), &&, ||). It is single-pass, forward-only, and
// not restartable, matching the coroutine-shaped source described in §9.
type Tokenizer struct {
	line       string
	pos        int
	identifier *regexp.Regexp
	number     *regexp.Regexp
	whitespace *regexp.Regexp
	keywords   []keywordRule
	eofEmitted bool
}

// keywordRule pairs a literal lexeme with its symbolic name. Keywords are
// tried longest-lexeme-first so that e.g. "&&" is preferred over two
// separate unknown "&" tokens.
type keywordRule struct {
	lexeme string
	name   string
}

// TokenizerOption configures a Tokenizer away from its defaults.
type TokenizerOption func(*Tokenizer)

// WithKeywords installs an ordered set of keyword patterns. name is the
// symbolic keyword name surfaced as Token.Keyword.
func WithKeywords(keywords map[string]string) TokenizerOption {
	return func(t *Tokenizer) {
		rules := make([]keywordRule, 0, len(keywords))
		for lexeme, name := range keywords {
			rules = append(rules, keywordRule{lexeme: lexeme, name: name})
		}
		sort.Slice(rules, func(i, j int) bool { return len(rules[i].lexeme) > len(rules[j].lexeme) })
		t.keywords = rules
	}
}

// NewTokenizer constructs a Tokenizer over a single logical line using the
// default identifier/number/whitespace patterns unless overridden by opts.
func NewTokenizer(line string, opts ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{
		line:       line,
		identifier: defaultIdentifierPattern,
		number:     defaultNumberPattern,
		whitespace: defaultWhitespacePattern,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// exprKeywords is the keyword set used by the #if/#elif expression
// evaluator (§4.5): negation, the defined(...) operator, grouping, and the
// two logical connectives.
var exprKeywords = map[string]string{
	"!":       "!",
	"(":       "(",
	")":       ")",
	"&&":      "&&",
	"||":      "||",
	"defined": "defined",
}

// NewExprTokenizer constructs a Tokenizer pre-configured with the
// expression-evaluator keyword set.
func NewExprTokenizer(line string) *Tokenizer {
	return NewTokenizer(line, WithKeywords(exprKeywords))
}

// Next returns the next token, or a synthetic TokenEOF token once the line
// is exhausted. Calling Next again after TokenEOF keeps returning TokenEOF.
func (t *Tokenizer) Next() Token {
	for {
		if t.pos >= len(t.line) {
			t.eofEmitted = true
			return Token{Kind: TokenEOF, Start: t.pos, End: t.pos}
		}

		if loc := t.whitespace.FindStringIndex(t.line[t.pos:]); loc != nil && loc[0] == 0 {
			t.pos += loc[1]
			continue
		}

		start := t.pos
		rest := t.line[t.pos:]

		if rest[0] == '"' || rest[0] == '\'' {
			return t.scanQuoted(rest[0])
		}

		for _, kw := range t.keywords {
			if len(rest) < len(kw.lexeme) || rest[:len(kw.lexeme)] != kw.lexeme {
				continue
			}
			if isWordLexeme(kw.lexeme) && len(rest) > len(kw.lexeme) && isIdentByte(rest[len(kw.lexeme)]) {
				continue
			}
			t.pos += len(kw.lexeme)
			return Token{Kind: TokenKeyword, Text: kw.lexeme, Keyword: kw.name, Start: start, End: t.pos}
		}

		if loc := t.identifier.FindStringIndex(rest); loc != nil {
			t.pos += loc[1]
			return Token{Kind: TokenIdentifier, Text: rest[loc[0]:loc[1]], Start: start, End: t.pos}
		}

		if loc := t.number.FindStringIndex(rest); loc != nil {
			t.pos += loc[1]
			return Token{Kind: TokenNumber, Text: rest[loc[0]:loc[1]], Start: start, End: t.pos}
		}

		t.pos++
		return Token{Kind: TokenUnknown, Text: rest[:1], Start: start, End: t.pos}
	}
}

// isWordLexeme reports whether a keyword lexeme is itself identifier-shaped
// (e.g. "defined"), as opposed to punctuation (e.g. "&&"). Word-shaped
// keywords need a trailing boundary check so they don't match as a prefix
// of a longer identifier.
func isWordLexeme(lexeme string) bool {
	c := lexeme[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// isIdentByte reports whether b can continue an identifier.
func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// scanQuoted consumes a "..." or '...' literal, returning its contents with
// the surrounding quotes stripped per §4.2. An unterminated quote consumes
// to end of line and returns whatever was found between the quotes.
func (t *Tokenizer) scanQuoted(quote byte) Token {
	start := t.pos
	i := t.pos + 1
	for i < len(t.line) && t.line[i] != quote {
		if t.line[i] == '\\' && i+1 < len(t.line) {
			i++
		}
		i++
	}
	end := i
	if i < len(t.line) {
		end = i + 1 // consume closing quote
	}
	inner := t.line[start+1 : min(i, len(t.line))]
	t.pos = end
	return Token{Kind: TokenString, Text: inner, Start: start, End: end}
}

// AllTokens drains the tokenizer, excluding the trailing synthetic EOF.
func (t *Tokenizer) AllTokens() []Token {
	var toks []Token
	for {
		tok := t.Next()
		if tok.Kind == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}
