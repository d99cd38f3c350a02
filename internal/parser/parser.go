// Package parser builds an ABNF AST from a token stream.
//
// The parser is recursive descent with one token of lookahead past the
// current one. Comments, whitespace and newlines are skipped, with one
// exception: a repeat count must touch its element ("2DIGIT", not
// "2 DIGIT"). A rule ends where the next "name =" or "name =/" begins.
//
// Parsing stops at the first error. Non-fatal findings are collected as
// diagnostics and filtered by the configured DiagnosticConfig.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/lexer"
	"github.com/abnfkit/abnfc/internal/types"
)

// DefaultMaxDepth is the default limit on group and option nesting.
const DefaultMaxDepth = 256

// Option configures a Parser.
type Option func(*Parser)

// WithLogger enables debug and trace logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.Logger = types.Logger{L: types.ComponentLogger(logger, "parser")}
	}
}

// WithDiagnosticConfig sets which diagnostics are collected.
func WithDiagnosticConfig(cfg types.DiagnosticConfig) Option {
	return func(p *Parser) {
		p.diagConfig = cfg
	}
}

// WithMaxDepth limits group and option nesting. Values below 1 select
// DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		p.maxDepth = depth
	}
}

// Parser converts a token stream into a RuleList.
type Parser struct {
	tokens      []lexer.Token
	pos         int         // index of the current significant token
	last        lexer.Token // most recently consumed token
	depth       int
	maxDepth    int
	rules       map[string]*ast.Rule
	diagnostics []types.Diagnostic
	diagConfig  types.DiagnosticConfig
	eofToken    lexer.Token
	types.Logger
}

// New returns a Parser over tokens, which must be in source order as
// produced by lexer.Tokenize. A missing trailing TokEOF is tolerated.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	var end types.ByteOffset
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span.End
	}
	p := &Parser{
		tokens:     tokens,
		maxDepth:   DefaultMaxDepth,
		rules:      make(map[string]*ast.Rule),
		diagConfig: types.DefaultConfig(),
		eofToken:   lexer.NewToken(lexer.TokEOF, "", types.NewSpan(end, end)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.pos = p.skipTrivia(0)
	return p
}

// Parse parses tokens into a RuleList.
func Parse(tokens []lexer.Token, opts ...Option) (*ast.RuleList, error) {
	return New(tokens, opts...).ParseRuleList()
}

// Diagnostics returns a copy of the diagnostics collected so far.
func (p *Parser) Diagnostics() []types.Diagnostic {
	return slices.Clone(p.diagnostics)
}

// ParseRuleList parses the whole token stream. On error no RuleList is
// returned and the error is a *ParseError.
func (p *Parser) ParseRuleList() (*ast.RuleList, error) {
	if p.isEOF() {
		return nil, &ParseError{Err: ErrEmptyGrammar, Span: p.peek().Span}
	}

	list := &ast.RuleList{}
	start := p.peek().Span.Start
	for !p.isEOF() {
		if err := p.parseRule(list); err != nil {
			p.Log(slog.LevelDebug, "parse failed", slog.String("error", err.Error()))
			return nil, err
		}
	}
	list.Span = types.NewSpan(start, p.last.Span.End)

	p.Log(slog.LevelDebug, "parse complete",
		slog.Int("rules", len(list.Rules)),
		slog.Int("diagnostics", len(p.diagnostics)))
	return list, nil
}

// === Token navigation ===

func (p *Parser) skipTrivia(i int) int {
	for i < len(p.tokens) && p.tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eofToken
}

// peekNth returns the nth significant token after the current one.
func (p *Parser) peekNth(n int) lexer.Token {
	i := p.pos
	for ; n > 0 && i < len(p.tokens); n-- {
		i = p.skipTrivia(i + 1)
	}
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.eofToken
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos = p.skipTrivia(p.pos + 1)
	}
	p.last = tok
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

// adjacent reports whether the current token starts where the last
// consumed token ended.
func (p *Parser) adjacent() bool {
	return p.peek().Span.Start == p.last.Span.End
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.unexpected(kind.String())
}

// atRuleStart reports whether the current tokens are "name =" or
// "name =/".
func (p *Parser) atRuleStart() bool {
	if !p.check(lexer.TokIdentifier) {
		return false
	}
	next := p.peekNth(1).Kind
	return next == lexer.TokDefine || next == lexer.TokDefineInc
}

func (p *Parser) unexpected(expected string) *ParseError {
	tok := p.peek()
	if tok.Kind == lexer.TokEOF {
		return &ParseError{Err: ErrUnexpectedEOF, Expected: expected, Span: tok.Span}
	}
	return &ParseError{Err: ErrUnexpectedToken, Expected: expected, Found: tok.Text, Span: tok.Span}
}

func (p *Parser) emitDiagnostic(code string, severity types.Severity, rule string, span types.Span, message string) {
	if !p.diagConfig.ShouldReport(code, severity) {
		return
	}
	p.diagnostics = append(p.diagnostics, types.Diagnostic{
		Severity: p.diagConfig.Severity(code, severity),
		Code:     code,
		Rule:     rule,
		Span:     span,
		Message:  message,
	})
}

// === Rules ===

// parseRule parses "name = alternation" or "name =/ alternation" and
// adds or merges the result into list.
func (p *Parser) parseRule(list *ast.RuleList) error {
	nameTok, err := p.expect(lexer.TokIdentifier)
	if err != nil {
		return err
	}
	name := ast.NewRuleName(nameTok.Text, nameTok.Span)

	var incremental bool
	switch p.peek().Kind {
	case lexer.TokDefine:
	case lexer.TokDefineInc:
		incremental = true
	default:
		return p.unexpected("DEFINE or DEFINE_INCREMENT")
	}
	p.advance()

	alt, err := p.parseAlternation()
	if err != nil {
		return err
	}
	if !p.isEOF() && !p.atRuleStart() {
		return p.unexpected("start of next rule")
	}

	existing := p.rules[name.Key()]
	switch {
	case !incremental && existing != nil:
		return &ParseError{
			Err:    ErrDuplicateRule,
			Found:  name.Name,
			Span:   name.Span,
			Detail: fmt.Sprintf("rule %q is already defined, use =/ to add alternatives", existing.Name.Name),
		}
	case incremental && existing == nil:
		return &ParseError{
			Err:    ErrUndefinedIncrementalRule,
			Found:  name.Name,
			Span:   name.Span,
			Detail: fmt.Sprintf("rule %q must be defined with = before =/", name.Name),
		}
	case incremental:
		if name.Name != existing.Name.Name {
			p.emitDiagnostic(types.DiagRuleNameCase, types.SeverityStyle, existing.Name.Name, name.Span,
				fmt.Sprintf("%q is spelled %q where first defined", name.Name, existing.Name.Name))
		}
		existing.Alternation.Alternatives = append(existing.Alternation.Alternatives, alt.Alternatives...)
		if p.TraceEnabled() {
			p.Trace("merged alternatives",
				slog.String("rule", existing.Name.Name),
				slog.Int("added", len(alt.Alternatives)),
				slog.Int("total", len(existing.Alternation.Alternatives)))
		}
	default:
		rule := &ast.Rule{
			Name:        name,
			Alternation: alt,
			Span:        types.NewSpan(name.Span.Start, alt.Span.End),
		}
		p.rules[name.Key()] = rule
		list.Rules = append(list.Rules, rule)
		if p.TraceEnabled() {
			p.Trace("rule", slog.String("name", name.Name), slog.Int("alternatives", len(alt.Alternatives)))
		}
	}
	return nil
}

func (p *Parser) parseAlternation() (*ast.Alternation, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	alt := &ast.Alternation{Alternatives: []*ast.Concatenation{first}, Span: first.Span}
	for p.check(lexer.TokSlash) {
		p.advance()
		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		alt.Alternatives = append(alt.Alternatives, next)
		alt.Span = alt.Span.Cover(next.Span)
	}
	return alt, nil
}

func (p *Parser) parseConcatenation() (*ast.Concatenation, error) {
	first, err := p.parseRepetition()
	if err != nil {
		return nil, err
	}
	cat := &ast.Concatenation{Items: []*ast.Repetition{first}, Span: first.Span}
	for p.peek().Kind.StartsRepetition() && !p.atRuleStart() {
		next, err := p.parseRepetition()
		if err != nil {
			return nil, err
		}
		cat.Items = append(cat.Items, next)
		cat.Span = cat.Span.Cover(next.Span)
	}
	return cat, nil
}

// parseRepetition parses [repeat] element.
func (p *Parser) parseRepetition() (*ast.Repetition, error) {
	start := p.peek().Span.Start
	var repeat *ast.RepeatCount
	if p.check(lexer.TokInteger) || p.check(lexer.TokStar) {
		var err error
		repeat, err = p.parseRepeat()
		if err != nil {
			return nil, err
		}
		if p.peek().Kind.StartsElement() && !p.adjacent() {
			return nil, &ParseError{
				Err:    ErrInvalidRepeat,
				Found:  p.peek().Text,
				Span:   types.NewSpan(repeat.Span.Start, p.peek().Span.End),
				Detail: "repeat count must be written directly before its element",
			}
		}
	}

	if p.atRuleStart() {
		return nil, p.unexpected("element")
	}
	elem, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	return &ast.Repetition{
		Repeat:  repeat,
		Element: elem,
		Span:    types.NewSpan(start, elem.NodeSpan().End),
	}, nil
}

// parseRepeat parses n, n*, *m, n*m or *.
func (p *Parser) parseRepeat() (*ast.RepeatCount, error) {
	first := p.peek()
	count := &ast.RepeatCount{Span: first.Span}

	if p.check(lexer.TokInteger) {
		n, err := p.parseCount(p.advance())
		if err != nil {
			return nil, err
		}
		count.Min = &n
		if !p.check(lexer.TokStar) || !p.adjacent() {
			count.Max = &n
			p.checkZeroRepeat(count)
			return count, nil
		}
	}

	star := p.advance()
	count.Span = count.Span.Cover(star.Span)
	if p.check(lexer.TokInteger) && p.adjacent() {
		tok := p.advance()
		m, err := p.parseCount(tok)
		if err != nil {
			return nil, err
		}
		count.Max = &m
		count.Span = count.Span.Cover(tok.Span)
	}

	if count.Min != nil && count.Max != nil && *count.Min > *count.Max {
		return nil, &ParseError{
			Err:    ErrInvalidRepeat,
			Found:  fmt.Sprintf("%d*%d", *count.Min, *count.Max),
			Span:   count.Span,
			Detail: "minimum exceeds maximum",
		}
	}
	p.checkZeroRepeat(count)
	return count, nil
}

func (p *Parser) checkZeroRepeat(count *ast.RepeatCount) {
	if count.Max != nil && *count.Max == 0 {
		p.emitDiagnostic(types.DiagRepeatZero, types.SeverityWarning, "", count.Span,
			"repetition with a maximum of 0 only matches the empty string")
	}
}

func (p *Parser) parseCount(tok lexer.Token) (uint64, error) {
	n, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return 0, &ParseError{Err: ErrInvalidNumber, Found: tok.Text, Span: tok.Span, Detail: "repeat count out of range"}
	}
	return n, nil
}

// === Elements ===

func (p *Parser) parseElement() (ast.Element, error) {
	switch p.peek().Kind {
	case lexer.TokIdentifier:
		tok := p.advance()
		name := ast.NewRuleName(tok.Text, tok.Span)
		return &name, nil
	case lexer.TokLParen:
		open := p.advance()
		alt, closing, err := p.parseNested(lexer.TokRParen)
		if err != nil {
			return nil, err
		}
		return &ast.Group{Alternation: alt, Span: types.NewSpan(open.Span.Start, closing.Span.End)}, nil
	case lexer.TokLBracket:
		open := p.advance()
		alt, closing, err := p.parseNested(lexer.TokRBracket)
		if err != nil {
			return nil, err
		}
		return &ast.Option{Alternation: alt, Span: types.NewSpan(open.Span.Start, closing.Span.End)}, nil
	case lexer.TokString:
		return parseCharVal(p.advance()), nil
	case lexer.TokNumVal:
		return parseNumVal(p.advance())
	case lexer.TokProse:
		tok := p.advance()
		return &ast.ProseVal{Contents: tok.Text[1 : len(tok.Text)-1], Span: tok.Span}, nil
	default:
		return nil, p.unexpected("element")
	}
}

// parseNested parses an alternation inside brackets. The opening token
// has been consumed.
func (p *Parser) parseNested(closeKind lexer.TokenKind) (*ast.Alternation, lexer.Token, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, lexer.Token{}, &ParseError{
			Err:    ErrTooDeep,
			Span:   p.last.Span,
			Detail: fmt.Sprintf("more than %d nested groups or options", p.maxDepth),
		}
	}

	alt, err := p.parseAlternation()
	if err != nil {
		return nil, lexer.Token{}, err
	}
	closing, err := p.expect(closeKind)
	if err != nil {
		return nil, lexer.Token{}, err
	}
	return alt, closing, nil
}

// parseCharVal handles "text", %s"text" and %i"text".
func parseCharVal(tok lexer.Token) *ast.CharVal {
	text := tok.Text
	sensitive := false
	if text[0] == '%' {
		sensitive = text[1] == 's' || text[1] == 'S'
		text = text[2:]
	}
	return &ast.CharVal{
		Contents:      text[1 : len(text)-1],
		CaseSensitive: sensitive,
		Span:          tok.Span,
	}
}

// parseNumVal handles %b, %d and %x terminals in single, range and
// dotted chain forms.
func parseNumVal(tok lexer.Token) (*ast.NumVal, error) {
	var base int
	switch tok.Text[1] {
	case 'b', 'B':
		base = 2
	case 'd', 'D':
		base = 10
	default:
		base = 16
	}

	parse := func(s string) (uint64, error) {
		n, err := strconv.ParseUint(s, base, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, &ParseError{Err: ErrInvalidNumber, Found: tok.Text, Span: tok.Span,
					Detail: fmt.Sprintf("%s does not fit in 64 bits", s)}
			}
			return 0, &ParseError{Err: ErrInvalidNumber, Found: tok.Text, Span: tok.Span}
		}
		return n, nil
	}

	body := tok.Text[2:]
	value := ast.NumValue{Span: tok.Span}
	if lo, hi, ok := strings.Cut(body, "-"); ok {
		first, err := parse(lo)
		if err != nil {
			return nil, err
		}
		last, err := parse(hi)
		if err != nil {
			return nil, err
		}
		if last < first {
			return nil, &ParseError{Err: ErrInvalidRange, Found: tok.Text, Span: tok.Span,
				Detail: "range end is below range start"}
		}
		value.First = first
		value.RangeEnd = &last
	} else {
		parts := strings.Split(body, ".")
		for i, part := range parts {
			n, err := parse(part)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				value.First = n
			} else {
				value.Chain = append(value.Chain, n)
			}
		}
	}

	var term ast.NumTerminal
	switch base {
	case 2:
		term = &ast.BinVal{NumValue: value}
	case 10:
		term = &ast.DecVal{NumValue: value}
	default:
		term = &ast.HexVal{NumValue: value}
	}
	return &ast.NumVal{Value: term, Span: tok.Span}, nil
}
