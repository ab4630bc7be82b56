package shexio

import (
	"errors"

	"github.com/shapeconv/shapeconv/internal/model"
)

// ParseError is returned for malformed ShExC input: unknown prefix, missing
// terminator, unexpected token. It carries a byte position and a short
// context window (spec.md §7).
type ParseError = LexError

// ErrUnknownPrefix's text begins the Message of the ParseError returned when
// a prefixed name uses an unbound prefix. The ParseError does not wrap it, so
// errors.Is does not match it.
var ErrUnknownPrefix = errors.New("unknown prefix")

// Parser is a recursive-descent reader over a ShExC token stream.
type Parser struct {
	lex     *Lexer
	tok     Token
	havePeek bool
	prefixes *model.PrefixMap
}

// NewParser returns a Parser over src.
func NewParser(src []byte) *Parser {
	return &Parser{lex: NewLexer(src), prefixes: model.NewPrefixMap()}
}

// Parse reads a complete ShExC document.
func Parse(src []byte) (*model.ShExSchema, error) {
	p := NewParser(src)
	return p.ParseSchema()
}

func (p *Parser) peek() (Token, error) {
	if !p.havePeek {
		t, err := p.lex.Next()
		if err != nil {
			return Token{}, err
		}
		p.tok = t
		p.havePeek = true
	}
	return p.tok, nil
}

func (p *Parser) advance() (Token, error) {
	t, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.havePeek = false
	return t, nil
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	t, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	if t.Kind != kind {
		return Token{}, p.unexpected(t, what)
	}
	return p.advance()
}

func (p *Parser) unexpected(t Token, what string) error {
	return &ParseError{Pos: t.Pos, Message: "unexpected token, expected " + what, Context: p.lex.context(t.Pos)}
}

// ParseSchema reads PREFIX/start directives followed by zero or more shape
// declarations.
func (p *Parser) ParseSchema() (*model.ShExSchema, error) {
	schema := &model.ShExSchema{Prefixes: p.prefixes}

	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case TokPrefixKw:
			if err := p.parseDirective(); err != nil {
				return nil, err
			}
		case TokStartKw:
			name, err := p.parseStartDirective()
			if err != nil {
				return nil, err
			}
			schema.Start = name
		case TokEOF:
			return schema, nil
		default:
			shape, err := p.parseShapeDecl()
			if err != nil {
				return nil, err
			}
			schema.Shapes = append(schema.Shapes, *shape)
		}
	}
}

func (p *Parser) parseDirective() error {
	if _, err := p.expect(TokPrefixKw, "PREFIX"); err != nil {
		return err
	}
	nameTok, err := p.expect(TokPName, "prefix name")
	if err != nil {
		return err
	}
	if nameTok.Local != "" {
		return p.unexpected(nameTok, "prefix name terminated by ':'")
	}
	iriTok, err := p.expect(TokIRIRef, "IRI reference")
	if err != nil {
		return err
	}
	p.prefixes.Add(nameTok.Prefix, iriTok.Text)
	return nil
}

func (p *Parser) parseStartDirective() (string, error) {
	if _, err := p.expect(TokStartKw, "start"); err != nil {
		return "", err
	}
	if _, err := p.expect(TokEquals, "'='"); err != nil {
		return "", err
	}
	if _, err := p.expect(TokAt, "'@'"); err != nil {
		return "", err
	}
	return p.parseIRITerm()
}

// parseIRITerm resolves an <iri> or prefix:local term to a full IRI string.
func (p *Parser) parseIRITerm() (string, error) {
	t, err := p.peek()
	if err != nil {
		return "", err
	}
	switch t.Kind {
	case TokIRIRef:
		p.advance()
		return t.Text, nil
	case TokPName:
		p.advance()
		iri, ok := p.prefixes.Resolve(t.Prefix, t.Local)
		if !ok {
			return "", &ParseError{Pos: t.Pos, Message: ErrUnknownPrefix.Error() + ": " + t.Prefix, Context: p.lex.context(t.Pos)}
		}
		return iri, nil
	default:
		return "", p.unexpected(t, "IRI reference or prefixed name")
	}
}

func (p *Parser) parseShapeDecl() (*model.ShExShape, error) {
	name, err := p.parseIRITerm()
	if err != nil {
		return nil, err
	}

	shape := &model.ShExShape{Name: name}

	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case TokExtraKw:
			p.advance()
			pred, err := p.parsePredicateTerm()
			if err != nil {
				return nil, err
			}
			shape.Extra = append(shape.Extra, pred)
			for {
				nt, err := p.peek()
				if err != nil {
					return nil, err
				}
				if nt.Kind != TokIRIRef && nt.Kind != TokPName {
					break
				}
				pred, err := p.parsePredicateTerm()
				if err != nil {
					return nil, err
				}
				shape.Extra = append(shape.Extra, pred)
			}
		case TokClosedKw:
			p.advance()
			shape.Closed = true
		default:
			goto modifiersDone
		}
	}
modifiersDone:

	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return nil, err
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind != TokRBrace {
		expr, err := p.parseTripleExpr()
		if err != nil {
			return nil, err
		}
		shape.Expr = expr
	}
	if _, err := p.expect(TokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return shape, nil
}

func (p *Parser) parsePredicateTerm() (string, error) {
	return p.parseIRITerm()
}

func (p *Parser) parseTripleExpr() (*model.TripleExpr, error) {
	first, err := p.parseTripleConstraint()
	if err != nil {
		return nil, err
	}
	children := []model.TripleExpr{{Kind: model.ExprAtom, Constraint: first}}
	sawPipe := false

	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case TokSemi:
			p.advance()
			nt, err := p.peek()
			if err != nil {
				return nil, err
			}
			if nt.Kind == TokRBrace {
				// trailing semicolon before close brace, tolerated.
				goto done
			}
			c, err := p.parseTripleConstraint()
			if err != nil {
				return nil, err
			}
			children = append(children, model.TripleExpr{Kind: model.ExprAtom, Constraint: c})
		case TokPipe:
			p.advance()
			sawPipe = true
			c, err := p.parseTripleConstraint()
			if err != nil {
				return nil, err
			}
			children = append(children, model.TripleExpr{Kind: model.ExprAtom, Constraint: c})
		case TokDot:
			p.advance()
			goto done
		default:
			goto done
		}
	}
done:
	if len(children) == 1 {
		return &children[0], nil
	}
	kind := model.ExprConjunction
	if sawPipe {
		kind = model.ExprDisjunction
	}
	return &model.TripleExpr{Kind: kind, Children: children}, nil
}

func (p *Parser) parseTripleConstraint() (*model.TripleConstraint, error) {
	pred, err := p.parsePredicateTerm()
	if err != nil {
		return nil, err
	}

	atom, err := p.parseConstraintAtom()
	if err != nil {
		return nil, err
	}

	card, err := p.parseCardinality()
	if err != nil {
		return nil, err
	}

	return &model.TripleConstraint{Predicate: pred, Atom: atom, Cardinality: card}, nil
}

func (p *Parser) parseConstraintAtom() (model.ConstraintAtom, error) {
	t, err := p.peek()
	if err != nil {
		return model.ConstraintAtom{}, err
	}
	switch t.Kind {
	case TokAt:
		p.advance()
		ref, err := p.parseIRITerm()
		if err != nil {
			return model.ConstraintAtom{}, err
		}
		return model.ConstraintAtom{Kind: model.AtomShapeRef, ShapeRef: ref}, nil
	case TokLBracket:
		p.advance()
		entries, err := p.parseValueSet()
		if err != nil {
			return model.ConstraintAtom{}, err
		}
		return model.ConstraintAtom{Kind: model.AtomValueSet, ValueSet: entries}, nil
	case TokIRIKw:
		p.advance()
		return model.ConstraintAtom{Kind: model.AtomNodeKind, NodeKindV: model.NodeKindIRI}, nil
	case TokLiteralKw:
		p.advance()
		return model.ConstraintAtom{Kind: model.AtomNodeKind, NodeKindV: model.NodeKindLiteral}, nil
	case TokBNodeKw:
		p.advance()
		return model.ConstraintAtom{Kind: model.AtomNodeKind, NodeKindV: model.NodeKindBNode}, nil
	case TokNonLiteralKw:
		p.advance()
		return model.ConstraintAtom{Kind: model.AtomNodeKind, NodeKindV: model.NodeKindBNodeOrIRI}, nil
	case TokDot:
		p.advance()
		return model.ConstraintAtom{Kind: model.AtomUnconstrained}, nil
	case TokIRIRef, TokPName:
		dt, err := p.parseIRITerm()
		if err != nil {
			return model.ConstraintAtom{}, err
		}
		return model.ConstraintAtom{Kind: model.AtomDatatype, Datatype: dt}, nil
	default:
		return model.ConstraintAtom{Kind: model.AtomUnconstrained}, nil
	}
}

func (p *Parser) parseValueSet() ([]model.ValueSetEntry, error) {
	var entries []model.ValueSetEntry
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == TokRBracket {
			p.advance()
			return entries, nil
		}
		entry, err := p.parseValueSetEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

func (p *Parser) parseValueSetEntry() (model.ValueSetEntry, error) {
	t, err := p.peek()
	if err != nil {
		return model.ValueSetEntry{}, err
	}
	switch t.Kind {
	case TokIRIRef, TokPName:
		iri, err := p.parseIRITerm()
		if err != nil {
			return model.ValueSetEntry{}, err
		}
		isStem := false
		nt, err := p.peek()
		if err != nil {
			return model.ValueSetEntry{}, err
		}
		if nt.Kind == TokTilde {
			p.advance()
			isStem = true
		}
		return model.ValueSetEntry{IsStem: isStem, IRI: iri}, nil
	case TokString:
		p.advance()
		lit := model.Literal{Lexical: t.Text, Lang: t.Lang}
		if lit.Lang == "" {
			nt, err := p.peek()
			if err != nil {
				return model.ValueSetEntry{}, err
			}
			if nt.Kind == TokCaret2 {
				p.advance()
				dt, err := p.parseIRITerm()
				if err != nil {
					return model.ValueSetEntry{}, err
				}
				lit.Datatype = model.IRI(dt)
			}
		}
		return model.ValueSetEntry{IsLiteral: true, Literal: lit}, nil
	default:
		return model.ValueSetEntry{}, p.unexpected(t, "value-set entry")
	}
}

func (p *Parser) parseCardinality() (model.Cardinality, error) {
	t, err := p.peek()
	if err != nil {
		return model.Cardinality{}, err
	}
	switch t.Kind {
	case TokQuestion:
		p.advance()
		return model.Cardinality{Min: 0, Max: 1}, nil
	case TokStar:
		p.advance()
		return model.Cardinality{Min: 0, Max: model.MaxUnbounded}, nil
	case TokPlus:
		p.advance()
		return model.Cardinality{Min: 1, Max: model.MaxUnbounded}, nil
	case TokLBrace:
		p.advance()
		m, err := p.parseIntLiteral()
		if err != nil {
			return model.Cardinality{}, err
		}
		nt, err := p.peek()
		if err != nil {
			return model.Cardinality{}, err
		}
		if nt.Kind == TokRBrace {
			p.advance()
			return model.Cardinality{Min: m, Max: m}, nil
		}
		if _, err := p.expect(TokComma, "',' or '}'"); err != nil {
			return model.Cardinality{}, err
		}
		nt2, err := p.peek()
		if err != nil {
			return model.Cardinality{}, err
		}
		if nt2.Kind == TokRBrace {
			p.advance()
			return model.Cardinality{Min: m, Max: model.MaxUnbounded}, nil
		}
		n, err := p.parseIntLiteral()
		if err != nil {
			return model.Cardinality{}, err
		}
		if _, err := p.expect(TokRBrace, "'}'"); err != nil {
			return model.Cardinality{}, err
		}
		return model.Cardinality{Min: m, Max: n}, nil
	default:
		return model.DefaultShEx, nil
	}
}

func (p *Parser) parseIntLiteral() (int, error) {
	t, err := p.expect(TokNumber, "integer")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range t.Text {
		n = n*10 + int(c-'0')
	}
	return n, nil
}
