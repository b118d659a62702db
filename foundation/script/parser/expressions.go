// File: expressions.go
// Title: Expression Productions
// Description: Precedence chain from assignment (lowest) to primary
//              expressions (highest). Binary and logical levels share
//              binaryLevel, parameterized by the next production and the
//              operator token kind of the level.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package parser

import (
	"github.com/msto63/scriptfront/foundation/script/ast"
	"github.com/msto63/scriptfront/foundation/script/lexer"
)

// production parses one precedence level
type production func() (ast.Expression, error)

// builder folds an operator and two operands into a node
type builder func(operator string, left, right ast.Expression) ast.Expression

func binary(operator string, left, right ast.Expression) ast.Expression {
	return &ast.BinaryExpression{Operator: operator, Left: left, Right: right}
}

func logical(operator string, left, right ast.Expression) ast.Expression {
	return &ast.LogicalExpression{Operator: operator, Left: left, Right: right}
}

// binaryLevel parses a left-associative chain: next (operator next)*
func (p *Parser) binaryLevel(next production, operator lexer.Kind, build builder) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.at(operator) {
		op, err := p.eat(operator)
		if err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = build(op.Lexeme, left, right)
	}

	return left, nil
}

// Expression
//
//	: AssignmentExpression
//	;
func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

// AssignmentExpression
//
//	: LogicalORExpression
//	| LeftHandSideExpression AssignmentOperator AssignmentExpression
//	;
func (p *Parser) assignment() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.logicalOr()
	if err != nil {
		return nil, err
	}

	if !p.at(lexer.SimpleAssign) && !p.at(lexer.ComplexAssign) {
		return left, nil
	}
	if !ast.IsAssignmentTarget(left) {
		return nil, p.errorAt(p.lookahead, "Invalid left-hand side in assignment expression")
	}

	op, err := p.eat(p.lookahead.Kind)
	if err != nil {
		return nil, err
	}
	right, err := p.assignment()
	if err != nil {
		return nil, err
	}

	return &ast.AssignmentExpression{Operator: op.Lexeme, Left: left, Right: right}, nil
}

// LogicalORExpression
//
//	: LogicalANDExpression
//	| LogicalORExpression LOGICAL_OR LogicalANDExpression
//	;
func (p *Parser) logicalOr() (ast.Expression, error) {
	return p.binaryLevel(p.logicalAnd, lexer.LogicalOr, logical)
}

// LogicalANDExpression
//
//	: EqualityExpression
//	| LogicalANDExpression LOGICAL_AND EqualityExpression
//	;
func (p *Parser) logicalAnd() (ast.Expression, error) {
	return p.binaryLevel(p.equality, lexer.LogicalAnd, logical)
}

// EqualityExpression
//
//	: RelationalExpression
//	| EqualityExpression EQUALITY_OPERATOR RelationalExpression
//	;
func (p *Parser) equality() (ast.Expression, error) {
	return p.binaryLevel(p.relational, lexer.EqualityOperator, binary)
}

// RelationalExpression
//
//	: AdditiveExpression
//	| RelationalExpression RELATIONAL_OPERATOR AdditiveExpression
//	;
func (p *Parser) relational() (ast.Expression, error) {
	return p.binaryLevel(p.additive, lexer.RelationalOperator, binary)
}

// AdditiveExpression
//
//	: MultiplicativeExpression
//	| AdditiveExpression ADDITIVE_OPERATOR MultiplicativeExpression
//	;
func (p *Parser) additive() (ast.Expression, error) {
	return p.binaryLevel(p.multiplicative, lexer.AdditiveOperator, binary)
}

// MultiplicativeExpression
//
//	: UnaryExpression
//	| MultiplicativeExpression MULTIPLICATIVE_OPERATOR UnaryExpression
//	;
func (p *Parser) multiplicative() (ast.Expression, error) {
	return p.binaryLevel(p.unary, lexer.MultiplicativeOperator, binary)
}

// UnaryExpression
//
//	: LeftHandSideExpression
//	| ADDITIVE_OPERATOR UnaryExpression
//	| LOGICAL_NOT UnaryExpression
//	;
func (p *Parser) unary() (ast.Expression, error) {
	if !p.at(lexer.AdditiveOperator) && !p.at(lexer.LogicalNot) {
		return p.leftHandSide()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	op, err := p.eat(p.lookahead.Kind)
	if err != nil {
		return nil, err
	}
	argument, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpression{Operator: op.Lexeme, Argument: argument}, nil
}

// LeftHandSideExpression
//
//	: CallMemberExpression
//	;
//
// CallMemberExpression
//
//	: MemberExpression
//	| CallExpression
//	;
func (p *Parser) leftHandSide() (ast.Expression, error) {
	if p.at(lexer.Super) {
		if _, err := p.eat(lexer.Super); err != nil {
			return nil, err
		}
		return p.call(&ast.Super{})
	}

	member, err := p.member()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.LeftParen) {
		return p.call(member)
	}
	return member, nil
}

// CallExpression
//
//	: Callee Arguments
//	;
//
// Callee
//
//	: MemberExpression
//	| CallExpression
//	;
func (p *Parser) call(callee ast.Expression) (ast.Expression, error) {
	for {
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		callee = &ast.CallExpression{Callee: callee, Arguments: args}

		if !p.at(lexer.LeftParen) {
			return callee, nil
		}
	}
}

// Arguments
//
//	: '(' OptArgumentList ')'
//	;
//
// ArgumentList
//
//	: AssignmentExpression
//	| ArgumentList ',' AssignmentExpression
//	;
func (p *Parser) arguments() ([]ast.Expression, error) {
	if _, err := p.eat(lexer.LeftParen); err != nil {
		return nil, err
	}

	args := make([]ast.Expression, 0, 4)
	if !p.at(lexer.RightParen) {
		for {
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.at(lexer.Comma) {
				break
			}
			if _, err := p.eat(lexer.Comma); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.eat(lexer.RightParen); err != nil {
		return nil, err
	}
	return args, nil
}

// MemberExpression
//
//	: PrimaryExpression
//	| MemberExpression '.' Identifier
//	| MemberExpression '[' Expression ']'
//	;
func (p *Parser) member() (ast.Expression, error) {
	object, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.at(lexer.Dot) || p.at(lexer.LeftBracket) {
		if p.at(lexer.Dot) {
			if _, err := p.eat(lexer.Dot); err != nil {
				return nil, err
			}
			property, err := p.identifier()
			if err != nil {
				return nil, err
			}
			object = &ast.MemberExpression{Computed: false, Object: object, Property: property}
			continue
		}

		if _, err := p.eat(lexer.LeftBracket); err != nil {
			return nil, err
		}
		property, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RightBracket); err != nil {
			return nil, err
		}
		object = &ast.MemberExpression{Computed: true, Object: object, Property: property}
	}

	return object, nil
}

// PrimaryExpression
//
//	: Literal
//	| ParenthesizedExpression
//	| Identifier
//	| ThisExpression
//	| NewExpression
//	;
func (p *Parser) primary() (ast.Expression, error) {
	switch p.lookahead.Kind {
	case lexer.Number, lexer.StringLit, lexer.True, lexer.False, lexer.Null:
		return p.literal()
	case lexer.LeftParen:
		// The parentheses leave no trace in the tree.
		return p.parenthesized()
	case lexer.Identifier:
		return p.identifier()
	case lexer.This:
		if _, err := p.eat(lexer.This); err != nil {
			return nil, err
		}
		return &ast.ThisExpression{}, nil
	case lexer.NewKeyword:
		return p.newExpression()
	case lexer.EOF:
		return nil, p.unexpected("primary expression")
	default:
		err := p.errorAt(p.lookahead, "Unexpected primary expression")
		err.Expected = "primary expression"
		return nil, err
	}
}

// NewExpression
//
//	: 'new' MemberExpression Arguments
//	;
func (p *Parser) newExpression() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.eat(lexer.NewKeyword); err != nil {
		return nil, err
	}
	callee, err := p.member()
	if err != nil {
		return nil, err
	}
	args, err := p.arguments()
	if err != nil {
		return nil, err
	}
	return &ast.NewExpression{Callee: callee, Arguments: args}, nil
}

// Literal
//
//	: NumericLiteral
//	| StringLiteral
//	| BooleanLiteral
//	| NullLiteral
//	;
func (p *Parser) literal() (ast.Expression, error) {
	tok, err := p.eat(p.lookahead.Kind)
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.Number:
		return &ast.NumericLiteral{Value: tok.Lexeme}, nil
	case lexer.StringLit:
		return &ast.StringLiteral{Value: tok.Lexeme[1 : len(tok.Lexeme)-1]}, nil
	case lexer.True:
		return &ast.BooleanLiteral{Value: true}, nil
	case lexer.False:
		return &ast.BooleanLiteral{Value: false}, nil
	default:
		return &ast.NullLiteral{}, nil
	}
}

// Identifier
//
//	: IDENTIFIER
//	;
func (p *Parser) identifier() (*ast.Identifier, error) {
	tok, err := p.eat(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Name: tok.Lexeme}, nil
}
