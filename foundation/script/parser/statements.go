// File: statements.go
// Title: Statement Productions
// Description: Grammar productions for statements, declarations and blocks.
//              Statement dispatches on the lookahead kind; anything that
//              does not start a dedicated statement is an expression
//              statement.
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

// statementList parses statements until the lookahead is stop or the
// input ends. The caller consumes stop.
func (p *Parser) statementList(stop lexer.Kind) ([]ast.Statement, error) {
	list := make([]ast.Statement, 0, 8)
	for !p.at(stop) && !p.at(lexer.EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		list = append(list, stmt)
	}
	return list, nil
}

// Statement
//
//	: ExpressionStatement
//	| BlockStatement
//	| EmptyStatement
//	| VariableStatement
//	| IfStatement
//	| IterationStatement
//	| FunctionDeclaration
//	| ClassDeclaration
//	| ReturnStatement
//	;
func (p *Parser) statement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.lookahead.Kind {
	case lexer.Semicolon:
		return p.emptyStatement()
	case lexer.If:
		return p.ifStatement()
	case lexer.LeftBrace:
		return p.blockStatement()
	case lexer.Let:
		return p.variableStatement()
	case lexer.Def:
		return p.functionDeclaration()
	case lexer.Class:
		return p.classDeclaration()
	case lexer.Return:
		return p.returnStatement()
	// IterationStatement : WhileStatement | DoWhileStatement | ForStatement
	case lexer.While:
		return p.whileStatement()
	case lexer.Do:
		return p.doWhileStatement()
	case lexer.For:
		return p.forStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) emptyStatement() (ast.Statement, error) {
	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.EmptyStatement{}, nil
}

// BlockStatement
//
//	: '{' OptStatementList '}'
//	;
func (p *Parser) blockStatement() (*ast.BlockStatement, error) {
	if _, err := p.eat(lexer.LeftBrace); err != nil {
		return nil, err
	}

	body, err := p.statementList(lexer.RightBrace)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(lexer.RightBrace); err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Body: body}, nil
}

// ExpressionStatement
//
//	: Expression ';'
//	;
func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr}, nil
}

// VariableStatement
//
//	: VariableStatementInit ';'
//	;
func (p *Parser) variableStatement() (ast.Statement, error) {
	stmt, err := p.variableStatementInit()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// VariableStatementInit
//
//	: 'let' VariableDeclarationList
//	;
func (p *Parser) variableStatementInit() (*ast.VariableStatement, error) {
	if _, err := p.eat(lexer.Let); err != nil {
		return nil, err
	}

	var declarations []*ast.VariableDeclaration
	for {
		decl, err := p.variableDeclaration()
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)

		if !p.at(lexer.Comma) {
			break
		}
		if _, err := p.eat(lexer.Comma); err != nil {
			return nil, err
		}
	}

	return &ast.VariableStatement{Declarations: declarations}, nil
}

// VariableDeclaration
//
//	: Identifier OptVariableInitializer
//	;
//
// VariableInitializer
//
//	: SIMPLE_ASSIGN AssignmentExpression
//	;
func (p *Parser) variableDeclaration() (*ast.VariableDeclaration, error) {
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if !p.at(lexer.Comma) && !p.at(lexer.Semicolon) {
		if _, err := p.eat(lexer.SimpleAssign); err != nil {
			return nil, err
		}
		if initializer, err = p.assignment(); err != nil {
			return nil, err
		}
	}

	return &ast.VariableDeclaration{ID: id, Init: initializer}, nil
}

// IfStatement
//
//	: 'if' '(' Expression ')' Statement
//	| 'if' '(' Expression ')' Statement 'else' Statement
//	;
func (p *Parser) ifStatement() (ast.Statement, error) {
	if _, err := p.eat(lexer.If); err != nil {
		return nil, err
	}
	test, err := p.parenthesized()
	if err != nil {
		return nil, err
	}

	consequent, err := p.statement()
	if err != nil {
		return nil, err
	}

	var alternate ast.Statement
	if p.at(lexer.Else) {
		if _, err := p.eat(lexer.Else); err != nil {
			return nil, err
		}
		if alternate, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &ast.IfStatement{Test: test, Consequent: consequent, Alternate: alternate}, nil
}

// WhileStatement
//
//	: 'while' '(' Expression ')' Statement
//	;
func (p *Parser) whileStatement() (ast.Statement, error) {
	if _, err := p.eat(lexer.While); err != nil {
		return nil, err
	}
	test, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Test: test, Body: body}, nil
}

// DoWhileStatement
//
//	: 'do' BlockStatement 'while' '(' Expression ')' ';'
//	;
func (p *Parser) doWhileStatement() (ast.Statement, error) {
	if _, err := p.eat(lexer.Do); err != nil {
		return nil, err
	}
	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.While); err != nil {
		return nil, err
	}
	test, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Body: body, Test: test}, nil
}

// ForStatement
//
//	: 'for' '(' OptForStatementInit ';' OptExpression ';' OptExpression ')' Statement
//	;
//
// ForStatementInit
//
//	: VariableStatementInit
//	| Expression
//	;
func (p *Parser) forStatement() (ast.Statement, error) {
	if _, err := p.eat(lexer.For); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LeftParen); err != nil {
		return nil, err
	}

	stmt := &ast.ForStatement{}

	if !p.at(lexer.Semicolon) {
		if p.at(lexer.Let) {
			clause, err := p.variableStatementInit()
			if err != nil {
				return nil, err
			}
			stmt.Init = clause
		} else {
			clause, err := p.expression()
			if err != nil {
				return nil, err
			}
			stmt.Init = clause
		}
	}
	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}

	if !p.at(lexer.Semicolon) {
		test, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Test = test
	}
	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}

	if !p.at(lexer.RightParen) {
		update, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Update = update
	}
	if _, err := p.eat(lexer.RightParen); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	return stmt, nil
}

// FunctionDeclaration
//
//	: 'def' Identifier '(' OptFormalParameterList ')' BlockStatement
//	;
func (p *Parser) functionDeclaration() (ast.Statement, error) {
	if _, err := p.eat(lexer.Def); err != nil {
		return nil, err
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LeftParen); err != nil {
		return nil, err
	}

	params := make([]*ast.Identifier, 0, 4)
	if !p.at(lexer.RightParen) {
		for {
			param, err := p.identifier()
			if err != nil {
				return nil, err
			}
			params = append(params, param)

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

	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclaration{Name: name, Params: params, Body: body}, nil
}

// ClassDeclaration
//
//	: 'class' Identifier OptClassExtends BlockStatement
//	;
func (p *Parser) classDeclaration() (ast.Statement, error) {
	if _, err := p.eat(lexer.Class); err != nil {
		return nil, err
	}
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}

	var superClass *ast.Identifier
	if p.at(lexer.Extends) {
		if _, err := p.eat(lexer.Extends); err != nil {
			return nil, err
		}
		if superClass, err = p.identifier(); err != nil {
			return nil, err
		}
	}

	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}

	return &ast.ClassDeclaration{ID: id, SuperClass: superClass, Body: body}, nil
}

// ReturnStatement
//
//	: 'return' OptExpression ';'
//	;
func (p *Parser) returnStatement() (ast.Statement, error) {
	if _, err := p.eat(lexer.Return); err != nil {
		return nil, err
	}

	var argument ast.Expression
	if !p.at(lexer.Semicolon) {
		var err error
		if argument, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Argument: argument}, nil
}

// parenthesized parses '(' Expression ')' as used by if and loop heads
func (p *Parser) parenthesized() (ast.Expression, error) {
	if _, err := p.eat(lexer.LeftParen); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RightParen); err != nil {
		return nil, err
	}
	return expr, nil
}
