/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package search

import (
	"fmt"
	"strings"
	"unicode"

	sq "github.com/Masterminds/squirrel"
)

// kqlField maps a filterable document field to its JSONB path.
type kqlField struct {
	path  string
	array bool
}

var kqlFields = map[string]kqlField{
	"host.hostname":                  {path: "{host,hostname}"},
	"host.name":                      {path: "{host,name}"},
	"host.id":                        {path: "{host,id}"},
	"host.ip":                        {path: "{host,ip}", array: true},
	"host.mac":                       {path: "{host,mac}", array: true},
	"host.os.name":                   {path: "{host,os,name}"},
	"host.os.platform":               {path: "{host,os,platform}"},
	"host.os.version":                {path: "{host,os,version}"},
	"agent.id":                       {path: "{agent,id}"},
	"agent.version":                  {path: "{agent,version}"},
	"elastic.agent.id":               {path: "{elastic,agent,id}"},
	"Endpoint.status":                {path: "{Endpoint,status}"},
	"Endpoint.policy.applied.id":     {path: "{Endpoint,policy,applied,id}"},
	"Endpoint.policy.applied.name":   {path: "{Endpoint,policy,applied,name}"},
	"Endpoint.policy.applied.status": {path: "{Endpoint,policy,applied,status}"},
}

// ParseKQL turns a KQL subset into a squirrel predicate over the document column.
//
// Supported: field:value, field:"quoted value", * wildcards, and/or/not, parentheses.
// An empty expression yields a nil predicate.
func ParseKQL(expr string) (sq.Sqlizer, error) {
	tokens, err := tokenizeKQL(expr)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		return nil, nil
	}

	p := &kqlParser{tokens: tokens}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFilter, p.tokens[p.pos].text)
	}

	return node, nil
}

type kqlTokenKind int

const (
	tokWord kqlTokenKind = iota
	tokQuoted
	tokColon
	tokLParen
	tokRParen
)

type kqlToken struct {
	kind kqlTokenKind
	text string
}

func tokenizeKQL(expr string) ([]kqlToken, error) {
	var tokens []kqlToken

	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case r == ':':
			tokens = append(tokens, kqlToken{kind: tokColon, text: ":"})
			i++
		case r == '(':
			tokens = append(tokens, kqlToken{kind: tokLParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, kqlToken{kind: tokRParen, text: ")"})
			i++
		case r == '"':
			var b strings.Builder

			i++
			closed := false

			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					b.WriteRune(runes[i+1])
					i += 2

					continue
				}

				if runes[i] == '"' {
					closed = true
					i++

					break
				}

				b.WriteRune(runes[i])
				i++
			}

			if !closed {
				return nil, fmt.Errorf("%w: unterminated quote", ErrInvalidFilter)
			}

			tokens = append(tokens, kqlToken{kind: tokQuoted, text: b.String()})
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && !strings.ContainsRune(":()\"", runes[i]) {
				i++
			}

			tokens = append(tokens, kqlToken{kind: tokWord, text: string(runes[start:i])})
		}
	}

	return tokens, nil
}

type kqlParser struct {
	tokens []kqlToken
	pos    int
}

func (p *kqlParser) peekKeyword(word string) bool {
	if p.pos >= len(p.tokens) {
		return false
	}

	t := p.tokens[p.pos]

	return t.kind == tokWord && strings.EqualFold(t.text, word)
}

func (p *kqlParser) parseOr() (sq.Sqlizer, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	terms := sq.Or{left}

	for p.peekKeyword("or") {
		p.pos++

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		terms = append(terms, right)
	}

	if len(terms) == 1 {
		return left, nil
	}

	return terms, nil
}

func (p *kqlParser) parseAnd() (sq.Sqlizer, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	terms := sq.And{left}

	for p.peekKeyword("and") {
		p.pos++

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		terms = append(terms, right)
	}

	if len(terms) == 1 {
		return left, nil
	}

	return terms, nil
}

func (p *kqlParser) parseUnary() (sq.Sqlizer, error) {
	if p.peekKeyword("not") {
		p.pos++

		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return notExpr{inner: inner}, nil
	}

	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokLParen {
		p.pos++

		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokRParen {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidFilter)
		}

		p.pos++

		return inner, nil
	}

	return p.parseClause()
}

func (p *kqlParser) parseClause() (sq.Sqlizer, error) {
	if p.pos+3 > len(p.tokens) {
		return nil, fmt.Errorf("%w: expected field:value", ErrInvalidFilter)
	}

	field, colon, value := p.tokens[p.pos], p.tokens[p.pos+1], p.tokens[p.pos+2]
	if field.kind != tokWord || colon.kind != tokColon || (value.kind != tokWord && value.kind != tokQuoted) {
		return nil, fmt.Errorf("%w: expected field:value near %q", ErrInvalidFilter, field.text)
	}

	p.pos += 3

	def, ok := kqlFields[field.text]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field.text)
	}

	return clauseFor(def, value.text, value.kind == tokWord), nil
}

func clauseFor(def kqlField, value string, wildcards bool) sq.Sqlizer {
	column := fmt.Sprintf("document #>> '%s'", def.path)

	if wildcards && value == "*" {
		return sq.Expr(column + " IS NOT NULL")
	}

	if def.array {
		elements := fmt.Sprintf("jsonb_array_elements_text(document #> '%s')", def.path)

		if wildcards && strings.Contains(value, "*") {
			return sq.Expr("EXISTS (SELECT 1 FROM "+elements+" AS v(val) WHERE v.val ILIKE ?)", likePattern(value))
		}

		return sq.Expr("EXISTS (SELECT 1 FROM "+elements+" AS v(val) WHERE v.val = ?)", value)
	}

	if wildcards && strings.Contains(value, "*") {
		return sq.Expr(column+" ILIKE ?", likePattern(value))
	}

	return sq.Expr(column+" = ?", value)
}

// likePattern escapes LIKE metacharacters and turns * into %.
func likePattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "*", "%")

	return r.Replace(value)
}

type notExpr struct {
	inner sq.Sqlizer
}

func (n notExpr) ToSql() (string, []interface{}, error) {
	sql, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}

	return "NOT (" + sql + ")", args, nil
}
