package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrParse = errors.New("parse error")

// Parse decodes a single JSON document into a node tree, preserving
// object field order and the integer/float distinction of number
// literals.
func Parse(d []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrParse)
	}
	return res, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: unexpected end of document", ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, t.String())
	case nil:
		return Null(), nil
	case bool:
		return FromBool(t), nil
	case string:
		return FromString(t), nil
	case json.Number:
		return FromNumber(t.String()), nil
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrParse, tok)
}

func parseObject(dec *json.Decoder) (*Node, error) {
	res := &Node{Type: ObjectType}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v", ErrParse, tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		res.Fields = append(res.Fields, key)
		res.Values = append(res.Values, val)
	}
	// consume '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return res, nil
}

func parseArray(dec *json.Decoder) (*Node, error) {
	res := &Node{Type: ArrayType}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, val)
	}
	// consume ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return res, nil
}
