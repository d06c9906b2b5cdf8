// Package resp implements the byte-level framing used on every connection:
// simple strings, errors, integers, bulk strings, arrays, their null forms and
// the raw bulk payload used for the replication snapshot.
package resp

import (
	"bytes"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindSimpleString Kind = iota + 1
	KindError
	KindInteger
	KindBulk
	KindNull
	KindArray
	KindNullArray
	KindRaw
)

// Value is immutable once built. Byte slices handed to constructors are
// copied and accessors must not be used to mutate the result.
type Value struct {
	kind  Kind
	text  []byte
	num   int64
	items []Value
}

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// NewSimpleString replaces CR and LF with spaces so the value is exactly what
// a peer decodes.
func NewSimpleString(text string) Value {
	return Value{kind: KindSimpleString, text: []byte(lineBreaks.Replace(text))}
}

func NewError(text string) Value {
	return Value{kind: KindError, text: []byte(lineBreaks.Replace(text))}
}

func NewInteger(num int64) Value {
	return Value{kind: KindInteger, num: num}
}

func NewBulkString(text string) Value {
	return Value{kind: KindBulk, text: []byte(text)}
}

func NewBulk(data []byte) Value {
	return Value{kind: KindBulk, text: clone(data)}
}

func NewNull() Value {
	return Value{kind: KindNull}
}

func NewArray(items ...Value) Value {
	copied := make([]Value, len(items))
	copy(copied, items)
	return Value{kind: KindArray, items: copied}
}

func NewNullArray() Value {
	return Value{kind: KindNullArray}
}

func NewRaw(data []byte) Value {
	return Value{kind: KindRaw, text: clone(data)}
}

func NewCommand(name string, args ...[]byte) Value {
	items := make([]Value, 0, len(args)+1)
	items = append(items, NewBulkString(name))

	for _, arg := range args {
		items = append(items, NewBulk(arg))
	}

	return Value{kind: KindArray, items: items}
}

func (value Value) Kind() Kind {
	return value.kind
}

func (value Value) Bytes() []byte {
	return value.text
}

func (value Value) Text() string {
	return string(value.text)
}

func (value Value) Int() int64 {
	return value.num
}

func (value Value) Items() []Value {
	return value.items
}

func (value Value) Len() int {
	return len(value.items)
}

func (value Value) IsNull() bool {
	return value.kind == KindNull || value.kind == KindNullArray
}

func (value Value) IsStringLike() bool {
	return value.kind == KindSimpleString || value.kind == KindBulk
}

func (value Value) IsArray() bool {
	return value.kind == KindArray
}

// Equal treats simple and bulk strings with the same bytes as the same value.
func (value Value) Equal(other Value) bool {
	if value.IsStringLike() && other.IsStringLike() {
		return bytes.Equal(value.text, other.text)
	}

	if value.kind != other.kind {
		return false
	}

	switch value.kind {
	case KindError, KindRaw:
		return bytes.Equal(value.text, other.text)
	case KindInteger:
		return value.num == other.num
	case KindArray:
		return equalItems(value.items, other.items)
	}

	return true
}

func (value Value) String() string {
	switch value.kind {
	case KindSimpleString:
		return "+" + string(value.text)
	case KindError:
		return "-" + string(value.text)
	case KindInteger:
		return ":" + strconv.FormatInt(value.num, 10)
	case KindBulk:
		return strconv.Quote(string(value.text))
	case KindNull, KindNullArray:
		return "(nil)"
	case KindRaw:
		return "raw(" + strconv.Itoa(len(value.text)) + " bytes)"
	case KindArray:
		parts := make([]string, 0, len(value.items))
		for _, item := range value.items {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, " ") + "]"
	}

	return "(invalid)"
}

func equalItems(left, right []Value) bool {
	if len(left) != len(right) {
		return false
	}

	for index := range left {
		if !left[index].Equal(right[index]) {
			return false
		}
	}

	return true
}

func clone(data []byte) []byte {
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}
