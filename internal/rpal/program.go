package rpal

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/dekarrin/rezi"
)

// This file implements the binary encoding of a compiled program, so that
// `rpal -compile` and `rpal -run` can hand a flattened
// control-fragment set between two process invocations without re-parsing
// and re-standardizing the source.

var (
	_ encoding.BinaryMarshaler   = (*program)(nil)
	_ encoding.BinaryUnmarshaler = (*program)(nil)
)

// CompileBytes serializes an already-flattened prog to the on-disk format
// read by -run.
func CompileBytes(prog *program) []byte {
	return rezi.EncBinary(prog)
}

// DecompileBytes reads a program previously written by CompileBytes.
func DecompileBytes(data []byte) (*program, error) {
	prog := &program{}
	n, err := rezi.DecBinary(data, prog)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("compiled program: %d/%d bytes consumed, file may be truncated or corrupt", n, len(data))
	}
	return prog, nil
}

func (p *program) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, encInt(len(p.fragments))...)
	for _, frag := range p.fragments {
		data = append(data, encInt(len(frag))...)
		for _, item := range frag {
			enc, err := item.MarshalBinary()
			if err != nil {
				return nil, err
			}
			data = append(data, encLenPrefixed(enc)...)
		}
	}
	return data, nil
}

func (p *program) UnmarshalBinary(data []byte) error {
	fragCount, n, err := decInt(data)
	if err != nil {
		return fmt.Errorf("fragment count: %w", err)
	}
	data = data[n:]

	fragments := make([][]controlItem, fragCount)
	for f := 0; f < fragCount; f++ {
		itemCount, n, err := decInt(data)
		if err != nil {
			return fmt.Errorf("fragment %d: item count: %w", f, err)
		}
		data = data[n:]

		items := make([]controlItem, itemCount)
		for i := 0; i < itemCount; i++ {
			enc, n, err := decLenPrefixed(data)
			if err != nil {
				return fmt.Errorf("fragment %d item %d: %w", f, i, err)
			}
			data = data[n:]
			if err := items[i].UnmarshalBinary(enc); err != nil {
				return fmt.Errorf("fragment %d item %d: %w", f, i, err)
			}
		}
		fragments[f] = items
	}
	p.fragments = fragments
	return nil
}

func (item controlItem) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, byte(item.kind))
	data = append(data, encLenPrefixed(encValue(item.value))...)
	data = append(data, encString(item.name)...)
	data = append(data, encInt(item.fragIndex)...)
	data = append(data, encInt(item.fragAlt)...)
	data = append(data, encLenPrefixed(encBinder(item.binder))...)
	data = append(data, encInt(item.n)...)
	data = append(data, encString(item.op)...)
	return data, nil
}

func (item *controlItem) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("unexpected end of data")
	}
	item.kind = itemKind(data[0])
	data = data[1:]

	valEnc, n, err := decLenPrefixed(data)
	if err != nil {
		return err
	}
	data = data[n:]
	item.value, err = decValue(valEnc)
	if err != nil {
		return err
	}

	item.name, n, err = decString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	item.fragIndex, n, err = decInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	item.fragAlt, n, err = decInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	binderEnc, n, err := decLenPrefixed(data)
	if err != nil {
		return err
	}
	data = data[n:]
	item.binder, err = decBinder(binderEnc)
	if err != nil {
		return err
	}

	item.n, n, err = decInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	item.op, _, err = decString(data)
	if err != nil {
		return err
	}
	return nil
}

// encBinder/decBinder serialize the restricted node shapes a lambda binder
// can take: an <ID:x> leaf, a ","-tuple or tau-tuple of such leaves, or
// "()". The token
// field carries no information needed at runtime and is dropped.
func encBinder(n *node) []byte {
	if n == nil {
		return []byte{0}
	}
	data := []byte{1}
	data = append(data, encString(n.label)...)
	data = append(data, encInt(len(n.children))...)
	for _, c := range n.children {
		data = append(data, encLenPrefixed(encBinder(c))...)
	}
	return data
}

func decBinder(data []byte) (*node, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("unexpected end of data")
	}
	if data[0] == 0 {
		return nil, nil
	}
	data = data[1:]

	label, n, err := decString(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	childCount, n, err := decInt(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	children := make([]*node, childCount)
	for i := 0; i < childCount; i++ {
		enc, n, err := decLenPrefixed(data)
		if err != nil {
			return nil, err
		}
		data = data[n:]
		children[i], err = decBinder(enc)
		if err != nil {
			return nil, err
		}
	}
	return &node{label: label, children: children}, nil
}

// encValue/decValue handle the literal kinds that can appear directly in a
// control item: integers, strings, booleans, dummy, and nil (the
// zero-length tuple). Closures, Eta values, and builtins never appear as
// compiled literals.
func encValue(v Value) []byte {
	data := []byte{byte(v.kind)}
	data = append(data, encInt(v.i)...)
	data = append(data, encString(v.s)...)
	data = append(data, encBool(v.b)...)
	return data
}

func decValue(data []byte) (Value, error) {
	if len(data) < 1 {
		return Value{}, fmt.Errorf("unexpected end of data")
	}
	kind := valueKind(data[0])
	data = data[1:]

	i, n, err := decInt(data)
	if err != nil {
		return Value{}, err
	}
	data = data[n:]

	s, n, err := decString(data)
	if err != nil {
		return Value{}, err
	}
	data = data[n:]

	b, _, err := decBool(data)
	if err != nil {
		return Value{}, err
	}

	return Value{kind: kind, i: i, s: s, b: b}, nil
}

func encBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("unexpected end of data")
	}
	return data[0] != 0, 1, nil
}

func encInt(i int) []byte {
	buf := make([]byte, 0, 8)
	return binary.AppendVarint(buf, int64(i))
}

func decInt(data []byte) (int, int, error) {
	val, n := binary.Varint(data)
	if n <= 0 {
		return 0, 0, fmt.Errorf("malformed varint")
	}
	return int(val), n, nil
}

func encString(s string) []byte {
	data := encInt(utf8.RuneCountInString(s))
	data = append(data, []byte(s)...)
	return data
}

func decString(data []byte) (string, int, error) {
	runeCount, n, err := decInt(data)
	if err != nil {
		return "", 0, err
	}
	data = data[n:]

	consumed := n
	var s []byte
	for i := 0; i < runeCount; i++ {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return "", 0, fmt.Errorf("invalid utf-8 in encoded string")
		}
		s = append(s, data[:size]...)
		data = data[size:]
		consumed += size
	}
	return string(s), consumed, nil
}

func encLenPrefixed(b []byte) []byte {
	return append(encInt(len(b)), b...)
}

func decLenPrefixed(data []byte) ([]byte, int, error) {
	length, n, err := decInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[n:]
	if len(data) < length {
		return nil, 0, fmt.Errorf("unexpected end of data")
	}
	return data[:length], n + length, nil
}
