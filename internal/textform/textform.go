// Package textform renders decoded packets to, and parses them back
// from, a line-oriented plain-text form suitable for manual editing.
package textform

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wotreplay/internal/packet"
	"wotreplay/internal/werrors"
)

// Render writes one packet's text-form block to w:
//
//	begin <packet_type_name>
//	<hex(payload_body)>
//	<blank line>
//	<offset> <field_name> <value> [<value>...]
//	...
//	end
//	<blank line>
func Render(w io.Writer, p *packet.Packet) error {
	name, err := p.Type.Name()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "begin %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", hex.EncodeToString(p.Body)); err != nil {
		return err
	}

	for _, f := range packet.Fields(p.Type, p.Subtype, p.HasSubtype) {
		values, err := f.Serializer.Deserialize(p.Body, f.Offset)
		if err != nil {
			return fmt.Errorf("render field %s: %w", f.Name, err)
		}
		line, err := renderFieldLine(f, values)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "end\n\n"); err != nil {
		return err
	}
	return nil
}

func renderFieldLine(f packet.Field, values []any) (string, error) {
	prefix := fmt.Sprintf("%4d %s", f.Offset, f.Name)
	if f.Name == "message" {
		s, ok := values[0].(string)
		if !ok {
			return "", fmt.Errorf("message field did not deserialize to a string")
		}
		return prefix + " " + s, nil
	}

	tokens := make([]string, len(values))
	for i, v := range values {
		switch vv := v.(type) {
		case int64:
			tokens[i] = strconv.FormatInt(vv, 10)
		case float64:
			tokens[i] = formatFloat(vv)
		case string:
			tokens[i] = vv
		default:
			return "", fmt.Errorf("unsupported value type %T", v)
		}
	}
	return prefix + " " + strings.Join(tokens, " "), nil
}

// formatFloat renders a float32-precision value the way the text form
// expects: shortest round-tripping decimal, with a fractional part
// added to plain integers ("1.0", not "1"); exponent forms such as
// "1e+10" are left as they are.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

type parserState int

const (
	stateInitial parserState = iota
	stateBegin
	stateProperties
)

// Parse reads text-form blocks from r and returns the reassembled
// packets. It runs a small state machine (initial -> begin ->
// properties -> initial) that completes one packet at each "end"
// line.
func Parse(r io.Reader) ([]*packet.Packet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var packets []*packet.Packet
	state := stateInitial
	lineNo := 0

	var curType packet.Type
	var curBody []byte

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		switch state {
		case stateInitial:
			name, ok := strings.CutPrefix(line, "begin ")
			if !ok {
				return nil, werrors.NewSyntaxError(lineNo, "expected %q, got %q", "begin <type>", line)
			}
			t, err := packet.ParseTypeName(strings.TrimSpace(name))
			if err != nil {
				return nil, werrors.NewSyntaxError(lineNo, "%v", err)
			}
			curType = t
			state = stateBegin

		case stateBegin:
			body, err := hex.DecodeString(strings.TrimSpace(line))
			if err != nil {
				return nil, werrors.NewSyntaxError(lineNo, "invalid hex body: %v", err)
			}
			curBody = body
			state = stateProperties

		case stateProperties:
			if strings.TrimSpace(line) == "end" {
				packets = append(packets, &packet.Packet{
					Type:       curType,
					Subtype:    subtypeOf(curType, curBody),
					HasSubtype: packet.HasSubtype(curType),
					Body:       curBody,
				})
				state = stateInitial
				continue
			}
			if err := applyFieldLine(curType, curBody, line, lineNo); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan text form: %w", err)
	}
	if state != stateInitial {
		return nil, werrors.NewSyntaxError(-1, "unexpected EOF in state %d", state)
	}
	return packets, nil
}

func subtypeOf(t packet.Type, body []byte) int32 {
	if !packet.HasSubtype(t) || len(body) < 12 {
		return 0
	}
	f, ok := packet.FieldByName(t, 0, true, "subtype")
	if !ok {
		return 0
	}
	values, err := f.Serializer.Deserialize(body, f.Offset)
	if err != nil {
		return 0
	}
	v, ok := values[0].(int64)
	if !ok {
		return 0
	}
	return int32(v)
}

func applyFieldLine(t packet.Type, body []byte, line string, lineNo int) error {
	parts := strings.SplitN(strings.TrimLeft(line, " "), " ", 3)
	if len(parts) < 2 {
		return werrors.NewSyntaxError(lineNo, "malformed field line %q", line)
	}
	offsetStr, name := parts[0], parts[1]
	if _, err := strconv.Atoi(offsetStr); err != nil {
		return werrors.NewSyntaxError(lineNo, "malformed offset %q", offsetStr)
	}

	subtype := subtypeOf(t, body)
	f, ok := packet.FieldByName(t, subtype, packet.HasSubtype(t), name)
	if !ok {
		return werrors.NewSyntaxError(lineNo, "unknown field %q for packet type %s", name, t)
	}

	var rawValues string
	if len(parts) == 3 {
		rawValues = parts[2]
	}

	var values []any
	if name == "message" {
		v, err := f.Serializer.Cast(rawValues)
		if err != nil {
			return werrors.NewSyntaxError(lineNo, "%v", err)
		}
		values = []any{v}
	} else {
		tokens := strings.Fields(rawValues)
		values = make([]any, len(tokens))
		for i, tok := range tokens {
			v, err := f.Serializer.Cast(tok)
			if err != nil {
				return werrors.NewSyntaxError(lineNo, "%v", err)
			}
			values[i] = v
		}
	}

	encoded, err := f.Serializer.Serialize(values)
	if err != nil {
		return werrors.NewSyntaxError(lineNo, "%v", err)
	}
	if f.Offset+len(encoded) > len(body) {
		return werrors.NewSyntaxError(lineNo, "field %q at offset %d overflows body of length %d", name, f.Offset, len(body))
	}
	copy(body[f.Offset:f.Offset+len(encoded)], encoded)
	return nil
}

// RenderAll renders every packet in order, separated by their own
// blank-line terminators (no extra separators needed).
func RenderAll(w io.Writer, packets []*packet.Packet) error {
	for _, p := range packets {
		if err := Render(w, p); err != nil {
			return err
		}
	}
	return nil
}

// Bytes is a convenience wrapper returning the rendered text as bytes.
func Bytes(p *packet.Packet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
