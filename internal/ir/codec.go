package ir

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

// SchemaVersion - increment when the wire format changes.
const SchemaVersion uint16 = 1

// DecodeError reports an undecodable or out-of-schema unit payload.
type DecodeError struct {
	Unit string
	Msg  string
}

func (e *DecodeError) Error() string {
	if e.Unit == "" {
		return "ir: " + e.Msg
	}
	return fmt.Sprintf("ir: %s: %s", e.Unit, e.Msg)
}

// Encode serializes a unit. The schema version is stamped on the way out.
func Encode(unit *Unit) ([]byte, error) {
	if unit == nil {
		return nil, &DecodeError{Msg: "nil unit"}
	}
	u := *unit
	u.Schema = SchemaVersion
	return encodeRaw(&u)
}

func encodeRaw(unit *Unit) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(unit); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes a unit payload and normalizes every identifier to
// NFC, so units produced by foreign frontends compare names consistently.
func Decode(data []byte) (*Unit, error) {
	var unit Unit
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&unit); err != nil {
		return nil, &DecodeError{Msg: "undecodable payload: " + err.Error()}
	}
	if unit.Schema != SchemaVersion {
		return nil, &DecodeError{
			Unit: unit.Name,
			Msg:  fmt.Sprintf("schema %d not supported (want %d)", unit.Schema, SchemaVersion),
		}
	}
	normalizeUnit(&unit)
	return &unit, nil
}

func normalizeUnit(unit *Unit) {
	unit.Name = norm.NFC.String(unit.Name)
	for i := range unit.Instrs {
		in := &unit.Instrs[i]
		in.Name = norm.NFC.String(in.Name)
		in.From = norm.NFC.String(in.From)
		if in.Type != nil {
			normalizeType(in.Type)
		}
		for j := range in.Args {
			in.Args[j].Name = norm.NFC.String(in.Args[j].Name)
		}
	}
}

func normalizeType(t *TypeExpr) {
	t.Name = norm.NFC.String(t.Name)
	for i := range t.Elems {
		normalizeType(&t.Elems[i])
	}
}
