package packet

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"wotreplay/internal/werrors"
)

// Packet is one decoded record from the payload stream.
type Packet struct {
	Type       Type
	Subtype    int32 // valid only when HasSubtype is true
	HasSubtype bool
	Clock      float32
	Body       []byte // on-disk length + 4 bytes, clock-prefixed
}

// ReadPacket reads one packet from r. It returns (nil, nil) at a clean
// EOF — no bytes available when attempting the length field.
func ReadPacket(r io.Reader) (*Packet, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read packet length: %w: %w", err, werrors.ErrTruncated)
	}
	onDiskLength := int32(binary.LittleEndian.Uint32(lenBuf[:]))

	var typeBuf [4]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		return nil, fmt.Errorf("read packet type: %w: %w", err, werrors.ErrTruncated)
	}
	rawType := int32(binary.LittleEndian.Uint32(typeBuf[:]))
	t := Type(rawType)
	if _, err := t.Name(); err != nil {
		return nil, fmt.Errorf("%w: %w", err, werrors.ErrUnknownPacketType)
	}

	bodyLen := int(onDiskLength) + 4
	if bodyLen < 4 {
		return nil, fmt.Errorf("packet body length %d invalid: %w", bodyLen, werrors.ErrMalformedPayload)
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read packet body (%d bytes): %w: %w", bodyLen, err, werrors.ErrTruncated)
	}

	clockBits := binary.LittleEndian.Uint32(body[0:4])
	clock := math.Float32frombits(clockBits)

	hasSubtype := HasSubtype(t)
	var subtype int32
	if hasSubtype {
		if len(body) < 12 {
			return nil, fmt.Errorf("packet body too short for subtype: %w", werrors.ErrMalformedPayload)
		}
		subtype = int32(binary.LittleEndian.Uint32(body[8:12]))
	}

	return &Packet{Type: t, Subtype: subtype, HasSubtype: hasSubtype, Clock: clock, Body: body}, nil
}

// WritePacket writes one packet to w.
func WritePacket(w io.Writer, t Type, body []byte) error {
	if len(body) < 4 {
		return fmt.Errorf("packet body must be at least 4 bytes (clock), got %d", len(body))
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(int32(len(body)-4)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write packet length: %w", err)
	}

	var typeBuf [4]byte
	binary.LittleEndian.PutUint32(typeBuf[:], uint32(int32(t)))
	if _, err := w.Write(typeBuf[:]); err != nil {
		return fmt.Errorf("write packet type: %w", err)
	}

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write packet body: %w", err)
	}
	return nil
}
