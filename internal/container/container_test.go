package container

import (
	"bytes"
	"testing"
)

func TestContainerRoundTripEmpty(t *testing.T) {
	c := New()
	var buf bytes.Buffer
	blocks := [][]byte{[]byte("[]")}
	if err := c.Write(&buf, blocks, nil, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := New().Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.JSONBlocks) != 1 || string(got.JSONBlocks[0]) != "[]" {
		t.Fatalf("json blocks mismatch: %v", got.JSONBlocks)
	}
	if !bytes.Equal(got.InnerMagic, DefaultInnerMagic) {
		t.Fatalf("inner magic mismatch: % x", got.InnerMagic)
	}
	if len(got.Payload) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(got.Payload))
	}
}

func TestContainerRoundTripTwoBlocks(t *testing.T) {
	c := New()
	var buf bytes.Buffer
	blocks := [][]byte{
		[]byte(`{"playerName":"foo"}`),
		[]byte(`{"arenaUniqueId":123}`),
	}
	payload := []byte("packet stream bytes")
	if err := c.Write(&buf, blocks, []byte{0x01, 0x02, 0x03, 0x04}, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := New().Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.JSONBlocks) != 2 {
		t.Fatalf("expected 2 json blocks, got %d", len(got.JSONBlocks))
	}
	if string(got.JSONBlocks[0]) != `{"playerName":"foo"}` {
		t.Fatalf("block 0 mismatch: %s", got.JSONBlocks[0])
	}
	if string(got.JSONBlocks[1]) != `{"arenaUniqueId":123}` {
		t.Fatalf("block 1 mismatch: %s", got.JSONBlocks[1])
	}
	if !bytes.Equal(got.InnerMagic, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("inner magic mismatch: % x", got.InnerMagic)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Fatalf("payload mismatch: got %q want %q", got.Payload, payload)
	}
}

func TestContainerWriteRejectsBadBlockCount(t *testing.T) {
	c := New()
	var buf bytes.Buffer
	if err := c.Write(&buf, nil, nil, nil); err == nil {
		t.Fatal("expected error for zero json blocks")
	}
	if err := c.Write(&buf, [][]byte{{}, {}, {}}, nil, nil); err == nil {
		t.Fatal("expected error for three json blocks")
	}
}

func TestContainerClampsDeclaredBlockCount(t *testing.T) {
	var buf bytes.Buffer
	// Write a valid 2-block container, then overwrite byte 4 (the
	// declared json_block_count) with 3.
	c := New()
	if err := c.Write(&buf, [][]byte{[]byte("{}"), []byte("{}")}, nil, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw := buf.Bytes()
	raw[4] = 3

	got, err := New().Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.JSONBlocks) != 2 {
		t.Fatalf("expected clamp to 2 blocks, got %d", len(got.JSONBlocks))
	}
}
