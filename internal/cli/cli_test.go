package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"wotreplay/internal/cipherstream"
	"wotreplay/internal/container"
	"wotreplay/internal/packet"
)

func TestUnpackPackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	replayPath := filepath.Join(dir, "in.wotreplay")

	var buf bytes.Buffer
	blocks := [][]byte{[]byte(`{"arena":1}`)}
	payload := []byte("packet bytes here")
	if err := container.New().Write(&buf, blocks, nil, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := os.WriteFile(replayPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	packets := filepath.Join(dir, "packets.bin")
	if code := runUnpack([]string{replayPath, "-1", first, "-2", second, "-p", packets}); code != 0 {
		t.Fatalf("runUnpack exit code %d", code)
	}

	gotFirst, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if string(gotFirst) != `{"arena":1}` {
		t.Fatalf("first json mismatch: %s", gotFirst)
	}
	gotPackets, err := os.ReadFile(packets)
	if err != nil {
		t.Fatalf("read packets: %v", err)
	}
	if !bytes.Equal(gotPackets, payload) {
		t.Fatalf("packets mismatch: got %q want %q", gotPackets, payload)
	}

	out := filepath.Join(dir, "out.wotreplay")
	if code := runPack([]string{"-1", first, "-p", packets, "-o", out}); code != 0 {
		t.Fatalf("runPack exit code %d", code)
	}

	gotOut, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read repacked replay: %v", err)
	}
	decoded, err := container.New().Read(bytes.NewReader(gotOut))
	if err != nil {
		t.Fatalf("Read repacked: %v", err)
	}
	if len(decoded.JSONBlocks) != 1 || string(decoded.JSONBlocks[0]) != `{"arena":1}` {
		t.Fatalf("repacked json mismatch: %v", decoded.JSONBlocks)
	}
	if !bytes.Equal(decoded.Payload, payload) {
		t.Fatalf("repacked payload mismatch: got %q want %q", decoded.Payload, payload)
	}
}

func TestDisAsmRoundTrip(t *testing.T) {
	dir := t.TempDir()
	packetsPath := filepath.Join(dir, "packets.bin")
	textPath := filepath.Join(dir, "packets.txt")
	reasmPath := filepath.Join(dir, "reasm.bin")

	body := make([]byte, 8)
	var buf bytes.Buffer
	if err := packet.WritePacket(&buf, packet.UpdateFpsPingLag, body); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	if err := os.WriteFile(packetsPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if code := runDis([]string{packetsPath, "-o", textPath}); code != 0 {
		t.Fatalf("runDis exit code %d", code)
	}
	if code := runAsm([]string{textPath, "-o", reasmPath}); code != 0 {
		t.Fatalf("runAsm exit code %d", code)
	}

	got, err := os.ReadFile(reasmPath)
	if err != nil {
		t.Fatalf("read reassembled packets: %v", err)
	}
	if !bytes.Equal(got, buf.Bytes()) {
		t.Fatalf("round trip mismatch: got %v want %v", got, buf.Bytes())
	}
}

func TestEndToEndScenarioEmptyContainer(t *testing.T) {
	dir := t.TempDir()
	replayPath := filepath.Join(dir, "empty.wotreplay")

	var payloadBuf bytes.Buffer
	if err := cipherstream.NewChainedStream().Write(&payloadBuf, nil); err != nil {
		t.Fatalf("ChainedStream.Write: %v", err)
	}

	var raw bytes.Buffer
	raw.Write([]byte{0x12, 0x32, 0x34, 0x11, 0x01, 0x00, 0x00, 0x00})
	raw.Write([]byte{0x02, 0x00, 0x00, 0x00})
	raw.WriteString("[]")
	raw.Write(container.DefaultInnerMagic)
	raw.Write(payloadBuf.Bytes())
	if err := os.WriteFile(replayPath, raw.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	first := filepath.Join(dir, "first.json")
	packets := filepath.Join(dir, "packets.bin")
	if code := runUnpack([]string{replayPath, "-1", first, "-p", packets}); code != 0 {
		t.Fatalf("runUnpack exit code %d", code)
	}

	gotFirst, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if string(gotFirst) != "[]" {
		t.Fatalf("expected empty json array, got %s", gotFirst)
	}
	gotPackets, err := os.ReadFile(packets)
	if err != nil {
		t.Fatalf("read packets: %v", err)
	}
	if len(gotPackets) != 0 {
		t.Fatalf("expected empty packets file, got %d bytes", len(gotPackets))
	}
}

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	replayPath := filepath.Join(dir, "in.wotreplay")

	var buf bytes.Buffer
	blocks := [][]byte{[]byte(`{"arena":1}`)}
	var payloadBuf bytes.Buffer
	body := make([]byte, 8)
	if err := packet.WritePacket(&payloadBuf, packet.UpdateFpsPingLag, body); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	if err := container.New().Write(&buf, blocks, nil, payloadBuf.Bytes()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := os.WriteFile(replayPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if code := runInspect([]string{replayPath}); code != 0 {
		t.Fatalf("runInspect exit code %d", code)
	}

	logPath := filepath.Join(dir, "inspect.log")
	if code := runInspect([]string{"-log-file", logPath, replayPath}); code != 0 {
		t.Fatalf("runInspect with -log-file exit code %d", code)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestTextFormParseFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	badText := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(badText, []byte("not a valid text form\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "out.bin")
	if code := runAsm([]string{badText, "-o", out}); code == 0 {
		t.Fatal("expected non-zero exit code for malformed text form")
	}
}
