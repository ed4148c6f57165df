package output

import (
	"context"
	"encoding/binary"
	"io"
	"testing"
)

type constGenerator struct {
	left, right float64
	calls       []int
}

func (g *constGenerator) Generate(out [][]float64, n int) {
	g.calls = append(g.calls, n)
	for i := 0; i < n; i++ {
		out[0][i] = g.left
		out[1][i] = g.right
	}
}

func sampleAt(buf []byte, frame, ch int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[frame*bytesPerSample+2*ch:]))
}

func TestReaderEncodesInterleavedPCM(t *testing.T) {
	gen := &constGenerator{left: 0.5, right: -2}
	r := NewReader(context.Background(), gen, 64)
	buf := make([]byte, 10*bytesPerSample)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(buf) {
		t.Errorf("expected %v bytes, but got %v", len(buf), n)
	}
	for i := 0; i < 10; i++ {
		if s := sampleAt(buf, i, 0); s != 16383 {
			t.Fatalf("unexpected left sample %v", s)
		}
		if s := sampleAt(buf, i, 1); s != -32767 {
			t.Fatalf("unexpected right sample %v", s)
		}
	}
}

func TestReaderChunksLargeBuffers(t *testing.T) {
	gen := &constGenerator{left: 0.1, right: 0.1}
	r := NewReader(context.Background(), gen, 64)
	buf := make([]byte, 150*bytesPerSample)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	if len(gen.calls) != 3 || gen.calls[0] != 64 || gen.calls[2] != 22 {
		t.Errorf("unexpected chunks: %v", gen.calls)
	}
}

func TestReaderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewReader(ctx, &constGenerator{}, 64)
	_, err := r.Read(make([]byte, 16))
	if err != io.EOF {
		t.Errorf("expected EOF, but got: %v", err)
	}
}
