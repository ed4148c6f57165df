package output

import (
	"context"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/oto"
)

const (
	channelNum      = 2
	bitDepthInBytes = 2
	bytesPerSample  = bitDepthInBytes * channelNum
)

// Generator fills out[ch][:n] for every channel.
type Generator interface {
	Generate(out [][]float64, n int)
}

// ----- Reader ----- //

// Reader pulls stereo frames from a Generator and encodes them as
// interleaved signed 16-bit little-endian PCM.
type Reader struct {
	ctx context.Context
	gen Generator
	out [][]float64
}

var _ io.Reader = (*Reader)(nil)

// NewReader ...
func NewReader(ctx context.Context, gen Generator, maxFrames int) *Reader {
	out := make([][]float64, channelNum)
	for ch := range out {
		out[ch] = make([]float64, maxFrames)
	}
	return &Reader{ctx: ctx, gen: gen, out: out}
}

func (r *Reader) Read(buf []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	frames := len(buf) / bytesPerSample
	written := 0
	for written < frames {
		n := frames - written
		if n > len(r.out[0]) {
			n = len(r.out[0])
		}
		r.gen.Generate(r.out, n)
		for ch := 0; ch < channelNum; ch++ {
			writeBuffer(r.out[ch][:n], buf[written*bytesPerSample:], ch)
		}
		written += n
	}
	return frames * bytesPerSample, nil
}

func writeBuffer(out []float64, buf []byte, ch int) {
	const max = 32767
	for i, value := range out {
		if math.IsNaN(value) {
			value = 0
		}
		if value > 1 {
			value = 1
		} else if value < -1 {
			value = -1
		}
		b := int16(value * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// ----- Player ----- //

// Player streams a Generator to the default output device.
type Player struct {
	otoContext   *oto.Context
	gen          Generator
	bufferFrames int
}

// NewPlayer ...
func NewPlayer(gen Generator, sampleRate int, bufferFrames int) (*Player, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferFrames*bytesPerSample)
	if err != nil {
		return nil, err
	}
	return &Player{
		otoContext:   otoContext,
		gen:          gen,
		bufferFrames: bufferFrames,
	}, nil
}

// Start blocks until ctx is done.
func (p *Player) Start(ctx context.Context) error {
	player := p.otoContext.NewPlayer()
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	r := NewReader(ctx, p.gen, p.bufferFrames)
	if _, err := io.CopyBuffer(player, r, make([]byte, p.bufferFrames*bytesPerSample)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// Close ...
func (p *Player) Close() error {
	log.Println("Closing Player...")
	return p.otoContext.Close()
}
