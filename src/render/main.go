package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jinjor/desktop-synth/src/audio"
	"github.com/jinjor/desktop-synth/src/output"
	"github.com/jinjor/desktop-synth/src/preset"
	"github.com/jinjor/desktop-synth/src/tuning"
	"golang.org/x/sync/errgroup"
)

const bytesPerFrame = 4 // stereo, 16 bit

var (
	sampleRate = flag.Int("sample-rate", 48000, "sample rate of the rendered files")
	notes      = flag.String("notes", "36,48,60,72", "comma separated MIDI notes")
	velocity   = flag.Int("velocity", 100, "note velocity")
	hold       = flag.Duration("hold", time.Second, "time between note on and note off")
	tail       = flag.Duration("tail", 2*time.Second, "time rendered after note off")
	presetFile = flag.String("preset", "", "preset file")
	scaleFile  = flag.String("scale", "", "scala (.scl) tuning file")
)

// render writes one raw s16le stereo file per note into the directory given as the first argument.
func main() {
	flag.Parse()
	dir := flag.Arg(0)
	if dir == "" {
		panic("dir is not passed")
	}
	log.SetFlags(log.Lshortfile)

	noteList, err := parseNotes(*notes)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	var p *preset.Preset
	if *presetFile != "" {
		if p, err = preset.Load(*presetFile); err != nil {
			log.Fatalf("error: %v\n", err)
		}
	}
	var t tuning.Tuning = tuning.Standard
	if *scaleFile != "" {
		s, err := tuning.Load(*scaleFile)
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		t = tuning.NewScaleTuning(s)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("error: %v\n", err)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, note := range noteList {
		g.Go(func() error {
			path := filepath.Join(dir, fmt.Sprintf("%03d.raw", note))
			if err := renderNote(ctx, path, p, audio.NoteOn{Note: note, Freq: t.Freq(note), Velocity: *velocity}); err != nil {
				return fmt.Errorf("note %d: %w", note, err)
			}
			log.Printf("rendered %s", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully rendered notes.")
}

func parseNotes(s string) ([]int, error) {
	var result []int
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		note, err := strconv.Atoi(item)
		if err != nil || note < 0 || note > 127 {
			return nil, fmt.Errorf("invalid note %q", item)
		}
		result = append(result, note)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no notes")
	}
	return result, nil
}

func frames(d time.Duration) int64 {
	return int64(d.Seconds() * float64(*sampleRate))
}

func renderNote(ctx context.Context, path string, p *preset.Preset, on audio.NoteOn) error {
	config := audio.DefaultConfig()
	config.SampleRate = float64(*sampleRate)
	config.Polyphony = 1
	config.Seed = int64(on.Note + 1)
	synth, err := audio.NewSynth(config)
	if err != nil {
		return err
	}
	if p != nil {
		if _, err := p.ApplyTo(synth); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := output.NewReader(ctx, synth, 1024)
	synth.OnEvent(on)
	if _, err := io.CopyN(f, r, frames(*hold)*bytesPerFrame); err != nil {
		return err
	}
	synth.OnEvent(audio.NoteOff{Note: on.Note})
	if _, err := io.CopyN(f, r, frames(*tail)*bytesPerFrame); err != nil {
		return err
	}
	return f.Close()
}
