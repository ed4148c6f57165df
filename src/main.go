package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/jinjor/desktop-synth/src/audio"
	"github.com/jinjor/desktop-synth/src/midiin"
	"github.com/jinjor/desktop-synth/src/output"
	"github.com/jinjor/desktop-synth/src/preset"
	"github.com/jinjor/desktop-synth/src/tuning"
	"golang.org/x/sync/errgroup"
)

var (
	sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
	bufferSize = flag.Int("buffer", 1024, "frames per output buffer")
	polyphony  = flag.Int("polyphony", 16, "number of voices")
	presetFile = flag.String("preset", "", "preset file applied at startup")
	presetDir  = flag.String("preset-dir", "presets", "directory used by the save/load commands")
	scaleFile  = flag.String("scale", "", "scala (.scl) tuning file; 12-TET when empty")
	midiIn     = flag.String("midi-in", "", "MIDI input name (substring); first input when empty")
	watch      = flag.Bool("watch", false, "reload -preset when the file changes")
	sockFile   = flag.String("sock", "", "unix socket for commands and reports; stdin when empty")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t, err := loadTuning(*scaleFile)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	config := audio.DefaultConfig()
	config.SampleRate = float64(*sampleRate)
	config.Polyphony = *polyphony
	synth, err := audio.NewSynth(config)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	if *presetFile != "" {
		p, err := preset.Load(*presetFile)
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		if _, err := p.ApplyTo(synth); err != nil {
			log.Fatalf("error: %v\n", err)
		}
	}
	player, err := output.NewPlayer(synth, *sampleRate, *bufferSize)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer player.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	c := &controller{
		synth:   synth,
		tuning:  t,
		presets: preset.NewManager(*presetDir),
	}
	run := func(ctx context.Context, in io.Reader, conn net.Conn) error {
		commandCh := make(chan []string, 256)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return player.Start(ctx)
		})
		// a blocked read on stdin can't be interrupted, so this one is not waited for
		go func() {
			if err := receiveCommands(ctx, in, commandCh); err != nil {
				log.Printf("error while receiving commands: %v", err)
			}
		}()
		g.Go(func() error {
			return processCommands(ctx, c, commandCh)
		})
		g.Go(func() error {
			translator := midiin.NewTranslator(t)
			return midiin.Listen(ctx, *midiIn, func(data []byte) {
				if e, ok := translator.Translate(data); ok {
					synth.OnEvent(e)
				}
			})
		})
		if *watch && *presetFile != "" {
			g.Go(func() error {
				return preset.Watch(ctx, *presetFile, func(p *preset.Preset) {
					if _, err := p.ApplyTo(synth); err != nil {
						log.Printf("[WARN] %v", err)
					}
				})
			})
		}
		if conn != nil {
			g.Go(func() error {
				return sendReports(ctx, conn, synth)
			})
		}
		return g.Wait()
	}
	if *sockFile != "" {
		err = withIPCConnection(ctx, *sockFile, func(conn net.Conn) error {
			c.reply = conn
			return run(ctx, conn, conn)
		})
	} else {
		c.reply = os.Stdout
		err = run(ctx, os.Stdin, nil)
	}
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func loadTuning(path string) (tuning.Tuning, error) {
	if path == "" {
		return tuning.Standard, nil
	}
	s, err := tuning.Load(path)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded scale %q (%d notes)\n", s.Description, len(s.Ratios))
	return tuning.NewScaleTuning(s), nil
}

func withIPCConnection(ctx context.Context, sockFileName string, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFileName)
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func sendReports(ctx context.Context, conn io.Writer, synth *audio.Synth) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			if _, err := io.WriteString(conn, formatReport(synth.Spectrum(), synth.ActiveVoices())); err != nil {
				return err
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}

func formatReport(spectrum []float64, voices int) string {
	s := "voices " + strconv.Itoa(voices) + "\nfft"
	for _, value := range spectrum {
		s += " " + strconv.FormatFloat(value, 'f', 6, 64)
	}
	return s + "\n"
}
