package midiin

import (
	"context"
	"log"
	"strings"

	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

// Listen opens the first MIDI input whose name contains name (any input when
// name is empty) and passes every message to handle until ctx is done.
// A machine without MIDI inputs is not an error.
func Listen(ctx context.Context, name string, handle func(data []byte)) error {
	drv, err := rtmididrv.New()
	if err != nil {
		log.Printf("[WARN] failed to initialize MIDI driver: %v\n", err)
		return nil
	}
	defer func() {
		err := drv.Close()
		if err != nil {
			log.Printf("failed to close MIDI driver: %v\n", err)
		}
	}()
	ins, err := drv.Ins()
	if err != nil {
		log.Printf("[WARN] failed to get MIDI IN: %v\n", err)
		return nil
	}
	log.Printf("MIDI IN: %v\n", ins)
	in := selectIn(ins, name)
	if in == nil {
		log.Printf("[WARN] MIDI IN %q not found\n", name)
		return nil
	}
	if err := in.Open(); err != nil {
		log.Printf("[WARN] failed to open MIDI IN: %v\n", err)
		return nil
	}
	log.Println("opened " + in.String())
	defer func() {
		err := in.Close()
		if err != nil {
			log.Printf("failed to close MIDI IN: %v\n", err)
		}
	}()
	log.Println("start listening MIDI IN...")
	if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
		handle(append([]byte(nil), data...))
	}); err != nil {
		log.Println("failed to set listener: " + err.Error())
		return nil
	}
	defer func() {
		log.Println("stop listening MIDI IN...")
		err := in.StopListening()
		if err != nil {
			log.Printf("failed to stop listening: %v\n", err)
		}
	}()
	<-ctx.Done()
	return nil
}

type named interface {
	String() string
}

func selectIn(ins []midi.In, name string) midi.In {
	i := selectIndex(len(ins), func(i int) named { return ins[i] }, name)
	if i < 0 {
		return nil
	}
	return ins[i]
}

func selectIndex(n int, port func(i int) named, name string) int {
	if n == 0 {
		return -1
	}
	if name == "" {
		return 0
	}
	for i := 0; i < n; i++ {
		if strings.Contains(strings.ToLower(port(i).String()), strings.ToLower(name)) {
			return i
		}
	}
	return -1
}
