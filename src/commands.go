package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/jinjor/desktop-synth/src/audio"
	"github.com/jinjor/desktop-synth/src/preset"
	"github.com/jinjor/desktop-synth/src/tuning"
)

const defaultVelocity = 100

// controller applies text commands to the synth.
type controller struct {
	synth   *audio.Synth
	tuning  tuning.Tuning
	presets *preset.Manager
	reply   io.Writer
}

func receiveCommands(ctx context.Context, r io.Reader, commandCh chan<- []string) error {
	reader := bufio.NewReader(r)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		if len(strings.TrimSpace(string(line))) == 0 {
			line = line[:0]
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			log.Printf("[WARN] invalid command %q: %v", string(line), err)
			line = line[:0]
			continue
		}
		select {
		case commandCh <- command:
		case <-ctx.Done():
			break loop
		}
		log.Printf("received: %s\n", string(line))
		line = line[:0]
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Fields(line)
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func processCommands(ctx context.Context, c *controller, commandCh <-chan []string) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("processCommands() ended.")
			return nil
		case command := <-commandCh:
			if err := c.update(command); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}
	}
}

func argCount(command []string, min, max int) error {
	n := len(command) - 1
	if n < min || n > max {
		return fmt.Errorf("%s: wrong number of arguments: %d", command[0], n)
	}
	return nil
}

func parseInt(command string, s string, min, max int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", command, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s: %d out of range [%d, %d]", command, v, min, max)
	}
	return v, nil
}

func (c *controller) update(command []string) error {
	if len(command) == 0 {
		return nil
	}
	switch command[0] {
	case "set":
		if err := argCount(command, 2, 2); err != nil {
			return err
		}
		return c.synth.SetParameterString(command[1], command[2])
	case "note_on":
		if err := argCount(command, 1, 2); err != nil {
			return err
		}
		note, err := parseInt("note_on", command[1], 0, 127)
		if err != nil {
			return err
		}
		velocity := defaultVelocity
		if len(command) > 2 {
			velocity, err = parseInt("note_on", command[2], 0, 127)
			if err != nil {
				return err
			}
		}
		if velocity == 0 {
			c.synth.OnEvent(audio.NoteOff{Note: note})
			return nil
		}
		c.synth.OnEvent(audio.NoteOn{Note: note, Freq: c.tuning.Freq(note), Velocity: velocity})
	case "note_off":
		if err := argCount(command, 1, 1); err != nil {
			return err
		}
		note, err := parseInt("note_off", command[1], 0, 127)
		if err != nil {
			return err
		}
		c.synth.OnEvent(audio.NoteOff{Note: note})
	case "bend":
		if err := argCount(command, 1, 1); err != nil {
			return err
		}
		value, err := parseInt("bend", command[1], 0, 16383)
		if err != nil {
			return err
		}
		c.synth.OnEvent(audio.PitchBendFromMIDI(value))
	case "save":
		if err := argCount(command, 1, 1); err != nil {
			return err
		}
		return c.presets.Save(preset.Capture(command[1], c.synth))
	case "load":
		if err := argCount(command, 1, 1); err != nil {
			return err
		}
		return c.presets.ApplyToTarget(command[1], c.synth)
	case "presets":
		names, err := c.presets.List()
		if err != nil {
			return err
		}
		return c.send("presets " + strings.Join(escapeAll(names), " "))
	case "get":
		if err := argCount(command, 0, 0); err != nil {
			return err
		}
		return c.send(c.formatParameters())
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

func escapeAll(items []string) []string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = url.QueryEscape(item)
	}
	return escaped
}

func (c *controller) formatParameters() string {
	values := c.synth.Parameters()
	var b strings.Builder
	b.WriteString("params")
	for _, info := range c.synth.ParameterInfos() {
		b.WriteString(" ")
		b.WriteString(info.ID)
		b.WriteString("=")
		b.WriteString(strconv.FormatFloat(values[info.ID], 'g', -1, 64))
	}
	return b.String()
}

func (c *controller) send(line string) error {
	if c.reply == nil {
		log.Println(line)
		return nil
	}
	_, err := io.WriteString(c.reply, line+"\n")
	return err
}
