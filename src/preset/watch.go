package preset

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the reloaded preset whenever the file at path is
// written or replaced. It blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Preset)) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	// ignore close error
	defer watcher.Close()
	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("can't watch %s: %w", path, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p, err := Load(path)
			if err != nil {
				log.Printf("[WARN] failed to reload preset: %v", err)
				continue
			}
			log.Printf("reloaded preset %s", path)
			onChange(p)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher: %v", err)
		}
	}
}
