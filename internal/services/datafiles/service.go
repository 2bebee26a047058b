// Package datafiles keeps a live list of uploadable data files in the
// configured data directory. It is the file-selection side of the upload
// flow: the upload tab renders this list and hands the chosen path to the
// workflow service.
package datafiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deeprow/deeprow-tui/internal/logger"
)

// DataFile is one candidate file for upload.
type DataFile struct {
	ModTime time.Time
	Name    string
	Path    string
	Size    int64
}

// Event is emitted whenever the candidate list changes or scanning fails.
type Event struct {
	Err   error
	Files []DataFile
}

// Service watches one directory for CSV and Excel files.
type Service struct {
	mu            sync.RWMutex
	dir           string
	files         []DataFile
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	stopOnce      sync.Once
}

// New scans the directory and starts watching it for changes.
func New(dir string) (*Service, error) {
	s := &Service{
		dir:       dir,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	if err := s.rescan(); err != nil {
		return nil, err
	}

	if err := s.startWatcher(); err != nil {
		return nil, err
	}

	return s, nil
}

// Dir returns the watched directory.
func (s *Service) Dir() string {
	return s.dir
}

// Files returns a copy of the current candidate list, newest first.
func (s *Service) Files() []DataFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]DataFile, len(s.files))
	copy(files, s.files)
	return files
}

// Events returns the change event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Close stops the watcher. The event channel is left open; senders check
// the stop channel before writing.
func (s *Service) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

// IsDataFile reports whether the file name has an uploadable extension.
func IsDataFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xls", ".xlsx":
		return true
	default:
		return false
	}
}

// rescan rebuilds the candidate list from the directory contents.
func (s *Service) rescan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var files []DataFile
	for _, entry := range entries {
		if entry.IsDir() || !IsDataFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, DataFile{
			Name:    entry.Name(),
			Path:    filepath.Join(s.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	s.mu.Lock()
	s.files = files
	s.mu.Unlock()

	return nil
}

func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(s.dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if !IsDataFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleChange)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Err: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleChange() {
	if err := s.rescan(); err != nil {
		s.sendEvent(Event{Err: err})
		return
	}
	s.sendEvent(Event{Files: s.Files()})
}

func (s *Service) sendEvent(event Event) {
	select {
	case <-s.stopChan:
	default:
		select {
		case s.eventChan <- event:
		default:
			logger.Warn("data file event channel full, dropping event")
		}
	}
}
