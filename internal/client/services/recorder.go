package services

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Recorder captures an audio clip between Start and Stop.
type Recorder interface {
	Start() error
	Stop() ([]byte, error)
}

// FileRecorder is the terminal stand-in for a microphone: Stop returns
// the contents of a prepared audio file.
type FileRecorder struct {
	Path string
}

func (r *FileRecorder) Start() error {
	if _, err := os.Stat(r.Path); err != nil {
		return fmt.Errorf("audio file: %w", err)
	}
	return nil
}

func (r *FileRecorder) Stop() ([]byte, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}
	return data, nil
}

// RecordingControl wraps a Recorder with a running elapsed-seconds
// counter, so the prompt can show recording time while the user decides
// when to stop.
type RecordingControl struct {
	rec     Recorder
	started time.Time
	now     func() time.Time

	mu   sync.Mutex
	done bool
}

// StartRecording begins a capture.
func StartRecording(rec Recorder) (*RecordingControl, error) {
	if err := rec.Start(); err != nil {
		return nil, err
	}
	return &RecordingControl{rec: rec, started: time.Now(), now: time.Now}, nil
}

// Elapsed returns whole seconds since recording started, at least 1 so a
// quickly stopped clip still reports a duration.
func (c *RecordingControl) Elapsed() int {
	sec := int(c.now().Sub(c.started) / time.Second)
	if sec < 1 {
		return 1
	}
	return sec
}

// Stop ends the capture and returns the clip with its duration. A second
// Stop fails rather than re-reading the recorder.
func (c *RecordingControl) Stop() ([]byte, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return nil, 0, fmt.Errorf("recording already stopped")
	}
	c.done = true
	data, err := c.rec.Stop()
	if err != nil {
		return nil, 0, err
	}
	return data, c.Elapsed(), nil
}
