// Package journal keeps an append-only record of a game as JSON lines.
//
// Each line wraps one entry with its kind so a reader can decode it back
// into the right type. Paths ending in ".zst" are zstd compressed. Every
// opening of the file for writing appends a new zstd frame. The reader
// decodes the concatenated frames as one stream.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// ErrUnknownEntry is returned when a line carries a kind this package does
// not know.
var ErrUnknownEntry = errors.New("unknown journal entry")

// Kind discriminates journal lines.
type Kind string

const (
	KindStart   Kind = "start"
	KindLog     Kind = "log"
	KindCommand Kind = "command"
	KindOutcome Kind = "outcome"
)

// Entry is anything that can be journaled.
type Entry interface {
	Kind() Kind
}

// Start opens a game.
type Start struct {
	Seed  int64  `json:"seed"`
	Human string `json:"human,omitempty"`
	AI    string `json:"ai,omitempty"`
}

func (Start) Kind() Kind { return KindStart }

// Log is one line of the game log.
type Log struct {
	world.LogEntry
}

func (Log) Kind() Kind { return KindLog }

// Command is a command typed by a player and how the engine answered it.
type Command struct {
	Input   string `json:"input"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

func (Command) Kind() Kind { return KindCommand }

// Outcome closes a finished game.
type Outcome struct {
	Winner     content.Faction `json:"winner"`
	Turn       int             `json:"turn"`
	Reputation int             `json:"reputation"`
	Time       int             `json:"time"`
	Digest     string          `json:"digest"`
}

func (Outcome) Kind() Kind { return KindOutcome }

// wrapper facilitates serialization of polymorphic entries
type wrapper struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Compressed reports whether path selects zstd.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Writer appends entries to a journal file.
type Writer struct {
	file *os.File
	zw   *zstd.Encoder
	out  io.Writer
}

// Create opens or creates the journal at path for appending.
func Create(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	w := &Writer{file: file, out: file}
	if Compressed(path) {
		zw, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to start zstd stream: %w", err)
		}
		w.zw, w.out = zw, zw
	}
	return w, nil
}

// Append marshals an entry and appends it as a JSON line.
func (w *Writer) Append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s entry: %w", e.Kind(), err)
	}
	line, err := json.Marshal(wrapper{Kind: e.Kind(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal wrapper: %w", err)
	}
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return err
	}
	if w.zw != nil {
		return w.zw.Flush()
	}
	return w.file.Sync()
}

// Close ends the zstd frame, if any, and closes the file.
func (w *Writer) Close() error {
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.file.Close()
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	return w.file.Close()
}

// Read loads every entry of the journal at path.
func Read(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()

	var in io.Reader = file
	if Compressed(path) {
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to start zstd stream: %w", err)
		}
		defer zr.Close()
		in = zr
	}
	return Decode(in)
}

// Decode reads JSON lines from r.
func Decode(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		var wr wrapper
		if err := json.Unmarshal(scanner.Bytes(), &wr); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode wrapper: %w", line, err)
		}
		e, err := unmarshalEntry(wr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

func unmarshalEntry(wr wrapper) (Entry, error) {
	switch wr.Kind {
	case KindStart:
		return decodeAs[Start](wr)
	case KindLog:
		return decodeAs[Log](wr)
	case KindCommand:
		return decodeAs[Command](wr)
	case KindOutcome:
		return decodeAs[Outcome](wr)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntry, wr.Kind)
}

func decodeAs[T Entry](wr wrapper) (Entry, error) {
	var e T
	if err := json.Unmarshal(wr.Data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s entry: %w", wr.Kind, err)
	}
	return e, nil
}
