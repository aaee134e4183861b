package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	scanBufferSize    = 64 * 1024
	maxScanTokenSize  = 1024 * 1024
	defaultPollPeriod = 250 * time.Millisecond
)

// TailOptions controls Tail. A negative Offset selects the last Limit lines;
// otherwise reading starts at Offset bytes.
type TailOptions struct {
	Offset int64
	Limit  int
}

// TailResult carries the lines read and the byte offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from path. A missing file yields no lines and offset 0.
func Tail(path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TailResult{}, nil
		}
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}
	if opts.Offset < 0 {
		return readLastLines(path, opts.Limit)
	}
	offset := opts.Offset
	if offset > info.Size() {
		// Rotated underneath us; start over on the fresh file.
		offset = 0
	}
	return readForward(path, offset)
}

// Follow polls path for lines appended after offset and hands each batch to
// fn until ctx is cancelled or fn returns an error.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, fn func([]string) error) error {
	if interval <= 0 {
		interval = defaultPollPeriod
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := Tail(path, TailOptions{Offset: offset})
		if err != nil {
			return err
		}
		offset = result.Offset
		if len(result.Lines) > 0 {
			if err := fn(result.Lines); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readLastLines(path string, limit int) (TailResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return TailResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return TailResult{}, fmt.Errorf("seek log file: %w", err)
		}
		return TailResult{Offset: end}, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	read, err := scanLines(file, func(line string) {
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return TailResult{}, err
	}

	lines := make([]string, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return TailResult{Lines: lines, Offset: read}, nil
}

func readForward(path string, offset int64) (TailResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("seek log file: %w", err)
	}
	var lines []string
	read, err := scanLines(file, func(line string) { lines = append(lines, line) })
	if err != nil {
		return TailResult{Offset: offset}, err
	}
	return TailResult{Lines: lines, Offset: offset + read}, nil
}

// scanLines feeds complete lines to fn and reports how many bytes they
// covered. A trailing partial line is left for the next read.
func scanLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, scanBufferSize)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			consumed += int64(len(line))
			if len(line) > maxScanTokenSize {
				line = line[:maxScanTokenSize]
			}
			fn(trimNewline(line))
			continue
		}
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		return consumed, fmt.Errorf("read log file: %w", err)
	}
}

func trimNewline(line string) string {
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
