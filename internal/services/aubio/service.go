// Package aubio wraps the aubio beat tracker.
package aubio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"kinetic/internal/fileutil"
	"kinetic/internal/services"
	"kinetic/internal/services/command"
	"kinetic/internal/stage"
)

// DefaultBinary is the aubio executable name.
const DefaultBinary = "aubio"

// BeatsFile is the canonical beat list written into the working directory.
const BeatsFile = "beats.json"

// Beats is the ordered list of beat timestamps in seconds.
type Beats struct {
	Times []float64
	// Path is the canonical beats.json written for this invocation.
	Path string
}

// Service detects beats with aubio.
type Service struct {
	binary string
	runner command.Runner
}

// NewService creates an aubio service. A nil runner executes real processes.
func NewService(binary string, runner command.Runner) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary, runner: command.Default(runner)}
}

// DetectBeats runs `aubio beat` on audioPath and writes workDir/beats.json.
func (s *Service) DetectBeats(ctx context.Context, audioPath, workDir string) (Beats, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Beats{}, services.Wrap(services.ErrValidation, stage.Beats, "detect beats", "audio path required", nil)
	}
	if workDir == "" {
		return Beats{}, services.Wrap(services.ErrConfiguration, stage.Beats, "detect beats", "working directory required", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Beats{}, services.Wrap(services.ErrConfiguration, stage.Beats, "ensure work dir", workDir, err)
	}

	cmd := command.Command{Name: s.binary, Args: []string{"beat", audioPath}, Dir: workDir}
	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return Beats{}, services.Wrap(services.ErrExternalTool, stage.Beats, "run aubio",
			"Beat detection engine failed", command.AsFailure("aubio", cmd, res, err))
	}

	times, err := ParseTimes(res.Stdout)
	if err != nil {
		return Beats{}, services.Wrap(services.ErrExternalTool, stage.Beats, "parse aubio output", "", err)
	}
	data, err := Encode(times)
	if err != nil {
		return Beats{}, services.Wrap(services.ErrExternalTool, stage.Beats, "encode beats", "", err)
	}
	path := filepath.Join(workDir, BeatsFile)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return Beats{}, services.Wrap(services.ErrExternalTool, stage.Beats, "write beats", path, err)
	}
	return Beats{Times: times, Path: path}, nil
}

// HealthCheck reports whether the aubio binary is resolvable.
func (s *Service) HealthCheck(context.Context) stage.Health {
	return stage.CheckBinary(stage.Beats, s.binary)
}

// ParseTimes reads one timestamp per line, skipping blanks, and sorts them.
func ParseTimes(output string) ([]float64, error) {
	times := make([]float64, 0, 64)
	scanner := bufio.NewScanner(strings.NewReader(output))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		value, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q", line, fields[0])
		}
		times = append(times, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sort.Float64s(times)
	return times, nil
}

// Encode returns the canonical JSON form of beat times.
func Encode(times []float64) ([]byte, error) {
	if times == nil {
		times = []float64{}
	}
	data, err := json.MarshalIndent(times, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses the canonical JSON form produced by Encode.
func Decode(data []byte) ([]float64, error) {
	var times []float64
	if err := json.Unmarshal(data, &times); err != nil {
		return nil, fmt.Errorf("decode beats: %w", err)
	}
	return times, nil
}
