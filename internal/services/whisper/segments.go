package whisper

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Segment is one timed span of transcribed speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// payload is the subset of Whisper's JSON output kinetic reads.
type payload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments reads a Whisper JSON output file and normalizes its segments.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	return Normalize(p.Segments), nil
}

// Normalize trims text, drops segments with end <= start, and orders by start.
func Normalize(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.End <= seg.Start {
			continue
		}
		seg.Text = strings.TrimSpace(seg.Text)
		out = append(out, seg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Encode returns the canonical JSON form of segments.
func Encode(segments []Segment) ([]byte, error) {
	if segments == nil {
		segments = []Segment{}
	}
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses the canonical JSON form produced by Encode.
func Decode(data []byte) ([]Segment, error) {
	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	return segments, nil
}
