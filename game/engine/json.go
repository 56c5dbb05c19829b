package engine

import (
	"encoding/json"
	"fmt"
)

const (
	frameMove = "move"
	framePush = "push"
)

// frameRecord is the wire shape of a history frame.
type frameRecord struct {
	Kind   string `json:"kind"`
	Player Player `json:"player"`
	Boxes  []Box  `json:"boxes,omitempty"`
}

type stateAlias State

type stateRecord struct {
	*stateAlias
	History []frameRecord `json:"history"`
}

// MarshalJSON encodes the state with its history as a list of frames,
// oldest first.
func (s *State) MarshalJSON() ([]byte, error) {
	frames := s.History.Frames()
	records := make([]frameRecord, 0, len(frames))
	for _, f := range frames {
		switch f := f.(type) {
		case MoveFrame:
			records = append(records, frameRecord{Kind: frameMove, Player: f.Player})
		case PushFrame:
			records = append(records, frameRecord{Kind: framePush, Player: f.Player, Boxes: f.Boxes})
		}
	}
	return json.Marshal(stateRecord{stateAlias: (*stateAlias)(s), History: records})
}

// UnmarshalJSON restores a state written by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	rec := stateRecord{stateAlias: (*stateAlias)(s)}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	frames := make([]Frame, 0, len(rec.History))
	for i, r := range rec.History {
		switch r.Kind {
		case frameMove:
			frames = append(frames, MoveFrame{Player: r.Player})
		case framePush:
			boxes := r.Boxes
			if boxes == nil {
				boxes = []Box{}
			}
			frames = append(frames, PushFrame{Player: r.Player, Boxes: boxes})
		default:
			return fmt.Errorf("history frame %d: unknown kind %q", i, r.Kind)
		}
	}
	s.History = HistoryOf(frames)
	return nil
}
