package game

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-skirmish/internal/config"
)

// Snapshot captures the complete match state for save/load. It embeds the
// ruleset so a restored match behaves identically without out-of-band
// configuration. Gathering cooldowns are transient and intentionally not
// captured; a restored match starts with cleared cooldowns, matching the
// start-of-turn reset.
type Snapshot struct {
	Rules      config.Config  `json:"rules"`
	Players    []Player       `json:"players"`
	Units      []Unit         `json:"units"`
	Bases      []Base         `json:"bases"`
	Nodes      []ResourceNode `json:"nodes"`
	Turn       TurnState      `json:"turn"`
	Status     Status         `json:"status"`
	Winner     PlayerID       `json:"winner"`
	EndReason  EndReason      `json:"endReason,omitempty"`
	NextUnitID UnitID         `json:"nextUnitId"`
}

// Snapshot returns a full copy of the match state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Rules:      s.cfg,
		Turn:       s.turn,
		Status:     s.status,
		Winner:     s.winner,
		EndReason:  s.endReason,
		NextUnitID: s.nextUnitID,
	}

	for _, id := range []PlayerID{Player1, Player2} {
		if p := s.players[id]; p != nil {
			snap.Players = append(snap.Players, *p)
		}
		if b := s.bases[id]; b != nil {
			snap.Bases = append(snap.Bases, *b)
		}
	}
	for _, u := range s.units {
		snap.Units = append(snap.Units, *u)
	}
	sort.Slice(snap.Units, func(i, j int) bool { return snap.Units[i].ID < snap.Units[j].ID })
	for _, id := range s.nodeIDs() {
		snap.Nodes = append(snap.Nodes, *s.nodes[id])
	}

	return snap
}

// Marshal encodes the snapshot as JSON.
func (snap Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a JSON snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return snap, nil
}

// Restore reconstructs a match from a snapshot. The result is observably
// equivalent to the state that produced it: same valid moves, same victory
// evaluation, same event behavior for subsequent commands.
func Restore(snap Snapshot) (*State, error) {
	s, err := New(snap.Rules)
	if err != nil {
		return nil, fmt.Errorf("snapshot: bad rules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range snap.Players {
		cp := p
		s.players[p.ID] = &cp
	}

	for _, b := range snap.Bases {
		cb := b
		existing, ok := s.bases[b.Owner]
		if !ok {
			return nil, fmt.Errorf("snapshot: base for unknown player %d", b.Owner)
		}
		delete(s.occupied, existing.Position)
		s.bases[b.Owner] = &cb
		s.occupied[cb.Position] = &cb
	}

	for _, n := range snap.Nodes {
		existing, ok := s.nodes[n.ID]
		if !ok {
			return nil, fmt.Errorf("snapshot: unknown node %d", n.ID)
		}
		cn := n
		delete(s.occupied, existing.Position)
		s.nodes[n.ID] = &cn
		s.occupied[cn.Position] = &cn
	}

	for _, u := range snap.Units {
		cu := u
		if !s.grid.Contains(cu.Position) {
			return nil, fmt.Errorf("snapshot: unit %d off grid at %v", cu.ID, cu.Position)
		}
		if _, taken := s.occupied[cu.Position]; taken {
			return nil, fmt.Errorf("snapshot: overlapping entities at %v", cu.Position)
		}
		s.units[cu.ID] = &cu
		s.occupied[cu.Position] = &cu
	}

	s.turn = snap.Turn
	s.status = snap.Status
	s.winner = snap.Winner
	s.endReason = snap.EndReason
	s.nextUnitID = snap.NextUnitID

	return s, nil
}
