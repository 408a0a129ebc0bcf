package game

// Turn lifecycle methods. The phase controller drives these; nothing here
// arms timers or guards against re-entrant transitions — that is the
// controller's job.

// SetPhase switches the active phase and fires PhaseChanged.
func (s *State) SetPhase(p Phase) {
	s.mu.Lock()
	if s.status == StatusEnded || s.turn.Phase == p {
		s.mu.Unlock()
		return
	}
	s.turn.Phase = p
	s.emit(PhaseChanged{Turn: s.turn.Number, Player: s.turn.CurrentPlayer, Phase: p})
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
}

// FinishTurn closes out the current player's turn: victory is evaluated
// first, then the hand-off rotates to the opponent and the turn number
// increments. When the rotation wraps back to player 1 a resource
// regeneration tick runs. Returns true if the match ended during the
// evaluation.
func (s *State) FinishTurn() bool {
	s.mu.Lock()
	ended := s.finishTurn()
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return ended
}

func (s *State) finishTurn() bool {
	if s.status == StatusEnded {
		return true
	}

	if winner, reason, ok := s.victoryMet(); ok {
		s.endGame(winner, reason)
		return true
	}

	prev := s.turn.CurrentPlayer
	s.emit(TurnEnded{Turn: s.turn.Number, Player: prev})

	s.turn.CurrentPlayer = prev.Opponent()
	s.turn.Number++

	// One regeneration tick per full cycle through both players.
	if s.turn.CurrentPlayer == Player1 {
		s.regenerateResources()
	}
	return false
}

// BeginTurn prepares the new current player's turn: their action allowance
// and every unit's per-turn flags reset, all gathering cooldowns clear, and
// the phase returns to resource. Fires TurnStarted.
func (s *State) BeginTurn() {
	s.mu.Lock()
	if s.status == StatusEnded {
		s.mu.Unlock()
		return
	}

	player := s.players[s.turn.CurrentPlayer]
	player.ActionsRemaining = s.cfg.Economy.ActionsPerTurn
	for _, u := range s.units {
		if u.Owner == player.ID {
			u.HasMoved = false
			u.ActionsRemaining = s.cfg.Economy.UnitActionsPerTurn
		}
	}
	clear(s.cooldowns)
	s.turn.Phase = PhaseResource

	s.emit(TurnStarted{Turn: s.turn.Number, Player: s.turn.CurrentPlayer})
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
}

// CheckVictory evaluates the victory conditions and ends the match if one
// is met, returning the winner. The winner is NoPlayer when the match
// continues.
func (s *State) CheckVictory() (PlayerID, bool) {
	s.mu.Lock()
	winner, reason, ok := s.victoryMet()
	if ok {
		s.endGame(winner, reason)
	}
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return winner, ok
}

// victoryMet checks base destruction first, then the resource threshold.
// Threshold ties go to the current player, who by rule reached it first.
func (s *State) victoryMet() (PlayerID, EndReason, bool) {
	for _, id := range []PlayerID{Player1, Player2} {
		if b := s.bases[id]; b != nil && b.IsDestroyed {
			return id.Opponent(), EndBaseDestroyed, true
		}
	}

	order := []PlayerID{s.turn.CurrentPlayer, s.turn.CurrentPlayer.Opponent()}
	for _, id := range order {
		if p := s.players[id]; p != nil && p.ResourcesGathered >= s.cfg.Victory.ResourceThreshold {
			return id, EndResourceThreshold, true
		}
	}

	return NoPlayer, "", false
}
