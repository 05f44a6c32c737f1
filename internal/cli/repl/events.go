package repl

import (
	"encoding/json"
	"fmt"
	"strings"

	"codeduel/internal/cli/client"
	"codeduel/internal/duel"
	"codeduel/internal/sandbox"
)

// renderEvents prints server frames until the event channel closes. It also
// tracks the battle room so submit/sync know where to go.
func (s *Session) renderEvents() {
	for ev := range s.conn.Events() {
		switch ev.Name {
		case duel.EventConnectionResponse:
			var p duel.HelloPayload
			if decode(ev, &p) {
				s.printLine("%s", tagDim(p.Data))
			}
		case duel.EventUserRegistered:
			var p duel.RegisteredPayload
			if decode(ev, &p) {
				s.printLine("%s registered as %s", tagGood("ok:"), p.Username)
			}
		case duel.EventQueueJoined:
			var p duel.QueueJoinedPayload
			if decode(ev, &p) {
				s.printLine("%s queued at position %d of %d, waiting for an opponent",
					tagGood("ok:"), p.QueuePosition, p.QueueSize)
			}
		case duel.EventQueueLeft:
			s.printLine("%s", tagDim("left the queue"))
		case duel.EventMatchFound:
			s.renderMatchFound(ev)
		case duel.EventCodeSubmission:
			s.renderSubmission(ev)
		case duel.EventBattleComplete:
			s.renderBattleComplete(ev)
		case duel.EventOpponentCodeUpdate:
			var p duel.CodeUpdatePayload
			if decode(ev, &p) {
				lines := strings.Count(p.Code, "\n") + 1
				s.printLine("%s", tagDim(fmt.Sprintf("opponent draft: %d lines", lines)))
			}
		case duel.EventError:
			var p duel.ErrorPayload
			if decode(ev, &p) {
				s.printLine("%s %s", tagErr("server:"), p.Message)
			}
		default:
			s.printLine("%s %s %s", tagDim("event:"), ev.Name, string(ev.Data))
		}
	}
}

func (s *Session) renderMatchFound(ev client.Event) {
	var p duel.MatchFoundPayload
	if !decode(ev, &p) {
		return
	}
	s.mu.Lock()
	s.roomID = p.RoomID
	s.mu.Unlock()

	s.printLine("")
	s.printLine("%s vs %s (%d)", tagEvent("match found!"), p.Opponent.Username, p.Opponent.EloRating)
	s.printLine("  %s [%s] %d tests, %ds on the clock",
		p.Challenge.Name, p.Challenge.Difficulty, p.Challenge.TestCount, p.Challenge.TimeLimit)
	s.printLine("  %s", p.Challenge.Description)
	s.printLine("  %s", tagDim(p.Challenge.FunctionSignature))
	s.printLine("%s", tagDim(p.Message))
}

func (s *Session) renderSubmission(ev client.Event) {
	var p duel.SubmissionPayload
	if !decode(ev, &p) {
		return
	}
	id, _ := s.snapshot()
	who := "opponent"
	if p.UserID == id.UserID {
		who = "you"
	}

	verdict := tagErr(fmt.Sprintf("%d/%d", p.PassedTests, p.TotalTests))
	if p.Success {
		verdict = tagGood(fmt.Sprintf("%d/%d", p.PassedTests, p.TotalTests))
	}
	s.printLine("%s %s passed %s", tagEvent("submission:"), who, verdict)
	if p.Error != "" {
		s.printLine("  %s", tagErr(p.Error))
	}
	// Show failure details for the local player only.
	if p.UserID != id.UserID {
		return
	}
	for _, tc := range p.TestResults {
		switch tc.Status {
		case sandbox.StatusFail:
			s.printLine("  test %d %s expected %s, got %s", tc.Test, tagErr("FAIL"), tc.Expected, tc.Got)
		case sandbox.StatusError:
			s.printLine("  test %d %s %s", tc.Test, tagErr("ERROR"), tc.Error)
		}
	}
}

func (s *Session) renderBattleComplete(ev client.Event) {
	var p duel.BattleCompletePayload
	if !decode(ev, &p) {
		return
	}
	s.mu.Lock()
	s.roomID = ""
	s.mu.Unlock()

	id, _ := s.snapshot()
	if p.WinnerID == id.UserID {
		s.printLine("%s %s", tagWin("victory!"), p.Message)
		return
	}
	s.printLine("%s %s", tagErr("defeat."), p.Message)
}

func decode(ev client.Event, out any) bool {
	if len(ev.Data) == 0 {
		return false
	}
	return json.Unmarshal(ev.Data, out) == nil
}
