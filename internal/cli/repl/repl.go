// Package repl drives the interactive duel client. One goroutine renders
// server events while the readline loop handles player commands.
package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"codeduel/internal/cli/client"
	"codeduel/internal/cli/config"
	"codeduel/internal/cli/state"
	"codeduel/internal/duel"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	tagEvent = color.New(color.FgCyan).SprintFunc()
	tagGood  = color.New(color.FgGreen).SprintFunc()
	tagWin   = color.New(color.FgYellow, color.Bold).SprintFunc()
	tagErr   = color.New(color.FgRed).SprintFunc()
	tagDim   = color.New(color.FgHiBlack).SprintFunc()
)

// Session holds REPL state.
type Session struct {
	conn       *client.Session
	api        *client.API
	cfg        config.Config
	rl         *readline.Instance
	out        io.Writer
	prettyJSON bool

	mu       sync.Mutex
	identity state.Identity
	roomID   string
}

func New(conn *client.Session, api *client.API, identity state.Identity, cfg config.Config) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "duelctl> ",
		HistoryFile:     cfg.HistoryPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("register"),
			readline.PcItem("join"),
			readline.PcItem("leave"),
			readline.PcItem("submit"),
			readline.PcItem("sync"),
			readline.PcItem("challenges"),
			readline.PcItem("challenge"),
			readline.PcItem("info"),
			readline.PcItem("health"),
			readline.PcItem("whoami"),
			readline.PcItem("set"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("init readline failed: %w", err)
	}
	return &Session{
		conn:       conn,
		api:        api,
		cfg:        cfg,
		rl:         rl,
		out:        rl.Stdout(),
		prettyJSON: cfg.PrettyJSON != nil && *cfg.PrettyJSON,
		identity:   identity,
	}, nil
}

// Run pumps server events and player commands until the connection drops or
// the player exits.
func (s *Session) Run(ctx context.Context) error {
	defer func() { _ = s.rl.Close() }()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.conn.ReadLoop(ctx) })
	g.Go(func() error {
		s.renderEvents()
		// Connection is gone; unblock the readline loop.
		_ = s.rl.Close()
		return nil
	})

	s.commandLoop(ctx)
	_ = s.conn.Close()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Session) commandLoop(ctx context.Context) {
	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return
			}
			continue
		}
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			s.printLine("bye")
			return
		}
		if err := s.handleCommand(ctx, line); err != nil {
			s.printLine("%s %v", tagErr("error:"), err)
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	switch tokens[0] {
	case "help":
		s.printHelp()
		return nil
	case "register":
		return s.cmdRegister(tokens[1:])
	case "join":
		return s.cmdJoin(tokens[1:])
	case "leave":
		return s.cmdLeave()
	case "submit":
		return s.cmdSendCode(duel.EventSubmitCode, tokens[1:])
	case "sync":
		return s.cmdSendCode(duel.EventSyncCode, tokens[1:])
	case "challenges":
		return s.cmdChallenges(ctx)
	case "challenge":
		if len(tokens) < 2 {
			return fmt.Errorf("usage: challenge <id>")
		}
		return s.cmdAPI(ctx, "/api/challenges/"+tokens[1])
	case "info":
		return s.cmdAPI(ctx, "/api/queue-info")
	case "health":
		return s.cmdAPI(ctx, "/api/health")
	case "whoami":
		s.cmdWhoami()
		return nil
	case "set":
		return s.cmdSet(tokens[1:])
	default:
		return fmt.Errorf("unknown command: %s", tokens[0])
	}
}

func (s *Session) cmdRegister(args []string) error {
	s.mu.Lock()
	id := s.identity
	s.mu.Unlock()

	if len(args) > 0 {
		id.Username = args[0]
	}
	if len(args) > 1 {
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating: %s", args[1])
		}
		id.Rating = rating
	}
	if id.Username == "" {
		return fmt.Errorf("usage: register <username> [rating]")
	}
	if id.UserID == "" {
		id.UserID = uuid.NewString()
	}

	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
	if err := state.Save(s.cfg.IdentityPath, id); err != nil {
		s.printLine("%s save identity failed: %v", tagDim("warn:"), err)
	}

	return s.conn.Send(duel.EventRegisterUser, duel.RegisterRequest{
		UserID:    id.UserID,
		Username:  id.Username,
		EloRating: id.Rating,
	})
}

func (s *Session) cmdJoin(args []string) error {
	id, _ := s.snapshot()
	if id.UserID == "" {
		return fmt.Errorf("register first")
	}
	req := duel.JoinQueueRequest{UserID: id.UserID}
	if len(args) > 0 {
		req.ChallengeID = args[0]
	}
	return s.conn.Send(duel.EventJoinQueue, req)
}

func (s *Session) cmdLeave() error {
	id, _ := s.snapshot()
	if id.UserID == "" {
		return fmt.Errorf("register first")
	}
	return s.conn.Send(duel.EventLeaveQueue, duel.LeaveQueueRequest{UserID: id.UserID})
}

func (s *Session) cmdSendCode(event string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s <file.py>", strings.TrimSuffix(event, "_code"))
	}
	id, roomID := s.snapshot()
	if id.UserID == "" {
		return fmt.Errorf("register first")
	}
	if roomID == "" {
		return fmt.Errorf("not in a battle")
	}
	code, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s failed: %w", args[0], err)
	}

	if event == duel.EventSubmitCode {
		return s.conn.Send(event, duel.SubmitCodeRequest{
			UserID: id.UserID,
			RoomID: roomID,
			Code:   string(code),
		})
	}
	return s.conn.Send(event, duel.SyncCodeRequest{
		UserID: id.UserID,
		RoomID: roomID,
		Code:   string(code),
	})
}

func (s *Session) cmdChallenges(ctx context.Context) error {
	resp, err := s.api.Get(ctx, "/api/challenges")
	if err != nil {
		return err
	}
	var envelope struct {
		Data struct {
			Challenges []struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				Difficulty string `json:"difficulty"`
				TestCount  int    `json:"test_count"`
			} `json:"challenges"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return fmt.Errorf("parse challenges failed: %w", err)
	}
	for _, ch := range envelope.Data.Challenges {
		difficulty := ch.Difficulty
		switch difficulty {
		case "easy":
			difficulty = tagGood(difficulty)
		case "medium":
			difficulty = tagWin(difficulty)
		case "hard":
			difficulty = tagErr(difficulty)
		}
		s.printLine("  %-16s %-24s %s (%d tests)", ch.ID, ch.Name, difficulty, ch.TestCount)
	}
	s.printLine("%s", tagDim(fmt.Sprintf("HTTP %d (%s)", resp.StatusCode, resp.Duration)))
	return nil
}

func (s *Session) cmdAPI(ctx context.Context, path string) error {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return err
	}
	s.printLine("%s", tagDim(fmt.Sprintf("HTTP %d (%s)", resp.StatusCode, resp.Duration)))
	s.printJSON(resp.Body)
	return nil
}

func (s *Session) cmdWhoami() {
	id, roomID := s.snapshot()
	if id.UserID == "" {
		s.printLine("not registered")
		return
	}
	s.printLine("user_id: %s", id.UserID)
	s.printLine("username: %s", id.Username)
	s.printLine("elo_rating: %d", id.Rating)
	if roomID != "" {
		s.printLine("room: %s", roomID)
	}
}

func (s *Session) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set api|timeout <value>")
	}
	switch args[0] {
	case "api":
		s.api.SetBaseURL(args[1])
		s.printLine("api base set to %s", args[1])
	case "timeout":
		dur, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		s.api.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		return fmt.Errorf("unknown set command: %s", args[0])
	}
	return nil
}

func (s *Session) snapshot() (state.Identity, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.roomID
}

func (s *Session) printHelp() {
	s.printLine("commands:")
	s.printLine("  register <username> [rating]   register with the server")
	s.printLine("  join [challenge_id]            enter the matchmaking queue")
	s.printLine("  leave                          leave the queue")
	s.printLine("  submit <file.py>               run your solution against the tests")
	s.printLine("  sync <file.py>                 share your draft with the opponent")
	s.printLine("  challenges                     list available challenges")
	s.printLine("  challenge <id>                 show one challenge")
	s.printLine("  info | health                  server queue / health info")
	s.printLine("  whoami                         show local identity")
	s.printLine("  set api|timeout <value>        adjust the read API client")
	s.printLine("  help | exit")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *Session) printJSON(body []byte) {
	if len(body) == 0 {
		return
	}
	if s.prettyJSON {
		var raw interface{}
		if err := json.Unmarshal(body, &raw); err == nil {
			formatted, _ := json.MarshalIndent(raw, "", "  ")
			s.printLine("%s", string(formatted))
			return
		}
	}
	s.printLine("%s", string(body))
}
