// Command play is a terminal front end for the match session: type moves in
// UCI or SAN, navigate the history, and let the engine answer for the other
// side.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	chessgui "github.com/nobody090909/chessGUI"
	"github.com/nobody090909/chessGUI/engine"
	"github.com/nobody090909/chessGUI/game"
)

var (
	depth   = flag.Int("depth", 3, "engine search depth in plies")
	stride  = flag.Int("stride", 8, "plies between history snapshots")
	fen     = flag.String("fen", "", "starting position, empty for the standard start")
	engines = flag.Bool("engines", false, "let the engine play both sides")
	verbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	var st game.State
	if *fen != "" {
		pos, err := game.PositionFromFEN(*fen)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad fen")
		}
		st = pos
	} else {
		st = game.NewPosition()
	}

	conf := chessgui.DefaultConfig()
	conf.Depth = *depth
	conf.SnapshotStride = *stride
	match, err := chessgui.NewMatch(conf, st, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create match")
	}
	match.Observe(func(ev chessgui.CommitEvent) {
		fmt.Printf("played %s\n", ev.Record.SAN)
	})

	eng := engine.New(engine.Config{Logger: logger})
	ai := chessgui.NewEnginePlayer("engine", eng, *depth)

	if *engines {
		status, err := match.Play(context.Background(), ai, ai)
		if err != nil {
			logger.Fatal().Err(err).Msg("engine match failed")
		}
		fmt.Println(match.State().Board().Draw())
		fmt.Printf("%s (%s)\n", match.StatusText(), status)
		return
	}

	repl(match, ai, logger)
}

func repl(match *chessgui.Match, ai *chessgui.EnginePlayer, logger zerolog.Logger) {
	fmt.Println("enter a move (e2e4 or Nf3), or: first prev next last goto N quit")
	fmt.Println(match.State().Board().Draw())
	fmt.Println(match.StatusText())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if handleNav(match, line) {
			fmt.Println(match.State().Board().Draw())
			fmt.Println(match.StatusText())
			continue
		}

		mv, err := parseMove(match.State(), line)
		if err != nil {
			fmt.Printf("cannot read %q as a move or command\n", line)
			continue
		}
		if err := match.Commit(mv); err != nil {
			fmt.Printf("rejected: %s\n", err)
			continue
		}
		fmt.Println(match.State().Board().Draw())
		fmt.Println(match.StatusText())
		if match.GameOver() {
			continue
		}

		start := time.Now()
		reply, err := ai.ChooseMove(context.Background(), match.State())
		if err != nil {
			logger.Error().Err(err).Msg("engine search failed")
			continue
		}
		logger.Debug().Dur("elapsed", time.Since(start)).Msg("engine replied")
		if err := match.Commit(reply); err != nil {
			logger.Error().Err(err).Msg("commit engine move")
			continue
		}
		fmt.Println(match.State().Board().Draw())
		fmt.Println(match.StatusText())
	}
}

// handleNav runs line as a history navigation command and reports whether it
// was one.
func handleNav(match *chessgui.Match, line string) bool {
	var err error
	switch {
	case line == "first":
		err = match.First()
	case line == "prev":
		err = match.Prev()
	case line == "next":
		err = match.Next()
	case line == "last":
		err = match.Last()
	case strings.HasPrefix(line, "goto "):
		n, convErr := strconv.Atoi(strings.TrimPrefix(line, "goto "))
		if convErr != nil {
			fmt.Printf("goto needs a ply number: %s\n", convErr)
			return true
		}
		err = match.Goto(n)
	default:
		return false
	}
	if err != nil {
		fmt.Printf("cannot navigate: %s\n", err)
	}
	return true
}

func parseMove(st game.State, s string) (*chess.Move, error) {
	pos, ok := st.(*game.Position)
	if !ok {
		return nil, fmt.Errorf("position does not support move parsing")
	}
	return pos.ParseMove(s)
}
