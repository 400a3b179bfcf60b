package timeline

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/nobody090909/chessGUI/game"
)

// pushUCI applies uci to st and records it, the same ordering commits use.
func pushUCI(t *testing.T, s *Store, st game.State, uci string) {
	t.Helper()
	require.NoError(t, st.ApplyUCI(uci))
	require.NoError(t, s.Push(st, Record{From: uci[:2], To: uci[2:4]}))
}

func fen(t *testing.T, st game.State) string {
	t.Helper()
	snap, err := st.ExportState()
	require.NoError(t, err)
	return string(snap)
}

func TestSnapshotStride(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(2)
	require.NoError(t, s.Reset(st))

	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		pushUCI(t, s, st, uci)
	}

	require.Equal(t, 5, s.Cursor())
	require.Equal(t, 5, s.Total())

	var plies []int
	for _, snap := range s.snaps {
		plies = append(plies, snap.ply)
	}
	require.Equal(t, []int{0, 2, 4}, plies)
}

func TestGotoRoundTrip(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(2)
	require.NoError(t, s.Reset(st))

	fens := []string{fen(t, st)}
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		pushUCI(t, s, st, uci)
		fens = append(fens, fen(t, st))
	}

	// Every target, from every starting cursor order.
	for _, target := range []int{0, 3, 5, 1, 4, 2, 5, 0} {
		require.NoError(t, s.Goto(st, target))
		require.Equal(t, target, s.Cursor())
		require.Equal(t, fens[target], fen(t, st))
	}
}

func TestPushAfterRewindTruncatesBranch(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(2)
	require.NoError(t, s.Reset(st))

	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		pushUCI(t, s, st, uci)
	}
	require.NoError(t, s.Goto(st, 3))

	// A different fourth move abandons the old branch.
	pushUCI(t, s, st, "g8f6")

	require.Equal(t, 4, s.Total())
	require.Equal(t, 4, s.Cursor())
	require.Equal(t, "g8", s.records[3].From)

	var plies []int
	for _, snap := range s.snaps {
		plies = append(plies, snap.ply)
	}
	require.Equal(t, []int{0, 2, 4}, plies)

	// The replaced branch is really gone: the new line replays cleanly.
	require.NoError(t, s.Goto(st, 0))
	require.NoError(t, s.Goto(st, 4))
}

func TestGotoOutOfRange(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(4)
	require.NoError(t, s.Reset(st))
	pushUCI(t, s, st, "e2e4")
	pushUCI(t, s, st, "e7e5")
	before := fen(t, st)

	for _, target := range []int{-1, 3, 100} {
		err := s.Goto(st, target)
		require.Error(t, err)
		require.Equal(t, ErrOutOfRange, errors.Cause(err))
		require.Equal(t, 2, s.Cursor())
		require.Equal(t, before, fen(t, st))
	}
}

func TestGotoFailureLeavesStateUntouched(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(100) // only the ply-0 snapshot, every goto replays
	require.NoError(t, s.Reset(st))
	pushUCI(t, s, st, "e2e4")
	pushUCI(t, s, st, "e7e5")
	pushUCI(t, s, st, "g1f3")
	before := fen(t, st)

	s.records[1] = Record{From: "e7", To: "e4"} // unreplayable

	err := s.Goto(st, 2)
	require.Error(t, err)
	require.Equal(t, 3, s.Cursor())
	require.Equal(t, before, fen(t, st))
}

func TestStepNavigation(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(2)
	require.NoError(t, s.Reset(st))
	pushUCI(t, s, st, "e2e4")
	pushUCI(t, s, st, "e7e5")

	require.NoError(t, s.Prev(st))
	require.Equal(t, 1, s.Cursor())
	require.NoError(t, s.First(st))
	require.Equal(t, 0, s.Cursor())
	require.NoError(t, s.Prev(st)) // no-op at start
	require.Equal(t, 0, s.Cursor())
	require.NoError(t, s.Next(st))
	require.Equal(t, 1, s.Cursor())
	require.NoError(t, s.Last(st))
	require.Equal(t, 2, s.Cursor())
	require.NoError(t, s.Next(st)) // no-op at end
	require.Equal(t, 2, s.Cursor())
}

func TestOnChangeNotifications(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(2)

	var fired int
	var lastCursor, lastTotal int
	s.BindOnChange(func(cursor, total int) {
		fired++
		lastCursor, lastTotal = cursor, total
	})

	require.NoError(t, s.Reset(st))
	require.Equal(t, 1, fired)

	pushUCI(t, s, st, "e2e4")
	pushUCI(t, s, st, "e7e5")
	require.Equal(t, 3, fired)
	require.Equal(t, 2, lastCursor)
	require.Equal(t, 2, lastTotal)

	require.NoError(t, s.Goto(st, 0))
	require.Equal(t, 4, fired)
	require.Equal(t, 0, lastCursor)

	// Goto to the current cursor and failed gotos stay silent.
	require.NoError(t, s.Goto(st, 0))
	require.Error(t, s.Goto(st, 99))
	require.Equal(t, 4, fired)
}

func TestRecordsReturnsCopy(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(2)
	require.NoError(t, s.Reset(st))
	pushUCI(t, s, st, "e2e4")

	recs := s.Records()
	require.Len(t, recs, 1)
	recs[0].From = "a1"
	require.Equal(t, "e2", s.records[0].From)
}

func TestRecordUCI(t *testing.T) {
	require.Equal(t, "e2e4", Record{From: "e2", To: "e4"}.UCI())
	require.Equal(t, "e7e8q", Record{From: "e7", To: "e8", Promotion: "Q"}.UCI())
}

func TestStrideClamped(t *testing.T) {
	st := game.NewPosition()
	s := NewStore(0)
	require.NoError(t, s.Reset(st))
	pushUCI(t, s, st, "e2e4")
	pushUCI(t, s, st, "e7e5")
	// stride 1 snapshots every ply
	require.Len(t, s.snaps, 3)
}
