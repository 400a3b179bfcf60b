// Package timeline keeps a replayable linear history of committed moves.
// Full state snapshots are captured every stride plies, so jumping to an
// arbitrary ply replays at most stride moves from the nearest snapshot.
package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/nobody090909/chessGUI/game"
)

// ErrOutOfRange is returned by Goto for an index outside [0, Total]. The
// store and the position are left untouched.
var ErrOutOfRange = errors.New("timeline index out of range")

// Record is the historical record of one committed move. Records are created
// once, in commit order, and never mutated; they are destroyed only when a
// commit from a rewound position truncates the abandoned branch.
type Record struct {
	SAN       string
	From      string
	To        string
	Promotion string
}

// UCI returns the from-to(-promotion) encoding used to replay the record.
func (r Record) UCI() string {
	return r.From + r.To + strings.ToLower(r.Promotion)
}

type snapshot struct {
	ply   int
	state game.Snapshot
}

// Store is the timeline store. It is not safe for concurrent use; callers
// serialize it against searches and commits on the same position.
type Store struct {
	stride   int
	records  []Record
	snaps    []snapshot // sorted by ply; snaps[0] is ply 0 once Reset ran
	cursor   int
	onChange func(cursor, total int)
}

// NewStore returns a store capturing a snapshot every stride plies. A stride
// below 1 is clamped to 1. Reset must be called before the first Push.
func NewStore(stride int) *Store {
	if stride < 1 {
		stride = 1
	}
	return &Store{stride: stride}
}

// BindOnChange registers fn to be invoked as (cursor, total) after every
// mutating call.
func (s *Store) BindOnChange(fn func(cursor, total int)) {
	s.onChange = fn
}

func (s *Store) Cursor() int { return s.cursor }
func (s *Store) Total() int  { return len(s.records) }

// Records returns a copy of the committed records in commit order.
func (s *Store) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Reset clears all records and snapshots, captures the ply-0 snapshot from
// st and rewinds the cursor. Called on new game or position load.
func (s *Store) Reset(st game.State) error {
	snap, err := st.ExportState()
	if err != nil {
		return errors.Wrap(err, "capture base snapshot")
	}
	s.records = s.records[:0]
	s.snaps = append(s.snaps[:0], snapshot{ply: 0, state: snap})
	s.cursor = 0
	s.fire()
	return nil
}

// Push appends rec as the move just committed on st. Pushing while rewound
// first discards every record at or past the cursor and every snapshot
// ahead of it: a commit from a rewound position starts a new branch.
func (s *Store) Push(st game.State, rec Record) error {
	if s.cursor < len(s.records) {
		s.records = s.records[:s.cursor]
		for len(s.snaps) > 0 && s.snaps[len(s.snaps)-1].ply > s.cursor {
			s.snaps = s.snaps[:len(s.snaps)-1]
		}
	}

	var snap game.Snapshot
	if (s.cursor+1)%s.stride == 0 {
		var err error
		if snap, err = st.ExportState(); err != nil {
			return errors.Wrapf(err, "capture snapshot at ply %d", s.cursor+1)
		}
	}
	s.records = append(s.records, rec)
	s.cursor++
	if snap != nil {
		s.snaps = append(s.snaps, snapshot{ply: s.cursor, state: snap})
	}
	s.fire()
	return nil
}

// Goto moves st to the position after targetIndex committed moves. The
// nearest prior snapshot is restored into a scratch copy and the gap
// replayed there; st is only written once every step has succeeded, so a
// failed Goto leaves both the position and the cursor untouched.
func (s *Store) Goto(st game.State, targetIndex int) error {
	if targetIndex < 0 || targetIndex > len(s.records) {
		return errors.Wrapf(ErrOutOfRange, "index %d with %d committed", targetIndex, len(s.records))
	}
	if targetIndex == s.cursor {
		return nil
	}

	floor := s.floorSnapshot(targetIndex)
	scratch := st.Clone()
	if err := scratch.RestoreState(floor.state); err != nil {
		return errors.Wrapf(err, "restore snapshot at ply %d", floor.ply)
	}
	for i := floor.ply; i < targetIndex; i++ {
		if err := scratch.ApplyUCI(s.records[i].UCI()); err != nil {
			return errors.Wrapf(err, "replay %s at ply %d", s.records[i].SAN, i+1)
		}
	}
	final, err := scratch.ExportState()
	if err != nil {
		return errors.Wrap(err, "export replayed state")
	}
	if err := st.RestoreState(final); err != nil {
		return errors.Wrap(err, "publish replayed state")
	}
	s.cursor = targetIndex
	s.fire()
	return nil
}

func (s *Store) First(st game.State) error { return s.Goto(st, 0) }
func (s *Store) Last(st game.State) error  { return s.Goto(st, len(s.records)) }

// Prev steps one ply back; at the start of history it is a no-op.
func (s *Store) Prev(st game.State) error {
	if s.cursor == 0 {
		return nil
	}
	return s.Goto(st, s.cursor-1)
}

// Next steps one ply forward; at the end of history it is a no-op.
func (s *Store) Next(st game.State) error {
	if s.cursor == len(s.records) {
		return nil
	}
	return s.Goto(st, s.cursor+1)
}

// floorSnapshot returns the snapshot with the greatest ply <= target. The
// ply-0 snapshot always exists once Reset ran; a miss means the stride
// invariant was broken and there is nothing sane to recover to.
func (s *Store) floorSnapshot(target int) snapshot {
	i := sort.Search(len(s.snaps), func(i int) bool { return s.snaps[i].ply > target })
	if i == 0 {
		panic(fmt.Sprintf("timeline: no snapshot at or below ply %d (Reset not called?)", target))
	}
	return s.snaps[i-1]
}

func (s *Store) fire() {
	if s.onChange != nil {
		s.onChange(s.cursor, len(s.records))
	}
}
