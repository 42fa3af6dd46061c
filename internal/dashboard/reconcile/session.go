package reconcile

import (
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
)

type State int

const (
	Empty State = iota
	Loaded
)

var stateNames = map[State]string{
	Empty:  "empty",
	Loaded: "loaded",
}

func (s State) String() string {
	return stateNames[s]
}

// Source tells where a loaded table came from.
type Source string

const (
	SourceNone     Source = ""
	SourceUpload   Source = "upload"
	SourceSnapshot Source = "snapshot"
)

// Slot holds one dataset's table. Table is absent unless State is Loaded.
type Slot struct {
	Dataset  types.Dataset
	State    State
	Source   Source
	Table    dataframe.DataFrame
	FileName string
	Checksum string
	LoadedAt time.Time
}

// Session owns the four dataset tables of one dashboard user.
type Session struct {
	slots map[types.Dataset]*Slot
}

func NewSession() *Session {
	s := &Session{slots: make(map[types.Dataset]*Slot, len(types.Datasets))}
	for _, ds := range types.Datasets {
		s.slots[ds] = &Slot{Dataset: ds}
	}
	return s
}

// Slot returns the dataset's slot. The pointer stays valid for the life of
// the session.
func (s *Session) Slot(ds types.Dataset) *Slot {
	return s.slots[ds]
}

func (s *Session) Loaded(ds types.Dataset) bool {
	return s.slots[ds].State == Loaded
}

// AnyLoaded reports whether at least one slot holds a table.
func (s *Session) AnyLoaded() bool {
	for _, ds := range types.Datasets {
		if s.Loaded(ds) {
			return true
		}
	}
	return false
}

// Clone returns an independent session with the same slots. Tables are
// shared; no stage modifies a table in place.
func (s *Session) Clone() *Session {
	c := &Session{slots: make(map[types.Dataset]*Slot, len(s.slots))}
	for ds, slot := range s.slots {
		cp := *slot
		c.slots[ds] = &cp
	}
	return c
}

func (sl *Slot) load(table dataframe.DataFrame, source Source, fileName, checksum string, at time.Time) {
	sl.State = Loaded
	sl.Source = source
	sl.Table = table
	sl.FileName = fileName
	sl.Checksum = checksum
	sl.LoadedAt = at
}

func (sl *Slot) clear() {
	*sl = Slot{Dataset: sl.Dataset}
}
