package scheduler

import "github.com/noah-isme/routine-api/internal/models"

// ResourceKind is a category of resource that can only be in one place per slot.
type ResourceKind string

const (
	KindTeacher  ResourceKind = "teacher"
	KindSemester ResourceKind = "semester"
	KindRoom     ResourceKind = "room"
	KindLab      ResourceKind = "lab"
)

type busyKey struct {
	kind  ResourceKind
	id    int64
	day   models.DayOfWeek
	start string
}

// BusySet records which (resource, day, start) cells are occupied during one
// generation run. Invariant: a key is present iff some placed or baseline
// entry holds that resource at that cell.
type BusySet struct {
	slots map[busyKey]struct{}
}

// NewBusySet returns an empty tracker.
func NewBusySet() *BusySet {
	return &BusySet{slots: make(map[busyKey]struct{})}
}

// Occupy marks the resource busy at (day, start).
func (b *BusySet) Occupy(kind ResourceKind, id int64, day models.DayOfWeek, start string) {
	b.slots[busyKey{kind: kind, id: id, day: day, start: start}] = struct{}{}
}

// Release frees the resource at (day, start).
func (b *BusySet) Release(kind ResourceKind, id int64, day models.DayOfWeek, start string) {
	delete(b.slots, busyKey{kind: kind, id: id, day: day, start: start})
}

// IsBusy reports whether the resource is taken at (day, start).
func (b *BusySet) IsBusy(kind ResourceKind, id int64, day models.DayOfWeek, start string) bool {
	_, ok := b.slots[busyKey{kind: kind, id: id, day: day, start: start}]
	return ok
}

// OccupyEntry marks every resource referenced by entry.
func (b *BusySet) OccupyEntry(entry models.ScheduleEntry) {
	b.Occupy(KindSemester, entry.SemesterID, entry.DayOfWeek, entry.StartTime)
	if entry.TeacherID != nil {
		b.Occupy(KindTeacher, *entry.TeacherID, entry.DayOfWeek, entry.StartTime)
	}
	if entry.RoomID != nil {
		b.Occupy(KindRoom, *entry.RoomID, entry.DayOfWeek, entry.StartTime)
	}
	if entry.LabID != nil {
		b.Occupy(KindLab, *entry.LabID, entry.DayOfWeek, entry.StartTime)
	}
}

// Seed occupies the cells of already committed entries.
func (b *BusySet) Seed(entries []models.ScheduleEntry) {
	for _, entry := range entries {
		b.OccupyEntry(entry)
	}
}

// Len returns the number of occupied cells across all resources.
func (b *BusySet) Len() int {
	return len(b.slots)
}
