package scheduler

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/noah-isme/routine-api/internal/models"
)

var (
	// ErrNoAssignments is returned when no major course has a teacher in scope.
	ErrNoAssignments = errors.New("no major course-teacher assignments found")
	// ErrNoResources is returned when the department has no AVAILABLE room or lab.
	ErrNoResources = errors.New("no available rooms or labs")
)

// Input is everything one generation run reads.
type Input struct {
	DepartmentID int64
	Assignments  []models.CourseTeacherDetail
	Rooms        []models.Room
	Labs         []models.Lab
	// Baseline holds committed entries outside the regenerated semesters that
	// still occupy teachers, rooms or labs.
	Baseline []models.ScheduleEntry
}

// UnassignedCourse is a course with at least one instance the engine could not place.
type UnassignedCourse struct {
	CourseID int64  `json:"course_id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
}

// Result is the outcome of a generation run.
type Result struct {
	Entries    []models.ScheduleEntryDetail
	Unassigned []UnassignedCourse
	Instances  int
}

type classInstance struct {
	assignment *models.CourseTeacherDetail
}

type engineState struct {
	busy  *BusySet
	rooms []models.Room
	labs  []models.Lab
}

// InstanceCount is the number of weekly classes a course with credits needs.
func InstanceCount(credits float64) int {
	if credits <= 0 {
		return 0
	}
	return int(math.Ceil(credits))
}

// Generate runs the first-fit placement over a shuffled list of class
// instances. The same rng seed and input always give the same result; a nil
// rng seeds from the clock so repeated runs can land different placements.
func Generate(in Input, rng *rand.Rand) (*Result, error) {
	instances := expandInstances(in.Assignments)
	if len(instances) == 0 {
		return nil, ErrNoAssignments
	}

	state := &engineState{
		busy:  NewBusySet(),
		rooms: availableRooms(in.Rooms),
		labs:  availableLabs(in.Labs),
	}
	if len(state.rooms) == 0 && len(state.labs) == 0 {
		return nil, ErrNoResources
	}
	state.busy.Seed(in.Baseline)

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(instances), func(i, j int) {
		instances[i], instances[j] = instances[j], instances[i]
	})

	result := &Result{Instances: len(instances)}
	failed := make(map[int64]struct{})
	for _, inst := range instances {
		entry, ok := state.place(in.DepartmentID, inst)
		if ok {
			result.Entries = append(result.Entries, entry)
			continue
		}
		courseID := inst.assignment.CourseID
		if _, seen := failed[courseID]; seen {
			continue
		}
		failed[courseID] = struct{}{}
		result.Unassigned = append(result.Unassigned, UnassignedCourse{
			CourseID: courseID,
			Code:     inst.assignment.CourseCode,
			Name:     inst.assignment.CourseName,
		})
	}
	return result, nil
}

func expandInstances(assignments []models.CourseTeacherDetail) []classInstance {
	var instances []classInstance
	for i := range assignments {
		assignment := &assignments[i]
		if !assignment.IsMajor {
			continue
		}
		for n := 0; n < InstanceCount(assignment.CourseCredits); n++ {
			instances = append(instances, classInstance{assignment: assignment})
		}
	}
	return instances
}

func (s *engineState) place(departmentID int64, inst classInstance) (models.ScheduleEntryDetail, bool) {
	a := inst.assignment
	for _, day := range GenerationDays {
		for _, start := range TimeSlots {
			if s.busy.IsBusy(KindTeacher, a.TeacherID, day, start) {
				continue
			}
			if s.busy.IsBusy(KindSemester, a.SemesterID, day, start) {
				continue
			}

			entry := models.ScheduleEntryDetail{
				ScheduleEntry: models.ScheduleEntry{
					SemesterID:   a.SemesterID,
					DepartmentID: departmentID,
					DayOfWeek:    day,
					StartTime:    start,
					EndTime:      mustEndTime(start),
					CourseID:     int64Ptr(a.CourseID),
					TeacherID:    int64Ptr(a.TeacherID),
				},
				CourseCode:  stringPtr(a.CourseCode),
				CourseName:  stringPtr(a.CourseName),
				TeacherName: stringPtr(a.TeacherName),
			}

			if a.CourseType.NeedsLab() {
				lab, ok := s.freeLab(day, start)
				if !ok {
					continue
				}
				entry.LabID = int64Ptr(lab.ID)
				entry.LabName = stringPtr(lab.Name)
			} else {
				room, ok := s.freeRoom(day, start)
				if !ok {
					continue
				}
				entry.RoomID = int64Ptr(room.ID)
				entry.RoomName = stringPtr(room.Name)
			}

			s.busy.OccupyEntry(entry.ScheduleEntry)
			return entry, true
		}
	}
	return models.ScheduleEntryDetail{}, false
}

func (s *engineState) freeRoom(day models.DayOfWeek, start string) (models.Room, bool) {
	for _, room := range s.rooms {
		if !s.busy.IsBusy(KindRoom, room.ID, day, start) {
			return room, true
		}
	}
	return models.Room{}, false
}

func (s *engineState) freeLab(day models.DayOfWeek, start string) (models.Lab, bool) {
	for _, lab := range s.labs {
		if !s.busy.IsBusy(KindLab, lab.ID, day, start) {
			return lab, true
		}
	}
	return models.Lab{}, false
}

func availableRooms(rooms []models.Room) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Status == models.ResourceAvailable {
			out = append(out, room)
		}
	}
	return out
}

func availableLabs(labs []models.Lab) []models.Lab {
	out := make([]models.Lab, 0, len(labs))
	for _, lab := range labs {
		if lab.Status == models.ResourceAvailable {
			out = append(out, lab)
		}
	}
	return out
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
