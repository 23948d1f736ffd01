package repository

import (
	"sort"
	"sync"

	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// StudentRepository keeps students in insertion order. Add does not enforce
// unique IDs; AddIfAbsent does.
type StudentRepository struct {
	mu       sync.RWMutex
	students []*models.Student
	revision uint64
}

// NewStudentRepository constructs an empty StudentRepository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// Add appends the student.
func (r *StudentRepository) Add(student *models.Student) error {
	if student == nil {
		return appErrors.Clone(appErrors.ErrValidation, "student is required")
	}
	copied := *student
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = append(r.students, &copied)
	r.revision++
	return nil
}

// AddIfAbsent appends the student unless one with the same ID exists. The
// check and the insert happen under one lock.
func (r *StudentRepository) AddIfAbsent(student *models.Student) (bool, error) {
	if student == nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "student is required")
	}
	copied := *student
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(copied.ID) != nil {
		return false, nil
	}
	r.students = append(r.students, &copied)
	r.revision++
	return true, nil
}

// List returns a copy of every student.
func (r *StudentRepository) List() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out
}

// FindByID returns the first student with the given ID.
func (r *StudentRepository) FindByID(id string) (models.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s := r.find(id); s != nil {
		return *s, true
	}
	return models.Student{}, false
}

// UpdateName sets the full name. Unknown IDs are ignored; the return value
// only reports whether a student matched.
func (r *StudentRepository) UpdateName(id, fullName string) bool {
	return r.mutate(id, func(s *models.Student) { s.FullName = fullName })
}

// UpdateEmail sets the email with the same find-or-ignore semantics as UpdateName.
func (r *StudentRepository) UpdateEmail(id, email string) bool {
	return r.mutate(id, func(s *models.Student) { s.Email = email })
}

// Deactivate clears the active flag. Unknown IDs are ignored.
func (r *StudentRepository) Deactivate(id string) bool {
	return r.mutate(id, func(s *models.Student) { s.Active = false })
}

// Search returns every student satisfying match.
func (r *StudentRepository) Search(match func(models.Student) bool) []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Student, 0)
	for _, s := range r.students {
		if match(*s) {
			out = append(out, *s)
		}
	}
	return out
}

// SortedRegNos returns every registration number in lexicographic order.
func (r *StudentRepository) SortedRegNos() []string {
	r.mu.RLock()
	regNos := make([]string, 0, len(r.students))
	for _, s := range r.students {
		regNos = append(regNos, s.RegNo)
	}
	r.mu.RUnlock()
	sort.Strings(regNos)
	return regNos
}

// Revision increases on every mutation.
func (r *StudentRepository) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

func (r *StudentRepository) mutate(id string, apply func(*models.Student)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(id)
	if s == nil {
		return false
	}
	apply(s)
	r.revision++
	return true
}

func (r *StudentRepository) find(id string) *models.Student {
	for _, s := range r.students {
		if s.ID == id {
			return s
		}
	}
	return nil
}
