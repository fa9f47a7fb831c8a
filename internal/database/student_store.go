package database

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nfrund/student-portal/internal/domain"
)

// StudentStore is the gorm implementation of domain.StudentRepository.
type StudentStore struct {
	db *gorm.DB
}

// NewStudentStore creates a new StudentStore.
func NewStudentStore(db *gorm.DB) *StudentStore {
	return &StudentStore{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchScope filters on a case-insensitive substring of name OR course.
func searchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if search == "" {
			return tx
		}
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		return tx.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(course) LIKE ? ESCAPE '\'`, like, like)
	}
}

// Count returns the number of students matching the search.
func (s *StudentStore) Count(ctx context.Context, search string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&domain.Student{}).Scopes(searchScope(search)).Count(&total).Error
	return total, wrap(err, "count students")
}

// List returns matching students ordered by id.
func (s *StudentStore) List(ctx context.Context, q domain.StudentQuery) ([]domain.Student, error) {
	query := s.db.WithContext(ctx).Model(&domain.Student{}).Scopes(searchScope(q.Search)).Order("id")
	if q.Limit > 0 {
		query = query.Limit(q.Limit).Offset(q.Offset)
	}

	students := make([]domain.Student, 0)
	if err := query.Find(&students).Error; err != nil {
		return nil, wrap(err, "list students")
	}
	return students, nil
}

// FindByID retrieves a student or domain.ErrNotFound.
func (s *StudentStore) FindByID(ctx context.Context, id uint) (*domain.Student, error) {
	var student domain.Student
	if err := s.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, wrap(err, "find student")
	}
	return &student, nil
}

// Create inserts the student and fills in its ID.
func (s *StudentStore) Create(ctx context.Context, student *domain.Student) error {
	return wrap(s.db.WithContext(ctx).Create(student).Error, "create student")
}

// Update overwrites every column of an existing student.
func (s *StudentStore) Update(ctx context.Context, student *domain.Student) error {
	res := s.db.WithContext(ctx).Model(&domain.Student{}).Where("id = ?", student.ID).
		Select("name", "course", "marks", "age").
		Updates(map[string]any{
			"name":   student.Name,
			"course": student.Course,
			"marks":  student.Marks,
			"age":    student.Age,
		})
	if res.Error != nil {
		return wrap(res.Error, "update student")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "update student")
	}
	return nil
}

// Delete removes a student or returns domain.ErrNotFound.
func (s *StudentStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Student{}, id)
	if res.Error != nil {
		return wrap(res.Error, "delete student")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete student")
	}
	return nil
}
