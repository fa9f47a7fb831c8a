package surreal

import (
	"context"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/student-portal/internal/database"
	"github.com/nfrund/student-portal/internal/domain"
)

const (
	studentFields = "num, name, course, marks, age"
	studentSearch = "($search = '' OR string::contains(string::lowercase(name), $search) OR string::contains(string::lowercase(course), $search))"
)

type studentRow struct {
	Num    uint   `json:"num"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Marks  int    `json:"marks"`
	Age    int    `json:"age"`
}

func (r studentRow) toDomain() domain.Student {
	return domain.Student{ID: r.Num, Name: r.Name, Course: r.Course, Marks: r.Marks, Age: r.Age}
}

type countRow struct {
	Total int64 `json:"total"`
}

// StudentStore implements domain.StudentRepository on SurrealDB.
type StudentStore struct {
	conn *Connection
}

// NewStudentStore creates a new StudentStore.
func NewStudentStore(conn *Connection) *StudentStore {
	return &StudentStore{conn: conn}
}

func searchParam(search string) string {
	return strings.ToLower(search)
}

// Count returns the number of students matching the search.
func (s *StudentStore) Count(ctx context.Context, search string) (int64, error) {
	var total int64
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		row, err := QueryOne[countRow](ctx, db,
			"SELECT count() AS total FROM student WHERE "+studentSearch+" GROUP ALL",
			map[string]any{"search": searchParam(search)})
		if err != nil {
			return err
		}
		if row != nil {
			total = row.Total
		}
		return nil
	})
	return total, wrap(err, "count students")
}

// List returns matching students ordered by id.
func (s *StudentStore) List(ctx context.Context, q domain.StudentQuery) ([]domain.Student, error) {
	query := "SELECT " + studentFields + " FROM student WHERE " + studentSearch + " ORDER BY num"
	params := map[string]any{"search": searchParam(q.Search)}
	if q.Limit > 0 {
		query += " LIMIT $limit START $offset"
		params["limit"] = q.Limit
		params["offset"] = q.Offset
	}

	students := make([]domain.Student, 0)
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		rows, err := Query[studentRow](ctx, db, query, params)
		if err != nil {
			return err
		}
		for _, row := range rows {
			students = append(students, row.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "list students")
	}
	return students, nil
}

// FindByID retrieves a student or domain.ErrNotFound.
func (s *StudentStore) FindByID(ctx context.Context, id uint) (*domain.Student, error) {
	var found *studentRow
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		found, err = QueryOne[studentRow](ctx, db,
			"SELECT "+studentFields+" FROM type::thing('student', $id)",
			map[string]any{"id": id})
		return err
	})
	if err != nil {
		return nil, wrap(err, "find student")
	}
	if found == nil {
		return nil, database.NewDBError(domain.ErrNotFound, "find student")
	}
	student := found.toDomain()
	return &student, nil
}

// Create inserts the student and fills in its ID.
func (s *StudentStore) Create(ctx context.Context, student *domain.Student) error {
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		id, err := nextID(ctx, db, "student")
		if err != nil {
			return err
		}
		if err := Execute(ctx, db,
			"CREATE type::thing('student', $id) SET num = $id, name = $name, course = $course, marks = $marks, age = $age",
			studentParams(id, student)); err != nil {
			return err
		}
		student.ID = id
		return nil
	})
	return wrap(err, "create student")
}

// Update overwrites every field of an existing student.
func (s *StudentStore) Update(ctx context.Context, student *domain.Student) error {
	var updated []studentRow
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		updated, err = Query[studentRow](ctx, db,
			"UPDATE type::thing('student', $id) SET name = $name, course = $course, marks = $marks, age = $age RETURN AFTER",
			studentParams(student.ID, student))
		return err
	})
	if err != nil {
		return wrap(err, "update student")
	}
	if len(updated) == 0 {
		return database.NewDBError(domain.ErrNotFound, "update student")
	}
	return nil
}

// Delete removes a student or returns domain.ErrNotFound.
func (s *StudentStore) Delete(ctx context.Context, id uint) error {
	var deleted []studentRow
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		deleted, err = Query[studentRow](ctx, db,
			"DELETE type::thing('student', $id) RETURN BEFORE",
			map[string]any{"id": id})
		return err
	})
	if err != nil {
		return wrap(err, "delete student")
	}
	if len(deleted) == 0 {
		return database.NewDBError(domain.ErrNotFound, "delete student")
	}
	return nil
}

func studentParams(id uint, s *domain.Student) map[string]any {
	return map[string]any{
		"id":     id,
		"name":   s.Name,
		"course": s.Course,
		"marks":  s.Marks,
		"age":    s.Age,
	}
}

func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "already contains") || strings.Contains(msg, "already exists") {
		return database.NewDBError(domain.ErrUserAlreadyExists, op)
	}
	return database.NewDBError(err, op)
}
