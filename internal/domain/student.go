package domain

import "context"

// DefaultStudentAge is the age pre-filled for new students.
const DefaultStudentAge = 18

// Student is the single record type managed by the directory.
type Student struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Course string `gorm:"size:100;not null" json:"course" validate:"required,max=100"`
	Marks  int    `gorm:"not null" json:"marks" validate:"gte=0,lte=100"`
	Age    int    `gorm:"not null" json:"age"`
}

// Validate runs validation checks on the Student struct using the defined tags.
func (s *Student) Validate() error {
	return validatorInstance.Struct(s)
}

// StudentQuery narrows a listing. An empty Search matches every record and a
// zero Limit disables paging.
type StudentQuery struct {
	Search string
	Limit  int
	Offset int
}

// StudentRepository defines the interface for student storage.
type StudentRepository interface {
	// Count returns how many students match the search.
	Count(ctx context.Context, search string) (int64, error)
	// List returns matching students ordered by id.
	List(ctx context.Context, q StudentQuery) ([]Student, error)
	FindByID(ctx context.Context, id uint) (*Student, error)
	Create(ctx context.Context, s *Student) error
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id uint) error
}
