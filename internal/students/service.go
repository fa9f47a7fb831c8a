package students

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/student-portal/internal/cache"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/pubsub"
)

// ExportRecord is one element of the JSON export.
type ExportRecord struct {
	Name   string `json:"name"`
	Course string `json:"course"`
	Marks  int    `json:"marks"`
	Age    int    `json:"age"`
}

// Service is the student directory: listing, CRUD and export.
type Service struct {
	repo  domain.StudentRepository
	cache cache.ExportCache
	pub   pubsub.Publisher
}

// NewService creates a Service. exportCache and pub may be nil.
func NewService(repo domain.StudentRepository, exportCache cache.ExportCache, pub pubsub.Publisher) *Service {
	if exportCache == nil {
		exportCache = cache.Nop{}
	}
	return &Service{repo: repo, cache: exportCache, pub: pub}
}

// Page returns one page of students whose name or course contains search.
// rawPage is the unparsed page parameter.
func (s *Service) Page(ctx context.Context, search, rawPage string) (*Page, error) {
	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	numPages := NumPages(total, PageSize)
	number := NormalizePage(rawPage, numPages)

	list, err := s.repo.List(ctx, domain.StudentQuery{
		Search: search,
		Limit:  PageSize,
		Offset: (number - 1) * PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return &Page{
		Students: list,
		Search:   search,
		Number:   number,
		NumPages: numPages,
		Total:    total,
	}, nil
}

// Get returns a student or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Student, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates the form and stores a new student.
func (s *Service) Create(ctx context.Context, f Form) (*domain.Student, domain.FieldErrors, error) {
	student, fe := f.Student()
	if fe.Any() {
		return nil, fe, nil
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		return nil, nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.changed(ctx, Created, EventCreated, student)
	return &student, nil, nil
}

// Update validates the form and overwrites student id. Missing students
// return domain.ErrNotFound.
func (s *Service) Update(ctx context.Context, id uint, f Form) (*domain.Student, domain.FieldErrors, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, nil, err
	}

	student, fe := f.Student()
	if fe.Any() {
		return nil, fe, nil
	}
	student.ID = id

	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.changed(ctx, Updated, EventUpdated, student)
	return &student, nil, nil
}

// Delete removes student id. Missing students return domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uint) error {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.changed(ctx, Deleted, EventDeleted, *student)
	return nil
}

// Export returns the whole table as a JSON array ordered by id. The encoded
// result is cached until the next mutation.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	if data, ok, err := s.cache.Get(ctx); err != nil {
		slog.WarnContext(ctx, "Export cache read failed", "error", err)
	} else if ok {
		return data, nil
	}

	list, err := s.repo.List(ctx, domain.StudentQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load students for export: %w", err)
	}

	records := make([]ExportRecord, 0, len(list))
	for _, st := range list {
		records = append(records, ExportRecord{Name: st.Name, Course: st.Course, Marks: st.Marks, Age: st.Age})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	if err := s.cache.Set(ctx, data); err != nil {
		slog.WarnContext(ctx, "Export cache write failed", "error", err)
	}
	return data, nil
}

// changed drops the cached export and announces the mutation. Neither step
// can undo a committed write, so failures are logged.
func (s *Service) changed(ctx context.Context, topic pubsub.Event[Event], kind string, student domain.Student) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.ErrorContext(ctx, "Export cache invalidation failed", "student_id", student.ID, "error", err)
	}

	if s.pub == nil {
		return
	}

	event := Event{Type: kind, Student: student}
	var userID string
	if user := domain.UserFromContext(ctx); user != nil {
		event.Actor = user.Username
		userID = fmt.Sprint(user.ID)
	}
	if err := pubsub.Publish(ctx, s.pub, topic, userID, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish student event", "topic", topic.Name(), "error", err)
	}
}
