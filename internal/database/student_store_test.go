package database_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/database"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/testutils"
)

func seedStudents(t *testing.T, store *database.StudentStore, students ...domain.Student) []domain.Student {
	t.Helper()
	for i := range students {
		require.NoError(t, store.Create(context.Background(), &students[i]))
	}
	return students
}

func TestStudentStore_CRUD(t *testing.T) {
	store := database.NewStudentStore(testutils.NewTestDB(t))
	ctx := context.Background()

	s := &domain.Student{Name: "Alice", Course: "Physics", Marks: 90, Age: 20}
	require.NoError(t, store.Create(ctx, s))
	require.NotZero(t, s.ID)

	got, err := store.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, *s, *got)

	s.Marks = 0
	s.Age = 0
	require.NoError(t, store.Update(ctx, s))
	got, err = store.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Marks)
	assert.Equal(t, 0, got.Age)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.FindByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStudentStore_MissingRecords(t *testing.T) {
	store := database.NewStudentStore(testutils.NewTestDB(t))
	ctx := context.Background()

	_, err := store.FindByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Update(ctx, &domain.Student{ID: 42, Name: "x", Course: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Delete(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var dbErr *database.DBError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "delete student", dbErr.Op())
}

func TestStudentStore_Search(t *testing.T) {
	store := database.NewStudentStore(testutils.NewTestDB(t))
	ctx := context.Background()
	seedStudents(t, store,
		domain.Student{Name: "Alice", Course: "Physics", Marks: 90, Age: 20},
		domain.Student{Name: "Bob", Course: "Mathematics", Marks: 70, Age: 18},
		domain.Student{Name: "Carol", Course: "Applied Math", Marks: 80, Age: 19},
		domain.Student{Name: "100%_Dave", Course: "Art", Marks: 50, Age: 22},
	)

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"Alice", "Bob", "Carol", "100%_Dave"}},
		{"math", []string{"Bob", "Carol"}},
		{"ALICE", []string{"Alice"}},
		{"ar", []string{"Carol", "100%_Dave"}},
		{"%", []string{"100%_Dave"}},
		{"_", []string{"100%_Dave"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("search %q", tt.search), func(t *testing.T) {
			students, err := store.List(ctx, domain.StudentQuery{Search: tt.search})
			require.NoError(t, err)

			var names []string
			for _, s := range students {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.want, names)

			total, err := store.Count(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestStudentStore_ListPaging(t *testing.T) {
	store := database.NewStudentStore(testutils.NewTestDB(t))
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		seedStudents(t, store, domain.Student{Name: fmt.Sprintf("S%02d", i), Course: "C", Marks: i, Age: 18})
	}

	page, err := store.List(ctx, domain.StudentQuery{Limit: 10, Offset: 10})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "S11", page[0].Name)
	assert.Equal(t, "S12", page[1].Name)

	all, err := store.List(ctx, domain.StudentQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 12)
}
