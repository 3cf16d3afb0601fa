package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-api/internal/models"
)

func TestClassRepositoryCreateRejectsDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	first := models.Class{Name: "Math 101", Subject: "Mathematics", Code: "A1B2C3", TeacherID: 1}
	require.NoError(t, repo.Create(context.Background(), &first))

	clash := models.Class{Name: "Physics", Subject: "Physics", Code: "A1B2C3", TeacherID: 2}
	err := repo.Create(context.Background(), &clash)
	require.ErrorIs(t, err, ErrCodeTaken)
}

func TestClassRepositoryEnrollment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	student := models.User{Name: "Asha", Email: "asha@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	class := models.Class{Name: "Math 101", Subject: "Mathematics", Code: "X9Y8Z7", TeacherID: 1}
	require.NoError(t, repo.Create(context.Background(), &class))

	enrolled, err := repo.IsEnrolled(context.Background(), class.ID, student.ID)
	require.NoError(t, err)
	require.False(t, enrolled)

	require.NoError(t, repo.AddStudent(context.Background(), class.ID, student.ID))

	enrolled, err = repo.IsEnrolled(context.Background(), class.ID, student.ID)
	require.NoError(t, err)
	require.True(t, enrolled)

	classes, err := repo.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, class.ID, classes[0].ID)
}

func TestClassRepositoryGetByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	class := models.Class{Name: "Chemistry", Subject: "Science", Code: "QW12ER", TeacherID: 4}
	require.NoError(t, repo.Create(context.Background(), &class))

	found, err := repo.GetByCode(context.Background(), "QW12ER")
	require.NoError(t, err)
	require.Equal(t, class.ID, found.ID)

	_, err = repo.GetByCode(context.Background(), "NOPE00")
	require.Error(t, err)
}
