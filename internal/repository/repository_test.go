package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single pooled connection keeps the in-memory database shared and
	// serialises concurrent writers the way a real store would.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Challenge{}, &models.Submission{}))
	return db
}

func TestSubmissionRepositoryCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	submission := models.Submission{UserID: 1, ChallengeID: 2, Code: "print('hi')", Status: models.SubmissionStatusSubmitted}
	require.NoError(t, repo.Create(context.Background(), &submission))
	require.NotZero(t, submission.ID)

	stored, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, stored.Status)
	require.Nil(t, stored.Score)
	require.Nil(t, stored.AssessedAt)
}

func TestSubmissionRepositoryGetMissingReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionRepositoryListByUserOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	for i := 0; i < 3; i++ {
		submission := models.Submission{UserID: 7, ChallengeID: 1, Code: "x", Status: models.SubmissionStatusSubmitted}
		require.NoError(t, repo.Create(context.Background(), &submission))
	}
	other := models.Submission{UserID: 8, ChallengeID: 1, Code: "y", Status: models.SubmissionStatusSubmitted}
	require.NoError(t, repo.Create(context.Background(), &other))

	submissions, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, submissions, 3)
	for _, submission := range submissions {
		require.Equal(t, uint(7), submission.UserID)
	}
}

func TestChallengeRepositoryListFiltersByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChallengeRepository(db)

	backend := models.Challenge{Title: "Rate Limiter", Category: "backend", Difficulty: "medium"}
	frontend := models.Challenge{Title: "Autocomplete", Category: "frontend", Difficulty: "easy"}
	require.NoError(t, repo.Create(context.Background(), &backend))
	require.NoError(t, repo.Create(context.Background(), &frontend))

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := repo.List(context.Background(), " backend ")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Rate Limiter", filtered[0].Title)
}

func TestChallengeRepositoryListMatchesCategoryAnyCase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChallengeRepository(db)

	challenge := models.Challenge{Title: "LRU Cache", Category: "Algorithms", Difficulty: "hard"}
	require.NoError(t, repo.Create(context.Background(), &challenge))

	filtered, err := repo.List(context.Background(), "algorithms")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "LRU Cache", filtered[0].Title)
}

func TestUserRepositoryUpdateSkillsReplacesList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, repo.Create(context.Background(), &user))

	updated, err := repo.UpdateSkills(context.Background(), user.ID, []string{"go", "sql"})
	require.NoError(t, err)
	require.Equal(t, []string{"go", "sql"}, []string(updated.Skills))

	updated, err = repo.UpdateSkills(context.Background(), user.ID, []string{"rust"})
	require.NoError(t, err)
	require.Equal(t, []string{"rust"}, []string(updated.Skills))
}

func TestUserRepositoryUpdateSkillsMissingUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.UpdateSkills(context.Background(), 99, []string{"go"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCounterIncrementsDoNotLoseUpdates(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	challenges := NewChallengeRepository(db)

	user := models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, users.Create(context.Background(), &user))
	challenge := models.Challenge{Title: "Reverse a String", Category: "algorithms"}
	require.NoError(t, challenges.Create(context.Background(), &challenge))

	const workers = 20
	errs := make(chan error, workers*2)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			errs <- users.IncrementCompletedChallenges(context.Background(), user.ID)
			errs <- challenges.IncrementCompletions(context.Background(), challenge.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	storedUser, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(workers), storedUser.CompletedChallenges)

	storedChallenge, err := challenges.GetByID(context.Background(), challenge.ID)
	require.NoError(t, err)
	require.Equal(t, int64(workers), storedChallenge.Completions)
}
