package services

import (
	"context"
	"testing"
	"time"

	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskServiceTest(t *testing.T) (*gorm.DB, *TaskService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := NewTaskService(taskRepo, userRepo, nil)

	return db, svc
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func boolPtr(v bool) *bool                      { return &v }
func strPtr(v string) *string                   { return &v }
func intPtr(v int) *int                         { return &v }
func catPtr(v models.Category) *models.Category { return &v }

func TestTaskService_CreateDefaultsAndTrims(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "  buy milk  "})
	require.NoError(t, err)
	require.Equal(t, "buy milk", task.Title)
	require.Equal(t, models.CategoryPersonal, task.Category)
	require.False(t, task.Done)
	require.Nil(t, task.CompletedAt)
	require.Equal(t, 0, task.Rank)
}

func TestTaskService_CreateRejectsWhitespaceTitle(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	_, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "   "})
	require.ErrorIs(t, err, ErrTitleEmpty)
}

func TestTaskService_CreateRejectsUnknownCategory(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	_, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "x", Category: "HOBBY"})
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestTaskService_CreateThenListIncludesTaskAtLastPosition(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	_, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "first"})
	require.NoError(t, err)
	created, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "second"})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ListTasksInput{OwnerID: user.ID, Done: false, Category: catPtr(models.CategoryPersonal)})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, created.ID, tasks[len(tasks)-1].ID)
}

func TestTaskService_UpdatePairsDoneWithCompletedAt(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "buy milk"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	require.NoError(t, err)
	require.True(t, updated.Done)
	require.NotNil(t, updated.CompletedAt)

	reverted, err := svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Done: boolPtr(false)})
	require.NoError(t, err)
	require.False(t, reverted.Done)
	require.Nil(t, reverted.CompletedAt)
}

func TestTaskService_UpdateSameDoneValueKeepsCompletedAt(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "buy milk"})
	require.NoError(t, err)

	first, err := svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	require.NoError(t, err)
	stamped := *first.CompletedAt

	time.Sleep(10 * time.Millisecond)

	second, err := svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	require.True(t, stamped.Equal(*second.CompletedAt))
}

func TestTaskService_UpdateIsPartial(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "buy milk", DueDate: &due})
	require.NoError(t, err)

	// Only the title changes; everything else stays.
	updated, err := svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Title: strPtr("buy oat milk")})
	require.NoError(t, err)
	require.Equal(t, "buy oat milk", updated.Title)
	require.NotNil(t, updated.DueDate)
	require.True(t, due.Equal(*updated.DueDate))
	require.False(t, updated.Done)

	// Explicit null clears the due date.
	updated, err = svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{ClearDueDate: true})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Equal(t, "buy oat milk", updated.Title)
}

func TestTaskService_UpdateRejectsEmptyTitle(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "buy milk"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Title: strPtr("   ")})
	require.ErrorIs(t, err, ErrTitleEmpty)
}

func TestTaskService_UpdateUnknownTaskNotFound(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	_, err := svc.UpdateTask(user.ID, 12345, UpdateTaskInput{Done: boolPtr(true)})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_OwnerIsolation(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	task, err := svc.CreateTask(CreateTaskInput{OwnerID: alice.ID, Title: "secret"})
	require.NoError(t, err)

	// Bob's list never contains Alice's task.
	tasks, err := svc.ListTasks(ListTasksInput{OwnerID: bob.ID, Done: false})
	require.NoError(t, err)
	require.Empty(t, tasks)

	// Updates and deletes against it behave like the task does not exist.
	_, err = svc.UpdateTask(bob.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.ErrorIs(t, svc.DeleteTask(bob.ID, task.ID), ErrTaskNotFound)

	// And the task is untouched for Alice.
	tasks, err = svc.ListTasks(ListTasksInput{OwnerID: alice.ID, Done: false})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.False(t, tasks[0].Done)
}

func TestTaskService_DoneTransitionMovesAcrossLists(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "buy milk"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	require.NoError(t, err)

	active, err := svc.ListTasks(ListTasksInput{OwnerID: user.ID, Done: false})
	require.NoError(t, err)
	require.Empty(t, active)

	completed, err := svc.ListTasks(ListTasksInput{OwnerID: user.ID, Done: true})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].CompletedAt)
}

func TestTaskService_UpdateWithOrderRepositions(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	var last *models.Task
	for _, title := range []string{"a", "b", "c"} {
		task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: title})
		require.NoError(t, err)
		last = task
	}

	moved, err := svc.UpdateTask(user.ID, last.ID, UpdateTaskInput{Order: intPtr(0)})
	require.NoError(t, err)
	require.Equal(t, 0, moved.Rank)

	tasks, err := svc.ListTasks(ListTasksInput{OwnerID: user.ID, Done: false})
	require.NoError(t, err)
	require.Equal(t, "c", tasks[0].Title)
	require.Equal(t, "a", tasks[1].Title)
	require.Equal(t, "b", tasks[2].Title)
}

func TestTaskService_UpdateAppliesFieldsAndOrderTogether(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	var last *models.Task
	for _, title := range []string{"a", "b", "c"} {
		task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: title})
		require.NoError(t, err)
		last = task
	}

	moved, err := svc.UpdateTask(user.ID, last.ID, UpdateTaskInput{
		Title: strPtr("renamed"),
		Order: intPtr(0),
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", moved.Title)
	require.Equal(t, 0, moved.Rank)

	tasks, err := svc.ListTasks(ListTasksInput{OwnerID: user.ID, Done: false})
	require.NoError(t, err)
	require.Equal(t, "renamed", tasks[0].Title)
	require.Equal(t, "a", tasks[1].Title)
	require.Equal(t, "b", tasks[2].Title)
}

func TestTaskService_CategoryChangeAppendsToNewPartition(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	_, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "w1", Category: models.CategoryWork})
	require.NoError(t, err)
	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "p1"})
	require.NoError(t, err)

	moved, err := svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Category: catPtr(models.CategoryWork)})
	require.NoError(t, err)
	require.Equal(t, models.CategoryWork, moved.Category)
	require.Equal(t, 1, moved.Rank)

	work, err := svc.ListTasks(ListTasksInput{OwnerID: user.ID, Done: false, Category: catPtr(models.CategoryWork)})
	require.NoError(t, err)
	require.Len(t, work, 2)
	require.Equal(t, "p1", work[1].Title)
}

func TestTaskService_GetAccountSummary(t *testing.T) {
	db, svc := setupTaskServiceTest(t)
	user := createUser(t, db, "alice@example.com")

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: title})
		require.NoError(t, err)
	}
	task, err := svc.CreateTask(CreateTaskInput{OwnerID: user.ID, Title: "d"})
	require.NoError(t, err)
	_, err = svc.UpdateTask(user.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	require.NoError(t, err)

	summary, err := svc.GetAccountSummary(user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", summary.Email)
	require.Equal(t, int64(3), summary.ActiveCount)
	require.Equal(t, int64(1), summary.CompletedCount)
}

func TestTaskService_SuggestWithoutAIService(t *testing.T) {
	_, svc := setupTaskServiceTest(t)

	_, err := svc.SuggestTasks(context.Background(), "plan the week")
	require.ErrorIs(t, err, ErrAIServiceNotConfigured)
}
