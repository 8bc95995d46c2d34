package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

func setupScheduleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	assignments := `
CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  machine_id TEXT NOT NULL,
  project_id TEXT,
  date DATETIME NOT NULL,
  start_time TEXT,
  end_time TEXT,
  load_name TEXT,
  planned_hours REAL NOT NULL,
  actual_hours REAL,
  status TEXT NOT NULL DEFAULT 'scheduled',
  notes TEXT,
  operator_name TEXT,
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(assignments).Error)
	return db
}

func seedAssignment(t *testing.T, repo *Repository, machineID uuid.UUID, day time.Time, start *string) *models.Assignment {
	t.Helper()

	a := &models.Assignment{
		MachineID:    machineID,
		Date:         day,
		StartTime:    start,
		PlannedHours: 4,
		Status:       enums.AssignmentStatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestRepositoryCreateAssignsIDAndVersion(t *testing.T) {
	repo := NewRepository(setupScheduleTestDB(t))

	a := seedAssignment(t, repo, uuid.New(), date(2024, time.June, 3), nil)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, 1, a.Version)

	loaded, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, loaded.ID)
	assert.Equal(t, enums.AssignmentStatusScheduled, loaded.Status)
}

func TestRepositoryListWeekFiltersAndOrders(t *testing.T) {
	repo := NewRepository(setupScheduleTestDB(t))
	ctx := context.Background()
	machineID := uuid.New()
	monday := date(2024, time.June, 3)

	late := seedAssignment(t, repo, machineID, monday, strPtr("13:00"))
	early := seedAssignment(t, repo, machineID, monday, strPtr("07:00"))
	tuesday := seedAssignment(t, repo, machineID, monday.AddDate(0, 0, 1), strPtr("08:00"))
	// Outside the window on both sides.
	seedAssignment(t, repo, machineID, monday.AddDate(0, 0, -1), nil)
	seedAssignment(t, repo, machineID, monday.AddDate(0, 0, 7), nil)

	rows, err := repo.ListWeek(ctx, monday)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, early.ID, rows[0].ID)
	assert.Equal(t, late.ID, rows[1].ID)
	assert.Equal(t, tuesday.ID, rows[2].ID)
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	repo := NewRepository(setupScheduleTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateGuardsVersion(t *testing.T) {
	repo := NewRepository(setupScheduleTestDB(t))
	ctx := context.Background()

	a := seedAssignment(t, repo, uuid.New(), date(2024, time.June, 3), nil)

	a.PlannedHours = 6
	updated, err := repo.Update(ctx, a, 1)
	require.NoError(t, err)
	require.True(t, updated)
	assert.Equal(t, 2, a.Version)

	loaded, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(6), loaded.PlannedHours)
	assert.Equal(t, 2, loaded.Version)

	// A writer holding the old version loses.
	loaded.PlannedHours = 8
	updated, err = repo.Update(ctx, loaded, 1)
	require.NoError(t, err)
	assert.False(t, updated)

	unchanged, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(6), unchanged.PlannedHours)
}

func TestRepositoryUpdatePersistsClearedFields(t *testing.T) {
	repo := NewRepository(setupScheduleTestDB(t))
	ctx := context.Background()

	a := seedAssignment(t, repo, uuid.New(), date(2024, time.June, 3), strPtr("08:00"))
	a.Notes = strPtr("first op")
	_, err := repo.Update(ctx, a, 1)
	require.NoError(t, err)

	a.StartTime = nil
	a.Notes = nil
	updated, err := repo.Update(ctx, a, 2)
	require.NoError(t, err)
	require.True(t, updated)

	loaded, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.StartTime)
	assert.Nil(t, loaded.Notes)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(setupScheduleTestDB(t))
	ctx := context.Background()

	a := seedAssignment(t, repo, uuid.New(), date(2024, time.June, 3), nil)

	stale := 99
	deleted, err := repo.Delete(ctx, a.ID, &stale)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.False(t, deleted)
}
