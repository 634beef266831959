package schedules

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	"github.com/ecosortapp/ecosort-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE scheduling (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE user_profile (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bio TEXT, location TEXT,
		age INTEGER NOT NULL DEFAULT 0,
		profile_image TEXT, lat REAL, lng REAL,
		level INTEGER NOT NULL DEFAULT 0,
		points INTEGER NOT NULL DEFAULT 0,
		visits INTEGER NOT NULL DEFAULT 0,
		streaks INTEGER NOT NULL DEFAULT 0,
		waste_grams INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME, updated_at DATETIME
	)`).Error
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE company_profile (
		user_id TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		location TEXT, lat REAL, lng REAL,
		contact_number TEXT, profile_image TEXT, building_image TEXT,
		visits INTEGER NOT NULL DEFAULT 0,
		price NUMERIC NOT NULL DEFAULT 0,
		created_at DATETIME, updated_at DATETIME
	)`).Error
	require.NoError(t, err)
	return conn
}

func seedSchedule(t *testing.T, db *gorm.DB, status enums.ScheduleStatus) *models.Schedule {
	t.Helper()
	schedule := &models.Schedule{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Date:      "2025-06-10",
		Time:      "09:00",
		Status:    status,
	}
	require.NoError(t, db.Create(schedule).Error)
	return schedule
}

func TestAcceptPendingGuardsOnStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	schedule := seedSchedule(t, db, enums.ScheduleStatusPending)

	rows, err := repo.AcceptPending(ctx, schedule.ID, schedule.CompanyID, schedule.UserID)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	// second transition finds zero rows
	rows, err = repo.AcceptPending(ctx, schedule.ID, schedule.CompanyID, schedule.UserID)
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)

	var saved models.Schedule
	require.NoError(t, db.First(&saved, "id = ?", schedule.ID).Error)
	require.Equal(t, enums.ScheduleStatusAccepted, saved.Status)
}

func TestAcceptPendingRequiresMatchingParties(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	schedule := seedSchedule(t, db, enums.ScheduleStatusPending)

	rows, err := repo.AcceptPending(ctx, schedule.ID, uuid.New(), schedule.UserID)
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)
}

func TestRejectPendingRecordsReasonAndDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	schedule := seedSchedule(t, db, enums.ScheduleStatusPending)

	rows, err := repo.RejectPending(ctx, schedule.ID, schedule.CompanyID, schedule.UserID,
		"truck unavailable", "2025-06-12")
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	var saved models.Schedule
	require.NoError(t, db.First(&saved, "id = ?", schedule.ID).Error)
	require.Equal(t, enums.ScheduleStatusRejected, saved.Status)
	require.NotNil(t, saved.Reason)
	require.Equal(t, "truck unavailable", *saved.Reason)
	require.Equal(t, "2025-06-12", saved.Date)
}

func TestRejectedScheduleCannotBeAccepted(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	schedule := seedSchedule(t, db, enums.ScheduleStatusRejected)

	rows, err := repo.AcceptPending(ctx, schedule.ID, schedule.CompanyID, schedule.UserID)
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)
}

func TestVisitCounters(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	require.NoError(t, db.Create(&models.UserProfile{UserID: userID, Name: "Ana"}).Error)
	require.NoError(t, db.Create(&models.CompanyProfile{UserID: companyID, CompanyName: "GreenHaul"}).Error)

	require.NoError(t, repo.IncrementUserVisits(ctx, userID))
	require.NoError(t, repo.IncrementCompanyVisits(ctx, companyID))
	require.NoError(t, repo.IncrementCompanyVisits(ctx, companyID))

	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "user_id = ?", userID).Error)
	require.Equal(t, 1, profile.Visits)

	var company models.CompanyProfile
	require.NoError(t, db.First(&company, "user_id = ?", companyID).Error)
	require.Equal(t, 2, company.Visits)
}

func TestListsOrderNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	first := &models.Schedule{
		ID: uuid.New(), CompanyID: uuid.New(), UserID: userID,
		Date: "2025-06-01", Time: "08:00", Status: enums.ScheduleStatusPending,
	}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Exec(
		"UPDATE scheduling SET created_at = '2025-06-01 08:00:00' WHERE id = ?", first.ID,
	).Error)

	second := &models.Schedule{
		ID: uuid.New(), CompanyID: uuid.New(), UserID: userID,
		Date: "2025-06-02", Time: "09:00", Status: enums.ScheduleStatusPending,
	}
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Exec(
		"UPDATE scheduling SET created_at = '2025-06-02 09:00:00' WHERE id = ?", second.ID,
	).Error)

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, second.ID, rows[0].ID)
}
