package quiz

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE user_profile (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bio TEXT,
		location TEXT,
		age INTEGER NOT NULL DEFAULT 0,
		profile_image TEXT,
		lat REAL,
		lng REAL,
		level INTEGER NOT NULL DEFAULT 0,
		points INTEGER NOT NULL DEFAULT 0,
		visits INTEGER NOT NULL DEFAULT 0,
		streaks INTEGER NOT NULL DEFAULT 0,
		waste_grams INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE quiz_scores (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at DATETIME
	)`).Error
	require.NoError(t, err)
	return conn
}

func TestAddPointsReportsAffectedRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, db.Create(&models.UserProfile{UserID: userID, Name: "Ana", Points: 10}).Error)

	rows, err := repo.AddPoints(ctx, userID, 15)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	total, err := repo.TotalPoints(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 25, total)

	rows, err = repo.AddPoints(ctx, uuid.New(), 15)
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)
}

func TestInsertScoreAppendsEvents(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for _, score := range []int{10, 20} {
		require.NoError(t, repo.InsertScore(ctx, &models.QuizScore{
			ID:     uuid.New(),
			UserID: userID,
			Score:  score,
		}))
	}

	var count int64
	require.NoError(t, db.Model(&models.QuizScore{}).Where("user_id = ?", userID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}
