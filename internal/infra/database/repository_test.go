package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/message"
	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"
	"tutorhub/internal/domain/relationship"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var classCols = []string{"id", "tutor_id", "student_id", "title", "subject", "start_time", "end_time", "status", "notes", "reminder_sent", "created_at", "updated_at"}

func TestClassRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	e := &class.Event{
		ID: "c1", TutorID: "t1", StudentID: "s1", Title: "Algebra", Subject: "math",
		StartTime: now, EndTime: now.Add(time.Hour), Status: class.StatusScheduled,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO class_logs")).
		WithArgs("c1", "t1", "s1", "Algebra", "math", now, now.Add(time.Hour), class.StatusScheduled, sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, now, e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepository_Create_UnknownProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO class_logs")).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), &class.Event{ID: "c1"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestClassRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_logs WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestClassRepository_Update_WritesStudent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)
	start := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)
	updated := start.Add(-time.Hour)

	e := &class.Event{
		ID: "c1", TutorID: "t1", StudentID: "s-new", Title: "Geometry", Subject: "math",
		StartTime: start, EndTime: start.Add(time.Hour), Status: class.StatusScheduled,
	}

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE class_logs")).
		WithArgs("s-new", "Geometry", "math", start, start.Add(time.Hour), class.StatusScheduled, sqlmock.AnyArg(), false, "c1").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	require.NoError(t, repo.Update(context.Background(), e))
	assert.Equal(t, updated, e.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepository_Update_Errors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE class_logs")).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE class_logs")).WillReturnError(&pq.Error{Code: "23503"})

	assert.ErrorIs(t, repo.Update(context.Background(), &class.Event{ID: "missing"}), ErrClassNotFound)
	assert.ErrorIs(t, repo.Update(context.Background(), &class.Event{ID: "c1", StudentID: "ghost"}), ErrProfileNotFound)
}

func TestClassRepository_List_BuildsFilter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE tutor_id = $1 AND start_time >= $2 AND start_time < $3 ORDER BY start_time")).
		WithArgs("t1", from, to).
		WillReturnRows(sqlmock.NewRows(classCols).
			AddRow("c1", "t1", "s1", "Algebra", "math", from, from.Add(time.Hour), "scheduled", nil, false, from, from).
			AddRow("c2", "t1", "s2", "Physics", "science", from.Add(2*time.Hour), from.Add(3*time.Hour), "completed", "went well", true, from, from))

	events, err := repo.List(context.Background(), class.Filter{TutorID: "t1", From: from, To: to})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, class.StatusCompleted, events[1].Status)
	assert.Equal(t, "went well", events[1].Notes.String)
	assert.False(t, events[0].Notes.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepository_List_NoFilter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_logs ORDER BY start_time")).
		WillReturnRows(sqlmock.NewRows(classCols))

	events, err := repo.List(context.Background(), class.Filter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClassRepository_HasOverlap(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("t1", start, start.Add(time.Hour), "c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overlap, err := repo.HasOverlap(context.Background(), "t1", start, start.Add(time.Hour), "c1")
	require.NoError(t, err)
	assert.True(t, overlap)
}

func TestClassRepository_ClaimUpcoming(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)
	from := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SET reminder_sent = TRUE")).
		WithArgs(from, from.Add(time.Hour)).
		WillReturnRows(sqlmock.NewRows(classCols).
			AddRow("c1", "t1", "s1", "Algebra", "math", from.Add(30*time.Minute), from.Add(90*time.Minute), "scheduled", nil, true, from, from))

	events, err := repo.ClaimUpcoming(context.Background(), from, from.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].ReminderSent)
}

func TestClassRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_logs")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "c1"), ErrClassNotFound)
}

func TestProfileRepository_PromoteToAdmin(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "success"},
		{name: "missing profile", dbErr: &pq.Error{Code: "P0002"}, wantErr: ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresProfileRepository(db)

			exp := mock.ExpectExec(regexp.QuoteMeta("SELECT promote_user_to_admin($1)")).WithArgs("p1")
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.PromoteToAdmin(context.Background(), "p1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfileRepository_SetTelegramChatID_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET telegram_chat_id")).
		WithArgs(int64(42), "p1").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "profiles_telegram_chat_id_key"})

	assert.ErrorIs(t, repo.SetTelegramChatID(context.Background(), "p1", 42), ErrDuplicateTelegramChat)
}

func TestRelationshipRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRelationshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tutor_student_relationships")).
		WithArgs("r1", "t1", "s1", true).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tutor_student_pair_unique"})

	err := repo.Create(context.Background(), &relationship.Relationship{ID: "r1", TutorID: "t1", StudentID: "s1", Active: true})
	assert.ErrorIs(t, err, ErrDuplicateRelationship)
}

func TestNotificationRepository_BulkCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresNotificationRepository(db)
	now := time.Now()

	ns := []*notification.Notification{
		{ID: "n1", UserID: "t1", Type: notification.TypeClassReminder, Title: "Upcoming class", Message: "m"},
		{ID: "n2", UserID: "s1", Type: notification.TypeClassReminder, Title: "Upcoming class", Message: "m"},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO notifications"))
	prep.ExpectQuery().WithArgs("n1", "t1", notification.TypeClassReminder, "Upcoming class", "m", sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	prep.ExpectQuery().WithArgs("n2", "s1", notification.TypeClassReminder, "Upcoming class", "m", sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	require.NoError(t, repo.BulkCreate(context.Background(), ns))
	assert.Equal(t, now, ns[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_BulkCreate_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresNotificationRepository(db)

	assert.NoError(t, repo.BulkCreate(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead_NotOwned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2")).
		WithArgs("n1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkRead(context.Background(), "someone-else", "n1"), ErrNotificationNotFound)
}

func TestBackupRepository_ExportTable(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBackupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "class_logs" t`)).
		WillReturnRows(sqlmock.NewRows([]string{"json_agg"}).AddRow([]byte(`[{"id":"c1"}]`)))

	raw, err := repo.ExportTable(context.Background(), "class_logs")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"c1"}]`, string(raw))
}

func TestBackupRepository_ExportTable_RejectsUnknownTable(t *testing.T) {
	db, _ := newMock(t)
	repo := NewPostgresBackupRepository(db)

	_, err := repo.ExportTable(context.Background(), "pg_shadow")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestMessageRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO messages`)).
		WithArgs("m1", "t1", "s1", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	m := &message.Message{ID: "m1", SenderID: "t1", RecipientID: "s1", Body: "hello"}
	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, created, m.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_Create_UnknownRecipient(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO messages`)).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), &message.Message{ID: "m1", SenderID: "t1", RecipientID: "ghost", Body: "hi"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestMessageRepository_ListBetween(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db)
	before := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := before.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`AND created_at < $3 ORDER BY created_at DESC LIMIT $4`)).
		WithArgs("t1", "s1", before, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "recipient_id", "body", "read_at", "created_at"}).
			AddRow("m2", "s1", "t1", "thanks", nil, at).
			AddRow("m1", "t1", "s1", "hello", at, at.Add(-time.Minute)))

	msgs, err := repo.ListBetween(context.Background(), "t1", "s1", message.Page{Before: before, Limit: 20})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.False(t, msgs[0].ReadAt.Valid)
	assert.True(t, msgs[1].ReadAt.Valid)
}

func TestMessageRepository_ListBetween_NoCursor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $3`)).
		WithArgs("t1", "s1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "recipient_id", "body", "read_at", "created_at"}))

	msgs, err := repo.ListBetween(context.Background(), "t1", "s1", message.Page{Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageRepository_MarkReadAndUnread(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE messages SET read_at = NOW()`)).
		WithArgs("s1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`GROUP BY sender_id`)).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"sender_id", "count"}).AddRow("t1", 2).AddRow("t2", 1))

	n, err := repo.MarkRead(context.Background(), "s1", "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	counts, err := repo.UnreadBySender(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"t1": 2, "t2": 1}, counts)
}

var tutorCols = []string{"profile_id", "full_name", "subjects", "hourly_rate_cents", "bio"}

func TestDirectoryRepository_GetTutor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.profile_id = $1`)).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(tutorCols).AddRow("t1", "Ada Tutor", "{math,physics}", 4500, "Ten years"))

	d, err := repo.GetTutor(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, &profile.TutorDetails{
		ProfileID:       "t1",
		FullName:        "Ada Tutor",
		Subjects:        []string{"math", "physics"},
		HourlyRateCents: 4500,
		Bio:             "Ten years",
	}, d)
}

func TestDirectoryRepository_GetTutor_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tutors t`)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetTutor(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrTutorDetailsNotFound)
}

func TestDirectoryRepository_ListTutors_BySubject(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`unnest(t.subjects)`)).
		WithArgs("Math").
		WillReturnRows(sqlmock.NewRows(tutorCols).AddRow("t1", "Ada Tutor", "{math}", 4500, ""))

	tutors, err := repo.ListTutors(context.Background(), "Math")
	require.NoError(t, err)
	require.Len(t, tutors, 1)
	assert.Equal(t, []string{"math"}, tutors[0].Subjects)
}

func TestDirectoryRepository_UpsertTutor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresDirectoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (profile_id) DO UPDATE`)).
		WithArgs("t1", sqlmock.AnyArg(), 5000, "bio").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertTutor(context.Background(), &profile.TutorDetails{ProfileID: "t1", Subjects: []string{"math"}, HourlyRateCents: 5000, Bio: "bio"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepository_Student(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM students WHERE profile_id = $1`)).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"profile_id", "grade_level", "parent_email"}).AddRow("s1", "10", nil))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO students`)).
		WillReturnError(&pq.Error{Code: "23503"})

	d, err := repo.GetStudent(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "10", d.GradeLevel.String)
	assert.False(t, d.ParentEmail.Valid)

	err = repo.UpsertStudent(context.Background(), &profile.StudentDetails{ProfileID: "ghost"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
