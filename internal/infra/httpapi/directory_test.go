package httpapi

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"tutorhub/internal/domain/profile"
	"tutorhub/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTutors(t *testing.T) {
	env := newTestEnv(t, nil)
	env.directory.On("ListTutors", mock.Anything, "math").
		Return([]*profile.TutorDetails{{ProfileID: tutorID, FullName: "Ada"}}, nil)
	env.directory.On("GetTutor", mock.Anything, studentID).Return(nil, database.ErrProfileNotFound)

	rec := env.do(t, http.MethodGet, "/api/tutors?subject=math", &student, "")
	require.Equal(t, http.StatusOK, rec.Code)
	tutors := decodeJSON[[]map[string]any](t, rec)
	require.Len(t, tutors, 1)
	assert.Equal(t, []any{}, tutors[0]["subjects"])

	rec = env.do(t, http.MethodGet, "/api/tutors/"+studentID, &student, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTutors_Update(t *testing.T) {
	env := newTestEnv(t, nil)
	in := profile.TutorDetails{ProfileID: tutorID, Subjects: []string{"Math"}, HourlyRateCents: 4500, Bio: "Hi"}
	env.directory.On("UpdateTutor", mock.Anything, tutor, in).
		Return(&profile.TutorDetails{ProfileID: tutorID, FullName: "Ada", Subjects: []string{"Math"}, HourlyRateCents: 4500, Bio: "Hi"}, nil)

	rec := env.do(t, http.MethodPut, "/api/tutors/"+tutorID, &tutor, `{"subjects":["Math"],"hourly_rate_cents":4500,"bio":"Hi"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ada", decodeJSON[map[string]any](t, rec)["full_name"])

	rec = env.do(t, http.MethodPut, "/api/tutors/"+tutorID, &tutor, `{"hourly_rate_cents":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.directory.AssertNumberOfCalls(t, "UpdateTutor", 1)
}

func TestStudents_Details(t *testing.T) {
	env := newTestEnv(t, nil)
	env.directory.On("GetStudent", mock.Anything, tutor, studentID).
		Return(&profile.StudentDetails{ProfileID: studentID, GradeLevel: sql.NullString{String: "9", Valid: true}}, nil)
	in := profile.StudentDetails{
		ProfileID:   studentID,
		GradeLevel:  sql.NullString{String: "10", Valid: true},
		ParentEmail: sql.NullString{String: "parent@example.com", Valid: true},
	}
	env.directory.On("UpdateStudent", mock.Anything, student, in).Return(&in, nil)

	rec := env.do(t, http.MethodGet, "/api/students/"+studentID, &tutor, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"profile_id":%q,"grade_level":"9","parent_email":null}`, studentID), rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/students/"+studentID, &student, `{"grade_level":"10","parent_email":"parent@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/students/"+studentID, &student, `{"parent_email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.directory.AssertNumberOfCalls(t, "UpdateStudent", 1)
}
