package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

func TestAddStudent(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	err := fx.Store.AddStudent(ctx, model.Student{ID: "S3", Name: "Cam", Balance: d(999)}, []string{"C2", "C404"})
	require.NoError(t, err)

	agg := load(t, fx)
	s, ok := store.Find(agg, store.Students, "S3")
	require.True(t, ok)
	assert.True(t, s.Balance.IsZero())
	assert.Equal(t, "2024-05-15", s.CreatedAt)
	assert.Equal(t, model.StatusActive, s.Status)
	assert.Equal(t, []string{"S1", "S2"}, agg.Classes[0].StudentIDs)
	assert.Equal(t, []string{"S1", "S3"}, agg.Classes[1].StudentIDs)

	err = fx.Store.AddStudent(ctx, model.Student{ID: "S3", Name: "Again"}, nil)
	assert.True(t, model.IsDuplicateID(err))
}

func TestUpdateStudent_RenamePropagates(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	updated := model.Student{ID: "S9", Name: "Annie", Status: model.StatusActive}
	require.NoError(t, fx.Store.UpdateStudent(ctx, "S1", updated, []string{"C1", "C2"}))

	agg := load(t, fx)
	s, ok := store.Find(agg, store.Students, "S9")
	require.True(t, ok)
	assert.Equal(t, "-300", s.Balance.String(), "balance is kept")
	assert.Equal(t, "2024-01-10", s.CreatedAt)
	_, ok = store.Find(agg, store.Students, "S1")
	assert.False(t, ok)

	for _, a := range agg.Attendance {
		assert.NotEqual(t, "S1", a.StudentID)
	}
	assert.Equal(t, "S9", agg.Invoices[0].StudentID)
	assert.Equal(t, "Annie", agg.Invoices[0].StudentName)
	assert.Equal(t, "S9", agg.Transactions[0].StudentID)
	assert.Equal(t, "S9", agg.ProgressReports[0].StudentID)
	assert.ElementsMatch(t, []string{"S9", "S2"}, agg.Classes[0].StudentIDs)
	assert.Equal(t, []string{"S9"}, agg.Classes[1].StudentIDs)
}

func TestUpdateStudent_RenameWithMembershipChange(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	updated := model.Student{ID: "S9", Name: "Ann"}
	require.NoError(t, fx.Store.UpdateStudent(ctx, "S1", updated, []string{"C2"}))

	agg := load(t, fx)
	assert.Equal(t, []string{"S2"}, agg.Classes[0].StudentIDs)
	assert.Equal(t, []string{"S9"}, agg.Classes[1].StudentIDs)
	for _, c := range agg.Classes {
		assert.NotContains(t, c.StudentIDs, "S1")
	}
}

func TestUpdateStudent_Errors(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	err := fx.Store.UpdateStudent(ctx, "S1", model.Student{ID: "S2", Name: "Ann"}, nil)
	assert.True(t, model.IsDuplicateID(err))

	err = fx.Store.UpdateStudent(ctx, "S404", model.Student{ID: "S404", Name: "Nobody"}, nil)
	assert.True(t, model.IsNotFound(err))

	agg := load(t, fx)
	assert.Equal(t, []string{"S1", "S2"}, ids(agg.Students))
}

func TestDeleteStudent_Cascade(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.DeleteStudent(ctx, "S1"))

	agg := load(t, fx)
	assert.Equal(t, []string{"S2"}, ids(agg.Students))
	for _, c := range agg.Classes {
		assert.NotContains(t, c.StudentIDs, "S1")
	}
	assert.Equal(t, []string{"A2"}, ids(agg.Attendance))
	assert.Empty(t, agg.Invoices)
	assert.Empty(t, agg.ProgressReports)
	assert.Empty(t, agg.Transactions)

	assert.True(t, model.IsNotFound(fx.Store.DeleteStudent(ctx, "S1")))
}

func TestUpdateTeacher_RenameMovesPayroll(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	updated := model.Teacher{ID: "T7", Name: "Tam Nguyen", Status: model.StatusActive, SalaryType: model.SalaryPerSession, Rate: d(60)}
	require.NoError(t, fx.Store.UpdateTeacher(ctx, "T1", updated))

	agg := load(t, fx)
	assert.Equal(t, []string{"T7"}, agg.Classes[0].TeacherIDs)
	assert.Equal(t, []string{"T7"}, agg.Classes[1].TeacherIDs)
	require.Len(t, agg.Payrolls, 1)
	assert.Equal(t, "PAY-T7-2024-05", agg.Payrolls[0].ID)
	assert.Equal(t, "T7", agg.Payrolls[0].TeacherID)
	assert.Equal(t, "Tam Nguyen", agg.Payrolls[0].TeacherName)
	assert.Equal(t, "2024-01-01", agg.Teachers[0].CreatedAt)
}

func TestUpdateTeacher_DuplicateID(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)
	require.NoError(t, fx.Store.AddTeacher(ctx, model.Teacher{ID: "T2", Name: "Hoa", Rate: d(10)}))

	err := fx.Store.UpdateTeacher(ctx, "T1", model.Teacher{ID: "T2", Name: "Tam"})
	assert.True(t, model.IsDuplicateID(err))
}

func TestDeleteTeacher_Cascade(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.DeleteTeacher(ctx, "T1"))

	agg := load(t, fx)
	assert.Empty(t, agg.Teachers)
	for _, c := range agg.Classes {
		assert.Empty(t, c.TeacherIDs)
	}
	assert.Empty(t, agg.Payrolls)
}

func TestStaffLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.AddStaff(ctx, model.Staff{ID: "NV2", Name: "Lan", Role: model.RoleAccountant}))
	assert.True(t, model.IsDuplicateID(fx.Store.UpdateStaff(ctx, "NV2", model.Staff{ID: "NV1", Name: "Lan"})))
	require.NoError(t, fx.Store.UpdateStaff(ctx, "NV2", model.Staff{ID: "NV3", Name: "Lan", Role: model.RoleAccountant}))
	require.NoError(t, fx.Store.DeleteStaff(ctx, "NV1"))

	agg := load(t, fx)
	require.Equal(t, []string{"NV3"}, ids(agg.Staff))
	assert.Equal(t, "2024-05-15", agg.Staff[0].CreatedAt)
}

func TestUpdateClass_RenamePropagates(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	cls, err := store.Get(ctx, fx.Store, store.Classes, "C1")
	require.NoError(t, err)
	cls.ID = "C1-EN"
	require.NoError(t, fx.Store.UpdateClass(ctx, "C1", cls))

	agg := load(t, fx)
	assert.Equal(t, []string{"C1-EN", "C2"}, ids(agg.Classes))
	assert.Equal(t, "C1-EN", agg.Attendance[0].ClassID)
	assert.Equal(t, "C1-EN", agg.Attendance[1].ClassID)
	assert.Equal(t, "C1-EN", agg.ProgressReports[0].ClassID)
	assert.Equal(t, "C1-EN", agg.Announcements[0].ClassID)
	assert.Empty(t, agg.Announcements[1].ClassID)

	cls.ID = "C2"
	assert.True(t, model.IsDuplicateID(fx.Store.UpdateClass(ctx, "C1-EN", cls)))
}

func TestDeleteClass_Cascade(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.DeleteClass(ctx, "C1"))

	agg := load(t, fx)
	assert.Equal(t, []string{"C2"}, ids(agg.Classes))
	assert.Equal(t, []string{"A3", "A4"}, ids(agg.Attendance))
	assert.Empty(t, agg.ProgressReports)
	assert.Equal(t, []string{"ANN-2"}, ids(agg.Announcements))
}

func TestAddClass_DefaultsAndDedupe(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.AddClass(ctx, model.Class{ID: "C3", Name: "Art", StudentIDs: []string{"S2", "S2", "S404"}}))

	c, err := store.Get(ctx, fx.Store, store.Classes, "C3")
	require.NoError(t, err)
	assert.Equal(t, model.FeeMonthly, c.Fee.Type)
	assert.Equal(t, []string{"S2", "S404"}, c.StudentIDs, "dangling ids are kept")
	assert.Equal(t, []string{}, c.TeacherIDs)
}

func TestClearCollections_Students(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.ClearCollections(ctx, model.CollStudents))

	agg := load(t, fx)
	assert.Empty(t, agg.Students)
	assert.Empty(t, agg.Attendance)
	assert.Empty(t, agg.Invoices)
	assert.Empty(t, agg.ProgressReports)
	assert.Empty(t, agg.Transactions)
	for _, c := range agg.Classes {
		assert.Empty(t, c.StudentIDs)
		assert.NotEmpty(t, c.TeacherIDs)
	}
	assert.Len(t, agg.Payrolls, 1)
}

func TestClearCollections_TeachersAndClasses(t *testing.T) {
	ctx := context.Background()
	fx := newFixtureStore(t)

	require.NoError(t, fx.Store.ClearCollections(ctx, model.CollTeachers, model.CollClasses))

	agg := load(t, fx)
	assert.Empty(t, agg.Teachers)
	assert.Empty(t, agg.Payrolls)
	assert.Empty(t, agg.Classes)
	assert.Empty(t, agg.Attendance)
	assert.Empty(t, agg.ProgressReports)
	assert.Equal(t, []string{"ANN-2"}, ids(agg.Announcements))
	assert.Len(t, agg.Students, 2)
	assert.Len(t, agg.Transactions, 1)
}

func TestClearCollections_RejectsOtherCollections(t *testing.T) {
	fx := newFixtureStore(t)
	err := fx.Store.ClearCollections(context.Background(), model.CollInvoices)
	require.Error(t, err)
	assert.Len(t, load(t, fx).Invoices, 1)
}
