package store

import (
	"context"

	"github.com/roach88/tutorbook/internal/model"
)

// UpdateSettings replaces the settings singleton.
func (s *Store) UpdateSettings(ctx context.Context, settings model.Settings) error {
	return wrap("update settings", s.Update(ctx, func(agg *model.Aggregate) error {
		agg.Settings = model.Settings{}
		agg.Settings.Overlay(settings)
		model.Normalize(agg)
		return nil
	}))
}

// CompleteOnboardingStep records step as completed. Repeating a step is a
// no-op and writes nothing.
func (s *Store) CompleteOnboardingStep(ctx context.Context, step string) error {
	agg, rev, err := s.sel.Read(ctx)
	if err != nil {
		return wrap("complete onboarding step", err)
	}
	if !agg.Settings.CompleteStep(step) {
		return nil
	}
	_, err = s.sel.Write(ctx, agg, rev)
	return wrap("complete onboarding step", err)
}

// UpdatePassword sets the password of the user with the given id in the
// collection that holds logins for role.
func (s *Store) UpdatePassword(ctx context.Context, userID string, role model.UserRole, password string) error {
	return wrap("update password", s.Update(ctx, func(agg *model.Aggregate) error {
		switch role {
		case model.RoleParent:
			return setPassword(agg.Students, model.CollStudents, userID, func(st *model.Student) { st.Password = password })
		case model.RoleTeacher:
			return setPassword(agg.Teachers, model.CollTeachers, userID, func(t *model.Teacher) { t.Password = password })
		case model.RoleManager, model.RoleAccountant:
			return setPassword(agg.Staff, model.CollStaff, userID, func(st *model.Staff) { st.Password = password })
		default:
			return model.NewInvalidRoleError(role)
		}
	}))
}

func setPassword[T model.Record](items []T, coll model.Collection, id string, set func(*T)) error {
	i := indexOf(items, id)
	if i < 0 {
		return model.NewNotFoundError(coll, id)
	}
	set(&items[i])
	return nil
}
