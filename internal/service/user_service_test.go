package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/dto"
	"github.com/skillforge/skillforge-api/internal/models"
)

type stubUserRepo struct {
	user    models.User
	missing bool
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return errors.New("not implemented")
}

func (r *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	if r.missing {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return r.user, nil
}

func (r *stubUserRepo) UpdateSkills(ctx context.Context, id uint, skills []string) (models.User, error) {
	if r.missing {
		return models.User{}, gorm.ErrRecordNotFound
	}
	r.user.Skills = datatypes.NewJSONSlice(skills)
	return r.user, nil
}

func (r *stubUserRepo) IncrementCompletedChallenges(ctx context.Context, id uint) error {
	return errors.New("not implemented")
}

func newUserService(repo *stubUserRepo) UserService {
	return NewUserService(repo, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestUserServiceUpdateSkillsTrimsAndDropsBlanks(t *testing.T) {
	repo := &stubUserRepo{user: models.User{ID: 1, Name: "Ada"}}
	svc := newUserService(repo)

	updated, err := svc.UpdateSkills(context.Background(), 1, dto.UpdateSkillsRequest{Skills: []string{" go ", "", "sql", "  "}})
	require.NoError(t, err)
	require.Equal(t, []string{"go", "sql"}, updated.Skills)
}

func TestUserServiceUpdateSkillsMissingUser(t *testing.T) {
	svc := newUserService(&stubUserRepo{missing: true})

	_, err := svc.UpdateSkills(context.Background(), 9, dto.UpdateSkillsRequest{Skills: []string{"go"}})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceGetMissingUser(t *testing.T) {
	svc := newUserService(&stubUserRepo{missing: true})

	_, err := svc.Get(context.Background(), 9)
	require.ErrorIs(t, err, ErrUserNotFound)
}
