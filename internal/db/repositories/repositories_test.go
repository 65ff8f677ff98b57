package repositories

import (
	"context"
	"errors"
	"testing"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/testdb"
	gormModels "gabber/annotator/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProject(t *testing.T, db *gorm.DB) (*gormModels.User, *gormModels.Project) {
	t.Helper()
	ctx := context.Background()

	user := &gormModels.User{Email: "ada@example.com", PasswordHash: "x", Fullname: "Ada", Registered: true}
	require.NoError(t, NewUserRepositoryGORM(db).Create(ctx, user))

	project := &gormModels.Project{
		Title:           "Oral Histories",
		Slug:            "oral-histories",
		CreatorID:       user.ID,
		IsActive:        true,
		ConsentRequired: true,
		Codes:           []gormModels.Code{{Name: "family", IsActive: true}, {Name: "work", IsActive: true}},
		Prompts:         []gormModels.Prompt{{Text: "Childhood", CreatorID: user.ID, IsActive: true}},
	}
	require.NoError(t, NewProjectRepository(db).Create(ctx, project))
	return user, project
}

func TestUserRepository_NotFoundAndDuplicate(t *testing.T) {
	db := testdb.Open(t)
	repo := NewUserRepositoryGORM(db)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, repo.Create(ctx, &gormModels.User{Email: "a@example.com", PasswordHash: "x"}))
	err = repo.Create(ctx, &gormModels.User{Email: "a@example.com", PasswordHash: "y"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestMembershipRepository_SingleActiveRow(t *testing.T) {
	db := testdb.Open(t)
	user, project := seedProject(t, db)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	first := &gormModels.Membership{UserID: user.ID, ProjectID: project.ID, Role: constants.RoleUser, Confirmed: true}
	require.NoError(t, repo.Create(ctx, first))

	dup := &gormModels.Membership{UserID: user.ID, ProjectID: project.ID, Role: constants.RoleUser, Confirmed: true}
	err := repo.Create(ctx, dup)
	assert.True(t, errors.Is(err, ErrDuplicate), "second active row must be rejected, got %v", err)

	require.NoError(t, repo.Deactivate(ctx, first))
	second := &gormModels.Membership{UserID: user.ID, ProjectID: project.ID, Role: constants.RoleUser, Confirmed: true}
	require.NoError(t, repo.Create(ctx, second))

	history, err := repo.ListAllByUserAndProject(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	active, err := repo.GetActive(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestMembershipRepository_RoleOfIgnoresPending(t *testing.T) {
	db := testdb.Open(t)
	user, project := seedProject(t, db)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	pending := &gormModels.Membership{UserID: user.ID, ProjectID: project.ID, Role: constants.RoleStaff}
	require.NoError(t, repo.Create(ctx, pending))

	role, err := repo.RoleOf(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleNone, role)

	require.NoError(t, repo.Confirm(ctx, pending))
	role, err = repo.RoleOf(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStaff, role)

	role, err = repo.RoleOf(ctx, 0, project.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleNone, role)
}

func TestProjectRepository_ListActiveVisible(t *testing.T) {
	db := testdb.Open(t)
	user, private := seedProject(t, db)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	public := &gormModels.Project{Title: "Open", Slug: "open", CreatorID: user.ID, IsPublic: true, IsActive: true}
	require.NoError(t, repo.Create(ctx, public))

	anon, err := repo.ListActiveVisible(ctx, 0)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, public.ID, anon[0].ID)

	require.NoError(t, NewMembershipRepository(db).Create(ctx, &gormModels.Membership{
		UserID: user.ID, ProjectID: private.ID, Role: constants.RoleAdmin, Confirmed: true,
	}))
	mine, err := repo.ListActiveVisible(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	exists, err := repo.SlugExists(ctx, "open")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAnnotationRepository_CodesAndSoftDelete(t *testing.T) {
	db := testdb.Open(t)
	user, project := seedProject(t, db)
	ctx := context.Background()

	session := &gormModels.InterviewSession{ID: "s-1", ProjectID: project.ID, CreatorID: user.ID}
	require.NoError(t, NewSessionRepository(db).Create(ctx, session))

	repo := NewAnnotationRepository(db)
	a := &gormModels.Annotation{
		SessionID: session.ID, CreatorID: user.ID, Content: "great", Start: 1, End: 4, IsActive: true,
		Codes: []gormModels.Code{project.Codes[0]},
	}
	require.NoError(t, repo.Create(ctx, a))

	loaded, err := repo.GetActiveByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Codes, 1)
	assert.Equal(t, "family", loaded.Codes[0].Name)

	require.NoError(t, repo.ReplaceCodes(ctx, loaded, []gormModels.Code{project.Codes[1]}))
	loaded, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Codes, 1)
	assert.Equal(t, "work", loaded.Codes[0].Name)

	require.NoError(t, repo.SoftDelete(ctx, loaded))
	_, err = repo.GetActiveByID(ctx, a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	active, err := repo.ListActiveBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.ListAllBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPlaylistRepository_Items(t *testing.T) {
	db := testdb.Open(t)
	user, project := seedProject(t, db)
	ctx := context.Background()

	require.NoError(t, NewSessionRepository(db).Create(ctx, &gormModels.InterviewSession{ID: "s-1", ProjectID: project.ID, CreatorID: user.ID}))
	annotations := NewAnnotationRepository(db)
	ids := make([]uint, 0, 3)
	for i := 0; i < 3; i++ {
		a := &gormModels.Annotation{SessionID: "s-1", CreatorID: user.ID, Content: "x", Start: i, End: i + 1, IsActive: true}
		require.NoError(t, annotations.Create(ctx, a))
		ids = append(ids, a.ID)
	}

	repo := NewPlaylistRepository(db)
	p := &gormModels.Playlist{UserID: user.ID, Name: "Favourites", IsActive: true}
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.AddItems(ctx, p.ID, ids))

	err := repo.AddItems(ctx, p.ID, ids[:1])
	assert.True(t, errors.Is(err, ErrDuplicate))

	require.NoError(t, repo.RemoveItems(ctx, p.ID, ids[1:2]))
	items, err := repo.ListItems(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[0], items[0].AnnotationID)
	assert.Equal(t, ids[2], items[1].AnnotationID)

	loaded, err := repo.GetActiveByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "x", loaded.Items[0].Annotation.Content)
}

func TestStatsRepository_ProjectStats(t *testing.T) {
	db := testdb.Open(t)
	user, project := seedProject(t, db)
	ctx := context.Background()

	require.NoError(t, NewMembershipRepository(db).Create(ctx, &gormModels.Membership{
		UserID: user.ID, ProjectID: project.ID, Role: constants.RoleAdmin, Confirmed: true,
	}))
	require.NoError(t, NewSessionRepository(db).Create(ctx, &gormModels.InterviewSession{ID: "s-1", ProjectID: project.ID, CreatorID: user.ID}))
	require.NoError(t, NewConsentRepository(db).Create(ctx, &gormModels.Consent{
		SessionID: "s-1", UserID: user.ID, ProjectID: project.ID, Type: constants.ConsentPrivate,
	}))

	a := &gormModels.Annotation{SessionID: "s-1", CreatorID: user.ID, Content: "x", Start: 0, End: 1, IsActive: true}
	require.NoError(t, NewAnnotationRepository(db).Create(ctx, a))
	require.NoError(t, NewCommentRepository(db).Create(ctx, &gormModels.Comment{AnnotationID: a.ID, CreatorID: user.ID, Content: "y", IsActive: true}))

	stats, err := NewStatsRepository(testdb.SQLX(t, db)).ProjectStats(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Sessions)
	assert.Equal(t, int64(1), stats.Annotations)
	assert.Equal(t, int64(1), stats.Comments)
	assert.Equal(t, int64(1), stats.Members["admin"])
	assert.Equal(t, int64(1), stats.Consents["private"])
}
