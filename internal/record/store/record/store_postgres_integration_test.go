//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	identitymodels "ireporter/internal/identity/models"
	"ireporter/internal/identity/store/user"
	"ireporter/internal/record/models"
	"ireporter/internal/record/store/record"
	"ireporter/pkg/platform/sentinel"
	"ireporter/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	users    *user.PostgresStore
	store    *record.PostgresStore

	ownerID string
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.users = user.NewPostgresStore(s.postgres.DB)
	s.store = record.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "media", "records", "users")
	s.Require().NoError(err)

	owner := &identitymodels.User{
		PublicID:     uuid.NewString(),
		Email:        "owner@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	s.Require().NoError(s.users.Create(ctx, owner))
	s.ownerID = owner.PublicID
}

func (s *PostgresStoreSuite) newRecord(typ models.Type, title string) *models.Record {
	return &models.Record{
		PublicID:    uuid.NewString(),
		OwnerID:     s.ownerID,
		Type:        typ,
		Title:       title,
		Description: "description",
		Location:    "-1.2921, 36.8219",
		Status:      models.StatusUnderInvestigation,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := s.newRecord(models.TypeRedFlag, "Bribery")
	s.Require().NoError(s.store.Create(ctx, rec))

	found, err := s.store.FindByPublicID(ctx, rec.PublicID)
	s.Require().NoError(err)
	s.Equal(rec.OwnerID, found.OwnerID)
	s.Equal(models.TypeRedFlag, found.Type)
	s.Equal(models.StatusUnderInvestigation, found.Status)
}

func (s *PostgresStoreSuite) TestDuplicatePublicIDConflicts() {
	ctx := context.Background()
	rec := s.newRecord(models.TypeRedFlag, "Bribery")
	s.Require().NoError(s.store.Create(ctx, rec))
	s.ErrorIs(s.store.Create(ctx, rec), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestListByOwnerFiltersAndOrders() {
	ctx := context.Background()

	older := s.newRecord(models.TypeRedFlag, "Older")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	s.Require().NoError(s.store.Create(ctx, older))
	s.Require().NoError(s.store.Create(ctx, s.newRecord(models.TypeIntervention, "Bridge")))
	s.Require().NoError(s.store.Create(ctx, s.newRecord(models.TypeRedFlag, "Newer")))

	all, err := s.store.ListByOwner(ctx, s.ownerID, record.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Older", all[2].Title)

	flags, err := s.store.ListByOwner(ctx, s.ownerID, record.Filter{Type: models.TypeRedFlag})
	s.Require().NoError(err)
	s.Len(flags, 2)

	none, err := s.store.ListByOwner(ctx, uuid.NewString(), record.Filter{})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *PostgresStoreSuite) TestListAll() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newRecord(models.TypeRedFlag, "One")))
	s.Require().NoError(s.store.Create(ctx, s.newRecord(models.TypeIntervention, "Two")))

	all, err := s.store.ListAll(ctx, record.Filter{})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostgresStoreSuite) TestUpdatePersistsStatus() {
	ctx := context.Background()
	rec := s.newRecord(models.TypeRedFlag, "Bribery")
	s.Require().NoError(s.store.Create(ctx, rec))

	rec.Status = models.StatusResolved
	rec.Location = "elsewhere"
	s.Require().NoError(s.store.Update(ctx, rec))

	found, err := s.store.FindByPublicID(ctx, rec.PublicID)
	s.Require().NoError(err)
	s.Equal(models.StatusResolved, found.Status)
	s.Equal("elsewhere", found.Location)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	rec := s.newRecord(models.TypeRedFlag, "Bribery")
	s.Require().NoError(s.store.Create(ctx, rec))

	s.Require().NoError(s.store.Delete(ctx, rec.PublicID))
	_, err := s.store.FindByPublicID(ctx, rec.PublicID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, rec.PublicID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeletingOwnerCascades() {
	ctx := context.Background()
	rec := s.newRecord(models.TypeRedFlag, "Bribery")
	s.Require().NoError(s.store.Create(ctx, rec))

	s.Require().NoError(s.users.Delete(ctx, s.ownerID))

	_, err := s.store.FindByPublicID(ctx, rec.PublicID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
