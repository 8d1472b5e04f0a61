package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/internal/testsupport"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

func setup(t *testing.T) DBTX {
	t.Helper()
	db := testsupport.NewTestPostgres(t)
	require.NoError(t, Migrate(context.Background(), db.Tx()))
	return db.Tx()
}

func newCustomer(t *testing.T, repo *CustomerRepository, code string) *volume.Customer {
	t.Helper()
	c := &volume.Customer{
		Code:    code,
		Name:    "Test " + code,
		Area:    volume.AreaJHR,
		Sector:  volume.SectorRubberGloves,
		Segment: volume.SegmentElite,
	}
	require.NoError(t, repo.Upsert(context.Background(), c))
	return c
}

func TestCustomerRepository_UpsertAndGet(t *testing.T) {
	db := setup(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	c := newCustomer(t, repo, "TST"+uuid.NewString()[:8])
	assert.NotZero(t, c.ID)

	c.Name = "Renamed"
	c.Segment = volume.SegmentPremium
	id := c.ID
	require.NoError(t, repo.Upsert(ctx, c))
	assert.Equal(t, id, c.ID, "same code keeps the row")

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, volume.SegmentPremium, got.Segment)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, *got)

	_, err = repo.GetByID(ctx, -1)
	assert.True(t, errors.Is(err, errors.ErrCustomerNotFound))
}

func TestVolumeRepository_UpsertIsUniquePerPeriod(t *testing.T) {
	db := setup(t)
	customers := NewCustomerRepository(db)
	repo := NewVolumeRepository(db)
	ctx := context.Background()

	c := newCustomer(t, customers, "VOL"+uuid.NewString()[:8])

	rec := &volume.Record{CustomerID: c.ID, Type: volume.TypeActual, Month: 3, Year: 2025, Volume: decimal.NewFromInt(1200)}
	require.NoError(t, repo.Upsert(ctx, rec))
	again := &volume.Record{CustomerID: c.ID, Type: volume.TypeActual, Month: 3, Year: 2025, Volume: decimal.NewFromInt(1500)}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, rec.ID, again.ID)

	require.NoError(t, repo.Upsert(ctx, &volume.Record{CustomerID: c.ID, Type: volume.TypeBudget, Month: 3, Year: 2025, Volume: decimal.NewFromInt(1000)}))

	records, err := repo.List(ctx, []int64{c.ID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Volume.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, volume.TypeActual, records[0].Type)

	forYear, err := repo.ListForYear(ctx, 2025)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(forYear), 2)

	err = repo.Upsert(ctx, &volume.Record{CustomerID: c.ID, Type: "Guess", Month: 1, Year: 2025})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestChatRepository_SaveAndListRecent(t *testing.T) {
	db := setup(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	user := &chat.Message{ID: uuid.New(), Role: chat.RoleUser, Content: "glove outlook", Timestamp: base}
	answer := &chat.Message{
		ID:        uuid.New(),
		Role:      chat.RoleAssistant,
		Query:     "glove outlook",
		Content:   "answer",
		Timestamp: base.Add(time.Second),
		Sources:   []chat.Source{{Title: "T", URL: "#", PublishedDate: "Unknown date", Source: "S"}},
		Insights:  []insight.CorrelatedInsight{{ID: "insight-1", Title: "Finding", ImpactScore: -7}},
		Error:     true,
	}
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.Save(ctx, answer))
	require.NoError(t, repo.Save(ctx, answer), "duplicate save is ignored")

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, user.ID, recent[0].ID)
	assert.Nil(t, recent[0].Sources)
	assert.Equal(t, answer.ID, recent[1].ID)
	assert.Equal(t, answer.Sources, recent[1].Sources)
	assert.Equal(t, "Finding", recent[1].Insights[0].Title)
	assert.True(t, recent[1].Error)

	got, err := repo.GetByID(ctx, answer.ID)
	require.NoError(t, err)
	assert.Equal(t, -7, got.Insights[0].ImpactScore)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
