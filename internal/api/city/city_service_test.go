package city

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupCityServiceTest() *ServiceImpl {
	repo := NewStaticCityRepository(testLogger())
	return NewServiceImpl(repo, testLogger())
}

func TestStaticCityRepository_GetCity(t *testing.T) {
	repo := NewStaticCityRepository(testLogger())
	ctx := context.Background()

	t.Run("skardu reference data", func(t *testing.T) {
		c, err := repo.GetCity(ctx, "Skardu")
		require.NoError(t, err)
		assert.Equal(t, "Skardu", c.Name)
		assert.Equal(t, "200,000", c.Population)
		assert.Equal(t, "Balti", c.Language)
		require.Len(t, c.Trending, 3)
		assert.Equal(t, "🏞️ Shangrila Resort", c.Trending[0])
		assert.InDelta(t, 35.2979, c.Latitude, 1e-9)
		assert.InDelta(t, 75.6333, c.Longitude, 1e-9)
		assert.Equal(t, "Asia/Karachi", c.Timezone)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		c, err := repo.GetCity(ctx, "  skardu ")
		require.NoError(t, err)
		assert.Equal(t, "Skardu", c.Name)
	})

	t.Run("aliases resolve to canonical city", func(t *testing.T) {
		for alias, want := range map[string]string{
			"hunza":  "Hunza Valley",
			"swat":   "Swat Valley",
			"neelam": "Neelum Valley",
		} {
			c, err := repo.GetCity(ctx, alias)
			require.NoError(t, err)
			assert.Equal(t, want, c.Name)
		}
	})

	t.Run("unknown city", func(t *testing.T) {
		_, err := repo.GetCity(ctx, "Atlantis")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCityNotFound)
	})
}

func TestStaticCityRepository_GetAllCities(t *testing.T) {
	repo := NewStaticCityRepository(testLogger())

	cities, err := repo.GetAllCities(context.Background())
	require.NoError(t, err)
	assert.Len(t, cities, 7)

	// Every city record is complete: coordinates, timezone, facts, trending.
	for _, c := range cities {
		assert.NotEmpty(t, c.Name)
		assert.NotZero(t, c.Latitude)
		assert.NotZero(t, c.Longitude)
		assert.Equal(t, "Asia/Karachi", c.Timezone)
		assert.NotEmpty(t, c.Population)
		assert.NotEmpty(t, c.Language)
		assert.Len(t, c.Trending, 3)
	}
}

func TestCityServiceImpl_GetCity(t *testing.T) {
	service := setupCityServiceTest()

	c, err := service.GetCity(context.Background(), "Fairy Meadows")
	require.NoError(t, err)
	assert.Equal(t, "1,000", c.Population)
	assert.Equal(t, "Shina", c.Language)
	assert.Equal(t, "🏔️ Nanga Parbat Base Camp", c.Trending[0])
}
