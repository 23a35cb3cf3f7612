package storage

import (
	"testing"
	"time"

	"backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *LiteratureStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrateContentTables(db))
	return NewLiteratureStore(db)
}

func TestLiteratureCRUD(t *testing.T) {
	store := newTestStore(t)

	doc := &models.Literature{
		Title:      "750 Series Datasheet",
		DocType:    "datasheet",
		PartNumber: "750-352",
		Series:     "750",
		Keywords:   "terminal block, fieldbus",
		FileURL:    "assets/750-352.pdf",
	}
	require.NoError(t, store.CreateLiterature(doc))
	require.NotZero(t, doc.ID)

	got, err := store.GetLiterature(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "750 Series Datasheet", got.Title)

	got.Title = "750 Series Datasheet (rev B)"
	require.NoError(t, store.UpdateLiterature(got))

	require.NoError(t, store.DeleteLiterature(doc.ID))
	_, err = store.GetLiterature(doc.ID)
	assert.ErrorIs(t, err, ErrAssetNotFound)
	assert.ErrorIs(t, store.DeleteLiterature(doc.ID), ErrAssetNotFound)
}

func TestSearchLiterature(t *testing.T) {
	store := newTestStore(t)

	seed := []models.Literature{
		{Title: "750 Series Datasheet", DocType: "datasheet", PartNumber: "750-352", Series: "750"},
		{Title: "Installation Guide", DocType: "guide", Series: "750", Keywords: "din rail, mounting"},
		{Title: "2273 Connector Flyer", DocType: "flyer", PartNumber: "2273-202"},
	}
	for i := range seed {
		require.NoError(t, store.CreateLiterature(&seed[i]))
	}

	// Exact part number, case-insensitive.
	docs, err := store.SearchLiterature("750-352", "", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "750 Series Datasheet", docs[0].Title)

	// Series match returns every document in the series.
	docs, err = store.SearchLiterature("750", "", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Keyword substring.
	docs, err = store.SearchLiterature("mounting", "", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Installation Guide", docs[0].Title)

	// Doc type filter narrows the series result.
	docs, err = store.SearchLiterature("750", "guide", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Installation Guide", docs[0].Title)

	// Empty query lists everything.
	docs, err = store.SearchLiterature("", "", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestVideoSearch(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateVideo(&models.Video{Title: "Wiring walkthrough", Series: "750", VideoURL: "v/1"}))
	require.NoError(t, store.CreateVideo(&models.Video{Title: "Panel assembly", Keywords: "enclosure", VideoURL: "v/2"}))

	videos, err := store.SearchVideos("750", 0)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Wiring walkthrough", videos[0].Title)

	videos, err = store.SearchVideos("enclosure", 0)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestDownloadTokenLifecycle(t *testing.T) {
	store := newTestStore(t)

	expired := &models.DownloadToken{
		TokenID:   "tok-expired",
		AssetType: "literature",
		AssetID:   1,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	active := &models.DownloadToken{
		TokenID:   "tok-active",
		AssetType: "literature",
		AssetID:   1,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.RecordDownloadToken(expired))
	require.NoError(t, store.RecordDownloadToken(active))

	require.NoError(t, store.MarkTokenUsed("tok-active"))
	var got models.DownloadToken
	require.NoError(t, store.DB.Where("token_id = ?", "tok-active").First(&got).Error)
	require.NotNil(t, got.UsedAt)
	firstUse := *got.UsedAt

	// Second redemption keeps the original stamp.
	require.NoError(t, store.MarkTokenUsed("tok-active"))
	require.NoError(t, store.DB.Where("token_id = ?", "tok-active").First(&got).Error)
	assert.WithinDuration(t, firstUse, *got.UsedAt, time.Second)

	n, err := store.CleanupExpiredTokens()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var remaining int64
	require.NoError(t, store.DB.Model(&models.DownloadToken{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
