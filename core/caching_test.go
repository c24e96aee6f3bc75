package core

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/internal/store"
	"github.com/verdantlab/verdant/schema"
)

func TestRecordCacheKey(t *testing.T) {
	cfg := &contract.Config{MaxBlobBytes: schema.DefaultMaxBlobBytes}
	key := recordCacheKey(cfg, "https://example.com/org/repo", "abc123")

	assert.Len(t, key, 64)
	assert.Equal(t, key, recordCacheKey(cfg, "https://example.com/org/repo", "abc123"))
	assert.NotEqual(t, key, recordCacheKey(cfg, "https://example.com/org/other", "abc123"))
	assert.NotEqual(t, key, recordCacheKey(cfg, "https://example.com/org/repo", "def456"))

	bounded := &contract.Config{MaxBlobBytes: schema.DefaultMaxBlobBytes, BaseRef: "v1.0.0"}
	assert.NotEqual(t, key, recordCacheKey(bounded, "https://example.com/org/repo", "abc123"))

	smallCeiling := &contract.Config{MaxBlobBytes: 1024}
	assert.NotEqual(t, key, recordCacheKey(smallCeiling, "https://example.com/org/repo", "abc123"))
}

func TestCachedRecord(t *testing.T) {
	cfg := &contract.Config{}

	t.Run("no manager", func(t *testing.T) {
		assert.Nil(t, cachedRecord(nil, cfg, "k"))
	})

	t.Run("caching disabled", func(t *testing.T) {
		mockMgr := &store.MockStoreManager{}
		noCache := &contract.Config{NoCache: true}
		assert.Nil(t, cachedRecord(mockMgr, noCache, "k"))
		mockMgr.AssertNotCalled(t, "GetStore")
	})

	t.Run("store miss", func(t *testing.T) {
		mockStore := &store.MockStore{}
		mockStore.On("GetRecord", "k").Return(nil, int64(0), sql.ErrNoRows)
		mockMgr := &store.MockStoreManager{}
		mockMgr.On("GetStore").Return(mockStore)

		assert.Nil(t, cachedRecord(mockMgr, cfg, "k"))
		mockStore.AssertExpectations(t)
	})

	t.Run("undecodable payload is a miss", func(t *testing.T) {
		mockStore := &store.MockStore{}
		mockStore.On("GetRecord", "k").Return([]byte("not json"), int64(5), nil)
		mockMgr := &store.MockStoreManager{}
		mockMgr.On("GetStore").Return(mockStore)

		assert.Nil(t, cachedRecord(mockMgr, cfg, "k"))
		mockStore.AssertExpectations(t)
	})

	t.Run("hit", func(t *testing.T) {
		payload, err := json.Marshal(&schema.Record{RepoPath: "/r", Commits: 7})
		assert.NoError(t, err)
		mockStore := &store.MockStore{}
		mockStore.On("GetRecord", "k").Return(payload, int64(5), nil)
		mockMgr := &store.MockStoreManager{}
		mockMgr.On("GetStore").Return(mockStore)

		rec := cachedRecord(mockMgr, cfg, "k")
		assert.NotNil(t, rec)
		assert.Equal(t, 7, rec.Commits)
		mockStore.AssertExpectations(t)
	})
}

func TestSaveRecord(t *testing.T) {
	rec := &schema.Record{RepoPath: "/r", Commits: 3}

	t.Run("writes marshaled record", func(t *testing.T) {
		mockStore := &store.MockStore{}
		mockStore.On("SetRecord", "k", mock.MatchedBy(func(data []byte) bool {
			var got schema.Record
			return json.Unmarshal(data, &got) == nil && got.Commits == 3
		}), mock.AnythingOfType("int64")).Return(nil)
		mockMgr := &store.MockStoreManager{}
		mockMgr.On("GetStore").Return(mockStore)

		saveRecord(mockMgr, &contract.Config{}, "k", rec)
		mockStore.AssertExpectations(t)
	})

	t.Run("write failure does not panic", func(t *testing.T) {
		mockStore := &store.MockStore{}
		mockStore.On("SetRecord", "k", mock.Anything, mock.Anything).Return(assert.AnError)
		mockMgr := &store.MockStoreManager{}
		mockMgr.On("GetStore").Return(mockStore)

		saveRecord(mockMgr, &contract.Config{}, "k", rec)
		mockStore.AssertExpectations(t)
	})

	t.Run("caching disabled skips the store", func(t *testing.T) {
		mockMgr := &store.MockStoreManager{}
		saveRecord(mockMgr, &contract.Config{NoCache: true}, "k", rec)
		mockMgr.AssertNotCalled(t, "GetStore")
	})
}
