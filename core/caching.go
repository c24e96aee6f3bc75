package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// recordCacheKey derives the cache key for one repository analysis. The key
// pins every input that changes the record: the head commit, the base
// endpoint, the blob ceiling and the metric table fingerprint. A moved head
// or changed parameters read as a miss instead of serving a stale record.
func recordCacheKey(cfg *contract.Config, repoURL, headCommit string) string {
	key := fmt.Sprintf("%s:%s:%s:%d:%s",
		repoURL,
		headCommit,
		cfg.BaseRef,
		cfg.MaxBlobBytes,
		schema.TableFingerprint(),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// cachedRecord returns the cached metric record under key, or nil on any
// kind of miss. Undecodable payloads count as misses, never as errors.
func cachedRecord(stores contract.StoreManager, cfg *contract.Config, key string) *schema.Record {
	st := activeStore(stores, cfg)
	if st == nil {
		return nil
	}

	data, _, err := st.GetRecord(key)
	if err != nil {
		return nil // Cache miss
	}

	var rec schema.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	return &rec
}

// saveRecord stores a computed record best-effort. A failing store warns
// and moves on; persistence problems never fail the task that computed the
// record.
func saveRecord(stores contract.StoreManager, cfg *contract.Config, key string, rec *schema.Record) {
	st := activeStore(stores, cfg)
	if st == nil {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := st.SetRecord(key, data, time.Now().Unix()); err != nil {
		contract.LogWarn("Record cache write failed", err)
	}
}

// activeStore resolves the store handle behind the manager, or nil when
// caching is disabled or unconfigured.
func activeStore(stores contract.StoreManager, cfg *contract.Config) contract.Store {
	if stores == nil || cfg.NoCache {
		return nil
	}
	return stores.GetStore()
}
