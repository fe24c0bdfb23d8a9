package cache

import (
	"encoding/json"
	"fmt"

	"github.com/traindiary/traindiary/internal/diary"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const defaultSessionsCacheExpireSeconds = 5 * 60

var _ diary.SessionsCache = (*SessionsCache)(nil)

// SessionsCache keeps reconciled session trees keyed by the query that
// produced them, so repeated diary loads with unchanged filters skip
// the view query and the reconcile pass.
type SessionsCache struct {
	mainCache     *freecache.Cache
	expireSeconds int
}

func NewSessionsCache(cacheSizeBytes int) *SessionsCache {
	return &SessionsCache{
		mainCache:     freecache.NewCache(cacheSizeBytes),
		expireSeconds: defaultSessionsCacheExpireSeconds,
	}
}

func sessionsCacheKey(q diary.SessionQuery) []byte {
	from, to := "", ""
	if q.From != nil {
		from = q.From.String()
	}
	if q.To != nil {
		to = q.To.String()
	}
	return []byte(fmt.Sprintf(
		"sessions::%s::%s::%s::%s::%t",
		q.UserID, from, to, q.FocusArea, q.CompletedOnly,
	))
}

func (c *SessionsCache) Get(q diary.SessionQuery) ([]diary.Session, bool) {
	sessionsBytes, err := c.mainCache.Get(sessionsCacheKey(q))
	if err != nil {
		// freecache returns an error on a plain miss too
		return nil, false
	}

	var sessions []diary.Session
	if err := json.Unmarshal(sessionsBytes, &sessions); err != nil {
		log.Errorf("failed to unmarshal cached sessions for user %s: %s", q.UserID, err)
		return nil, false
	}
	return sessions, true
}

func (c *SessionsCache) Set(q diary.SessionQuery, sessions []diary.Session) {
	sessionsBytes, err := json.Marshal(sessions)
	if err != nil {
		log.Errorf("failed to marshal sessions for cache, user %s: %s", q.UserID, err)
		return
	}
	if err := c.mainCache.Set(sessionsCacheKey(q), sessionsBytes, c.expireSeconds); err != nil {
		// an oversized entry is not cached, nothing else to do
		log.Tracef("failed to cache sessions for user %s: %s", q.UserID, err)
	}
}

func (c *SessionsCache) Clear() {
	c.mainCache.Clear()
}
