package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RespondentSurveyKey returns the cache key for a respondent's survey profile.
func (r *CacheKeyStruct) RespondentSurveyKey(respondentID int) string {
	return fmt.Sprintf("respondent:%d:survey", respondentID)
}

// RespondentActiveSessionKey returns the cache key for a respondent's
// currently active exam session ID.
func (r *CacheKeyStruct) RespondentActiveSessionKey(respondentID int) string {
	return fmt.Sprintf("respondent:%d:active_session", respondentID)
}

// SessionSequenceKey returns the cache key for a session's generated
// question sequence.
func (r *CacheKeyStruct) SessionSequenceKey(sessionID string) string {
	return fmt.Sprintf("session:%s:sequence", sessionID)
}

// SessionCheckpointKey returns the cache key for a session's progress
// checkpoint (remaining seconds, question index, recorded answers),
// written on disconnect and consumed on reconnect.
func (r *CacheKeyStruct) SessionCheckpointKey(sessionID string) string {
	return fmt.Sprintf("session:%s:checkpoint", sessionID)
}

var CacheKey = NewCacheKeyStruct()
