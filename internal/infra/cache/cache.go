// Package cache holds the query cache used by the class scheduler. Keys are
// invalidated after writes and whenever the realtime feed reports a change.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key families flushed when change notifications may have been missed.
const (
	ClassesPrefix       = "classes:"
	RelationshipsPrefix = "relationships:"
)

func TutorClassesKey(tutorID string) string { return ClassesPrefix + "tutor:" + tutorID }

func StudentClassesKey(studentID string) string { return ClassesPrefix + "student:" + studentID }

func RelationshipsKey(profileID string) string { return RelationshipsPrefix + profileID }

// RelationshipPairKey caches whether one tutor/student pair is active.
func RelationshipPairKey(tutorID, studentID string) string {
	return RelationshipsPrefix + "pair:" + tutorID + ":" + studentID
}

// ClassKeys are the keys touched by a change to a class of the given pair.
func ClassKeys(tutorID, studentID string) []string {
	keys := make([]string, 0, 2)
	if tutorID != "" {
		keys = append(keys, TutorClassesKey(tutorID))
	}
	if studentID != "" {
		keys = append(keys, StudentClassesKey(studentID))
	}
	return keys
}
