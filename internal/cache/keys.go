package cache

import "fmt"

// UserIDKey is the cache key for a user looked up by numeric id.
func UserIDKey(id int64) string {
	return fmt.Sprintf("user:id:%d", id)
}

// UserUIDKey is the cache key for a user looked up by identity uid.
func UserUIDKey(uid string) string {
	return "user:uid:" + uid
}

// RevokedSessionKey marks a revoked session token id.
func RevokedSessionKey(jti string) string {
	return "session:revoked:" + jti
}
