package repository

import "testing"

func TestValidSortKey(t *testing.T) {
	for _, key := range []string{"createdAt", "companyName", "domain", "status", "score", "lastAnalyzedAt"} {
		if !ValidSortKey(key) {
			t.Errorf("expected %q to be a valid sort key", key)
		}
	}
	for _, key := range []string{"", "created_at", "password_hash", "id; DROP TABLE leads", "unknown"} {
		if ValidSortKey(key) {
			t.Errorf("expected %q to be rejected", key)
		}
	}
}
