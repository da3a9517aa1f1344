// Package cache stores serialized enrolled-course lists. Entries are advisory;
// callers treat every error as a miss.
package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	id "coursebatch/pkg/domain"
	pkgstrings "coursebatch/pkg/platform/strings"
)

const listKeyPrefix = "enrol:list:"

// ListKey builds the cache key for one list query. Field and batch detail sets
// are normalized so their order does not matter.
func ListKey(userID id.UserID, fields, batchDetails []string, version id.APIVersion) string {
	var sig strings.Builder
	sig.WriteString(strings.Join(pkgstrings.SortedUnion(fields), ","))
	sig.WriteByte('|')
	sig.WriteString(strings.Join(pkgstrings.SortedUnion(batchDetails), ","))
	sig.WriteByte('|')
	sig.WriteString(version.String())
	return listKeyPrefix + userID.String() + ":" + strconv.FormatUint(xxhash.Sum64String(sig.String()), 16)
}
