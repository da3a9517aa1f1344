package domain

import (
	dErrors "coursebatch/pkg/domain-errors"
)

// APIVersion is the version segment of a route. The enrolled-course listing is
// served under both v1 and v2 and the version takes part in its cache key.
type APIVersion string

const (
	APIVersionV1 APIVersion = "v1"
	APIVersionV2 APIVersion = "v2"
)

var versionOrder = map[APIVersion]int{
	APIVersionV1: 1,
	APIVersionV2: 2,
}

// ParseAPIVersion validates and returns an APIVersion. An empty string yields
// the default version.
func ParseAPIVersion(s string) (APIVersion, error) {
	if s == "" {
		return DefaultVersion(), nil
	}
	v := APIVersion(s)
	if _, ok := versionOrder[v]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown API version: "+s)
	}
	return v, nil
}

func (v APIVersion) String() string {
	return string(v)
}

func (v APIVersion) IsNil() bool {
	return v == ""
}

// DefaultVersion is used when a caller reaches an unversioned route.
func DefaultVersion() APIVersion {
	return APIVersionV1
}
