package packages

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
)

// Filter narrows a reconciled version list the way the browse page
// filter bar does. Empty fields leave their attribute unconstrained.
type Filter struct {
	MinecraftVersions []string `json:"minecraft_versions,omitempty"`
	Loaders           []string `json:"loaders,omitempty"`
	Stability         string   `json:"stability,omitempty"`
	Features          []string `json:"features,omitempty"`
}

// ParseFilterQuery decodes a filter carried in a page URL parameter.
// Malformed payloads degrade to the empty filter instead of failing the
// page.
func ParseFilterQuery(raw string) Filter {
	if raw == "" {
		return Filter{}
	}
	var filter Filter
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		logrus.Warn("Discarding malformed version filter: ", err)
		return Filter{}
	}
	return filter
}

// Matches reports whether a version satisfies the filter. Versions that
// do not declare an attribute are unconstrained on it.
func (filter Filter) Matches(version PackageVersion) bool {
	if len(filter.MinecraftVersions) > 0 && len(version.MinecraftVersions) > 0 {
		if !anyVersionMatch(filter.MinecraftVersions, version.MinecraftVersions) {
			return false
		}
	}
	if len(filter.Loaders) > 0 && len(version.Loaders) > 0 {
		if !anyOverlap(filter.Loaders, version.Loaders) {
			return false
		}
	}
	if filter.Stability == "stable" && version.Stability == "latest" {
		return false
	}
	// A version requiring features only matches when all of them are
	// enabled in the filter.
	for _, required := range version.Features {
		if !contains(filter.Features, required) {
			return false
		}
	}
	return true
}

// Apply returns the versions matching the filter, preserving order.
func (filter Filter) Apply(versions []PackageVersion) (matched []PackageVersion) {
	for _, version := range versions {
		if filter.Matches(version) {
			matched = append(matched, version)
		}
	}
	return
}

// anyVersionMatch checks the declared minecraft versions against the
// filter entries, which may be exact strings or semver constraints such
// as ">=1.19, <1.21" or "1.20.x".
func anyVersionMatch(wanted []string, declared []string) bool {
	for _, want := range wanted {
		constraint, constraintErr := semver.NewConstraint(want)
		for _, have := range declared {
			if have == want {
				return true
			}
			if constraintErr != nil {
				continue
			}
			if parsed, err := semver.NewVersion(have); err == nil && constraint.Check(parsed) {
				return true
			}
		}
	}
	return false
}

func anyOverlap(left []string, right []string) bool {
	for _, value := range left {
		if contains(right, value) {
			return true
		}
	}
	return false
}

func contains(values []string, wanted string) bool {
	for _, value := range values {
		if value == wanted {
			return true
		}
	}
	return false
}
