package packages

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/sirupsen/logrus"
	"lodestone.dev/frontend/internal/backend"
	"lodestone.dev/frontend/internal/notify"
)

// AddonRef is one (addon id, kind) contributor of a logical version.
type AddonRef struct {
	Addon string
	Kind  AddonKind
}

// PackageVersion is one logical, displayable version of a package,
// merged across the addon records that declare the same content version.
type PackageVersion struct {
	ID                string
	Name              string
	Addons            []AddonRef
	Relations         Relations
	MinecraftVersions []string
	Loaders           []string
	Stability         string
	Features          []string
	OperatingSystems  []string
	Architectures     []string
	Languages         []string
}

// UnknownVersionName is shown for version records declaring no usable
// identifier at all.
const UnknownVersionName = "Unknown"

// Reconcile merges the addon version records of a declarative document
// into logical package versions. Records sharing a content version
// collapse into one entry whose addon set accumulates the contributors;
// records without a content version always stand alone. A record
// declaring several content versions is keyed by the first one only.
// Keyed entries come first in encounter order, then unkeyed ones.
// Addons are visited in id order so the merge is deterministic.
func Reconcile(document *DeclarativePackage) []PackageVersion {
	addonIDs := make([]string, 0, len(document.Addons))
	for id := range document.Addons {
		addonIDs = append(addonIDs, id)
	}
	sort.Strings(addonIDs)

	keyed := make(map[string]*PackageVersion)
	keyedOrder := []string{}
	unkeyed := []*PackageVersion{}

	for _, addonID := range addonIDs {
		addon := document.Addons[addonID]
		contributor := AddonRef{Addon: addonID, Kind: addon.Kind}
		for _, record := range addon.Versions {
			key := ""
			if len(record.ContentVersions) > 0 {
				key = record.ContentVersions[0]
			}

			if key == "" {
				entry := versionFromRecord(record, contributor)
				unkeyed = append(unkeyed, &entry)
				continue
			}

			if existing, seen := keyed[key]; seen {
				existing.merge(record, contributor)
				continue
			}
			entry := versionFromRecord(record, contributor)
			entry.ID = key
			entry.Name = key
			keyed[key] = &entry
			keyedOrder = append(keyedOrder, key)
		}
	}

	versions := make([]PackageVersion, 0, len(keyedOrder)+len(unkeyed))
	for _, key := range keyedOrder {
		versions = append(versions, *keyed[key])
	}
	for _, entry := range unkeyed {
		versions = append(versions, *entry)
	}
	return versions
}

func versionFromRecord(record DeclarativeAddonVersion, contributor AddonRef) PackageVersion {
	name := record.Version
	if name == "" {
		name = UnknownVersionName
	}
	return PackageVersion{
		ID:                name,
		Name:              name,
		Addons:            []AddonRef{contributor},
		Relations:         record.Relations,
		MinecraftVersions: append([]string{}, record.MinecraftVersions...),
		Loaders:           append([]string{}, record.Loaders...),
		Stability:         record.Stability,
		Features:          append([]string{}, record.Features...),
		OperatingSystems:  append([]string{}, record.OperatingSystems...),
		Architectures:     append([]string{}, record.Architectures...),
		Languages:         append([]string{}, record.Languages...),
	}
}

// merge folds another contributing record into an existing logical
// version: the contributor joins the addon set and the filterable
// attribute lists are unioned. The relations of the seeding record win.
func (version *PackageVersion) merge(record DeclarativeAddonVersion, contributor AddonRef) {
	found := false
	for _, existing := range version.Addons {
		if existing == contributor {
			found = true
			break
		}
	}
	if !found {
		version.Addons = append(version.Addons, contributor)
	}
	version.MinecraftVersions = appendMissing(version.MinecraftVersions, record.MinecraftVersions)
	version.Loaders = appendMissing(version.Loaders, record.Loaders)
	version.Features = appendMissing(version.Features, record.Features)
	version.OperatingSystems = appendMissing(version.OperatingSystems, record.OperatingSystems)
	version.Architectures = appendMissing(version.Architectures, record.Architectures)
	version.Languages = appendMissing(version.Languages, record.Languages)
}

func appendMissing(existing []string, additions []string) []string {
	for _, addition := range additions {
		present := false
		for _, value := range existing {
			if value == addition {
				present = true
				break
			}
		}
		if !present {
			existing = append(existing, addition)
		}
	}
	return existing
}

// VersionSet is the outcome of loading the versions of one package.
type VersionSet struct {
	Versions []PackageVersion
	// ScriptPackage is set when the package has no declarative contents
	// and the versions were derived from its flat content version list.
	ScriptPackage bool
}

// Loader fetches package documents from the backend and reconciles them.
// It holds no state between invocations.
type Loader struct {
	invoker  backend.Invoker
	notifier *notify.Center
}

func NewLoader(invoker backend.Invoker, notifier *notify.Center) *Loader {
	return &Loader{invoker: invoker, notifier: notifier}
}

// Load returns the logical versions of a package. Every failure is
// surfaced as a single error notification and an empty set; callers must
// treat an empty set as "no versions available", never retry.
func (loader *Loader) Load(ctx context.Context, packageID string) VersionSet {
	response, err := loader.invoker.Invoke(ctx, backend.CommandGetDeclarativeContents, backend.PackageArgs{Package: packageID})
	if err != nil {
		logrus.Error("Failed to get contents of package ", packageID, ": ", err)
		loader.notifier.Error("Failed to load versions for package " + packageID)
		return VersionSet{}
	}

	var document *DeclarativePackage
	if err = json.Unmarshal(response, &document); err != nil {
		logrus.Error("Malformed contents for package ", packageID, ": ", err)
		loader.notifier.Error("Failed to load versions for package " + packageID)
		return VersionSet{}
	}

	// A null document is the backend's script-package sentinel: fall
	// back to the flat content version list from the properties.
	if document == nil {
		properties, ok := loader.properties(ctx, packageID)
		if !ok {
			return VersionSet{}
		}
		versions := make([]PackageVersion, 0, len(properties.ContentVersions))
		for _, contentVersion := range properties.ContentVersions {
			versions = append(versions, PackageVersion{ID: contentVersion, Name: contentVersion})
		}
		return VersionSet{Versions: versions, ScriptPackage: true}
	}

	return VersionSet{Versions: Reconcile(document)}
}

// Meta fetches the display metadata of a package. Failures produce an
// error notification and ok == false; the caller renders an empty page
// instead of a spinner.
func (loader *Loader) Meta(ctx context.Context, packageID string) (meta PackageMeta, ok bool) {
	response, err := loader.invoker.Invoke(ctx, backend.CommandGetPackageMeta, backend.PackageArgs{Package: packageID})
	if err == nil {
		err = json.Unmarshal(response, &meta)
	}
	if err != nil {
		logrus.Error("Failed to get metadata of package ", packageID, ": ", err)
		loader.notifier.Error("Failed to load package " + packageID)
		return PackageMeta{}, false
	}
	return meta, true
}

func (loader *Loader) properties(ctx context.Context, packageID string) (PackageProperties, bool) {
	response, err := loader.invoker.Invoke(ctx, backend.CommandGetPackageProps, backend.PackageArgs{Package: packageID})
	var properties PackageProperties
	if err == nil {
		err = json.Unmarshal(response, &properties)
	}
	if err != nil {
		logrus.Error("Failed to get properties of package ", packageID, ": ", err)
		loader.notifier.Error("Failed to load versions for package " + packageID)
		return PackageProperties{}, false
	}
	return properties, true
}
