// Package packages shapes backend package documents into the version
// lists the browse and package pages render.
package packages

import "encoding/json"

// ListOrSingle accepts either a single JSON string or an array of
// strings and always normalizes to a list.
type ListOrSingle []string

func (list *ListOrSingle) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*list = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*list = values
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*list = ListOrSingle{value}
	return nil
}

func (list ListOrSingle) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(list))
}

// AddonKind is the content type of an addon.
type AddonKind string

const (
	AddonMod          AddonKind = "mod"
	AddonResourcePack AddonKind = "resource_pack"
	AddonDatapack     AddonKind = "datapack"
	AddonShader       AddonKind = "shader"
	AddonPlugin       AddonKind = "plugin"
	AddonBundle       AddonKind = "bundle"
)

// Relations is the structured dependency metadata of a package or one of
// its versions. Every field tolerates single-value or list form.
type Relations struct {
	Dependencies         ListOrSingle `json:"dependencies,omitempty"`
	ExplicitDependencies ListOrSingle `json:"explicit_dependencies,omitempty"`
	Conflicts            ListOrSingle `json:"conflicts,omitempty"`
	Extensions           ListOrSingle `json:"extensions,omitempty"`
	Bundled              ListOrSingle `json:"bundled,omitempty"`
	Recommendations      ListOrSingle `json:"recommendations,omitempty"`
}

// ConditionSet is the filterable attribute set declared on an addon
// version. The backend flattens it into the version record.
type ConditionSet struct {
	MinecraftVersions ListOrSingle `json:"minecraft_versions,omitempty"`
	Loaders           ListOrSingle `json:"loaders,omitempty"`
	Stability         string       `json:"stability,omitempty"`
	Features          ListOrSingle `json:"features,omitempty"`
	OperatingSystems  ListOrSingle `json:"operating_systems,omitempty"`
	Architectures     ListOrSingle `json:"architectures,omitempty"`
	Languages         ListOrSingle `json:"languages,omitempty"`
	ContentVersions   ListOrSingle `json:"content_versions,omitempty"`
}

// DeclarativeAddonVersion is one installable version record of an addon.
type DeclarativeAddonVersion struct {
	ConditionSet
	Version   string    `json:"version,omitempty"`
	URL       string    `json:"url,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Relations Relations `json:"relations,omitempty"`
}

// DeclarativeAddon is a named content unit with its version records.
type DeclarativeAddon struct {
	Kind     AddonKind                 `json:"kind"`
	Versions []DeclarativeAddonVersion `json:"versions"`
	Optional bool                      `json:"optional,omitempty"`
}

// DeclarativePackage is the structured package document returned by the
// backend for declarative (non-script) packages.
type DeclarativePackage struct {
	Addons    map[string]DeclarativeAddon `json:"addons"`
	Relations Relations                   `json:"relations,omitempty"`
}

// PackageProperties is the subset of backend package properties the
// front end consumes.
type PackageProperties struct {
	ContentVersions []string `json:"content_versions,omitempty"`
}

// PackageMeta is the display metadata of a package.
type PackageMeta struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Website     string `json:"website,omitempty"`
}
