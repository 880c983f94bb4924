package manifest

// ChangeSpec declares one state change in a manifest. Type selects the
// changer: "brew.package" and "file.content" are parameterized builtins,
// any other value is resolved against the changer registry.
type ChangeSpec struct {
	// Type is the changer type or registry name.
	Type string `json:"type" yaml:"type" validate:"required"`

	// Package is the Homebrew package name (brew.package only).
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Path is the managed file path (file.content only).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Contents is the managed file contents (file.content only).
	Contents string `json:"contents,omitempty" yaml:"contents,omitempty"`
}

// Manifest is a declarative, ordered list of state changes. Order is
// significant: changes that establish preconditions for later ones must
// come first, devrig performs no dependency resolution.
type Manifest struct {
	// Name identifies the manifest in logs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Changes lists the changes in application order.
	Changes []ChangeSpec `json:"changes" yaml:"changes" validate:"required,min=1,dive"`
}
