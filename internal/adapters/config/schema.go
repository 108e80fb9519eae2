package config

// projectFile mirrors the YAML structure of fastbuild.yaml.
type projectFile struct {
	Root     string      `yaml:"root"`
	Build    buildDTO    `yaml:"build"`
	Compiler compilerDTO `yaml:"compiler"`

	// SupportedKinds lists the target kinds fast builds are enabled for.
	SupportedKinds []string `yaml:"supported_kinds"`

	// Targets maps labels to their kind, standing in for the build graph.
	Targets map[string]string `yaml:"targets"`
}

type buildDTO struct {
	Binary string   `yaml:"binary"`
	Flags  []string `yaml:"flags"`
}

type compilerDTO struct {
	Command  []string `yaml:"command"`
	Suffixes []string `yaml:"suffixes"`
}
