package domain

const (
	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "fastbuild.yaml"

	// OutputDirPrefix is the prefix of per-target compiler output directories
	// created in the system temp area.
	OutputDirPrefix = "fastbuild-"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
