package domain

import "path/filepath"

const (
	// StateDirName is the name of the per-project state directory.
	StateDirName = ".bmake"

	// RunsDirName is the name of the run record directory inside the state directory.
	RunsDirName = "runs"

	// SettingsFileName is the name of the optional project settings file.
	SettingsFileName = "bmake.yaml"

	// DefaultTarget is the target run when none is requested.
	DefaultTarget = "all"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultScriptNames lists the script file names probed, in order, when no script is given.
var DefaultScriptNames = []string{"Bmakefile", "example.bmake"}

// DefaultStatePath returns the state directory relative to the project root.
func DefaultStatePath() string {
	return StateDirName
}

// DefaultRunsPath returns the run record directory relative to the project root.
// It joins .bmake and runs.
func DefaultRunsPath() string {
	return filepath.Join(StateDirName, RunsDirName)
}
