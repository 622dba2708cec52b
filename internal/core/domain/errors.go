package domain

import "go.trai.ch/zerr"

var (
	// ErrScriptNotFound is returned when no script file can be located.
	ErrScriptNotFound = zerr.New("script not found")

	// ErrScriptReadFailed is returned when the script file exists but cannot be read.
	ErrScriptReadFailed = zerr.New("failed to read script")

	// ErrParse is the parent of every error reported while parsing a script.
	ErrParse = zerr.New("parse error")

	// ErrUnrecognizedLine is returned for a line that is neither a comment, an assignment,
	// a target header nor a command belonging to a target.
	ErrUnrecognizedLine = zerr.Wrap(ErrParse, "unrecognized line")

	// ErrEmptyTargetName is returned for a header line such as ": dep".
	ErrEmptyTargetName = zerr.Wrap(ErrParse, "empty target name")

	// ErrEmptyVariableName is returned for an assignment such as "= value".
	ErrEmptyVariableName = zerr.Wrap(ErrParse, "empty variable name")

	// ErrUndefinedTarget is returned when a requested target or a dependency is not declared.
	ErrUndefinedTarget = zerr.New("undefined target")

	// ErrCyclicDependency is returned when the dependency graph reachable from a root contains a cycle.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrNoTargetsSpecified is returned when a plan is requested without any root target.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrUnknownPlanFormat is returned when a plan is requested in an unsupported format.
	ErrUnknownPlanFormat = zerr.New("unknown plan format")

	// ErrCommandFailed is returned when a command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command exited with non-zero status")

	// ErrCommandLaunchFailed is returned when a command cannot be started at all.
	ErrCommandLaunchFailed = zerr.New("command could not be launched")

	// ErrBuildExecutionFailed marks a run that stopped because a target failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file is not valid YAML.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrSettingsInvalid is returned when the settings file fails validation.
	ErrSettingsInvalid = zerr.New("invalid settings")

	// ErrStoreCreateFailed is returned when the run store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create run store directory")

	// ErrStoreReadFailed is returned when a run record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read run record")

	// ErrStoreUnmarshalFailed is returned when a run record cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal run record")

	// ErrStoreMarshalFailed is returned when a run record cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal run record")

	// ErrStoreWriteFailed is returned when a run record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write run record")

	// ErrTraceExportFailed is returned when the trace file cannot be created.
	ErrTraceExportFailed = zerr.New("failed to set up trace export")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch for changes")

	// ErrInvalidWatchPattern is returned when a watch pattern is not a valid glob.
	ErrInvalidWatchPattern = zerr.New("invalid watch pattern")
)
