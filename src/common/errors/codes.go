package errors

// Process exit statuses
const (
	ExitFailure = 1
	ExitConfig  = 2
	ExitTool    = 3
)

// Common error codes used across domains
const (
	CodeNotFound = Code("not_found")
	CodeInvalid  = Code("invalid")
	CodeFailed   = Code("failed")
	CodeInternal = Code("internal_error")
)

// ============================================================================
// Tool and Command Errors
// ============================================================================

var (
	// ErrToolMissing is returned when a required binary is not on PATH
	ErrToolMissing = New(DomainTool, CodeNotFound, ExitTool,
		"Required tool is not installed")

	// ErrCommandFailed is returned when a spawned process exits non-zero
	ErrCommandFailed = New(DomainCommand, CodeFailed, ExitFailure,
		"Command failed")

	// ErrCommandSpawn is returned when a process cannot be started
	ErrCommandSpawn = New(DomainCommand, "spawn_failed", ExitFailure,
		"Failed to start command")

	// ErrSudoUnavailable is returned when a privileged command cannot get credentials without a terminal
	ErrSudoUnavailable = New(DomainCommand, "sudo_unavailable", ExitFailure,
		"sudo requires a password but no terminal is attached")
)

// ============================================================================
// Source Acquisition Errors
// ============================================================================

var (
	// ErrDownloadFailed is returned when fetching the upstream tarball fails
	ErrDownloadFailed = New(DomainSource, "download_failed", ExitFailure,
		"Failed to download tarball")

	// ErrCopyFailed is returned when copying a local tarball fails
	ErrCopyFailed = New(DomainSource, "copy_failed", ExitFailure,
		"Failed to copy tarball")

	// ErrTarballFailed is returned when creating a source tarball fails
	ErrTarballFailed = New(DomainSource, "tarball_failed", ExitFailure,
		"Failed to create source tarball")

	// ErrGitLFSMissing is returned when git-lfs is not installed
	ErrGitLFSMissing = New(DomainGit, "lfs_missing", ExitTool,
		"git-lfs is not installed")

	// ErrGitClone is returned when the shallow clone of a tag fails
	ErrGitClone = New(DomainGit, "clone_failed", ExitFailure,
		"Failed to clone repository")

	// ErrGitSubmoduleInit is returned when submodule initialization fails
	ErrGitSubmoduleInit = New(DomainGit, "submodule_init_failed", ExitFailure,
		"Failed to initialize submodules")

	// ErrGitSubmoduleCheckout is returned when a pinned submodule commit cannot be checked out
	ErrGitSubmoduleCheckout = New(DomainGit, "submodule_checkout_failed", ExitFailure,
		"Failed to checkout submodule commit")

	// ErrGitCleanup is returned when preparing the cloned tree for packaging fails
	ErrGitCleanup = New(DomainGit, "cleanup_failed", ExitFailure,
		"Failed to prepare cloned tree")
)

// ============================================================================
// Checksum and Archive Errors
// ============================================================================

var (
	// ErrChecksumRead is returned when the tarball cannot be opened or read
	ErrChecksumRead = New(DomainChecksum, "read_failed", ExitFailure,
		"Cannot open or read tarball")

	// ErrChecksumMismatch is returned when neither SHA-512 nor SHA-256 matches
	ErrChecksumMismatch = New(DomainChecksum, "mismatch", ExitFailure,
		"Tarball hash does not match")

	// ErrExtractFailed is returned when listing or extracting an archive fails
	ErrExtractFailed = New(DomainArchive, "extract_failed", ExitFailure,
		"Failed to extract tarball")
)

// ============================================================================
// Metadata and Patch Errors
// ============================================================================

var (
	// ErrSpecFileMissing is returned when the debcrafter specification file does not exist
	ErrSpecFileMissing = New(DomainMetadata, "spec_missing", ExitConfig,
		"Specification file does not exist")

	// ErrMetadataFailed is returned when debcrafter or the debian/ copy fails
	ErrMetadataFailed = New(DomainMetadata, CodeFailed, ExitFailure,
		"Failed to generate debian metadata")

	// ErrNoDebianDir is returned when debcrafter produced no output directory
	ErrNoDebianDir = New(DomainMetadata, "no_output", ExitFailure,
		"Unable to create debian dir")

	// ErrPatchFailed is returned when writing quilt bookkeeping or overlaying sources fails
	ErrPatchFailed = New(DomainPatch, CodeFailed, ExitFailure,
		"Failed to patch source tree")

	// ErrControlFile is returned when debian/control cannot be read or written
	ErrControlFile = New(DomainPatch, "control_file", ExitFailure,
		"Failed to update debian/control")

	// ErrRulesPermission is returned when debian/rules permissions cannot be read or set
	ErrRulesPermission = New(DomainPatch, "rules_permission", ExitFailure,
		"Could not get or set permission of debian/rules")
)

// ============================================================================
// Backend, Verification and Configuration Errors
// ============================================================================

var (
	// ErrBuildFailed is returned when a backend operation fails
	ErrBuildFailed = New(DomainInternal, "build_failed", ExitFailure,
		"Build failed")

	// ErrStageContext is returned when a pipeline stage is missing a required field
	ErrStageContext = New(DomainInternal, "stage_context", ExitFailure,
		"Build context is incomplete")

	// ErrWorkspace is returned when the build artifacts directory or sbuild config cannot be written
	ErrWorkspace = New(DomainInternal, "workspace_failed", ExitFailure,
		"Failed to prepare build workspace")

	// ErrVerificationFailed aggregates every mismatched or missing artifact
	ErrVerificationFailed = New(DomainVerify, CodeFailed, ExitFailure,
		"Artifact verification failed")

	// ErrInvalidCodename is returned for an unsupported distribution codename
	ErrInvalidCodename = New(DomainDistribution, "invalid_codename", ExitConfig,
		"Invalid codename")

	// ErrIncompatibleVersion is returned when the config requires a newer pkg-builder
	ErrIncompatibleVersion = New(DomainConfig, "incompatible_version", ExitConfig,
		"pkg-builder version is incompatible with the configuration")

	// ErrConfigInvalid is returned when the package configuration fails validation
	ErrConfigInvalid = New(DomainConfig, CodeInvalid, ExitConfig,
		"Invalid configuration")

	// ErrConfigNotFound is returned when no configuration file can be resolved
	ErrConfigNotFound = New(DomainConfig, CodeNotFound, ExitConfig,
		"Configuration file not found")
)
