// Package exitcode defines the process exit codes of mrfmelt.
package exitcode

const (
	Success        = 0
	UsageError     = 1 // bad flags or config
	ReadError      = 2 // input file missing or unparseable
	DBConnError    = 3
	CopyError      = 4 // COPY or output write failed
	NormalizeError = 5
	PartialSuccess = 6 // some files failed, others succeeded
)
