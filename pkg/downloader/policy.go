package downloader

// CreatePolicy says what to do when the output directory is missing.
type CreatePolicy string

const (
	// CreateAlways creates the directory without asking.
	CreateAlways CreatePolicy = "always"
	// CreateNever fails the run when the directory is missing.
	CreateNever CreatePolicy = "never"
	// CreateAsk asks the operator for permission first.
	CreateAsk CreatePolicy = "ask"
)

func (p CreatePolicy) valid() bool {
	switch p {
	case CreateAlways, CreateNever, CreateAsk:
		return true
	}
	return false
}

// OverwritePolicy says what to do when a target file already exists.
type OverwritePolicy string

const (
	// OverwriteAlways replaces existing files without asking.
	OverwriteAlways OverwritePolicy = "always"
	// OverwriteNever skips existing files without asking.
	OverwriteNever OverwritePolicy = "never"
	// OverwriteAsk asks per conflict, where "always" and "never"
	// answers stick for the rest of the run.
	OverwriteAsk OverwritePolicy = "ask"
)

func (p OverwritePolicy) valid() bool {
	switch p {
	case OverwriteAlways, OverwriteNever, OverwriteAsk:
		return true
	}
	return false
}

// Outcome classifies what happened to one URL of the batch.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)
