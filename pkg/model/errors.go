package model

// FitError reports that a classifier could not be fitted on the given data.
type FitError struct {
	Reason string
}

func (e *FitError) Error() string { return "fit failed: " + e.Reason }
