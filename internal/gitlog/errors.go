package gitlog

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the stable result code reported to callers.
type Code int

const (
	CodeOK                      Code = 0
	CodeUnknownProject          Code = 1
	CodeMissingOrMalformedRange Code = 2
	CodeFromNotFound            Code = 3
	CodeToNotFound              Code = 4
	CodeAmbiguousReference      Code = 5
	CodeInternalInconsistency   Code = 6
	CodeRepositoryAccess        Code = 7
	CodeMissingProject          Code = 8
)

var descriptions = map[Code]string{
	CodeOK:                      "Success",
	CodeUnknownProject:          "Can't find repository with given name.",
	CodeMissingOrMalformedRange: "Can't parse given range.",
	CodeFromNotFound:            "Lower bound of the given range wasn't found in the repository.",
	CodeToNotFound:              "Upper bound of the given range wasn't found in the repository.",
	CodeAmbiguousReference:      "Several commits correspond to the provided reference.",
	CodeInternalInconsistency:   "Internal error: inconsistent range state.",
	CodeRepositoryAccess:        "Repository could not be read.",
	CodeMissingProject:          "No repository name given.",
}

// Description returns the fixed human-readable text for c.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return fmt.Sprintf("Unknown result code %d.", int(c))
}

// Boundary names one side of a range.
type Boundary string

const (
	BoundaryFrom Boundary = "from"
	BoundaryTo   Boundary = "to"
)

// Error is a terminal failure of one invocation.
type Error struct {
	Code       Code
	Which      Boundary
	Ref        string
	Candidates []string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(e.Code.Description(), "."))
	if e.Ref != "" {
		fmt.Fprintf(&b, ": %q", e.Ref)
	}
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&b, " (candidates: %s)", strings.Join(e.Candidates, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the result code from err. A nil error is CodeOK; errors
// that are not an [*Error] count as repository access failures.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeRepositoryAccess
}

// CandidatesOf returns the ambiguous candidates carried by err, if any.
func CandidatesOf(err error) []string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Candidates
	}
	return nil
}

func errMissingProject() error {
	return &Error{Code: CodeMissingProject}
}

func errUnknownProject(name string) error {
	return &Error{Code: CodeUnknownProject, Ref: name}
}

func errMalformedRange(text string) error {
	return &Error{Code: CodeMissingOrMalformedRange, Ref: text}
}

func errInternal(detail string) error {
	return &Error{Code: CodeInternalInconsistency, Err: errors.New(detail)}
}

func errNotFound(which Boundary, ref string) error {
	code := CodeToNotFound
	if which == BoundaryFrom {
		code = CodeFromNotFound
	}
	return &Error{Code: code, Which: which, Ref: ref}
}

func errAmbiguous(which Boundary, ref string, candidates []string) error {
	return &Error{Code: CodeAmbiguousReference, Which: which, Ref: ref, Candidates: candidates}
}

func errAccess(err error) error {
	var ge *Error
	if errors.As(err, &ge) {
		return err
	}
	return &Error{Code: CodeRepositoryAccess, Err: err}
}
