package sitesearch

import "github.com/cockroachdb/errors"

// Kind tags the source a document was built from.
type Kind string

const (
	// KindPage is a static site page (home, about, ...).
	KindPage Kind = "page"
	// KindProject is an entry from the project catalog.
	KindProject Kind = "project"
	// KindPost is a blog post.
	KindPost Kind = "post"
	// KindSkill is one of the fixed skill entries.
	KindSkill Kind = "skill"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPage, KindProject, KindPost, KindSkill:
		return true
	default:
		return false
	}
}

// Document is one unit of searchable content.
// Documents are values; they are rebuilt on every aggregation and never mutated.
type Document struct {
	// ID is unique within a single aggregation.
	ID string `json:"id"`
	// Kind is the source tag.
	Kind Kind `json:"kind"`
	// Title is the display name and the highest-weight field.
	Title string `json:"title"`
	// Description is secondary text.
	Description string `json:"description"`
	// Tags are lowercase keywords.
	Tags []string `json:"tags,omitempty"`
	// URL is the navigation target.
	URL string `json:"url"`
}

// ScoredDocument is a Document together with the score of one ranking pass.
type ScoredDocument struct {
	Document
	Score int `json:"score"`
}

// ErrorCode represents specific error codes for search operations.
type ErrorCode int

const (
	// ErrCodeInvalidOption is returned when an invalid option is provided.
	ErrCodeInvalidOption ErrorCode = iota + 1000

	// ErrCodeInvalidExpression is returned when a filter expression cannot be applied.
	ErrCodeInvalidExpression

	// ErrCodeCanceled is returned when a search operation is canceled.
	ErrCodeCanceled

	// ErrCodeBackendUnavailable is returned when the search backend is unavailable.
	ErrCodeBackendUnavailable

	// ErrCodeTimeout is returned when a remote search exceeds its deadline.
	ErrCodeTimeout
)

// String returns the human-readable string representation of the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeInvalidOption:
		return "invalid option"
	case ErrCodeInvalidExpression:
		return "invalid expression"
	case ErrCodeCanceled:
		return "operation canceled"
	case ErrCodeBackendUnavailable:
		return "backend unavailable"
	case ErrCodeTimeout:
		return "operation timed out"
	default:
		return "unknown error"
	}
}

func newErrorWithCode(code ErrorCode, msg string) error {
	err := errors.New(msg)
	return errors.WithSecondaryError(err, errors.Newf("code: %d", int(code)))
}

// Errors returned by Searcher implementations.
var (
	// ErrInvalidOption is returned when an invalid option is provided.
	ErrInvalidOption = newErrorWithCode(ErrCodeInvalidOption, "sitesearch: invalid option")

	// ErrInvalidExpression is returned when a filter expression cannot be applied.
	ErrInvalidExpression = newErrorWithCode(ErrCodeInvalidExpression, "sitesearch: invalid expression")

	// ErrCanceled is returned when a search operation is canceled.
	ErrCanceled = newErrorWithCode(ErrCodeCanceled, "sitesearch: operation canceled")

	// ErrBackendUnavailable is returned when the search backend is unavailable.
	ErrBackendUnavailable = newErrorWithCode(ErrCodeBackendUnavailable, "sitesearch: backend unavailable")

	// ErrTimeout is returned when a remote search exceeds its deadline.
	ErrTimeout = newErrorWithCode(ErrCodeTimeout, "sitesearch: operation timed out")
)
