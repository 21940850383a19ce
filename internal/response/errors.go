package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrSurveyRequired         ErrCode = "SURVEY_REQUIRED"
	ErrSurveyIncomplete       ErrCode = "SURVEY_INCOMPLETE"
	ErrSessionAlreadyActive   ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrNoActiveSession        ErrCode = "NO_ACTIVE_SESSION"
	ErrSessionFinished        ErrCode = "SESSION_FINISHED"
	ErrPlaybackRequired       ErrCode = "PLAYBACK_REQUIRED"
	ErrNoSurveySets           ErrCode = "NO_SURVEY_SETS"
	ErrInsufficientSurveySets ErrCode = "INSUFFICIENT_SURVEY_SETS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrSurveyRequired:
		return "Complete the background survey before starting an exam."
	case ErrSurveyIncomplete:
		return "The background survey does not select enough topics."
	case ErrSessionAlreadyActive:
		return "An exam session is already in progress."
	case ErrNoActiveSession:
		return "No exam session is currently in progress."
	case ErrSessionFinished:
		return "This exam session has already finished."
	case ErrPlaybackRequired:
		return "Listen to the question before moving on."
	case ErrNoSurveySets:
		return "The survey selection yields no usable question sets."
	case ErrInsufficientSurveySets:
		return "The survey selection yields too few question sets to build an exam."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
