// Package errors provides structured, machine-readable error handling.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Player errors
	CodePlayerNameEmpty Code = "PLAYER_NAME_EMPTY"
	CodePlayerNameTaken Code = "PLAYER_NAME_TAKEN"
	CodePlayerNotFound  Code = "PLAYER_NOT_FOUND"
	CodeResultInvalid   Code = "PLAYER_RESULT_INVALID"

	// Match errors
	CodeMatchNotFound          Code = "MATCH_NOT_FOUND"
	CodeMatchNotParticipant    Code = "MATCH_NOT_PARTICIPANT"
	CodeMatchOutOfTurn         Code = "MATCH_OUT_OF_TURN"
	CodeMatchAlreadyCompleted  Code = "MATCH_ALREADY_COMPLETED"
	CodeMatchAlreadyCanceled   Code = "MATCH_ALREADY_CANCELED"
	CodeMatchInvalidTransition Code = "MATCH_INVALID_STATUS_TRANSITION"
	CodeMatchVersionConflict   Code = "MATCH_VERSION_CONFLICT"

	// Rules-engine errors
	CodeMoveInvalidHouse Code = "MOVE_INVALID_HOUSE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Invariant breaks that indicate an implementation defect, never bad input.
	CodeInternalInvariant Code = "INTERNAL_INVARIANT"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodePlayerNameEmpty,
		CodeResultInvalid,
		CodeMoveInvalidHouse:
		return codes.InvalidArgument

	// NotFound - missing entities
	case CodePlayerNotFound,
		CodeMatchNotFound,
		CodeNotFound:
		return codes.NotFound

	// AlreadyExists - uniqueness conflicts
	case CodePlayerNameTaken:
		return codes.AlreadyExists

	// PermissionDenied - requester is not allowed to act on the match
	case CodeMatchNotParticipant:
		return codes.PermissionDenied

	// FailedPrecondition - legal request, wrong state
	case CodeMatchOutOfTurn,
		CodeMatchAlreadyCompleted,
		CodeMatchAlreadyCanceled,
		CodeMatchInvalidTransition:
		return codes.FailedPrecondition

	// Aborted - optimistic concurrency conflicts, safe to retry
	case CodeMatchVersionConflict:
		return codes.Aborted

	case CodeInternalInvariant:
		return codes.Internal

	default:
		return codes.Internal
	}
}
