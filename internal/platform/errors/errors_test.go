package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	base := New(CodeMatchOutOfTurn, "not your turn")
	other := WithMetadata(CodeMatchOutOfTurn, "different message", map[string]string{"Player": "p1"})

	if !stderrors.Is(other, base) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(New(CodeMatchNotFound, "missing"), base) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeNotFound, "load match", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "load match" {
		t.Fatalf("expected wrapper message, got %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodePlayerNameTaken, "taken")); got != CodePlayerNameTaken {
		t.Fatalf("expected PLAYER_NAME_TAKEN, got %s", got)
	}
	wrapped := fmt.Errorf("outer: %w", New(CodeMoveInvalidHouse, "bad house"))
	if got := CodeOf(wrapped); got != CodeMoveInvalidHouse {
		t.Fatalf("expected MOVE_INVALID_HOUSE through wrapping, got %s", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN for plain error, got %s", got)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want codes.Code
	}{
		{CodePlayerNameEmpty, codes.InvalidArgument},
		{CodeMoveInvalidHouse, codes.InvalidArgument},
		{CodePlayerNotFound, codes.NotFound},
		{CodeMatchNotFound, codes.NotFound},
		{CodeNotFound, codes.NotFound},
		{CodePlayerNameTaken, codes.AlreadyExists},
		{CodeMatchNotParticipant, codes.PermissionDenied},
		{CodeMatchOutOfTurn, codes.FailedPrecondition},
		{CodeMatchAlreadyCompleted, codes.FailedPrecondition},
		{CodeMatchAlreadyCanceled, codes.FailedPrecondition},
		{CodeMatchVersionConflict, codes.Aborted},
		{CodeInternalInvariant, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range cases {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("code %s: expected %s, got %s", tc.code, tc.want, got)
		}
	}
}

func TestToGRPCStatusAttachesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeMatchOutOfTurn, "player moved out of turn", map[string]string{"MatchID": "m1"})

	st, ok := status.FromError(ToGRPCStatus(err))
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %s", st.Code())
	}

	var info *errdetails.ErrorInfo
	for _, detail := range st.Details() {
		if ei, ok := detail.(*errdetails.ErrorInfo); ok {
			info = ei
		}
	}
	if info == nil {
		t.Fatal("expected ErrorInfo detail")
	}
	if info.GetReason() != string(CodeMatchOutOfTurn) {
		t.Fatalf("expected reason %s, got %s", CodeMatchOutOfTurn, info.GetReason())
	}
	if info.GetDomain() != Domain {
		t.Fatalf("expected domain %s, got %s", Domain, info.GetDomain())
	}
	if info.GetMetadata()["MatchID"] != "m1" {
		t.Fatalf("expected MatchID metadata, got %v", info.GetMetadata())
	}
}

func TestToGRPCStatusUnknownError(t *testing.T) {
	st, ok := status.FromError(ToGRPCStatus(fmt.Errorf("boom")))
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("expected Internal for unknown errors, got %s", st.Code())
	}
}

func TestToGRPCStatusNil(t *testing.T) {
	if err := ToGRPCStatus(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
