package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClientMessageRoundTrip(t *testing.T) {
	pit := 0
	msg := ClientMessage{Type: TypeMove, GameID: "ab12", Pit: &pit}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded ClientMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Pit == nil || *decoded.Pit != 0 {
		t.Errorf("Expected pit 0 to survive the round trip, got %v", decoded.Pit)
	}
}

func TestPitZeroDistinguishableFromAbsent(t *testing.T) {
	var withPit, withoutPit ClientMessage
	if err := json.Unmarshal([]byte(`{"type":"move","gameId":"x","pit":0}`), &withPit); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"type":"move","gameId":"x"}`), &withoutPit); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if withPit.Pit == nil {
		t.Error("Expected pit 0 to decode as present")
	}
	if withoutPit.Pit != nil {
		t.Error("Expected missing pit to decode as nil")
	}
}

func TestMutating(t *testing.T) {
	mutating := []string{
		TypeCreate, TypeJoin, TypeMove, TypeResign,
		TypeLobbyJoin, TypeLobbyLeave, TypeLobbyChat, TypeLobbyInvite,
		TypeLobbyAcceptInvite, TypeLobbyDeclineInvite, TypeLobbyStatus,
	}
	for _, kind := range mutating {
		if !Mutating(kind) {
			t.Errorf("Expected %q to be mutating", kind)
		}
	}
	for _, kind := range []string{TypePing, "nonsense", ""} {
		if Mutating(kind) {
			t.Errorf("Expected %q to be exempt", kind)
		}
	}
}

func TestErrorCode(t *testing.T) {
	base := NewError(CodeNotYourTurn, "player %s is not to move", "B")

	if base.Error() != "NOT_YOUR_TURN: player B is not to move" {
		t.Errorf("Unexpected error text %q", base.Error())
	}
	if CodeOf(base) != CodeNotYourTurn {
		t.Errorf("Expected NOT_YOUR_TURN, got %s", CodeOf(base))
	}

	wrapped := fmt.Errorf("handling move: %w", base)
	if CodeOf(wrapped) != CodeNotYourTurn {
		t.Errorf("Expected the code to survive wrapping, got %s", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != CodeUnknown {
		t.Errorf("Expected UNKNOWN for plain errors, got %s", CodeOf(errors.New("plain")))
	}
}

func TestErrorMessageFor(t *testing.T) {
	msg := ErrorMessageFor(NewError(CodeRateLimit, "slow down"))
	if msg.Type != TypeError || msg.Code != CodeRateLimit || msg.Message != "slow down" {
		t.Errorf("Unexpected envelope %+v", msg)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeGameNotFound, http.StatusNotFound},
		{CodePlayerNotFound, http.StatusNotFound},
		{CodeBadPit, http.StatusBadRequest},
		{CodeFull, http.StatusConflict},
		{CodeNotYourTurn, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeEngineErr, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("Expected %d for %s, got %d", tt.want, tt.code, got)
		}
	}
}

func TestValidUserStatus(t *testing.T) {
	for _, s := range []string{StatusAvailable, StatusBusy, StatusAway} {
		if !ValidUserStatus(s) {
			t.Errorf("Expected %q to be settable", s)
		}
	}
	if ValidUserStatus(StatusInGame) {
		t.Error("Expected in-game to be server managed only")
	}
	if ValidUserStatus("sleeping") {
		t.Error("Expected unknown statuses to be rejected")
	}
}
