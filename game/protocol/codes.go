package protocol

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by error messages. The set is closed; transports must
// not invent codes outside it.
const (
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeFull               = "FULL"
	CodeNotInGame          = "NOT_IN_GAME"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeBadPit             = "BAD_PIT"
	CodeBadSide            = "BAD_SIDE"
	CodeIllegal            = "ILLEGAL"
	CodeEnded              = "ENDED"
	CodeWaitingForOpponent = "WAITING_FOR_OPPONENT"
	CodeRateLimit          = "RATE_LIMIT"
	CodeBadJSON            = "BAD_JSON"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodePlayerBusy         = "PLAYER_BUSY"
	CodeNotInLobby         = "NOT_IN_LOBBY"
	CodeInvitationNotFound = "INVITATION_NOT_FOUND"
	CodeNotInvited         = "NOT_INVITED"
	CodeEngineErr          = "ENGINE_ERR"
	CodeUnknown            = "UNKNOWN"
)

// Error is an error value carrying a protocol code. Domain packages declare
// their sentinel errors as *Error so transports can recover the code with
// errors.As instead of matching message strings.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a code-carrying error.
func NewError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the protocol code from err, unwrapping as needed. Errors
// without a code map to UNKNOWN.
func CodeOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}

// ErrorMessage builds the error envelope sent to clients.
func ErrorMessage(code, message string) ServerMessage {
	return ServerMessage{Type: TypeError, Code: code, Message: message}
}

// ErrorMessageFor builds the error envelope for a domain error.
func ErrorMessageFor(err error) ServerMessage {
	var pe *Error
	if errors.As(err, &pe) {
		return ErrorMessage(pe.Code, pe.Message)
	}
	return ErrorMessage(CodeUnknown, err.Error())
}

// HTTPStatus maps a protocol code to the status used by the REST API.
func HTTPStatus(code string) int {
	switch code {
	case CodeGameNotFound, CodePlayerNotFound, CodeInvitationNotFound:
		return http.StatusNotFound
	case CodeBadPit, CodeBadJSON:
		return http.StatusBadRequest
	case CodeFull, CodePlayerBusy, CodeNotYourTurn, CodeBadSide, CodeIllegal,
		CodeEnded, CodeWaitingForOpponent, CodeNotInGame, CodeNotInLobby,
		CodeNotInvited:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
