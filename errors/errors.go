package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrRoomNameTaken    = fmt.Errorf("room name taken")
	ErrRoomNotFound     = fmt.Errorf("room not found")
	ErrNotInRoom        = fmt.Errorf("not currently in a room")
	ErrUsernameRequired = fmt.Errorf("username required")
	ErrInvalidUsername  = fmt.Errorf("invalid username")
	ErrInvalidRoomName  = fmt.Errorf("invalid room name")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
)
