// Package domain contains core concepts of the chat server: the wire command
// grammar, user identity, name validation, and event formatting.
// No runtime, network, or storage logic should be added here.
package domain

import "strings"

type CommandKind int

const (
	Help CommandKind = iota
	Exit
	List
	Me
	Leave
	SetUsername
	CreateRoom
	JoinRoom
	Message
	Invalid
)

// Command is one parsed client line. Arg holds the command argument or, for
// Message, the raw chat text.
type Command struct {
	Kind CommandKind
	Arg  string
}

const commandPrefix = ">"

const (
	verbHelp        = ">help"
	verbExit        = ">exit"
	verbList        = ">list"
	verbMe          = ">me"
	verbLeave       = ">leave"
	verbSetUsername = ">set-username"
	verbCreateRoom  = ">create-room"
	verbJoinRoom    = ">join-room"
)

// ParseCommand splits one wire line into a Command. Lines without the command
// prefix are chat messages. Prefixed lines that match no verb are Invalid.
func ParseCommand(line string) Command {
	if !strings.HasPrefix(line, commandPrefix) {
		return Command{Kind: Message, Arg: line}
	}

	switch line {
	case verbHelp:
		return Command{Kind: Help}
	case verbExit:
		return Command{Kind: Exit}
	case verbList:
		return Command{Kind: List}
	case verbMe:
		return Command{Kind: Me}
	case verbLeave:
		return Command{Kind: Leave}
	}

	verb, rest, found := strings.Cut(line, " ")
	if !found {
		return Command{Kind: Invalid}
	}

	switch verb {
	case verbSetUsername:
		return Command{Kind: SetUsername, Arg: rest}
	case verbCreateRoom:
		return Command{Kind: CreateRoom, Arg: rest}
	case verbJoinRoom:
		return Command{Kind: JoinRoom, Arg: rest}
	default:
		return Command{Kind: Invalid}
	}
}
