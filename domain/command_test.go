package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		line     string
		expected Command
	}{
		{
			name:     "Plain text is a chat message",
			line:     "hello everyone",
			expected: Command{Kind: Message, Arg: "hello everyone"},
		},
		{
			name:     "Empty line is an empty chat message",
			line:     "",
			expected: Command{Kind: Message, Arg: ""},
		},
		{
			name:     "Help",
			line:     ">help",
			expected: Command{Kind: Help},
		},
		{
			name:     "Exit",
			line:     ">exit",
			expected: Command{Kind: Exit},
		},
		{
			name:     "List",
			line:     ">list",
			expected: Command{Kind: List},
		},
		{
			name:     "Me",
			line:     ">me",
			expected: Command{Kind: Me},
		},
		{
			name:     "Leave",
			line:     ">leave",
			expected: Command{Kind: Leave},
		},
		{
			name:     "Set username with argument",
			line:     ">set-username alice",
			expected: Command{Kind: SetUsername, Arg: "alice"},
		},
		{
			name:     "Create room with argument",
			line:     ">create-room lobby",
			expected: Command{Kind: CreateRoom, Arg: "lobby"},
		},
		{
			name:     "Join room with argument",
			line:     ">join-room lobby",
			expected: Command{Kind: JoinRoom, Arg: "lobby"},
		},
		{
			name:     "Argument verb without argument is invalid",
			line:     ">join-room",
			expected: Command{Kind: Invalid},
		},
		{
			name:     "Unknown verb is invalid",
			line:     ">fly-away now",
			expected: Command{Kind: Invalid},
		},
		{
			name:     "Bare prefix is invalid",
			line:     ">",
			expected: Command{Kind: Invalid},
		},
		{
			name:     "Argument keeps its inner spaces",
			line:     ">set-username alice in chains",
			expected: Command{Kind: SetUsername, Arg: "alice in chains"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, ParseCommand(tt.line), "line=%q", tt.line)
		})
	}
}
