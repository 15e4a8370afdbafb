package server

const bannerText = "Welcome to chatd!\n" +
	"Enter \">help\" for a list of commands and their usage.\n"

const helpText = "Commands:\n" +
	">help              - Display commands\n" +
	">exit              - Close connection\n" +
	">list              - List rooms\n" +
	">me                - Your user info\n" +
	">leave             - Leave current room\n" +
	">set-username name - Set username\n" +
	">create-room room  - Create room\n" +
	">join-room room    - Join room"

const invalidText = "Invalid command.\n" +
	"Enter \">help\" for a list of commands and their usage."

const notInRoomText = "You're not currently in a room."
