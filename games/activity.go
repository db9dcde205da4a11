/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "strings"

// Activity is the one place a connection currently belongs to. It doubles as
// the connection's broadcast room.
type Activity int

const (
	ActivityNone Activity = iota
	ActivityLobby
	ActivitySprites
	ActivityFakinIt
	ActivityFictionary
	ActivityScriptionary
	ActivityPacMan
)

var rooms = map[Activity]string{
	ActivityNone:         "",
	ActivityLobby:        "lobby-room",
	ActivitySprites:      "game-room",
	ActivityFakinIt:      "fakinit-room",
	ActivityFictionary:   "fictionary-room",
	ActivityScriptionary: "scriptionary-room",
	ActivityPacMan:       "pacman-room",
}

// Room returns the broadcast group name for the activity.
func (a Activity) Room() string {
	return rooms[a]
}

func (a Activity) String() string {
	switch a {
	case ActivityLobby:
		return "lobby"
	case ActivitySprites:
		return "sprites"
	case ActivityFakinIt:
		return "fakinit"
	case ActivityFictionary:
		return "fictionary"
	case ActivityScriptionary:
		return "scriptionary"
	case ActivityPacMan:
		return "pacman"
	default:
		return "none"
	}
}

// Game titles as offered in the lobby.
const (
	TitleSprites      = "Sprites"
	TitleFakinIt      = "Fakin' It"
	TitleFictionary   = "Fictionary"
	TitleScriptionary = "Scriptionary"
	TitlePacMan       = "Pac-Man"
)

var titles = []struct {
	title    string
	activity Activity
}{
	{TitleSprites, ActivitySprites},
	{TitleFakinIt, ActivityFakinIt},
	{TitleFictionary, ActivityFictionary},
	{TitleScriptionary, ActivityScriptionary},
	{TitlePacMan, ActivityPacMan},
}

// activityForTitle maps a lobby title onto the game it starts. Matching
// ignores case so "Fakin' it" and "Fakin' It" are the same game.
func activityForTitle(title string) (Activity, bool) {
	title = strings.TrimSpace(title)
	for _, t := range titles {
		if strings.EqualFold(t.title, title) {
			return t.activity, true
		}
	}

	return ActivityNone, false
}
