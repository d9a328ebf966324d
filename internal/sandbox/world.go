package sandbox

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/midsquest/midsquest/internal/common/apperrors"
)

var (
	ErrNoExit      = apperrors.New("You can't go that way.").SetStatusCode(http.StatusBadRequest)
	ErrNoItem      = apperrors.New("There is no such item here.").SetStatusCode(http.StatusBadRequest)
	ErrUnknownUser = apperrors.New("Unknown player").SetStatusCode(http.StatusUnauthorized)
)

// Room is one location of the game world.
type Room struct {
	Name        string
	Description string
	Exits       map[string]string // direction -> room name
	Items       map[string]string // item -> effect when used
}

// Player is the per-user game state.
type Player struct {
	Username string
	Location string
	Doing    string
}

// World is the mutable game state. It is not safe for concurrent use; the
// server serialises access.
type World struct {
	rooms   map[string]*Room
	start   string
	players map[string]*Player
}

// NewWorld returns a world made of rooms, with new players placed in start.
func NewWorld(start string, rooms ...*Room) *World {
	w := &World{
		rooms:   make(map[string]*Room, len(rooms)),
		start:   start,
		players: make(map[string]*Player),
	}
	for _, r := range rooms {
		w.rooms[r.Name] = r
	}
	return w
}

// DefaultWorld is the small map the sandbox serves.
func DefaultWorld() *World {
	return NewWorld("Great Hall",
		&Room{
			Name:        "Great Hall",
			Description: "A vaulted hall lit by a dying fire. Banners of the old houses hang from the beams.",
			Exits:       map[string]string{"north": "Library", "east": "Armory", "down": "Cellar"},
			Items:       map[string]string{"banner": "You tug at a banner. Dust rains down from the beams."},
		},
		&Room{
			Name:        "Library",
			Description: "Shelves of crumbling books reach into the dark.",
			Exits:       map[string]string{"south": "Great Hall"},
			Items: map[string]string{
				"torch": "The torch flickers to life, throwing long shadows across the shelves.",
				"book":  "You leaf through the book. A map of the cellar falls out.",
			},
		},
		&Room{
			Name:        "Armory",
			Description: "Empty racks line the walls. Someone left in a hurry.",
			Exits:       map[string]string{"west": "Great Hall"},
			Items:       map[string]string{"shield": "You raise the dented shield. It has seen better days."},
		},
		&Room{
			Name:        "Cellar",
			Description: "Cold stone and the smell of old wine.",
			Exits:       map[string]string{"up": "Great Hall"},
			Items:       map[string]string{"lever": "You pull the lever. Somewhere above, a door grinds open."},
		},
	)
}

// Spawn places username in the start room unless already present.
func (w *World) Spawn(username string) *Player {
	if p, ok := w.players[username]; ok {
		return p
	}
	p := &Player{Username: username, Location: w.start}
	w.players[username] = p
	return p
}

func (w *World) player(username string) (*Player, *Room, apperrors.Error) {
	p, ok := w.players[username]
	if !ok {
		return nil, nil, ErrUnknownUser
	}
	return p, w.rooms[p.Location], nil
}

// Move takes the exit in direction and returns the new room.
func (w *World) Move(username, direction string) (*Room, apperrors.Error) {
	p, room, err := w.player(username)
	if err != nil {
		return nil, err
	}
	next, ok := room.Exits[strings.ToLower(strings.TrimSpace(direction))]
	if !ok {
		return nil, ErrNoExit
	}
	p.Location = next
	return w.rooms[next], nil
}

// Occupant is another player seen in a room.
type Occupant struct {
	Username string `json:"username"`
	Doing    string `json:"doing,omitempty"`
}

// Look returns the player's room and the other players in it.
func (w *World) Look(username string) (*Room, []Occupant, apperrors.Error) {
	p, room, err := w.player(username)
	if err != nil {
		return nil, nil, err
	}
	others := []Occupant{}
	for _, o := range w.players {
		if o.Username != p.Username && o.Location == p.Location {
			others = append(others, Occupant{Username: o.Username, Doing: o.Doing})
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].Username < others[j].Username })
	return room, others, nil
}

// SetDoing records what the player is doing.
func (w *World) SetDoing(username, action string) apperrors.Error {
	p, _, err := w.player(username)
	if err != nil {
		return err
	}
	p.Doing = action
	return nil
}

// Use applies an item present in the player's room and returns its effect.
func (w *World) Use(username, item string) (string, apperrors.Error) {
	_, room, err := w.player(username)
	if err != nil {
		return "", err
	}
	effect, ok := room.Items[strings.ToLower(strings.TrimSpace(item))]
	if !ok {
		return "", ErrNoItem.New(fmt.Sprintf("There is no %s here.", item))
	}
	return effect, nil
}

// SortedKeys returns the keys of m in order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
