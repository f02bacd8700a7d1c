package workbench

// Permissions answers whether a player holds a permission node.
type Permissions interface {
	HasPermission(player, node string) bool
}

// Wildcard grants a static permission to every player.
const Wildcard = "*"

// StaticPermissions grants the configured node to a fixed set of players.
type StaticPermissions struct {
	node    string
	all     bool
	players map[string]struct{}
}

// NewStaticPermissions grants node to players; "*" grants it to everyone.
func NewStaticPermissions(node string, players []string) *StaticPermissions {
	p := &StaticPermissions{node: node, players: make(map[string]struct{}, len(players))}
	for _, name := range players {
		if name == Wildcard {
			p.all = true
			continue
		}
		p.players[name] = struct{}{}
	}
	return p
}

// HasPermission implements Permissions.
func (p *StaticPermissions) HasPermission(player, node string) bool {
	if node != p.node {
		return false
	}
	if p.all {
		return true
	}
	_, ok := p.players[player]
	return ok
}
