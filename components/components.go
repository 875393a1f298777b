// Package components defines ECS components and plain grid data for the simulation.
package components

// Sex of a fox.
type Sex uint8

const (
	Male Sex = iota
	Female
)

func (s Sex) String() string {
	if s == Female {
		return "female"
	}
	return "male"
}

// TerrainKind is the terrain layer value of a grid cell.
type TerrainKind uint8

const (
	Grass TerrainKind = iota
	Forest
	Water
	Urban
	Path
	Building
)

var terrainNames = [...]string{"grass", "forest", "water", "urban", "path", "building"}

func (k TerrainKind) String() string {
	if int(k) < len(terrainNames) {
		return terrainNames[k]
	}
	return "unknown"
}

// FoxPassable reports whether foxes may stand on this terrain.
func (k TerrainKind) FoxPassable() bool { return k != Water }

// AntPassable reports whether ants may stand on this terrain.
func (k TerrainKind) AntPassable() bool { return k == Path }

// ObjectKind is the marker layer value of a grid cell.
type ObjectKind uint8

const (
	Nothing ObjectKind = iota
	HunterMarker
	FoxDen
	RabbitDen
)

var objectNames = [...]string{"nothing", "hunter", "fox_den", "rabbit_den"}

func (k ObjectKind) String() string {
	if int(k) < len(objectNames) {
		return objectNames[k]
	}
	return "unknown"
}

// TileKind selects which layer a Tile writes to.
type TileKind uint8

const (
	TileTerrain TileKind = iota
	TileMarker
)

// Tile is a paintable value: either a terrain kind or an object marker.
type Tile struct {
	Kind    TileKind
	Terrain TerrainKind
	Marker  ObjectKind
}

// TerrainTile returns a tile that paints the terrain layer.
func TerrainTile(k TerrainKind) Tile {
	return Tile{Kind: TileTerrain, Terrain: k}
}

// MarkerTile returns a tile that paints the object layer.
func MarkerTile(k ObjectKind) Tile {
	return Tile{Kind: TileMarker, Marker: k}
}

func (t Tile) String() string {
	if t.Kind == TileMarker {
		return t.Marker.String()
	}
	return t.Terrain.String()
}

// DeathCause records why a fox left the population.
type DeathCause uint8

const (
	Starvation DeathCause = iota
	NaturalDeath
	Culled
)

func (c DeathCause) String() string {
	switch c {
	case Starvation:
		return "starvation"
	case NaturalDeath:
		return "natural"
	case Culled:
		return "culled"
	}
	return "unknown"
}

// Identifiers handed out by simulation-owned sequences.
type (
	FoxID   uint64
	GroupID uint64
	AntID   uint64
)
