package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// FoxInspection is the data the fox inspector displays.
type FoxInspection struct {
	Fox       *components.Fox
	Now       time.Time
	GroupSize int
	Starve    float64 // Hunger at which the fox starves
}

// CellInspection is the data the cell inspector displays.
type CellInspection struct {
	Pos      components.Pos
	Terrain  components.TerrainKind
	Object   components.ObjectKind
	Food     float64 // Fox scenario only
	Rabbits  int     // Fox scenario only
	Node     *systems.Node
	MaxSmell float64
}

func fox(d any) *FoxInspection   { return d.(*FoxInspection) }
func cell(d any) *CellInspection { return d.(*CellInspection) }

// FoxSections describes the fox inspector layout.
func FoxSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID: "identity",
			Fields: []FieldDescriptor{
				{ID: "id", Label: "Fox", TextGetter: func(d any) string {
					f := fox(d).Fox
					return fmt.Sprintf("#%d (%s)", f.ID, f.Sex)
				}},
				{ID: "group", Label: "Group", TextGetter: func(d any) string {
					return fmt.Sprintf("#%d, %d members", fox(d).Fox.GroupID, fox(d).GroupSize)
				}},
				{ID: "age", Label: "Age", TextGetter: func(d any) string {
					f := fox(d)
					return fmt.Sprintf("%d y (%.0f months)", f.Fox.Age, f.Fox.AgeMonths(f.Now))
				}},
			},
		},
		{
			ID:    "state",
			Title: "State",
			Fields: []FieldDescriptor{
				{ID: "position", Label: "Position", TextGetter: func(d any) string {
					p := fox(d).Fox.Position
					return fmt.Sprintf("(%d, %d)", p.X, p.Y)
				}},
				{ID: "den", Label: "Den", TextGetter: func(d any) string {
					p := fox(d).Fox.Den
					return fmt.Sprintf("(%d, %d)", p.X, p.Y)
				}},
				{ID: "home_range", Label: "Home range", Format: "%.0f cells", Getter: func(d any) float32 {
					return float32(fox(d).Fox.HomeRange.Len())
				}},
				{ID: "hunger", Label: "Hunger", Widget: WidgetLevelBar, Getter: func(d any) float32 {
					f := fox(d)
					if f.Starve <= 0 {
						return float32(f.Fox.Hunger)
					}
					return float32(f.Fox.Hunger / f.Starve)
				}, Range: DefaultRange()},
				{ID: "mortality", Label: "Mortality", Widget: WidgetBar, Getter: func(d any) float32 {
					return float32(fox(d).Fox.MortalityRate)
				}, Range: DefaultRange()},
			},
		},
		{
			ID:    "reproduction",
			Title: "Reproduction",
			Visible: func(d any) bool {
				return fox(d).Fox.Sex == components.Female
			},
			Fields: []FieldDescriptor{
				{ID: "mature", Label: "Mature", TextGetter: func(d any) string {
					f := fox(d)
					return yesNo(f.Fox.Mature(f.Now))
				}},
				{ID: "pregnant", Label: "Pregnant", TextGetter: func(d any) string {
					f := fox(d).Fox
					if !f.Pregnant {
						return "no"
					}
					return fmt.Sprintf("%d days left", f.GestationDaysLeft)
				}},
			},
		},
		{
			ID:    "dispersal",
			Title: "Dispersal",
			Visible: func(d any) bool {
				return !fox(d).Fox.Dispersed
			},
			Fields: []FieldDescriptor{
				{ID: "dispersal_day", Label: "Day", Format: "%.0f", Getter: func(d any) float32 {
					return float32(fox(d).Fox.DispersalDay)
				}},
				{ID: "dispersal_distance", Label: "Distance", Format: "%.1f cells", Getter: func(d any) float32 {
					return float32(fox(d).Fox.DispersalDistance)
				}},
			},
		},
	}
}

// CellSections describes the cell inspector layout.
func CellSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID: "cell",
			Fields: []FieldDescriptor{
				{ID: "pos", Label: "Cell", TextGetter: func(d any) string {
					p := cell(d).Pos
					return fmt.Sprintf("(%d, %d)", p.X, p.Y)
				}},
				{ID: "terrain", Label: "Terrain", TextGetter: func(d any) string { return cell(d).Terrain.String() }},
				{ID: "object", Label: "Marker", TextGetter: func(d any) string { return cell(d).Object.String() },
					Visible: func(d any) bool { return cell(d).Object != components.Nothing }},
			},
		},
		{
			ID:      "forage",
			Title:   "Forage",
			Visible: func(d any) bool { return cell(d).Node == nil },
			Fields: []FieldDescriptor{
				{ID: "food", Label: "Food", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
					return float32(cell(d).Food)
				}},
				{ID: "rabbits", Label: "Rabbits", Format: "%.0f", Getter: func(d any) float32 {
					return float32(cell(d).Rabbits)
				}, Visible: func(d any) bool { return cell(d).Object == components.RabbitDen }},
			},
		},
		{
			ID:      "node",
			Title:   "Node",
			Visible: func(d any) bool { return cell(d).Node != nil && cell(d).Node.Passable() },
			Fields: []FieldDescriptor{
				{ID: "capacity", Label: "Occupancy", TextGetter: func(d any) string {
					n := cell(d).Node
					return fmt.Sprintf("%d / %d", n.Capacity-n.Spare, n.Capacity)
				}},
				pheromoneField(systems.Up, "Up"),
				pheromoneField(systems.Right, "Right"),
				pheromoneField(systems.Down, "Down"),
				pheromoneField(systems.Left, "Left"),
			},
		},
	}
}

func pheromoneField(dir systems.Direction, label string) FieldDescriptor {
	return FieldDescriptor{
		ID:     "pheromone_" + label,
		Label:  label,
		Widget: WidgetBar,
		Getter: func(d any) float32 {
			c := cell(d)
			if c.MaxSmell <= 0 {
				return 0
			}
			return float32(c.Node.Pheromone[dir] / c.MaxSmell)
		},
		Range:   DefaultRange(),
		Visible: func(d any) bool { return cell(d).Node.Connected[dir] },
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Inspector renders a panel of descriptor sections.
type Inspector struct {
	renderer *Renderer
	title    string
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates an inspector panel.
func NewInspector(title string, sections []SectionDescriptor, x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		title:    title,
		sections: sections,
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Height returns the panel height for data.
func (ins *Inspector) Height(data any) int32 {
	r := ins.renderer
	h := r.Theme.Padding*2 + r.Theme.LineHeight + 4
	for _, sd := range ins.sections {
		h += r.SectionHeight(sd, data)
	}
	return h
}

// Draw renders the inspector for data and returns the bottom edge.
func (ins *Inspector) Draw(data any) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	height := ins.Height(data)

	r.DrawPanel(ins.x, ins.y, ins.width, height)
	y := r.DrawTitle(ins.x+padding, ins.y+padding, ins.title)
	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, data, ins.width-padding*2)
	}
	rl.DrawLine(ins.x, ins.y+height, ins.x+ins.width, ins.y+height, r.Theme.PanelBorder)
	return ins.y + height
}
