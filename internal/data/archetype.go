package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/blockrun/game/internal/actor"
	"gopkg.in/yaml.v3"
)

// Archetype is a template cloned for every placement that names it.
type Archetype struct {
	Name      string       `yaml:"name"`
	Type      actor.Type   `yaml:"type"`
	Kind      string       `yaml:"kind"`   // drawn, zone, collidable, ui
	Status    string       `yaml:"status"` // active (default), drawn, update, off
	Mesh      string       `yaml:"mesh"`
	Texture   string       `yaml:"texture"`
	Color     []float32    `yaml:"color"`
	Alpha     *float32     `yaml:"alpha"` // default 1
	Scale     []float32    `yaml:"scale"`
	Primitive string       `yaml:"primitive"` // box, sphere or empty
	Radius    float32      `yaml:"radius"`
	Behavior  string       `yaml:"behavior"` // player, patrol, mover or empty
	Patrol    PatrolDef    `yaml:"patrol"`
	Mover     MoverDef     `yaml:"mover"`
	Rotation  *RotationDef `yaml:"rotation"`
	Pickup    *PickupDef   `yaml:"pickup"`
	Zone      *ZoneDef     `yaml:"zone"`
	Label     string       `yaml:"label"`
	kind      actor.Kind
	status    actor.Status
}

type PatrolDef struct {
	Range float32 `yaml:"range"`
	Speed float32 `yaml:"speed"` // units per frame
	Axes  string  `yaml:"axes"`  // x, y or xy
}

type MoverDef struct {
	Velocity []float32 `yaml:"velocity"`
	Rotate   float32   `yaml:"rotate"`
}

type RotationDef struct {
	Speed float32   `yaml:"speed"`
	Axis  []float32 `yaml:"axis"`
}

type PickupDef struct {
	Description string            `yaml:"description"`
	Value       float32           `yaml:"value"`
	Extra       map[string]string `yaml:"extra"`
}

type ZoneDef struct {
	Trigger actor.ZoneTrigger `yaml:"trigger"`
	Cue     string            `yaml:"cue"`
	Stage   int               `yaml:"stage"`
	Script  string            `yaml:"script"`
}

// ActorKind and ActorStatus return the values validated at load time.
func (a *Archetype) ActorKind() actor.Kind     { return a.kind }
func (a *Archetype) ActorStatus() actor.Status { return a.status }

// Opacity returns the configured alpha, 1 when unset.
func (a *Archetype) Opacity() float32 {
	if a.Alpha == nil {
		return 1
	}
	return *a.Alpha
}

type archetypeFile struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

// ArchetypeTable holds archetypes indexed by name.
type ArchetypeTable struct {
	byName map[string]*Archetype
}

// LoadArchetypeTable loads archetypes from a YAML file.
func LoadArchetypeTable(path string) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	return ParseArchetypes(raw)
}

// ParseArchetypes validates and indexes archetypes from YAML bytes.
func ParseArchetypes(raw []byte) (*ArchetypeTable, error) {
	var f archetypeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	t := &ArchetypeTable{byName: make(map[string]*Archetype, len(f.Archetypes))}
	for i := range f.Archetypes {
		a := &f.Archetypes[i]
		if a.Name == "" {
			return nil, fmt.Errorf("archetype %d: missing name", i)
		}
		if _, dup := t.byName[a.Name]; dup {
			return nil, fmt.Errorf("archetype %s: duplicate name", a.Name)
		}
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("archetype %s: %w", a.Name, err)
		}
		t.byName[a.Name] = a
	}
	return t, nil
}

func (a *Archetype) validate() error {
	kind, err := actor.ParseKind(a.Kind)
	if err != nil {
		return err
	}
	a.kind = kind
	if a.status, err = parseStatus(a.Status); err != nil {
		return err
	}
	switch a.Primitive {
	case "", "box", "sphere":
	default:
		return fmt.Errorf("unknown primitive %q", a.Primitive)
	}
	if (kind == actor.KindZone || kind == actor.KindCollidable) && a.Primitive == "" {
		return fmt.Errorf("%s needs a primitive", kind)
	}
	switch a.Behavior {
	case "", "player", "patrol", "mover":
	default:
		return fmt.Errorf("unknown behavior %q", a.Behavior)
	}
	switch a.Patrol.Axes {
	case "", "x", "y", "xy":
	default:
		return fmt.Errorf("unknown patrol axes %q", a.Patrol.Axes)
	}
	if a.Alpha != nil && (*a.Alpha < 0 || *a.Alpha > 1) {
		return fmt.Errorf("alpha %v out of range", *a.Alpha)
	}
	return nil
}

func parseStatus(s string) (actor.Status, error) {
	switch s {
	case "", "active":
		return actor.StatusActive, nil
	case "drawn":
		return actor.StatusDrawn, nil
	case "update":
		return actor.StatusUpdate, nil
	case "off":
		return actor.StatusOff, nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Get returns an archetype by name.
func (t *ArchetypeTable) Get(name string) (*Archetype, bool) {
	a, ok := t.byName[name]
	return a, ok
}

func (t *ArchetypeTable) Count() int { return len(t.byName) }

// Names returns the archetype names sorted.
func (t *ArchetypeTable) Names() []string {
	out := make([]string, 0, len(t.byName))
	for n := range t.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
