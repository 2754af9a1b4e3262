package data

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Level is a loaded level: its stages and every actor placement, including
// the ones expanded from image maps.
type Level struct {
	Name       string      `yaml:"name"`
	Stages     []Stage     `yaml:"stages"`
	Placements []Placement `yaml:"placements"`
	Maps       []ImageMap  `yaml:"maps"`

	// Fingerprint is the hex blake2b-256 of the level file and its images.
	Fingerprint string `yaml:"-"`
}

type Stage struct {
	Name  string    `yaml:"name"`
	Start []float32 `yaml:"start"`
}

// Placement puts one clone of an archetype in the world.
type Placement struct {
	ID        string    `yaml:"id"`
	Archetype string    `yaml:"archetype"`
	Position  []float32 `yaml:"position"`
	Rotation  []float32 `yaml:"rotation"` // degrees
	Scale     []float32 `yaml:"scale"`    // overrides the archetype scale
}

// ImageMap places archetypes from the pixels of an image. Each pixel whose
// colour is in Colors becomes a placement at
// (x*ScaleX, Height, y*ScaleZ) + Offset. White pixels are skipped.
type ImageMap struct {
	Image  string            `yaml:"image"` // relative to the level file
	ScaleX float32           `yaml:"scale_x"`
	ScaleZ float32           `yaml:"scale_z"`
	Height float32           `yaml:"height"`
	Offset []float32         `yaml:"offset"`
	Colors map[string]string `yaml:"colors"` // "#rrggbb" -> archetype
}

// LoadLevel reads a level file and expands its image maps. Archetype names
// are checked against archetypes when it is non-nil.
func LoadLevel(path string, archetypes *ArchetypeTable) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := yaml.Unmarshal(raw, &lvl); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("fingerprint level: %w", err)
	}
	h.Write(raw)

	dir := filepath.Dir(path)
	for i, m := range lvl.Maps {
		imgPath := m.Image
		if !filepath.IsAbs(imgPath) {
			imgPath = filepath.Join(dir, imgPath)
		}
		img, err := os.ReadFile(imgPath)
		if err != nil {
			return nil, fmt.Errorf("read level map %d: %w", i, err)
		}
		h.Write(img)
		placed, err := m.Expand(img)
		if err != nil {
			return nil, fmt.Errorf("level map %s: %w", m.Image, err)
		}
		lvl.Placements = append(lvl.Placements, placed...)
	}
	lvl.Fingerprint = hex.EncodeToString(h.Sum(nil))

	if err := lvl.validate(archetypes); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) validate(archetypes *ArchetypeTable) error {
	if len(l.Stages) == 0 {
		return fmt.Errorf("level %s: no stages", l.Name)
	}
	seen := make(map[string]bool, len(l.Placements))
	for i, p := range l.Placements {
		if p.ID == "" {
			return fmt.Errorf("placement %d: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("placement %s: duplicate id", p.ID)
		}
		seen[p.ID] = true
		if archetypes != nil {
			if _, ok := archetypes.Get(p.Archetype); !ok {
				return fmt.Errorf("placement %s: unknown archetype %q", p.ID, p.Archetype)
			}
		}
	}
	return nil
}

// StageStarts returns the spawn point of every stage in order.
func (l *Level) StageStarts() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(l.Stages))
	for i, s := range l.Stages {
		out[i] = Vec3(s.Start, mgl32.Vec3{})
	}
	return out
}

// Vec3 converts a YAML triple, returning def when v is not three long.
func Vec3(v []float32, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl32.Vec3{v[0], v[1], v[2]}
}
