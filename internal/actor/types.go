package actor

import (
	"fmt"
	"strings"
)

// Type is the coarse gameplay category of an actor.
type Type int

const (
	TypeHelper Type = iota
	TypeSky
	TypeGround
	TypeDecorator
	TypePickup
	TypeNPC
	TypePlayer
	TypeZone
	TypeCamera
	TypeUIText
	TypeUITexture
)

var typeNames = [...]string{
	TypeHelper:    "helper",
	TypeSky:       "sky",
	TypeGround:    "ground",
	TypeDecorator: "decorator",
	TypePickup:    "pickup",
	TypeNPC:       "npc",
	TypePlayer:    "player",
	TypeZone:      "zone",
	TypeCamera:    "camera",
	TypeUIText:    "ui_text",
	TypeUITexture: "ui_texture",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType maps a data-file name to a Type.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown actor type %q", s)
}

// UnmarshalText lets Type be read straight from yaml/toml.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Kind selects how an actor is updated and whether it collides.
type Kind int

const (
	KindDrawn      Kind = iota // rendered only
	KindZone                   // collision volume, never rendered
	KindCollidable             // rendered, collides, may move
	KindUI                     // 2D overlay, owned by the UI manager
)

var kindNames = [...]string{
	KindDrawn:      "drawn",
	KindZone:       "zone",
	KindCollidable: "collidable",
	KindUI:         "ui",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown actor kind %q", s)
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Status is a bitmask; Drawn and Update are independent.
type Status uint8

const (
	StatusOff    Status = 0
	StatusDrawn  Status = 1 << 0
	StatusUpdate Status = 1 << 1

	StatusActive = StatusDrawn | StatusUpdate
)

func (s Status) Has(flag Status) bool { return s&flag == flag }

func (s Status) String() string {
	switch s {
	case StatusOff:
		return "off"
	case StatusDrawn:
		return "drawn"
	case StatusUpdate:
		return "update"
	case StatusActive:
		return "drawn|update"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}
