package mapper

// Entity is a logical addressable light: a 16-bit id plus R, G, B, W bytes
// (spec §3's "Entity (light)" row, glossary "Entity"). Mapper.Entities
// derives one Entity per LED slot of a universe from a frame; DMX payloads
// are packed directly from the frame (Mapper.DMXForUniverse), not from
// Entities, and an Entity is never persisted.
//
// The sextet encoding (id as little-endian u16 followed by R, G, B, W) is
// grounded in the retrieved original source's eHuB gateway protocol
// (apps/backend/src/ehub/protocol.rs), which used exactly this 6-byte
// encoding as the wire unit for an entity update. This module implements
// the Entity type and its sextet round-trip as the spec's core data model
// and testable properties require, without implementing the eHuB/iHuB
// network protocol itself (see DESIGN.md Open Question resolution).
type Entity struct {
	ID      uint16
	R, G, B byte
	W       byte
}

// NewEntity builds an Entity with W left at zero, matching the RGB-only
// LEDs this installation actually drives.
func NewEntity(id uint16, r, g, b byte) Entity {
	return Entity{ID: id, R: r, G: g, B: b}
}

// ToSextet encodes the entity as 6 bytes: id low, id high, r, g, b, w.
func (e Entity) ToSextet() [6]byte {
	return [6]byte{
		byte(e.ID),
		byte(e.ID >> 8),
		e.R,
		e.G,
		e.B,
		e.W,
	}
}

// EntityFromSextet decodes a 6-byte sextet back into an Entity. It reports
// ok=false if data is shorter than 6 bytes.
func EntityFromSextet(data []byte) (Entity, bool) {
	if len(data) < 6 {
		return Entity{}, false
	}

	return Entity{
		ID: uint16(data[0]) | uint16(data[1])<<8,
		R:  data[2],
		G:  data[3],
		B:  data[4],
		W:  data[5],
	}, true
}

// EntityRange maps a contiguous run of entity ids onto a contiguous run of
// sextet positions within a universe's update payload.
type EntityRange struct {
	SextetStart, SextetEnd   uint16
	EntityStart, EntityEnd uint16
}

// UniverseConfig tracks which sextet position within an update payload
// holds a given entity id, across possibly several disjoint ranges.
type UniverseConfig struct {
	UniverseID uint8
	ranges     []EntityRange
}

// NewUniverseConfig returns an empty config for the given universe id.
func NewUniverseConfig(universeID uint8) *UniverseConfig {
	return &UniverseConfig{UniverseID: universeID}
}

// AddRange registers that entities [entityStart, entityEnd] (inclusive)
// occupy consecutive sextet slots starting at sextetStart.
func (c *UniverseConfig) AddRange(entityStart, entityEnd, sextetStart uint16) {
	count := entityEnd - entityStart + 1
	sextetEnd := sextetStart + count - 1

	c.ranges = append(c.ranges, EntityRange{
		SextetStart: sextetStart,
		SextetEnd:   sextetEnd,
		EntityStart: entityStart,
		EntityEnd:   entityEnd,
	})
}

// GetSextetPosition returns the sextet slot for entityID and true, or
// (0, false) if no registered range covers it. Within any registered range
// [s, e], GetSextetPosition(s+k) == sextetStart+k for every k in [0, e-s]
// (spec §8's monotonicity property).
func (c *UniverseConfig) GetSextetPosition(entityID uint16) (uint16, bool) {
	for _, r := range c.ranges {
		if entityID >= r.EntityStart && entityID <= r.EntityEnd {
			offset := entityID - r.EntityStart
			return r.SextetStart + offset, true
		}
	}

	return 0, false
}
