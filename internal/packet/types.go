// Package packet implements the inner packet format: framing, the
// closed packet-type enum, the (packet_type, subtype) -> fields
// table, and the six field serializers.
package packet

import "fmt"

// Type is the closed set of packet-type codes observed on the wire.
// It is a sum type: any value outside this set is a hard
// UnknownPacketType error, never a silent "last" fallback.
type Type int32

const (
	BasePlayerCreate        Type = 0x00
	CellPlayerCreate        Type = 0x01
	EntityControl           Type = 0x02
	EntityEnter             Type = 0x03
	EntityLeave             Type = 0x04
	EntityCreate            Type = 0x05
	EntityProperties        Type = 0x06
	EntityProperty          Type = 0x07
	EntityMethod            Type = 0x08
	EntityMove              Type = 0x09
	EntityMoveWithError      Type = 0x0A
	SpaceData               Type = 0x0B
	SpaceGone               Type = 0x0C
	StreamComplete          Type = 0x0D
	EntitiesReset           Type = 0x0E
	RestoreClient           Type = 0x0F
	EnableEntitiesRejected  Type = 0x10
	ClientReady             Type = 0x11
	SetArenaPeriod          Type = 0x12
	SetArenaLength          Type = 0x13
	ClientVersion           Type = 0x14
	UpdateCamera            Type = 0x15
	UpdateGunMarker         Type = 0x16
	ChangeControlMode       Type = 0x17
	UpdateTurretYaw         Type = 0x18
	UpdateGunPitch          Type = 0x19
	AmmoButtonPressed       Type = 0x1A
	UpdateFpsPingLag        Type = 0x1B
	SetGunReloadTime        Type = 0x1C
	SetActiveConsumableSlot Type = 0x1D
	SetPlayerVehicleID      Type = 0x1E
	BattleChatMessage       Type = 0x1F
	NestedEntityProperty    Type = 0x20
	MinimapCellClicked      Type = 0x21
	UpdateCamera2           Type = 0x22
	SetServerTime           Type = 0x23
	LockTarget              Type = 0x24
	SetCruiseMode           Type = 0x25
	Unknown39               Type = 39
	Unknown40               Type = 40
)

// typeNames holds the canonical lowercase snake_case identifier for
// each type, used verbatim by the text form.
var typeNames = map[Type]string{
	BasePlayerCreate:        "base_player_create",
	CellPlayerCreate:        "cell_player_create",
	EntityControl:           "entity_control",
	EntityEnter:             "entity_enter",
	EntityLeave:             "entity_leave",
	EntityCreate:            "entity_create",
	EntityProperties:        "entity_properties",
	EntityProperty:          "entity_property",
	EntityMethod:            "entity_method",
	EntityMove:              "entity_move",
	EntityMoveWithError:      "entity_move_with_error",
	SpaceData:               "space_data",
	SpaceGone:               "space_gone",
	StreamComplete:          "stream_complete",
	EntitiesReset:           "entities_reset",
	RestoreClient:           "restore_client",
	EnableEntitiesRejected:  "enable_entities_rejected",
	ClientReady:             "client_ready",
	SetArenaPeriod:          "set_arena_period",
	SetArenaLength:          "set_arena_length",
	ClientVersion:           "client_version",
	UpdateCamera:            "update_camera",
	UpdateGunMarker:         "update_gun_marker",
	ChangeControlMode:       "change_control_mode",
	UpdateTurretYaw:         "update_turret_yaw",
	UpdateGunPitch:          "update_gun_pitch",
	AmmoButtonPressed:       "ammo_button_pressed",
	UpdateFpsPingLag:        "update_fps_ping_lag",
	SetGunReloadTime:        "set_gun_reload_time",
	SetActiveConsumableSlot: "set_active_consumable_slot",
	SetPlayerVehicleID:      "set_player_vehicle_id",
	BattleChatMessage:       "battle_chat_message",
	NestedEntityProperty:    "nested_entity_property",
	MinimapCellClicked:      "minimap_cell_clicked",
	UpdateCamera2:           "update_camera2",
	SetServerTime:           "set_server_time",
	LockTarget:              "lock_target",
	SetCruiseMode:           "set_cruise_mode",
	Unknown39:               "unknown_39",
	Unknown40:               "unknown_40",
}

var namesToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

// Name returns the canonical identifier for t, or an error if t is
// not a member of the closed set.
func (t Type) Name() (string, error) {
	n, ok := typeNames[t]
	if !ok {
		return "", fmt.Errorf("packet: unknown packet type %d", int32(t))
	}
	return n, nil
}

// String implements fmt.Stringer with a best-effort numeric fallback,
// for use in log lines where an invalid Type shouldn't panic.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", int32(t))
}

// ParseTypeName resolves a TextForm packet-type identifier back to its
// numeric Type.
func ParseTypeName(name string) (Type, error) {
	t, ok := namesToType[name]
	if !ok {
		return 0, fmt.Errorf("packet: unknown packet type name %q", name)
	}
	return t, nil
}

// HasSubtype reports whether t carries a subtype field at payload
// offset 8.
func HasSubtype(t Type) bool {
	return t == EntityProperty || t == EntityMethod
}
