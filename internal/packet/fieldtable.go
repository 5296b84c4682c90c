package packet

// Field is one semantic (name, offset, serializer) overlay onto a
// packet's body. Fields are independent views, not a packed struct —
// offsets are absolute within the body and may overlap or appear out
// of order.
type Field struct {
	Name       string
	Offset     int
	Serializer Serializer
}

// clockField is the implicit field every packet type carries.
var clockField = Field{Name: "clock", Offset: 0, Serializer: Serializer{Kind: F32}}

// fieldKey identifies one row of the field table. Subtype is only
// meaningful for EntityProperty/EntityMethod rows; it is anySubtype
// (-1) both for types that have no subtype dimension at all and for
// the "any subtype" row shared by every subtype of a type that does
// have one.
type fieldKey struct {
	Type    Type
	Subtype int32
}

// anySubtype is the sentinel key for rows that apply to EVERY subtype
// of a (EntityProperty|EntityMethod) packet, layered under the more
// specific subtype rows below.
const anySubtype int32 = -1

// fieldTable is the static, immutable (packet_type, subtype) -> fields
// lookup. It is a closed map literal, never built by side-effectful
// registration.
var fieldTable = map[fieldKey][]Field{
	{EntityEnter, anySubtype}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
	},
	{EntityCreate, anySubtype}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
	},
	{EntityMoveWithError, anySubtype}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "position", Offset: 16, Serializer: Serializer{Kind: Vec3F}},
		{Name: "hull_orientation", Offset: 40, Serializer: Serializer{Kind: Vec3F}},
	},
	{EntityProperty, anySubtype}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
	},
	{EntityProperty, 0x03}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
		{Name: "health", Offset: 16, Serializer: Serializer{Kind: U16}},
	},
	{EntityMethod, anySubtype}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
	},
	{EntityMethod, 0x01}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
		{Name: "health", Offset: 16, Serializer: Serializer{Kind: U16}},
		{Name: "source", Offset: 18, Serializer: Serializer{Kind: I32}},
	},
	{EntityMethod, 0x05}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
		{Name: "source", Offset: 16, Serializer: Serializer{Kind: I32}},
	},
	{EntityMethod, 0x0B}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
		{Name: "target", Offset: 16, Serializer: Serializer{Kind: I32}},
		{Name: "source", Offset: 22, Serializer: Serializer{Kind: I32}},
	},
	{EntityMethod, 0x17}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
		{Name: "subtype", Offset: 8, Serializer: Serializer{Kind: I32}},
		{Name: "target", Offset: 20, Serializer: Serializer{Kind: I32}},
	},
	{BattleChatMessage, anySubtype}: {
		{Name: "message", Offset: 4, Serializer: Serializer{Kind: String}},
	},
	{NestedEntityProperty, anySubtype}: {
		{Name: "player_id", Offset: 4, Serializer: Serializer{Kind: I32}},
	},
	{UpdateFpsPingLag, anySubtype}: {
		{Name: "fps", Offset: 4, Serializer: Serializer{Kind: U8}},
		{Name: "ping", Offset: 5, Serializer: Serializer{Kind: U16}},
		{Name: "lag", Offset: 7, Serializer: Serializer{Kind: U8}},
	},
}

// Fields returns the ordered field list for a packet of the given type
// and subtype (subtype is ignored for types without a subtype
// dimension). The implicit clock field is always first. Lookup
// prefers an exact (type, subtype) row over the type's "any subtype"
// row; types with no rows at all yield only clock.
func Fields(t Type, subtype int32, hasSubtype bool) []Field {
	fields := []Field{clockField}

	if hasSubtype {
		if specific, ok := fieldTable[fieldKey{t, subtype}]; ok {
			return append(fields, specific...)
		}
	}
	if generic, ok := fieldTable[fieldKey{t, anySubtype}]; ok {
		return append(fields, generic...)
	}
	return fields
}

// FieldByName looks up a field by name within a type/subtype's field
// list, as text-form parsing needs.
func FieldByName(t Type, subtype int32, hasSubtype bool, name string) (Field, bool) {
	for _, f := range Fields(t, subtype, hasSubtype) {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
