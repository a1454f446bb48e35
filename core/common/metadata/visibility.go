package metadata

import "strconv"

// Visibility 成员的可见性, 零值是非法的, 构建描述符时必须显式给出
type Visibility uint8

const (
	Public Visibility = iota + 1
	Private
	Protected
	Internal
)

func (v Visibility) Valid() bool {
	return v >= Public && v <= Internal
}

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	case Internal:
		return "internal"
	default:
		return "visibility(" + strconv.Itoa(int(v)) + ")"
	}
}

type MemberKind uint8

const (
	MemberConstructor MemberKind = iota + 1
	MemberField
	MemberMethod
	MemberEnum
)

func (k MemberKind) String() string {
	switch k {
	case MemberConstructor:
		return "Constructor"
	case MemberField:
		return "Field"
	case MemberMethod:
		return "Method"
	case MemberEnum:
		return "NestedType"
	default:
		return "MemberKind(" + strconv.Itoa(int(k)) + ")"
	}
}
