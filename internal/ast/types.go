package ast

import "fmt"

// TypeKind is an abstract column type.
type TypeKind int

const (
	TypeNull TypeKind = iota
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeFloat
	TypeNumeric
	TypeDate
	TypeTime
	TypeTimestamp
	TypeDateTime
	TypeText
	TypeBlob
	TypeVarchar
	TypeChar
	TypeBoolean
)

var typeKindNames = map[TypeKind]string{
	TypeNull:      "NULL",
	TypeSmallInt:  "SMALLINT",
	TypeInteger:   "INTEGER",
	TypeBigInt:    "BIGINT",
	TypeFloat:     "FLOAT",
	TypeNumeric:   "NUMERIC",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeTimestamp: "TIMESTAMP",
	TypeDateTime:  "DATETIME",
	TypeText:      "TEXT",
	TypeBlob:      "BLOB",
	TypeVarchar:   "VARCHAR",
	TypeChar:      "CHAR",
	TypeBoolean:   "BOOLEAN",
}

func (k TypeKind) String() string {
	if s, ok := typeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(k))
}

// Type is an abstract column type instance. Zero Length and Precision mean
// "not specified".
type Type struct {
	Kind      TypeKind
	Length    int
	Precision int
	Scale     int
	// Charset is the character set of string types.
	Charset string
}

// NullType is the opaque type used when a type could not be determined.
var NullType = Type{Kind: TypeNull}

// IsInteger reports whether the type is part of the integer family.
func (t Type) IsInteger() bool {
	switch t.Kind {
	case TypeSmallInt, TypeInteger, TypeBigInt:
		return true
	}
	return false
}

// IsString reports whether the type is a length-bounded character type.
func (t Type) IsString() bool {
	return t.Kind == TypeVarchar || t.Kind == TypeChar
}

func (t Type) String() string {
	switch {
	case t.Kind == TypeNumeric && t.Precision > 0:
		return fmt.Sprintf("NUMERIC(%d, %d)", t.Precision, t.Scale)
	case t.Length > 0:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Length)
	}
	return t.Kind.String()
}

// MarshalText renders the type name, so reflected metadata prints readably.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func SmallInt() Type { return Type{Kind: TypeSmallInt} }
func Integer() Type  { return Type{Kind: TypeInteger} }
func BigInt() Type   { return Type{Kind: TypeBigInt} }
func Float() Type    { return Type{Kind: TypeFloat} }
func Numeric(precision, scale int) Type {
	return Type{Kind: TypeNumeric, Precision: precision, Scale: scale}
}
func Date() Type           { return Type{Kind: TypeDate} }
func Time() Type           { return Type{Kind: TypeTime} }
func Timestamp() Type      { return Type{Kind: TypeTimestamp} }
func DateTime() Type       { return Type{Kind: TypeDateTime} }
func Text(length int) Type { return Type{Kind: TypeText, Length: length} }
func Blob() Type           { return Type{Kind: TypeBlob} }
func Varchar(length int) Type {
	return Type{Kind: TypeVarchar, Length: length}
}
func Char(length int) Type { return Type{Kind: TypeChar, Length: length} }
func Boolean() Type        { return Type{Kind: TypeBoolean} }
