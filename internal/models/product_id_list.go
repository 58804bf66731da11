package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductIDList carries order product references as hex strings in JSON while
// storing each element as an ObjectID when it parses as one. Legacy documents
// hold a mix of ObjectIDs and raw strings, so decoding accepts both.
type ProductIDList []string

// UnmarshalBSONValue accepts arrays holding ObjectID or string elements,
// allowing legacy documents to be decoded without failing the entire request.
func (l *ProductIDList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*l = nil
		return nil
	case bsontype.Array:
		var raw bson.A
		if err := bson.UnmarshalValue(t, data, &raw); err != nil {
			return err
		}

		ids := make([]string, 0, len(raw))
		for _, v := range raw {
			switch id := v.(type) {
			case primitive.ObjectID:
				ids = append(ids, id.Hex())
			case string:
				ids = append(ids, id)
			default:
				return fmt.Errorf("cannot decode %T into ProductIDList", v)
			}
		}
		*l = ids
		return nil
	default:
		return fmt.Errorf("cannot decode %s into ProductIDList", t)
	}
}

// MarshalBSONValue stores each id as an ObjectID when it is valid hex and as
// a plain string otherwise, keeping new writes compatible with the legacy
// mixed representation.
func (l ProductIDList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	raw := make(bson.A, 0, len(l))
	for _, id := range l {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			raw = append(raw, oid)
			continue
		}
		raw = append(raw, id)
	}
	return bson.MarshalValue(raw)
}
