package validators

import "go.mongodb.org/mongo-driver/bson"

const (
	isoDatePattern   = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
	timeOfDayPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`
)

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"room",
			"date",
			"start",
			"end",
			"holder",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"room": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  isoDatePattern,
			},

			"start": bson.M{
				"bsonType": "string",
				"pattern":  timeOfDayPattern,
			},

			"end": bson.M{
				"bsonType": "string",
				"pattern":  timeOfDayPattern,
			},

			"holder": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"title": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"contact": bson.M{
				"bsonType":  "string",
				"maxLength": 40,
			},

			"secret_hash": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
