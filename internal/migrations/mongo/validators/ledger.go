package validators

import "go.mongodb.org/mongo-driver/bson"

var BlockedDateValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "created_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  isoDatePattern,
			},
			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var TransactionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"action",
			"booking_id",
			"room",
			"date",
			"start",
			"end",
			"holder",
			"timestamp",
		},
		"properties": bson.M{
			"action": bson.M{
				"enum": []string{"Booking", "Edit", "Cancellation"},
			},
			"booking_id": bson.M{
				"bsonType": "string",
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
			"timestamp": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var LedgerLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},
		"properties": bson.M{
			"owner": bson.M{
				"bsonType": "string",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
