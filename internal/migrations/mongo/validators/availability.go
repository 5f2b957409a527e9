package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityConfigValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"practitioner_id",
			"slot_length_min",
			"time_zone",
			"weekly_hours",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"practitioner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"slot_length_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  480,
			},

			"buffer_before_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  120,
			},

			"buffer_after_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  120,
			},

			"time_zone": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"weekly_hours": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"required": []string{"enabled"},
					"properties": bson.M{
						"enabled": bson.M{"bsonType": "bool"},
						"start":   bson.M{"bsonType": "string"},
						"end":     bson.M{"bsonType": "string"},
					},
				},
			},

			"exceptions": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"required": []string{"type"},
					"properties": bson.M{
						"type": bson.M{
							"bsonType": "string",
							"enum":     []string{"block", "partial"},
						},
						"start": bson.M{"bsonType": "string"},
						"end":   bson.M{"bsonType": "string"},
					},
				},
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
