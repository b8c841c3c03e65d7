package validators

import "go.mongodb.org/mongo-driver/bson"

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"seller_id",
			"vehicle_model_id",
			"title",
			"price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"seller_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"vehicle_model_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 160,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 5000,
			},

			"price": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"mileage": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"sold",
					"archived",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
