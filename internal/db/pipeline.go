package db

import (
	"math"

	"posts-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var mongoSortFields = map[string]string{
	models.SortByID:          "_id",
	models.SortByTitle:       "title",
	models.SortByDescription: "description",
	models.SortByPhoto:       "photo",
	models.SortByUserID:      "userId",
	models.SortByCreatedAt:   "createdAt",
	models.SortByUpdatedAt:   "updatedAt",
}

// postFilter builds the $match document shared by the list pipeline and the
// total count. Range bounds compare the description converted to a double;
// descriptions that do not convert never match a bounded query.
func postFilter(q models.PostQuery) bson.M {
	if !q.HasRange() {
		return bson.M{}
	}

	num := bson.M{"$convert": bson.M{
		"input":   "$description",
		"to":      "double",
		"onError": nil,
		"onNull":  nil,
	}}
	conds := bson.A{
		bson.M{"$regexMatch": bson.M{"input": "$description", "regex": numericPattern}},
		bson.M{"$ne": bson.A{num, nil}},
		bson.M{"$lte": bson.A{bson.M{"$abs": num}, math.MaxFloat64}},
	}
	if q.Min != nil {
		conds = append(conds, bson.M{"$gte": bson.A{num, *q.Min}})
	}
	if q.Max != nil {
		conds = append(conds, bson.M{"$lte": bson.A{num, *q.Max}})
	}
	return bson.M{"$expr": bson.M{"$and": conds}}
}

func postSort(q models.PostQuery) bson.D {
	dir := 1
	if q.Descending {
		dir = -1
	}
	field, ok := mongoSortFields[q.SortBy]
	if !ok {
		field = "createdAt"
	}

	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return sort
}

// postListPipeline pages over posts and left-joins each one to its user.
// Every sort key is a post field, so paging before the $lookup returns the
// same rows as joining first and only joins the page.
func postListPipeline(q models.PostQuery) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: postFilter(q)}},
		{{Key: "$sort", Value: postSort(q)}},
	}
	if skip := q.Skip(); skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$limit", Value: q.Limit}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user_details"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user_details"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "photo", Value: 1},
			{Key: "userId", Value: 1},
			{Key: "user_details.firstName", Value: 1},
			{Key: "user_details.lastName", Value: 1},
			{Key: "user_details.email", Value: 1},
		}}},
	)
	return pipeline
}
