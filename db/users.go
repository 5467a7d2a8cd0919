package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mingle/apperr"
	"mingle/models"
)

func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	if user.Friends == nil {
		user.Friends = []string{}
	}

	ctx, cancel := m.op(ctx)
	defer cancel()

	if _, err := m.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Validation("User already exists")
		}
		return apperr.Infrastructure("insert user", err)
	}
	return nil
}

func (m *Mongo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"_id": id})
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *Mongo) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := m.op(ctx)
	defer cancel()

	var user models.User
	if err := m.UserCollection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (m *Mongo) FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}

	ctx, cancel := m.op(ctx)
	defer cancel()

	cursor, err := m.UserCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Infrastructure("query users", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Infrastructure("decode users", err)
	}
	return users, nil
}

func (m *Mongo) UpdateUser(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.FirstName != nil {
		set["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Occupation != nil {
		set["occupation"] = *update.Occupation
	}
	if update.PicturePath != nil {
		set["picturePath"] = *update.PicturePath
	}

	ctx, cancel := m.op(ctx)
	defer cancel()

	var user models.User
	err := m.UserCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate).Decode(&user)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (m *Mongo) AddFriend(ctx context.Context, userID, friendID string) error {
	return m.updateUser(ctx, userID, bson.M{"$addToSet": bson.M{"friends": friendID}})
}

func (m *Mongo) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return m.updateUser(ctx, userID, bson.M{"$pull": bson.M{"friends": friendID}})
}

func (m *Mongo) IncrementCounter(ctx context.Context, userID string, counter models.Counter) error {
	return m.updateUser(ctx, userID, bson.M{"$inc": bson.M{string(counter): 1}})
}

func (m *Mongo) updateUser(ctx context.Context, userID string, update bson.M) error {
	ctx, cancel := m.op(ctx)
	defer cancel()

	res, err := m.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return apperr.Infrastructure("update user", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (m *Mongo) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := m.op(ctx)
	defer cancel()

	n, err := m.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Infrastructure("count users", err)
	}
	return n, nil
}
