// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

// GetByID returns the contact for a record-store id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Contact, error) {
	var out models.Contact
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	return out, err
}

// GetBySubject returns the contact for an identity-provider subject.
func (s *Store) GetBySubject(ctx context.Context, subject string) (models.Contact, error) {
	var out models.Contact
	err := s.c.FindOne(ctx, bson.M{"subject": subject}).Decode(&out)
	return out, err
}

// UpsertBySubject provisions or refreshes the contact at login.
// Name and email follow the identity provider on every login; the
// onboarding bag is only seeded on insert.
//
// An invitee stub provisioned by GetOrCreateByEmail has no subject; the
// first login with a matching email claims it instead of inserting a
// second row (which the unique email index would reject anyway).
func (s *Store) UpsertBySubject(ctx context.Context, subject, email, fullName, institution string) (models.Contact, error) {
	now := time.Now().UTC()
	set := bson.M{
		"email":       email,
		"email_ci":    text.Fold(email),
		"full_name":   fullName,
		"institution": institution,
		"updated_at":  now,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Contact
	err := s.c.FindOneAndUpdate(ctx, bson.M{"subject": subject}, bson.M{"$set": set}, opts).Decode(&out)
	if err == nil {
		return out, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Contact{}, err
	}

	// Claim an invitee stub by email.
	claim := bson.M{
		"$set": bson.M{
			"subject":     subject,
			"email":       email,
			"full_name":   fullName,
			"institution": institution,
			"status":      "active",
			"updated_at":  now,
		},
		"$addToSet": bson.M{"onboarding.steps": "register"},
	}
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"email_ci": text.Fold(email), "subject": bson.M{"$exists": false}},
		claim, opts).Decode(&out)
	if err == nil {
		return out, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Contact{}, err
	}

	// Fresh contact.
	insert := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"subject":    subject,
			"status":     "active",
			"onboarding": models.OnboardingMetadata{Steps: []string{"register"}},
			"created_at": now,
		},
	}
	insertOpts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err = s.c.FindOneAndUpdate(ctx, bson.M{"subject": subject}, insert, insertOpts).Decode(&out)
	return out, err
}

// GetOrCreateByEmail finds a contact by email or provisions a stub for
// an invitee who has never logged in. The stub has no subject; it is
// claimed by UpsertBySubject on the invitee's first login.
func (s *Store) GetOrCreateByEmail(ctx context.Context, email, fullName string) (models.Contact, error) {
	emailCI := text.Fold(email)

	var existing models.Contact
	err := s.c.FindOne(ctx, bson.M{"email_ci": emailCI}).Decode(&existing)
	if err == nil {
		return existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Contact{}, err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":      email,
			"full_name":  fullName,
			"status":     "invited",
			"onboarding": models.OnboardingMetadata{},
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	// Upsert keyed on email_ci so two concurrent invites converge on one stub.
	var out models.Contact
	err = s.c.FindOneAndUpdate(ctx, bson.M{"email_ci": emailCI}, update, opts).Decode(&out)
	return out, err
}

// SetOnboarding replaces the contact's onboarding metadata bag.
func (s *Store) SetOnboarding(ctx context.Context, id primitive.ObjectID, meta models.OnboardingMetadata) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"onboarding": meta, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AppendOnboardingStep adds a completed step id if it is not already
// present. $addToSet makes the repair write idempotent.
func (s *Store) AppendOnboardingStep(ctx context.Context, id primitive.ObjectID, step string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"onboarding.steps": step},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
