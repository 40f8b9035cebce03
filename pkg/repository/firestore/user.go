package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const usersCollection = "user_profiles"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	ID       string `firestore:"id"`
	FullName string `firestore:"full_name"`
	Nickname string `firestore:"nickname"`
	Role     string `firestore:"role"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, usersCollection))
}

func (r *userRepository) toDoc(user *model.User) *userDoc {
	return &userDoc{
		ID:       string(user.ID),
		FullName: user.FullName,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	}
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:       model.UserID(doc.ID),
		FullName: doc.FullName,
		Nickname: doc.Nickname,
		Role:     types.Role(doc.Role).Normalize(),
	}
}

func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate user profiles")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user profile", goerr.V("docID", doc.Ref.ID))
		}

		users = append(users, r.fromDoc(&d))
	}

	return users, nil
}

// SaveMany upserts users through a BulkWriter, which handles the 500 writes per batch limit
func (r *userRepository) SaveMany(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	for _, user := range users {
		docRef := r.collection().Doc(string(user.ID))
		if _, err := bulkWriter.Set(docRef, r.toDoc(user)); err != nil {
			return goerr.Wrap(err, "failed to add Set operation to bulk writer", goerr.V("user_id", user.ID))
		}
	}

	bulkWriter.Flush()
	return nil
}

func (r *userRepository) DeleteAll(ctx context.Context) error {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate user profiles for deletion")
		}
		refs = append(refs, doc.Ref)
	}

	if len(refs) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	for _, ref := range refs {
		if _, err := bulkWriter.Delete(ref); err != nil {
			return goerr.Wrap(err, "failed to add Delete operation to bulk writer")
		}
	}

	bulkWriter.Flush()
	return nil
}
