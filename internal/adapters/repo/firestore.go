package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/metrics"
)

// Firestore реализует domain.UserStore поверх Cloud Firestore.
type Firestore struct {
	client *firestore.Client
}

var _ domain.UserStore = (*Firestore)(nil)

// NewFirestore создаёт адаптер Firestore.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

// ListAll читает все документы коллекции.
func (f *Firestore) ListAll(ctx context.Context, collection string) ([]domain.User, error) {
	start := time.Now()
	iter := f.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var users []domain.User
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			metrics.ObserveNetworkRequest("firestore", "documents_list", collection, start, err)
			return nil, err
		}
		users = append(users, decodeUser(snap.Ref.ID, snap.Data()))
	}
	metrics.ObserveNetworkRequest("firestore", "documents_list", collection, start, nil)
	return users, nil
}

// UpdateFields обновляет только перечисленные поля; документ должен существовать.
func (f *Firestore) UpdateFields(ctx context.Context, collection, id string, patch domain.UserPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].Path < updates[j].Path })

	start := time.Now()
	_, err := f.client.Collection(collection).Doc(id).Update(ctx, updates)
	metrics.ObserveNetworkRequest("firestore", "documents_update", collection, start, err)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s/%s", domain.ErrUserNotFound, collection, id)
	}
	return err
}
