package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hashtagchobi/chobi-site/internal/domain"
)

var tracer = otel.Tracer("docstore")

// Firestore reads documents through the Cloud Firestore client.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) Get(ctx context.Context, collection, id string) (*Document, error) {
	ctx, span := tracer.Start(ctx, "DocStore.Firestore.Get")
	defer span.End()

	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.NotFoundError{Resource: collection + "/" + id}
		}
		span.RecordError(err)
		return nil, errors.Wrapf(err, "Firestore.Get %s/%s", collection, id)
	}
	if !snap.Exists() {
		return nil, domain.NotFoundError{Resource: collection + "/" + id}
	}

	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Firestore) List(ctx context.Context, collection string, order *Order) ([]Document, error) {
	ctx, span := tracer.Start(ctx, "DocStore.Firestore.List")
	defer span.End()

	query := s.client.Collection(collection).Query
	if order != nil {
		dir := firestore.Asc
		if order.Direction == Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(order.Field, dir)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	docs := []Document{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrapf(err, "Firestore.List %s", collection)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *Firestore) Close() error {
	return s.client.Close()
}

var _ Store = (*Firestore)(nil)
