package database

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// FirestoreOptions are the connection parameters of the content project.
type FirestoreOptions struct {
	ProjectID       string
	DatabaseID      string
	CredentialsFile string
	APIKey          string
	EmulatorHost    string
}

func NewFirestore(ctx context.Context, opts FirestoreOptions) (*firestore.Client, error) {
	if opts.ProjectID == "" {
		return nil, errors.New("firestore project id is required")
	}

	if opts.EmulatorHost != "" {
		// the client library picks the emulator up from the environment
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", opts.EmulatorHost); err != nil {
			return nil, errors.Wrap(err, "set emulator host")
		}
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	} else if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	databaseID := opts.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, opts.ProjectID, databaseID, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "NewFirestore: firestore.NewClientWithDatabase failed")
	}
	return client, nil
}
