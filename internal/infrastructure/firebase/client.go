package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"marketcore/pkg/logger"
)

// Credentials selects how the Firestore client authenticates. Inline JSON
// wins over a file path; with neither, application default credentials are
// used.
type Credentials struct {
	JSON string
	Path string
}

func (c Credentials) option() option.ClientOption {
	switch {
	case c.JSON != "":
		logger.Info("Using Firestore credentials from environment")
		return option.WithCredentialsJSON([]byte(c.JSON))
	case c.Path != "":
		logger.Info("Using Firestore credentials file %s", c.Path)
		return option.WithCredentialsFile(c.Path)
	default:
		return nil
	}
}

func NewFirestoreClient(ctx context.Context, projectID string, creds Credentials) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var opts []option.ClientOption
	if opt := creds.option(); opt != nil {
		opts = append(opts, opt)
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
