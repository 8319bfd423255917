package sensor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jannathh/Scentify-Project/internal/domain"
)

// FirestoreConfig locates the reading document.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string // empty uses application default credentials
	Collection      string
	Document        string
}

// documentStream yields the document's data on every change. Nil data means
// the document does not exist.
type documentStream interface {
	Next() (map[string]any, error)
	Stop()
}

type snapshotStream struct {
	it *firestore.DocumentSnapshotIterator
}

func (s snapshotStream) Next() (map[string]any, error) {
	snap, err := s.it.Next()
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, nil
	}
	return snap.Data(), nil
}

func (s snapshotStream) Stop() { s.it.Stop() }

// FirestoreSource watches one Firestore document.
type FirestoreSource struct {
	open   func(ctx context.Context) documentStream
	ping   func(ctx context.Context) error
	close  func() error
	logger *slog.Logger
}

// NewFirestoreSource connects through a Firebase app.
func NewFirestoreSource(ctx context.Context, cfg FirestoreConfig, logger *slog.Logger) (*FirestoreSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	doc := client.Collection(cfg.Collection).Doc(cfg.Document)

	logger.Info("firestore sensor source ready",
		slog.String("project", cfg.ProjectID),
		slog.String("document", doc.Path),
	)

	return &FirestoreSource{
		open: func(ctx context.Context) documentStream {
			return snapshotStream{it: doc.Snapshots(ctx)}
		},
		ping: func(ctx context.Context) error {
			_, err := doc.Get(ctx)
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		},
		close:  client.Close,
		logger: logger,
	}, nil
}

// Subscribe listens for document changes on a background goroutine. The
// returned unsubscribe only cancels, so it is safe to call from a callback.
func (s *FirestoreSource) Subscribe(ctx context.Context, onSnapshot func(domain.Readings), onError func(error)) (func(), error) {
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream := s.open(sctx)

	// The iterator must not be stopped concurrently with Next.
	go func() {
		defer stream.Stop()
		s.listen(sctx, stream, onSnapshot, onError)
	}()

	return cancel, nil
}

func (s *FirestoreSource) listen(ctx context.Context, stream documentStream, onSnapshot func(domain.Readings), onError func(error)) {
	for {
		data, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
				return
			}
			s.logger.Warn("firestore snapshot stream failed", slog.String("error", err.Error()))
			if onError != nil {
				onError(err)
			}
			return
		}
		if data == nil {
			continue
		}
		r, err := ReadingsFromMap(data)
		if err != nil {
			s.logger.Warn("skipping malformed sensor document", slog.String("error", err.Error()))
			continue
		}
		onSnapshot(r)
	}
}

// Ping reads the document; a missing document still counts as reachable.
func (s *FirestoreSource) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *FirestoreSource) Close() error {
	return s.close()
}
