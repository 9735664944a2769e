package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authfacil/auth-system/internal/core/domain"
)

const auditCollection = "audit_log"

// AuditLog implements ports.AuditLog over the audit_log collection. Entries
// are insert-only; nothing in this type mutates or deletes documents.
type AuditLog struct {
	coll *mongo.Collection
}

func NewAuditLog(db *mongo.Database) *AuditLog {
	return &AuditLog{coll: db.Collection(auditCollection)}
}

// Append inserts one audit entry.
func (l *AuditLog) Append(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":   entry.UserID,
		"username":  entry.Username,
		"action":    string(entry.Action),
		"timestamp": entry.Timestamp.UTC(),
		"source_ip": entry.SourceIP,
	}

	if _, err := l.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Re-querying returns the
// current top-N; there is no pagination cursor.
func (l *AuditLog) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := l.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	return entries, nil
}

// EnsureIndexes creates the descending timestamp index backing Recent.
func (l *AuditLog) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	}

	_, err := l.coll.Indexes().CreateOne(ctx, index)
	return err
}
