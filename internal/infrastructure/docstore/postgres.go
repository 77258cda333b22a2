package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Store = (*PostgresStore)(nil)

// documentRow maps the documents table. seq is assigned by the database and
// only read back for ordering.
type documentRow struct {
	Collection string         `gorm:"column:collection;primaryKey"`
	ID         string         `gorm:"column:id;primaryKey"`
	Seq        int64          `gorm:"column:seq;->"`
	Title      string         `gorm:"column:title"`
	Date       time.Time      `gorm:"column:date"`
	Sections   datatypes.JSON `gorm:"column:sections;type:jsonb"`
	Created    *time.Time     `gorm:"column:created_at"`
	Published  *time.Time     `gorm:"column:published_at"`
	Updated    *time.Time     `gorm:"column:updated_at"`
}

// TableName specifies the table name for documentRow
func (documentRow) TableName() string {
	return "documents"
}

func rowFromDocument(collection, id string, doc Document) (documentRow, error) {
	sections := doc.Sections
	if sections == nil {
		sections = map[string]string{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return documentRow{}, fmt.Errorf("encode sections: %w", err)
	}
	return documentRow{
		Collection: collection,
		ID:         id,
		Title:      doc.Title,
		Date:       doc.Date.UTC(),
		Sections:   datatypes.JSON(raw),
		Created:    cloneTime(doc.CreatedAt),
		Published:  cloneTime(doc.PublishedAt),
		Updated:    cloneTime(doc.UpdatedAt),
	}, nil
}

func (r documentRow) document() (Document, error) {
	sections := map[string]string{}
	if len(r.Sections) > 0 {
		if err := json.Unmarshal(r.Sections, &sections); err != nil {
			return Document{}, fmt.Errorf("decode sections of %s/%s: %w", r.Collection, r.ID, err)
		}
	}
	return Document{
		ID:          r.ID,
		Title:       r.Title,
		Date:        r.Date,
		Sections:    sections,
		CreatedAt:   cloneTime(r.Created),
		PublishedAt: cloneTime(r.Published),
		UpdatedAt:   cloneTime(r.Updated),
	}, nil
}

// PostgresStore keeps documents in Postgres. With a Redis client, change
// signals travel over a pub/sub channel so every process sharing the
// database sees every write, its own included. Without Redis, signals stay
// in process.
type PostgresStore struct {
	db      *gorm.DB
	rdb     *redis.Client
	channel string
	hub     *hub
	logger  *zap.Logger
}

// NewPostgresStore creates a store. rdb may be nil.
func NewPostgresStore(db *gorm.DB, rdb *redis.Client, channel string, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PostgresStore{
		db:      db,
		rdb:     rdb,
		channel: channel,
		logger:  logger,
	}
	s.hub = newHub(s.Query, logger)
	return s
}

// Start subscribes to the change channel. It is a no-op without Redis.
func (s *PostgresStore) Start(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	pubsub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe to %s: %w", s.channel, err)
	}

	s.logger.Info("📡 Subscribed to document changes", zap.String("channel", s.channel))

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				s.hub.notify(msg.Payload)
			}
		}
	}()
	return nil
}

func (s *PostgresStore) changed(ctx context.Context, collection string) {
	if s.rdb == nil {
		s.hub.notify(collection)
		return
	}
	if err := s.rdb.Publish(ctx, s.channel, collection).Err(); err != nil {
		// The write itself succeeded; watchers catch up on the next change.
		s.logger.Error("docstore.publish_change_failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}
}

// Insert adds a document under a new UUID.
func (s *PostgresStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()
	row, err := rowFromDocument(collection, id, doc)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	s.changed(ctx, collection)
	return id, nil
}

// Put upserts a document.
func (s *PostgresStore) Put(ctx context.Context, collection, id string, doc Document) error {
	row, err := rowFromDocument(collection, id, doc)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "date", "sections", "created_at", "published_at", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	s.changed(ctx, collection)
	return nil
}

// Get retrieves a document by id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc, err := row.document()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes a document by id.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{})
	if res.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.changed(ctx, collection)
	return nil
}

// Query lists a collection by date descending, then insertion order.
func (s *PostgresStore) Query(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("date DESC").
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Watch registers fn for snapshots of collection.
func (s *PostgresStore) Watch(ctx context.Context, collection string, fn SnapshotFunc) error {
	s.hub.watch(ctx, collection, fn)
	return nil
}
